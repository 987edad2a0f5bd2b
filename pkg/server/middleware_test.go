package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ngothanh/posi/pkg/ratelimit"
)

func mustRate(t *testing.T, permitNum int, window time.Duration) ratelimit.Rate {
	t.Helper()

	rate, err := ratelimit.NewRate(permitNum, window)
	if err != nil {
		t.Fatalf("NewRate failed: %v", err)
	}
	return rate
}

func TestRateLimit_AdmitsWithinQuota(t *testing.T) {
	rate := mustRate(t, 2, time.Hour)
	handler := RateLimit(ratelimit.NewFixedWindow(rate), rate)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i+1, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "2" {
			t.Errorf("Expected X-RateLimit-Limit header, got %q", rec.Header().Get("X-RateLimit-Limit"))
		}
	}
}

func TestRateLimit_RejectsBeyondQuota(t *testing.T) {
	rate := mustRate(t, 1, time.Minute)
	handler := RateLimit(ratelimit.NewFixedWindow(rate), rate)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected first request admitted, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Expected Retry-After of 60s, got %q", rec.Header().Get("Retry-After"))
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("Expected no remaining permits, got %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimit_GatedRoute(t *testing.T) {
	handler := newTestServer(t, 100, 2).Handler()

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 beyond gate quota, got %d", rec.Code)
	}

	// The gate does not apply to operational endpoints.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected healthz to bypass the gate, got %d", rec.Code)
	}
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRequestID(r.Context()) == "" {
			t.Error("Expected request ID in context")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("Expected generated request ID header")
	}
}

func TestRequestID_HonorsClientHeader(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetRequestID(r.Context()); got != "client-supplied" {
			t.Errorf("Expected client request ID, got %q", got)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get(RequestIDHeader) != "client-supplied" {
		t.Errorf("Expected echoed request ID, got %q", rec.Header().Get(RequestIDHeader))
	}
}

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 after panic, got %d", rec.Code)
	}
}
