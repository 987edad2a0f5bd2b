package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ngothanh/posi/pkg/config"
	"github.com/ngothanh/posi/pkg/ratelimit"
)

// newTestServer builds a server with a fresh registry, a fixed-window gate
// of gatePermits per hour, and all three algorithms registered with the
// given quota.
func newTestServer(t *testing.T, permitNum, gatePermits int) *Server {
	t.Helper()

	rate, err := ratelimit.NewRate(permitNum, time.Hour)
	if err != nil {
		t.Fatalf("NewRate failed: %v", err)
	}
	gateRate, err := ratelimit.NewRate(gatePermits, time.Hour)
	if err != nil {
		t.Fatalf("NewRate failed: %v", err)
	}

	factory := ratelimit.NewFactory(
		ratelimit.NewSlidingWindowLog(rate, nil),
		ratelimit.NewFixedWindow(rate),
		ratelimit.NewTokenBucket(rate),
	)

	registry := prometheus.NewRegistry()
	return New(config.Default(), factory, ratelimit.NewFixedWindow(gateRate), gateRate, registry)
}

func postAcquire(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/acquire", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	handler := newTestServer(t, 10, 10).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("Expected ok status, got %q", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestServer(t, 10, 10).Handler()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from metrics endpoint, got %d", rec.Code)
	}
}

func TestAcquire_AdmitsAndRejects(t *testing.T) {
	handler := newTestServer(t, 5, 100).Handler()

	rec := postAcquire(t, handler, `{"algorithm": "fixed_window", "permits": 5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp acquireResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Allowed {
		t.Error("Expected first acquisition of full quota to be allowed")
	}

	rec = postAcquire(t, handler, `{"algorithm": "fixed_window", "permits": 1}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Allowed {
		t.Error("Expected acquisition beyond quota to be rejected")
	}
}

func TestAcquire_DefaultsToOnePermit(t *testing.T) {
	handler := newTestServer(t, 5, 100).Handler()

	rec := postAcquire(t, handler, `{"algorithm": "token_bucket"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp acquireResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Permits != 1 {
		t.Errorf("Expected default of 1 permit, got %d", resp.Permits)
	}
	if !resp.Allowed {
		t.Error("Expected single permit to be allowed")
	}
}

func TestAcquire_UnknownAlgorithm(t *testing.T) {
	handler := newTestServer(t, 5, 100).Handler()

	rec := postAcquire(t, handler, `{"algorithm": "leaky_bucket"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unregistered algorithm, got %d", rec.Code)
	}
}

func TestAcquire_BadRequests(t *testing.T) {
	handler := newTestServer(t, 5, 100).Handler()

	rec := postAcquire(t, handler, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", rec.Code)
	}

	rec = postAcquire(t, handler, `{"permits": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing algorithm, got %d", rec.Code)
	}
}

func TestAcquire_EachVariantRegistered(t *testing.T) {
	handler := newTestServer(t, 5, 100).Handler()

	for _, algorithm := range []string{"sliding_window_log", "fixed_window", "token_bucket"} {
		rec := postAcquire(t, handler, `{"algorithm": "`+algorithm+`"}`)
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200 for %s, got %d", algorithm, rec.Code)
		}
	}
}
