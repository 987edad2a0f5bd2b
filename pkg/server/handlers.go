package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ngothanh/posi/pkg/ratelimit"
)

// acquireRequest is the body of POST /v1/acquire.
type acquireRequest struct {
	// Algorithm selects the limiter variant ("sliding_window_log",
	// "fixed_window", "token_bucket").
	Algorithm string `json:"algorithm"`

	// Permits is the number of permits to acquire. Defaults to 1.
	Permits *int `json:"permits,omitempty"`
}

// acquireResponse is the body of a successful POST /v1/acquire.
type acquireResponse struct {
	Algorithm string `json:"algorithm"`
	Permits   int    `json:"permits"`
	Allowed   bool   `json:"allowed"`
}

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// handleAcquire resolves a limiter through the factory and reports the
// admission decision for the requested permit count.
func (s *Server) handleAcquire(w http.ResponseWriter, r *http.Request) {
	var req acquireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Algorithm == "" {
		writeError(w, http.StatusBadRequest, "algorithm is required")
		return
	}

	permits := 1
	if req.Permits != nil {
		permits = *req.Permits
	}

	limiter, err := s.factory.Get(ratelimit.Algorithm(req.Algorithm))
	if err != nil {
		if errors.Is(err, ratelimit.ErrLimiterNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to resolve limiter")
		return
	}

	writeJSON(w, http.StatusOK, acquireResponse{
		Algorithm: req.Algorithm,
		Permits:   permits,
		Allowed:   limiter.TryAcquire(permits),
	})
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePing answers requests admitted through the rate-limit gate.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("failed to encode response", "component", "server", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
