// Package server provides the HTTP surface for Posi.
//
// # Overview
//
// The server exposes rate limiting two ways:
//
//   - As middleware: RateLimit gates a route group with one permit per
//     request, answering 429 with Retry-After and X-RateLimit-* headers when
//     the quota is exhausted.
//   - As an endpoint: POST /v1/acquire resolves a limiter variant through
//     the factory and reports the admission decision for an explicit permit
//     count.
//
// Operational endpoints: GET /healthz for liveness and GET /metrics serving
// the Prometheus registry (path configurable).
//
// # Lifecycle
//
// Start blocks until the context is cancelled, a SIGINT/SIGTERM arrives, or
// the listener fails, then drains in-flight requests within the configured
// shutdown timeout.
package server
