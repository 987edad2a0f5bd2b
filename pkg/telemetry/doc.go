// Package telemetry provides observability for Posi.
//
// # Components
//
//   - logging: structured logging setup on top of log/slog
//
// Metrics live next to the code they observe: the ratelimit package exposes
// registry-scoped Prometheus collectors, and the server mounts the promhttp
// handler.
package telemetry
