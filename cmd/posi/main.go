// Posi is a pluggable rate limiting service.
//
// It exposes three interchangeable limiter algorithms (sliding window log,
// fixed window, token bucket) behind one admission interface, over HTTP:
//   - Rate limiting middleware for gated routes
//   - POST /v1/acquire for explicit permit acquisition
//   - Optional SQLite-backed permit history surviving restarts
//
// Usage:
//
//	# Start the server with default configuration
//	posi run
//
//	# Start with a custom configuration file
//	posi run --config /path/to/config.yaml
//
//	# Check a configuration file
//	posi validate --config /path/to/config.yaml
//
//	# Show version information
//	posi version
package main

func main() {
	Execute()
}
