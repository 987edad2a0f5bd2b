package config

import "time"

// Config is the root configuration structure for Posi. It contains all
// configuration sections for the HTTP server, the rate limiters, and
// telemetry settings.
type Config struct {
	// Server contains HTTP server configuration including listen address
	// and timeouts.
	Server ServerConfig `yaml:"server"`

	// Limiter contains configuration for the rate limiters: which algorithm
	// variants to register, the shared permit quota and window, and the
	// permit-log store backing the sliding-window-log variant.
	Limiter LimiterConfig `yaml:"limiter"`

	// Telemetry contains configuration for observability including logging
	// and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero value means no timeout.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. A zero value means no timeout.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// LimiterConfig contains configuration for the rate limiters.
type LimiterConfig struct {
	// Algorithms lists the limiter variants to register with the factory.
	// Valid entries: "sliding_window_log", "fixed_window", "token_bucket".
	// Default: all three
	Algorithms []string `yaml:"algorithms"`

	// PermitNum is the permit quota per window.
	// Default: 100
	PermitNum int `yaml:"permit_num"`

	// Window is the enforcement window.
	// Default: 1m
	Window time.Duration `yaml:"window"`

	// LogCapacity bounds the sliding-window-log entry history. Zero means
	// size the log to PermitNum, which is always sufficient.
	// Default: 0
	LogCapacity int `yaml:"log_capacity"`

	// Store configures the permit-log store backing the sliding-window-log
	// variant.
	Store StoreConfig `yaml:"store"`
}

// StoreConfig contains configuration for the permit-log store.
type StoreConfig struct {
	// Backend selects the store implementation: "memory" or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLitePath is the SQLite journal file. Required when Backend is
	// "sqlite".
	// Default: "data/permits.db"
	SQLitePath string `yaml:"sqlite_path"`

	// PruneSchedule is a standard cron expression for the eviction janitor.
	// Empty disables scheduled eviction.
	// Default: "* * * * *" (every minute)
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource controls whether log records include the source position.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the /metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
