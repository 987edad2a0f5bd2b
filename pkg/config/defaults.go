package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// Limiter defaults
	DefaultPermitNum     = 100
	DefaultWindow        = time.Minute
	DefaultStoreBackend  = "memory"
	DefaultSQLitePath    = "data/permits.db"
	DefaultPruneSchedule = "* * * * *"

	// Telemetry defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "json"
	DefaultMetricsPath   = "/metrics"
)

// Default returns a configuration populated with default values. Loading
// unmarshals the YAML file over this baseline, so absent fields keep their
// defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress:   DefaultListenAddress,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxHeaderBytes:  DefaultMaxHeaderBytes,
		},
		Limiter: LimiterConfig{
			Algorithms: []string{
				"sliding_window_log",
				"fixed_window",
				"token_bucket",
			},
			PermitNum: DefaultPermitNum,
			Window:    DefaultWindow,
			Store: StoreConfig{
				Backend:       DefaultStoreBackend,
				SQLitePath:    DefaultSQLitePath,
				PruneSchedule: DefaultPruneSchedule,
			},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  DefaultLoggingLevel,
				Format: DefaultLoggingFormat,
			},
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    DefaultMetricsPath,
			},
		},
	}
}
