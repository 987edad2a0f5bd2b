package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file at the specified path. Absent
// fields keep their default values, and the result is validated before it is
// returned. The configuration is not modified by environment variables; use
// LoadWithEnvOverrides for that.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Unmarshal over the defaults so absent fields keep them.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention POSI_SECTION_FIELD (e.g., POSI_SERVER_LISTEN_ADDRESS) and
// always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Start from default values
//  2. Load YAML from file
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	// Re-validate after overrides.
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format POSI_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("POSI_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("POSI_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("POSI_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("POSI_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("POSI_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if val := os.Getenv("POSI_SERVER_MAX_HEADER_BYTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.MaxHeaderBytes = i
		}
	}

	// Limiter overrides
	if val := os.Getenv("POSI_LIMITER_ALGORITHMS"); val != "" {
		parts := strings.Split(val, ",")
		algorithms := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				algorithms = append(algorithms, p)
			}
		}
		cfg.Limiter.Algorithms = algorithms
	}
	if val := os.Getenv("POSI_LIMITER_PERMIT_NUM"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Limiter.PermitNum = i
		}
	}
	if val := os.Getenv("POSI_LIMITER_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Limiter.Window = d
		}
	}
	if val := os.Getenv("POSI_LIMITER_LOG_CAPACITY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Limiter.LogCapacity = i
		}
	}
	if val := os.Getenv("POSI_LIMITER_STORE_BACKEND"); val != "" {
		cfg.Limiter.Store.Backend = val
	}
	if val := os.Getenv("POSI_LIMITER_STORE_SQLITE_PATH"); val != "" {
		cfg.Limiter.Store.SQLitePath = val
	}
	if val := os.Getenv("POSI_LIMITER_STORE_PRUNE_SCHEDULE"); val != "" {
		cfg.Limiter.Store.PruneSchedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("POSI_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("POSI_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("POSI_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("POSI_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}
