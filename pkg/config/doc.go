// Package config provides configuration management for Posi.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.Load("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention POSI_SECTION_FIELD.
// For example:
//
//   - POSI_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - POSI_LIMITER_PERMIT_NUM overrides limiter.permit_num
//   - POSI_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides
// earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// All configuration is validated automatically during loading. Rate
// violations (a permit quota below 1, a non-positive window) surface the
// ratelimit package's ErrInvalidConfig, so callers can match them with
// errors.Is. Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - limiter.permit_num: invalid rate configuration: permit quota must be at least 1, got 0
//	  - limiter.store.backend: must be "memory" or "sqlite"
//
// # Live Reload
//
// Watcher watches the configuration file with fsnotify and invokes a reload
// callback after a debounce interval. Reload failures are logged and leave
// the previous configuration in effect.
package config
