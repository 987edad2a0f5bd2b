package config

import (
	"fmt"
	"strings"

	"github.com/ngothanh/posi/pkg/ratelimit"
	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g.,
	// "limiter.permit_num").
	Field string

	// Message is a human-readable error message.
	Message string

	// Err is the underlying error, if any. It is matchable with errors.Is
	// through the ValidationError that carries this field error.
	Err error
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying error.
func (e FieldError) Unwrap() error {
	return e.Err
}

// ValidationError represents one or more validation errors in a
// configuration. It implements the error interface and provides access to
// all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Unwrap returns the field errors so errors.Is can match their underlying
// sentinels (e.g. ratelimit.ErrInvalidConfig).
func (e ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		errs[i] = fe
	}
	return errs
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is
// valid. All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateLimiter(&cfg.Limiter)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}

	return errs
}

// validateLimiter validates limiter configuration. Rate violations are
// delegated to the ratelimit package so they carry ErrInvalidConfig.
func validateLimiter(cfg *LimiterConfig) []FieldError {
	var errs []FieldError

	if _, err := ratelimit.NewRate(cfg.PermitNum, cfg.Window); err != nil {
		errs = append(errs, FieldError{
			Field:   "limiter.permit_num",
			Message: err.Error(),
			Err:     err,
		})
	}

	if len(cfg.Algorithms) == 0 {
		errs = append(errs, FieldError{
			Field:   "limiter.algorithms",
			Message: "at least one algorithm is required",
		})
	}
	for _, name := range cfg.Algorithms {
		switch ratelimit.Algorithm(name) {
		case ratelimit.AlgorithmSlidingWindowLog,
			ratelimit.AlgorithmFixedWindow,
			ratelimit.AlgorithmTokenBucket:
		default:
			errs = append(errs, FieldError{
				Field:   "limiter.algorithms",
				Message: fmt.Sprintf("unknown algorithm %q", name),
			})
		}
	}

	if cfg.LogCapacity < 0 {
		errs = append(errs, FieldError{
			Field:   "limiter.log_capacity",
			Message: "log capacity must be non-negative",
		})
	}

	switch cfg.Store.Backend {
	case "memory":
	case "sqlite":
		if cfg.Store.SQLitePath == "" {
			errs = append(errs, FieldError{
				Field:   "limiter.store.sqlite_path",
				Message: "sqlite path is required when backend is \"sqlite\"",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "limiter.store.backend",
			Message: "must be \"memory\" or \"sqlite\"",
		})
	}

	if cfg.Store.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Store.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "limiter.store.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (valid: json, text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with \"/\"",
		})
	}

	return errs
}
