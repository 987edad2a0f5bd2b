package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/ngothanh/posi/pkg/ratelimit"
)

func TestValidate_DefaultsAreValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("Expected default configuration to validate, got %v", err)
	}
}

func TestValidate_ZeroPermitQuota(t *testing.T) {
	cfg := Default()
	cfg.Limiter.PermitNum = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for zero permit quota")
	}
	if !errors.Is(err, ratelimit.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate_ZeroWindow(t *testing.T) {
	cfg := Default()
	cfg.Limiter.Window = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for zero window")
	}
	if !errors.Is(err, ratelimit.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate_UnknownAlgorithm(t *testing.T) {
	cfg := Default()
	cfg.Limiter.Algorithms = []string{"leaky_bucket"}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for unknown algorithm")
	}
	if !strings.Contains(err.Error(), "leaky_bucket") {
		t.Errorf("Expected offending algorithm named in error, got %v", err)
	}
}

func TestValidate_EmptyAlgorithms(t *testing.T) {
	cfg := Default()
	cfg.Limiter.Algorithms = nil

	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for empty algorithm list")
	}
}

func TestValidate_StoreBackend(t *testing.T) {
	cfg := Default()
	cfg.Limiter.Store.Backend = "redis"
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for unsupported backend")
	}

	cfg = Default()
	cfg.Limiter.Store.Backend = "sqlite"
	cfg.Limiter.Store.SQLitePath = ""
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for sqlite backend without path")
	}

	cfg = Default()
	cfg.Limiter.Store.Backend = "sqlite"
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected sqlite backend with default path to validate, got %v", err)
	}
}

func TestValidate_PruneSchedule(t *testing.T) {
	cfg := Default()
	cfg.Limiter.Store.PruneSchedule = "every minute"
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for invalid cron expression")
	}

	cfg = Default()
	cfg.Limiter.Store.PruneSchedule = ""
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected empty schedule to validate (janitor disabled), got %v", err)
	}
}

func TestValidate_Telemetry(t *testing.T) {
	cfg := Default()
	cfg.Telemetry.Logging.Level = "verbose"
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for invalid log level")
	}

	cfg = Default()
	cfg.Telemetry.Logging.Format = "xml"
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for invalid log format")
	}

	cfg = Default()
	cfg.Telemetry.Metrics.Path = "metrics"
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for metrics path without leading slash")
	}
}

func TestValidationError_MessageFormat(t *testing.T) {
	cfg := Default()
	cfg.Server.ListenAddress = ""
	cfg.Limiter.Store.Backend = "redis"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("Expected 2 field errors, got %d", len(verr.Errors))
	}
	if !strings.Contains(err.Error(), "2 errors") {
		t.Errorf("Expected aggregated message, got %q", err.Error())
	}
}
