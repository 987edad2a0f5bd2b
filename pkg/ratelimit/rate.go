package ratelimit

import (
	"fmt"
	"time"
)

// Rate is the immutable enforcement quota shared by all limiter variants:
// at most PermitNum permits may be granted within any one Window.
//
// A Rate is a plain value; copying it is cheap and safe. Both fields are
// validated by NewRate and cannot be mutated afterwards.
type Rate struct {
	permitNum int
	window    time.Duration
}

// NewRate creates a validated Rate.
//
// permitNum must be at least 1 and window must be positive; anything else
// fails with ErrInvalidConfig.
func NewRate(permitNum int, window time.Duration) (Rate, error) {
	if permitNum < 1 {
		return Rate{}, fmt.Errorf("%w: permit quota must be at least 1, got %d", ErrInvalidConfig, permitNum)
	}
	if window <= 0 {
		return Rate{}, fmt.Errorf("%w: window must be positive, got %s", ErrInvalidConfig, window)
	}
	return Rate{permitNum: permitNum, window: window}, nil
}

// PermitNum returns the permit quota enforced per window.
func (r Rate) PermitNum() int {
	return r.permitNum
}

// Window returns the duration of the enforcement window.
func (r Rate) Window() time.Duration {
	return r.window
}

// String returns the quota in "permits/window" form, e.g. "100/1s".
func (r Rate) String() string {
	return fmt.Sprintf("%d/%s", r.permitNum, r.window)
}
