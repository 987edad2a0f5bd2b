package ratelimit

import "errors"

var (
	// ErrInvalidConfig is returned when a Rate is constructed with a zero
	// permit quota or a non-positive window. Violations are rejected at
	// construction time, never clamped.
	ErrInvalidConfig = errors.New("invalid rate configuration")

	// ErrLimiterNotFound is returned by Factory.Get when no limiter was
	// registered under the requested algorithm tag.
	ErrLimiterNotFound = errors.New("rate limiter not registered")
)
