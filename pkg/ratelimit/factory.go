package ratelimit

import (
	"fmt"
	"sort"
)

// Factory maps algorithm tags to constructed limiter instances.
//
// The mapping is fixed at construction: each limiter is keyed by its own
// Algorithm tag, with later limiters replacing earlier ones under the same
// tag. A Factory is read-only afterwards and safe for concurrent readers
// without locking.
type Factory struct {
	limiters map[Algorithm]RateLimiter
}

// NewFactory registers the given limiters by their algorithm tags.
func NewFactory(limiters ...RateLimiter) *Factory {
	registered := make(map[Algorithm]RateLimiter, len(limiters))
	for _, l := range limiters {
		registered[l.Algorithm()] = l
	}
	return &Factory{limiters: registered}
}

// Get returns the limiter registered under the given tag. Repeated calls
// return the same instance. An unregistered tag fails with
// ErrLimiterNotFound.
func (f *Factory) Get(algorithm Algorithm) (RateLimiter, error) {
	l, ok := f.limiters[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLimiterNotFound, algorithm)
	}
	return l, nil
}

// Algorithms returns the registered tags in sorted order.
func (f *Factory) Algorithms() []Algorithm {
	tags := make([]Algorithm, 0, len(f.limiters))
	for tag := range f.limiters {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
