package ratelimit

import (
	"sync"
	"time"
)

// FixedWindow counts permits against discrete windows anchored at the first
// call, rolling the anchor forward to the current instant whenever the
// window has elapsed (skipped windows are not replayed).
//
// O(1) time and space. Up to twice the quota can be admitted across a
// window boundary; that is the documented tradeoff of this variant and is
// deliberately left intact.
type FixedWindow struct {
	rate Rate

	mu          sync.Mutex
	windowStart time.Time
	used        int
	now         func() time.Time
}

// NewFixedWindow creates a fixed-window limiter. The first window starts at
// the first TryAcquire call.
func NewFixedWindow(rate Rate) *FixedWindow {
	return &FixedWindow{
		rate: rate,
		now:  time.Now,
	}
}

// TryAcquire implements RateLimiter.
func (f *FixedWindow) TryAcquire(permits int) bool {
	if permits <= 0 {
		return true
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	if f.windowStart.IsZero() {
		f.windowStart = now
	} else if !now.Before(f.windowStart.Add(f.rate.Window())) {
		f.windowStart = now
		f.used = 0
	}

	if f.used+permits > f.rate.PermitNum() {
		return false
	}

	f.used += permits
	return true
}

// Remaining returns the permits left in the current window. Before the
// first acquisition the full quota is available.
func (f *FixedWindow) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.windowStart.IsZero() && !f.now().Before(f.windowStart.Add(f.rate.Window())) {
		return f.rate.PermitNum()
	}
	return f.rate.PermitNum() - f.used
}

// Algorithm implements RateLimiter.
func (f *FixedWindow) Algorithm() Algorithm {
	return AlgorithmFixedWindow
}
