package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket grants permits from a bucket that refills continuously at
// PermitNum/Window tokens per unit time, up to a capacity of PermitNum.
//
// Refill is real-valued rather than discretized so low rates still make
// steady progress. The bucket starts full, allowing an initial burst up to
// the whole quota. A rejected call refills (time has passed) but never
// consumes.
type TokenBucket struct {
	rate Rate

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
	now        func() time.Time
}

// NewTokenBucket creates a token-bucket limiter. The refill clock starts at
// the first TryAcquire call, with the bucket full.
func NewTokenBucket(rate Rate) *TokenBucket {
	return &TokenBucket{
		rate:   rate,
		tokens: float64(rate.PermitNum()),
		now:    time.Now,
	}
}

// TryAcquire implements RateLimiter.
func (t *TokenBucket) TryAcquire(permits int) bool {
	if permits <= 0 {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.refillLocked(t.now())

	if t.tokens >= float64(permits) {
		t.tokens -= float64(permits)
		return true
	}
	return false
}

// Remaining returns the whole tokens currently available, after applying
// any pending refill.
func (t *TokenBucket) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refillLocked(t.now())
	return int(t.tokens)
}

// Algorithm implements RateLimiter.
func (t *TokenBucket) Algorithm() Algorithm {
	return AlgorithmTokenBucket
}

// refillLocked credits tokens for the time elapsed since the last refill,
// capped at the bucket capacity. Caller must hold the lock.
func (t *TokenBucket) refillLocked(now time.Time) {
	if t.lastRefill.IsZero() {
		t.lastRefill = now
		return
	}

	elapsed := now.Sub(t.lastRefill)
	if elapsed > 0 {
		t.tokens += elapsed.Seconds() * float64(t.rate.PermitNum()) / t.rate.Window().Seconds()
		if capacity := float64(t.rate.PermitNum()); t.tokens > capacity {
			t.tokens = capacity
		}
	}
	t.lastRefill = now
}
