package ratelimit

import (
	"sync"
	"time"

	"github.com/ngothanh/posi/pkg/ratelimit/logstore"
)

// SlidingWindowLog admits a request when the weight already granted in the
// trailing window, plus the requested permits, stays within the quota.
//
// Accounting is exact at the cost of memory proportional to request rate
// times window length; the backing store's capacity caps that worst case.
// Rejections record nothing.
type SlidingWindowLog struct {
	rate  Rate
	store logstore.Store
	mu    sync.Mutex
	now   func() time.Time
}

// NewSlidingWindowLog creates a sliding-window-log limiter over the given
// store. A nil store gets a fresh in-memory ring sized to the permit quota,
// which is large enough that overflow eviction can never drop an in-window
// entry (see logstore.MemoryStore).
func NewSlidingWindowLog(rate Rate, store logstore.Store) *SlidingWindowLog {
	if store == nil {
		store = logstore.NewMemoryStore(rate.PermitNum())
	}
	return &SlidingWindowLog{
		rate:  rate,
		store: store,
		now:   time.Now,
	}
}

// TryAcquire implements RateLimiter.
func (l *SlidingWindowLog) TryAcquire(permits int) bool {
	if permits <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.rate.Window())

	if l.store.CountSince(cutoff)+permits > l.rate.PermitNum() {
		return false
	}

	l.store.Record(now, permits)
	return true
}

// Remaining returns how many permits are still grantable in the current
// trailing window.
func (l *SlidingWindowLog) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	used := l.store.CountSince(l.now().Add(-l.rate.Window()))
	if used > l.rate.PermitNum() {
		return 0
	}
	return l.rate.PermitNum() - used
}

// Algorithm implements RateLimiter.
func (l *SlidingWindowLog) Algorithm() Algorithm {
	return AlgorithmSlidingWindowLog
}
