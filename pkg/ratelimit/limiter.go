package ratelimit

// Algorithm identifies a limiter variant. The set is closed: each variant
// reports its own tag through RateLimiter.Algorithm, and the Factory maps
// tags back to registered instances.
type Algorithm string

const (
	// AlgorithmSlidingWindowLog is exact rolling-window accounting over a
	// timestamp history.
	AlgorithmSlidingWindowLog Algorithm = "sliding_window_log"

	// AlgorithmFixedWindow is a counter that resets when the window rolls
	// forward.
	AlgorithmFixedWindow Algorithm = "fixed_window"

	// AlgorithmTokenBucket is continuous refill with full-burst admission.
	AlgorithmTokenBucket Algorithm = "token_bucket"
)

func (a Algorithm) String() string {
	return string(a)
}

// RateLimiter is the admission-decision capability implemented by every
// algorithm variant.
//
// TryAcquire reports whether permits units of work may proceed right now.
// Admission and rejection are both expected outcomes, never errors, and the
// call completes synchronously. Calls with permits <= 0 always admit and
// leave state untouched. A rejected call does not mutate observable state:
// retrying immediately with an unchanged clock yields the same decision.
//
// Implementations serialize the whole check-then-act sequence with respect
// to concurrent TryAcquire calls on the same instance.
type RateLimiter interface {
	// TryAcquire attempts to consume permits units of capacity.
	TryAcquire(permits int) bool

	// Algorithm returns the variant tag for this limiter.
	Algorithm() Algorithm
}
