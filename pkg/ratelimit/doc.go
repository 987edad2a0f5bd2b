// Package ratelimit provides a pluggable, in-process rate-limiting core.
//
// # Overview
//
// The package implements three interchangeable admission algorithms behind a
// single capability interface:
//
//   - Sliding Window Log: exact accounting over a rolling window, backed by a
//     timestamp history (see the logstore subpackage)
//   - Fixed Window: O(1) counter that resets when the window rolls forward
//   - Token Bucket: continuous real-valued refill with full-burst admission
//
// A caller builds a Rate, constructs one or more limiters from it, registers
// them in a Factory, and gates work with TryAcquire:
//
//	rate, err := ratelimit.NewRate(100, time.Second)
//	if err != nil {
//	    return err
//	}
//	limiter := ratelimit.NewTokenBucket(rate)
//	if limiter.TryAcquire(1) {
//	    // Request admitted
//	}
//
// # Choosing an Algorithm
//
// Sliding window log is exact but costs memory proportional to the request
// rate times the window length. Fixed window is constant-time and
// constant-space but admits up to twice the quota across a window boundary.
// Token bucket smooths sustained load while permitting bursts up to the full
// quota at any instant.
//
// # Thread Safety
//
// Each limiter instance owns its state exclusively and serializes the
// check-then-act sequence under a single mutex, so one instance may be shared
// by many goroutines. Distinct limiter instances never coordinate. The
// Factory is read-only after construction and safe for concurrent readers.
package ratelimit
