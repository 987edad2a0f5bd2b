package logstore

import "time"

// Store is a bounded history of granted-permit events, ordered by timestamp.
//
// All three operations are total over their valid inputs (non-negative
// weight, non-decreasing timestamps) and never fail: implementations that
// touch fallible media must absorb those failures internally.
type Store interface {
	// Record appends an event of the given weight at ts. Timestamps must be
	// non-decreasing across calls. When the store is at capacity the oldest
	// entries are evicted first to make room.
	Record(ts time.Time, weight int)

	// CountSince returns the total weight of entries with timestamps after
	// cutoff, i.e. still inside the half-open window (cutoff, now]. The
	// result honors the cutoff even when older entries remain physically
	// stored.
	CountSince(cutoff time.Time) int

	// EvictBefore physically removes entries older than cutoff. It bounds
	// memory opportunistically and is never required for CountSince to be
	// correct.
	EvictBefore(cutoff time.Time)
}
