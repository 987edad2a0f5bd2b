package logstore

import (
	"sync"
	"time"
)

// entry is a single granted-permit event. An acquisition of n permits is
// recorded as one entry of weight n.
type entry struct {
	ts     time.Time
	weight int
}

// MemoryStore implements Store with a preallocated ring buffer.
//
// Capacity is fixed at construction. When the ring is full, Record drops the
// oldest entry (FIFO) to make room; because the sliding-window-log limiter
// counts existing entries before recording, an in-window entry is only ever
// dropped after it was accounted toward the pending acquisition's pre-check.
//
// Sizing: when entries are recorded with their full acquisition weight, the
// limiter never keeps more than one entry per admitted acquisition and at
// most the permit quota's worth of weight per window, so a capacity equal to
// the permit quota can never evict a still-in-window entry. A smaller
// capacity is accepted and degrades to bounded approximation under sustained
// overload.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []entry
	head    int // index of the oldest entry
	size    int
}

// NewMemoryStore creates a ring buffer holding at most capacity entries.
// Capacities below 1 are raised to 1.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryStore{
		entries: make([]entry, capacity),
	}
}

// Record appends an event at ts. Zero or negative weights are ignored.
func (m *MemoryStore) Record(ts time.Time, weight int) {
	if weight <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.size == len(m.entries) {
		// Full: drop the oldest entry.
		m.entries[m.head] = entry{}
		m.head = (m.head + 1) % len(m.entries)
		m.size--
	}

	m.entries[(m.head+m.size)%len(m.entries)] = entry{ts: ts, weight: weight}
	m.size++
}

// CountSince sums the weight of entries with timestamps after cutoff. An
// entry exactly one window old sits on the cutoff itself and is no longer
// counted, mirroring TTL expiry.
func (m *MemoryStore) CountSince(cutoff time.Time) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	// Entries are time-ordered; walk from the newest back and stop at the
	// first entry at or before the cutoff.
	for i := m.size - 1; i >= 0; i-- {
		e := m.entries[(m.head+i)%len(m.entries)]
		if !e.ts.After(cutoff) {
			break
		}
		total += e.weight
	}
	return total
}

// EvictBefore removes entries older than cutoff.
func (m *MemoryStore) EvictBefore(cutoff time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.size > 0 && m.entries[m.head].ts.Before(cutoff) {
		m.entries[m.head] = entry{}
		m.head = (m.head + 1) % len(m.entries)
		m.size--
	}
}

// Len returns the number of stored entries. Useful for monitoring and tests.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

// Cap returns the fixed entry capacity.
func (m *MemoryStore) Cap() int {
	return len(m.entries)
}
