// Package logstore provides the timestamp-history storage consumed by the
// sliding-window-log rate limiter.
//
// # Overview
//
// A Store owns a bounded, time-ordered history of granted-permit events.
// Two implementations are provided:
//
//   - MemoryStore: a preallocated ring buffer, process-lifetime only
//   - SQLiteStore: the same ring semantics with a write-behind SQLite
//     journal, so admission accounting survives process restarts
//
// Counting honors the caller's cutoff even when older entries are still
// physically stored, so eviction is purely a memory/disk bound and never a
// correctness requirement. The Janitor performs that physical eviction on a
// cron schedule.
//
// # Thread Safety
//
// All Store implementations are safe for concurrent use; the limiter and
// the Janitor may share one instance.
package logstore
