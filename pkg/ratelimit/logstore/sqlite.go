package logstore

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store with the in-memory ring as the authoritative
// state and a write-behind SQLite journal for persistence.
//
// Admission accounting always reads the ring, so Record, CountSince and
// EvictBefore stay total functions; journal writes happen on a background
// goroutine and failures are logged rather than surfaced. On construction
// the still-in-window tail of the journal is replayed into the ring, so a
// restarted process resumes with the history it had granted before.
//
// The database is opened in WAL mode with a single writer connection.
type SQLiteStore struct {
	mem    *MemoryStore
	db     *sql.DB
	logger *slog.Logger

	insertStmt *sql.Stmt
	evictStmt  *sql.Stmt

	ops       chan journalOp
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	dropped   atomic.Int64
}

// journalOp is one queued journal mutation, applied in submission order.
type journalOp struct {
	evict  bool
	id     string
	ts     int64 // unix nanoseconds
	weight int
}

// SQLiteConfig configures a SQLiteStore.
type SQLiteConfig struct {
	// Path is the SQLite database file.
	Path string

	// Capacity bounds the in-memory ring, as for NewMemoryStore.
	Capacity int

	// Window is the enforcement window; journal entries older than one
	// window at startup are not replayed.
	Window time.Duration

	// BusyTimeout is how long to wait for database locks.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// QueueSize is the write-behind queue depth. When the queue is full,
	// journal writes are dropped (counted and logged); ring state is
	// unaffected.
	// Default: 1024
	QueueSize int
}

// NewSQLiteStore opens (creating if needed) the journal at cfg.Path and
// replays its still-in-window tail into a fresh ring.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.Window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", cfg.Window)
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1024
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		mem:    NewMemoryStore(cfg.Capacity),
		db:     db,
		logger: slog.Default().With("component", "logstore.sqlite"),
		ops:    make(chan journalOp, cfg.QueueSize),
		done:   make(chan struct{}),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}
	if err := s.replay(time.Now().Add(-cfg.Window)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to replay journal: %w", err)
	}

	s.wg.Add(1)
	go s.writeLoop()

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS permit_log (
		id TEXT PRIMARY KEY,
		ts INTEGER NOT NULL,
		weight INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_permit_log_ts ON permit_log(ts);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertStmt, err = s.db.Prepare(`
		INSERT INTO permit_log (id, ts, weight) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}

	s.evictStmt, err = s.db.Prepare(`
		DELETE FROM permit_log WHERE ts < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare evict statement: %w", err)
	}

	return nil
}

// replay loads journal entries at or after cutoff into the ring, oldest
// first, and prunes everything older.
func (s *SQLiteStore) replay(cutoff time.Time) error {
	if _, err := s.evictStmt.Exec(cutoff.UnixNano()); err != nil {
		return err
	}

	rows, err := s.db.Query(`SELECT ts, weight FROM permit_log WHERE ts >= ? ORDER BY ts ASC`, cutoff.UnixNano())
	if err != nil {
		return err
	}
	defer rows.Close()

	replayed := 0
	for rows.Next() {
		var ts int64
		var weight int
		if err := rows.Scan(&ts, &weight); err != nil {
			return err
		}
		s.mem.Record(time.Unix(0, ts), weight)
		replayed++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if replayed > 0 {
		s.logger.Info("replayed permit history", "entries", replayed)
	}
	return nil
}

// Record appends to the ring and queues a journal insert.
func (s *SQLiteStore) Record(ts time.Time, weight int) {
	if weight <= 0 {
		return
	}

	s.mem.Record(ts, weight)
	s.enqueue(journalOp{
		id:     uuid.New().String(),
		ts:     ts.UnixNano(),
		weight: weight,
	})
}

// CountSince reads the authoritative ring state.
func (s *SQLiteStore) CountSince(cutoff time.Time) int {
	return s.mem.CountSince(cutoff)
}

// EvictBefore prunes the ring and queues a journal prune.
func (s *SQLiteStore) EvictBefore(cutoff time.Time) {
	s.mem.EvictBefore(cutoff)
	s.enqueue(journalOp{evict: true, ts: cutoff.UnixNano()})
}

// Len returns the number of entries in the ring.
func (s *SQLiteStore) Len() int {
	return s.mem.Len()
}

// Dropped returns how many journal writes were discarded because the
// write-behind queue was full.
func (s *SQLiteStore) Dropped() int64 {
	return s.dropped.Load()
}

func (s *SQLiteStore) enqueue(op journalOp) {
	select {
	case s.ops <- op:
	default:
		s.dropped.Add(1)
		s.logger.Warn("journal queue full, dropping write", "dropped_total", s.dropped.Load())
	}
}

// Close drains pending journal writes, checkpoints the WAL and closes the
// database. Close is idempotent; the store must not be used afterwards.
func (s *SQLiteStore) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()

		if s.insertStmt != nil {
			s.insertStmt.Close()
		}
		if s.evictStmt != nil {
			s.evictStmt.Close()
		}

		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// writeLoop applies queued journal mutations in order until Close, then
// drains whatever is still queued.
func (s *SQLiteStore) writeLoop() {
	defer s.wg.Done()

	for {
		select {
		case op := <-s.ops:
			s.apply(op)
		case <-s.done:
			for {
				select {
				case op := <-s.ops:
					s.apply(op)
				default:
					return
				}
			}
		}
	}
}

func (s *SQLiteStore) apply(op journalOp) {
	var err error
	if op.evict {
		_, err = s.evictStmt.Exec(op.ts)
	} else {
		_, err = s.insertStmt.Exec(op.id, op.ts, op.weight)
	}
	if err != nil {
		s.logger.Error("journal write failed", "evict", op.evict, "error", err)
	}
}
