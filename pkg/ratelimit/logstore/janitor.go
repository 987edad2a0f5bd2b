package logstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor evicts stale entries from a Store on a cron schedule. Eviction is
// opportunistic memory reclamation; counting stays correct without it.
type Janitor struct {
	store    Store
	window   time.Duration
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	running bool
}

// NewJanitor creates a janitor that prunes entries older than one window.
//
// Common cron expressions:
//   - "* * * * *"    - Every minute
//   - "*/5 * * * *"  - Every 5 minutes
//   - "0 * * * *"    - Top of every hour
func NewJanitor(store Store, window time.Duration, schedule string) *Janitor {
	return &Janitor{
		store:    store,
		window:   window,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "logstore.janitor"),
		now:      time.Now,
	}
}

// Start begins scheduled eviction. An empty schedule disables the janitor.
// The janitor stops when ctx is cancelled or Stop is called.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return fmt.Errorf("janitor already running")
	}
	if j.schedule == "" {
		j.logger.Info("eviction schedule not configured, janitor disabled")
		return nil
	}

	if _, err := cron.ParseStandard(j.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", j.schedule, err)
	}

	if _, err := j.cron.AddFunc(j.schedule, j.runEviction); err != nil {
		return fmt.Errorf("failed to schedule eviction: %w", err)
	}

	j.cron.Start()
	j.running = true

	j.logger.Info("janitor started", "schedule", j.schedule, "window", j.window.String())

	go func() {
		<-ctx.Done()
		j.Stop()
	}()

	return nil
}

func (j *Janitor) runEviction() {
	cutoff := j.now().Add(-j.window)
	j.store.EvictBefore(cutoff)
	j.logger.Debug("evicted stale permit history", "cutoff", cutoff)
}

// Stop stops the scheduler and waits for a running eviction to finish.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cron != nil && j.running {
		ctx := j.cron.Stop()
		<-ctx.Done()
		j.running = false
		j.logger.Info("janitor stopped")
	}
}

// IsRunning reports whether the janitor is currently scheduled.
func (j *Janitor) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}
