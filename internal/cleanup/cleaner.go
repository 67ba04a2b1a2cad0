package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/terra-clan/robolearn/internal/session"
)

// Cleaner periodically removes idle visitor sessions
type Cleaner struct {
	store    session.Store
	idle     time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewCleaner creates a new cleanup worker. Sessions not seen for longer than
// idle are removed every interval.
func NewCleaner(store session.Store, idle, interval time.Duration) *Cleaner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Cleaner{
		store:    store,
		idle:     idle,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps until ctx is cancelled. The first sweep runs immediately.
func (c *Cleaner) Run(ctx context.Context) error {
	slog.Info("cleanup worker started", "interval", c.interval, "idle_timeout", c.idle)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup worker stopped")
			return nil
		case <-ticker.C:
			c.Sweep(ctx)
		}
	}
}

// Sweep removes sessions idle for longer than the idle timeout
func (c *Cleaner) Sweep(ctx context.Context) int {
	slog.Debug("running cleanup cycle")

	cutoff := c.now().Add(-c.idle)
	removed, err := c.store.DeleteIdle(ctx, cutoff)
	if err != nil {
		slog.Error("failed to delete idle sessions", "error", err, "removed", removed)
		return removed
	}

	if removed == 0 {
		slog.Debug("no idle sessions found")
		return 0
	}

	slog.Info("idle sessions deleted", "count", removed, "cutoff", cutoff)
	return removed
}
