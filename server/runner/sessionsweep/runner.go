// Package sessionsweep removes reader sessions that have gone stale.
package sessionsweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/folio-reader/folio/store"
)

type Runner struct {
	store    *store.Store
	interval time.Duration
	maxAge   time.Duration
}

// NewRunner creates a session sweep runner. Sessions untouched for maxAge are
// deleted; their documents and bookmarks are kept.
func NewRunner(store *store.Store) *Runner {
	return &Runner{
		store:    store,
		interval: time.Hour,
		maxAge:   30 * 24 * time.Hour,
	}
}

// Run starts the background task.
func (r *Runner) Run(ctx context.Context) {
	// Sweep once on startup
	r.sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep(ctx)
		case <-ctx.Done():
			slog.Info("session sweep runner stopped")
			return
		}
	}
}

// RunOnce sweeps once (for manual trigger).
func (r *Runner) RunOnce(ctx context.Context) {
	r.sweep(ctx)
}

func (r *Runner) sweep(ctx context.Context) {
	deleted, err := r.store.DeleteExpiredReaderSessions(ctx, time.Now().Add(-r.maxAge))
	if err != nil {
		slog.Error("failed to sweep reader sessions", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("swept stale reader sessions", "count", deleted)
	}
}
