package presence

import (
	"context"
	"log/slog"
	"time"
)

// KeepaliveWorker periodically re-publishes the online flag and marks the
// user offline when its context ends. It is the headless counterpart of a
// UI's visibility and unload hooks.
type KeepaliveWorker struct {
	log      *slog.Logger
	tracker  *Tracker
	interval time.Duration
}

func NewKeepaliveWorker(log *slog.Logger, tracker *Tracker, interval time.Duration) *KeepaliveWorker {
	return &KeepaliveWorker{log: log, tracker: tracker, interval: interval}
}

func (w *KeepaliveWorker) Run(ctx context.Context) error {
	w.tracker.SetOnline()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final write runs without the cancelled context: going
			// offline must not block, but it should still be attempted.
			w.tracker.SetOffline()
			return nil
		case <-ticker.C:
			w.tracker.SetOnline()
		}
	}
}
