// Package presence publishes the local user's online state and follows
// the state of a single counterpart.
package presence

import (
	"context"
	"log/slog"
	"sync"

	"glue-connect/repositories"
)

// Tracker owns one watch slot. Switching counterparts tears down the
// previous subscription before establishing the new one, so a stale
// watch can never deliver after a newer one started.
type Tracker struct {
	mu     sync.Mutex
	repo   repositories.IPresenceRepository
	log    *slog.Logger
	self   string
	cancel context.CancelFunc
}

func NewTracker(repo repositories.IPresenceRepository, log *slog.Logger, selfUID string) *Tracker {
	return &Tracker{repo: repo, log: log, self: selfUID}
}

// SetOnline upserts the local presence record. Presence is best-effort:
// failures are logged and swallowed, never surfaced to the chat flow.
func (t *Tracker) SetOnline() {
	if err := t.repo.Set(t.self, true); err != nil {
		t.log.Warn("Failed to mark online", "uid", t.self, "err", err)
	}
}

func (t *Tracker) SetOffline() {
	if err := t.repo.Set(t.self, false); err != nil {
		t.log.Warn("Failed to mark offline", "uid", t.self, "err", err)
	}
}

// Watch follows the online flag of a single counterpart. The returned
// channel is seeded with an immediate read before the live subscription
// starts, so consumers never observe an indeterminate state. Any prior
// watch is cancelled first; there is at most one active watch at a time.
func (t *Tracker) Watch(ctx context.Context, uid string) (<-chan bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}

	watchCtx, cancel := context.WithCancel(ctx)

	seed, err := t.repo.Get(uid)
	if err != nil {
		t.log.Warn("Failed to seed presence", "uid", uid, "err", err)
	}

	updates, err := t.repo.Watch(watchCtx, uid)
	if err != nil {
		cancel()
		return nil, err
	}
	t.cancel = cancel

	out := make(chan bool, 8)
	out <- seed.Online
	go func() {
		defer close(out)
		for p := range updates {
			select {
			case out <- p.Online:
			case <-watchCtx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Unwatch cancels the current watch slot. Safe to call when nothing is
// being watched.
func (t *Tracker) Unwatch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
