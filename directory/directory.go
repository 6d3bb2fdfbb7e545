// Package directory maintains the live, recency-ordered list of sessions
// the local user participates in.
package directory

import (
	"context"
	"log/slog"

	"glue-connect/domain"
	"glue-connect/repositories"
)

type Directory struct {
	sessions repositories.ISessionRepository
	log      *slog.Logger
}

func NewDirectory(sessions repositories.ISessionRepository, log *slog.Logger) *Directory {
	return &Directory{sessions: sessions, log: log}
}

// Watch emits the full session list of uid, ordered by UpdatedAt
// descending, once immediately and again whenever any of those sessions
// changes. A session gaining recency re-sorts the whole list. The stream
// is independent of which session is currently open and lives until ctx
// is cancelled.
func (d *Directory) Watch(ctx context.Context, uid string) (<-chan []domain.Session, error) {
	changes, err := d.sessions.WatchAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan []domain.Session, 4)
	initial, err := d.sessions.ListFor(uid)
	if err != nil {
		d.log.Warn("Failed to list sessions", "uid", uid, "err", err)
	}
	out <- initial

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case session, ok := <-changes:
				if !ok {
					return
				}
				if !session.Contains(uid) {
					continue
				}
				list, err := d.sessions.ListFor(uid)
				if err != nil {
					d.log.Warn("Failed to refresh session list", "uid", uid, "err", err)
					continue
				}
				select {
				case out <- list:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
