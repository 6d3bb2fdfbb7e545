package session

import (
	"context"
	"log/slog"
	"sync"

	"glue-connect/repositories"
)

// Resumer reopens a conversation on screen activation: the explicitly
// requested counterpart if there is one, otherwise the last active
// session. Resume is a convenience: every failure is logged and
// skipped, and the whole thing runs at most once.
type Resumer struct {
	once     sync.Once
	log      *slog.Logger
	manager  *Manager
	profiles repositories.IProfileRepository
	sessions repositories.ISessionRepository
	markers  repositories.IMarkerRepository
}

func NewResumer(
	log *slog.Logger,
	manager *Manager,
	profiles repositories.IProfileRepository,
	sessions repositories.ISessionRepository,
	markers repositories.IMarkerRepository,
) *Resumer {
	return &Resumer{
		log:      log,
		manager:  manager,
		profiles: profiles,
		sessions: sessions,
		markers:  markers,
	}
}

// Resume runs the auto-open exactly once. targetUID, when non-empty, is
// the externally requested counterpart and wins over the stored marker;
// opening it does not overwrite the marker. Returns nil when nothing was
// opened.
func (r *Resumer) Resume(ctx context.Context, targetUID string) *Conversation {
	var conv *Conversation
	r.once.Do(func() {
		conv = r.resume(ctx, targetUID)
	})
	return conv
}

func (r *Resumer) resume(ctx context.Context, targetUID string) *Conversation {
	if targetUID != "" {
		other, err := r.profiles.Get(targetUID)
		if err != nil {
			r.log.Info("Resume target has no profile", "uid", targetUID, "err", err)
			return nil
		}
		conv, err := r.manager.open(ctx, other, false)
		if err != nil {
			r.log.Info("Resume of explicit target failed", "uid", targetUID, "err", err)
			return nil
		}
		return conv
	}

	lastID, err := r.markers.LastSession(r.manager.self.UID)
	if err != nil || lastID == "" {
		return nil
	}
	sess, err := r.sessions.Get(lastID)
	if err != nil {
		r.log.Info("Last session no longer exists", "id", lastID, "err", err)
		return nil
	}
	otherUID := sess.OtherParticipant(r.manager.self.UID)
	other, err := r.profiles.Get(otherUID)
	if err != nil {
		r.log.Info("Counterpart profile missing", "uid", otherUID, "err", err)
		return nil
	}
	conv, err := r.manager.open(ctx, other, true)
	if err != nil {
		r.log.Info("Reopening last session failed", "id", lastID, "err", err)
		return nil
	}
	return conv
}
