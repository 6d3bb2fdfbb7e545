//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=../mocks/mock_session_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/pb"

	"glue-connect/domain"
	apperrors "glue-connect/errors"
)

const sessionPrefix = "session:"

type ISessionRepository interface {
	Ensure(session domain.Session) error
	Get(id string) (domain.Session, error)
	Touch(id, lastMessage string, at time.Time) error
	ListFor(uid string) ([]domain.Session, error)
	WatchAll(ctx context.Context) (<-chan domain.Session, error)
}

// SessionRepository stores one record per conversation, keyed by the
// derived session id.
type SessionRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewSessionRepository(db *badger.DB, log *slog.Logger) SessionRepository {
	return SessionRepository{db: db, log: log}
}

func sessionKey(id string) []byte {
	return []byte(sessionPrefix + id)
}

// Ensure creates the session record if it does not exist yet. A concurrent
// create by the counterpart is harmless: the id and participant set are
// identical, so whichever write lands first defines the record.
func (r SessionRepository) Ensure(session domain.Session) error {
	return r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(sessionKey(session.ID))
		if err == nil {
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		data, err := encode(session)
		if err != nil {
			return err
		}
		return txn.Set(sessionKey(session.ID), data)
	})
}

func (r SessionRepository) Get(id string) (domain.Session, error) {
	var session domain.Session
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return decode(value, &session)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Session{}, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Touch updates the denormalized LastMessage/UpdatedAt pair after a send.
// It is a separate write from the message append; a crash in between
// leaves a stale hint that self-corrects on the next send.
func (r SessionRepository) Touch(id, lastMessage string, at time.Time) error {
	return r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if err != nil {
			return err
		}
		var session domain.Session
		if err := item.Value(func(value []byte) error {
			return decode(value, &session)
		}); err != nil {
			return err
		}
		session.LastMessage = lastMessage
		session.UpdatedAt = at
		data, err := encode(session)
		if err != nil {
			return err
		}
		return txn.Set(sessionKey(id), data)
	})
}

// ListFor returns all sessions containing uid, most recent first.
func (r SessionRepository) ListFor(uid string) ([]domain.Session, error) {
	var sessions []domain.Session
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = true
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(sessionPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var session domain.Session
			err := it.Item().Value(func(value []byte) error {
				return decode(value, &session)
			})
			if err != nil {
				return err
			}
			if session.Contains(uid) {
				sessions = append(sessions, session)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

// WatchAll streams every session record change until ctx is cancelled.
// Callers filter for the participants they care about.
func (r SessionRepository) WatchAll(ctx context.Context) (<-chan domain.Session, error) {
	out := make(chan domain.Session, 16)
	go func() {
		defer close(out)
		err := r.db.Subscribe(ctx, func(kvs *badger.KVList) error {
			for _, kv := range kvs.Kv {
				var session domain.Session
				if err := decode(kv.Value, &session); err != nil {
					r.log.Warn("Undecodable session update", "key", string(kv.Key), "err", err)
					continue
				}
				select {
				case out <- session:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		}, []pb.Match{{Prefix: []byte(sessionPrefix)}})
		if err != nil && err != context.Canceled {
			r.log.Warn("Session subscription ended", "err", err)
		}
	}()
	return out, nil
}
