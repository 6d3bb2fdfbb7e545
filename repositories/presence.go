//go:generate go run go.uber.org/mock/mockgen -source=presence.go -destination=../mocks/mock_presence_repository.go -package=mocks
package repositories

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/pb"

	"glue-connect/domain"
)

const presencePrefix = "presence:"

type IPresenceRepository interface {
	Set(uid string, online bool) error
	Get(uid string) (domain.Presence, error)
	Watch(ctx context.Context, uid string) (<-chan domain.Presence, error)
}

// PresenceRepository stores one presence record per user. Only the owner
// writes their own record, so the last write always wins.
type PresenceRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewPresenceRepository(db *badger.DB, log *slog.Logger) PresenceRepository {
	return PresenceRepository{db: db, log: log}
}

func presenceKey(uid string) []byte {
	return []byte(presencePrefix + uid)
}

func (r PresenceRepository) Set(uid string, online bool) error {
	data, err := encode(domain.Presence{Online: online, LastSeen: time.Now().UTC()})
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(presenceKey(uid), data)
	})
}

// Get returns the latest known presence. A user with no record yet is
// simply offline, not an error.
func (r PresenceRepository) Get(uid string) (domain.Presence, error) {
	var presence domain.Presence
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(presenceKey(uid))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return decode(value, &presence)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Presence{}, nil
	}
	if err != nil {
		return domain.Presence{}, err
	}
	return presence, nil
}

// Watch streams presence updates for a single uid until ctx is cancelled.
// Deliveries carry the latest known value; intermediate states may be
// skipped when the subscriber is slow, which matches most-recent-wins.
func (r PresenceRepository) Watch(ctx context.Context, uid string) (<-chan domain.Presence, error) {
	key := presenceKey(uid)
	out := make(chan domain.Presence, 8)
	go func() {
		defer close(out)
		err := r.db.Subscribe(ctx, func(kvs *badger.KVList) error {
			for _, kv := range kvs.Kv {
				// The subscription matches by prefix and presence keys
				// have no terminator, so "u1" would also see "u10".
				// Only the exact key belongs to this watch.
				if !bytes.Equal(kv.Key, key) {
					continue
				}
				var presence domain.Presence
				if err := decode(kv.Value, &presence); err != nil {
					r.log.Warn("Undecodable presence update", "uid", uid, "err", err)
					continue
				}
				select {
				case out <- presence:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		}, []pb.Match{{Prefix: key}})
		if err != nil && err != context.Canceled {
			r.log.Warn("Presence subscription ended", "uid", uid, "err", err)
		}
	}()
	return out, nil
}
