//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/pb"

	"glue-connect/domain"
)

type IMessageRepository interface {
	Append(sessionID string, message domain.Message) error
	List(sessionID string) ([]domain.Message, error)
	Watch(ctx context.Context, sessionID string) (<-chan domain.Message, error)
}

// MessageRepository persists the per-session message stream.
type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

func messagePrefix(sessionID string) string {
	return fmt.Sprintf("msg:%s:", sessionID)
}

// messageKey formats "msg:{session}:{timestamp_padded}:{uuid}" so that:
//  1. A prefix scan yields chronological order (19-digit zero padding keeps
//     lexicographical order equal to time order).
//  2. The UUID breaks ties if two messages land on the same nanosecond.
func messageKey(sessionID string, message domain.Message) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s",
		messagePrefix(sessionID),
		message.CreatedAt.UnixNano(),
		message.ID,
	))
}

func (r MessageRepository) Append(sessionID string, message domain.Message) error {
	data, err := encode(message)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(sessionID, message), data)
	})
}

// List returns the full history of a session, CreatedAt ascending.
func (r MessageRepository) List(sessionID string) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = true
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(messagePrefix(sessionID))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var message domain.Message
			err := it.Item().Value(func(value []byte) error {
				return decode(value, &message)
			})
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Watch streams appends to a session's message stream until ctx is
// cancelled. It delivers only new messages; callers seed with List first.
func (r MessageRepository) Watch(ctx context.Context, sessionID string) (<-chan domain.Message, error) {
	out := make(chan domain.Message, 32)
	go func() {
		defer close(out)
		err := r.db.Subscribe(ctx, func(kvs *badger.KVList) error {
			for _, kv := range kvs.Kv {
				var message domain.Message
				if err := decode(kv.Value, &message); err != nil {
					r.log.Warn("Undecodable message", "key", string(kv.Key), "err", err)
					continue
				}
				select {
				case out <- message:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		}, []pb.Match{{Prefix: []byte(messagePrefix(sessionID))}})
		if err != nil && err != context.Canceled {
			r.log.Warn("Message subscription ended", "session", sessionID, "err", err)
		}
	}()
	return out, nil
}
