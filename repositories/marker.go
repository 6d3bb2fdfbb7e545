//go:generate go run go.uber.org/mock/mockgen -source=marker.go -destination=../mocks/mock_marker_repository.go -package=mocks
package repositories

import (
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const markerPrefix = "marker:last-session:"

type IMarkerRepository interface {
	SetLastSession(uid, sessionID string) error
	LastSession(uid string) (string, error)
	ClearLastSession(uid string) error
}

// MarkerRepository holds the single last-active-session key used by
// resume. A missing or stale value just means "no resume".
type MarkerRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMarkerRepository(db *badger.DB, log *slog.Logger) MarkerRepository {
	return MarkerRepository{db: db, log: log}
}

func markerKey(uid string) []byte {
	return []byte(markerPrefix + uid)
}

func (r MarkerRepository) SetLastSession(uid, sessionID string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(markerKey(uid), []byte(sessionID))
	})
}

func (r MarkerRepository) LastSession(uid string) (string, error) {
	var sessionID string
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(markerKey(uid))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			sessionID = string(value)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

func (r MarkerRepository) ClearLastSession(uid string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(markerKey(uid))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}
