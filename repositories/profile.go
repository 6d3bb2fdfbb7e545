//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=../mocks/mock_profile_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"glue-connect/domain"
	apperrors "glue-connect/errors"
)

const profilePrefix = "profile:"

type IProfileRepository interface {
	Get(uid string) (domain.Profile, error)
	Put(profile domain.Profile) error
}

// ProfileRepository reads the directory records other parts of the portal
// maintain. Put exists so tests and tooling can seed the store; the
// communication core itself never writes profiles.
type ProfileRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewProfileRepository(db *badger.DB, log *slog.Logger) ProfileRepository {
	return ProfileRepository{db: db, log: log}
}

func profileKey(uid string) []byte {
	return []byte(profilePrefix + uid)
}

func (r ProfileRepository) Get(uid string) (domain.Profile, error) {
	var profile domain.Profile
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(uid))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return decode(value, &profile)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Profile{}, fmt.Errorf("%w: profile %s", apperrors.ErrNotFound, uid)
	}
	if err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

func (r ProfileRepository) Put(profile domain.Profile) error {
	data, err := encode(profile)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(profile.UID), data)
	})
}
