package repositories

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"glue-connect/domain"
	apperrors "glue-connect/errors"
)

func Test_Profiles_Round_Trip(t *testing.T) {
	req := require.New(t)
	repository := NewProfileRepository(openTestDB(t), slog.Default())

	stored := domain.Profile{
		UID:         "alice",
		Name:        "Alice",
		Description: "CS student",
		Role:        domain.RoleStudent,
		USN:         "1AB21CS001",
		Phone:       "9876543210",
	}
	req.NoError(repository.Put(stored))

	fetched, err := repository.Get("alice")
	req.NoError(err)
	req.Equal(stored, fetched)
}

func Test_Unknown_Profile_Is_Not_Found(t *testing.T) {
	req := require.New(t)
	repository := NewProfileRepository(openTestDB(t), slog.Default())

	_, err := repository.Get("nobody")
	req.ErrorIs(err, apperrors.ErrNotFound)
}
