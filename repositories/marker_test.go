package repositories

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Marker_Lifecycle(t *testing.T) {
	req := require.New(t)
	repository := NewMarkerRepository(openTestDB(t), slog.Default())

	// Absent marker means no resume, not an error.
	last, err := repository.LastSession("alice")
	req.NoError(err)
	req.Empty(last)

	req.NoError(repository.SetLastSession("alice", "alice__bob"))
	last, err = repository.LastSession("alice")
	req.NoError(err)
	req.Equal("alice__bob", last)

	req.NoError(repository.ClearLastSession("alice"))
	last, err = repository.LastSession("alice")
	req.NoError(err)
	req.Empty(last)

	// Clearing twice is harmless.
	req.NoError(repository.ClearLastSession("alice"))
}
