package session

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"glue-connect/domain"
	"glue-connect/repositories"
)

func newTestResumer(t *testing.T, db *badger.DB, h harness) *Resumer {
	t.Helper()
	log := slog.Default()
	profiles := repositories.NewProfileRepository(db, log)
	return NewResumer(log, h.manager, profiles, h.sessions, h.markers)
}

func Test_Resume_Reopens_The_Last_Session(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	alice, bob := professor("alice", "Alice"), professor("bob", "Bob")
	h := newTestManager(t, db, alice)

	log := slog.Default()
	profiles := repositories.NewProfileRepository(db, log)
	req.NoError(profiles.Put(bob))

	id := domain.SessionID("alice", "bob")
	req.NoError(h.sessions.Ensure(domain.NewSession(alice, bob, time.Now().UTC())))
	req.NoError(h.markers.SetLastSession("alice", id))

	resumer := newTestResumer(t, db, h)
	conv := resumer.Resume(context.Background(), "")
	req.NotNil(conv)
	req.Equal(id, conv.ID)
	req.Equal("bob", conv.Other.UID)
	req.Equal(id, h.manager.Current())

	// Reopening via the marker keeps the marker in place.
	marked, err := h.markers.LastSession("alice")
	req.NoError(err)
	req.Equal(id, marked)
}

func Test_Resume_Runs_At_Most_Once(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	alice, bob := professor("alice", "Alice"), professor("bob", "Bob")
	h := newTestManager(t, db, alice)

	profiles := repositories.NewProfileRepository(db, slog.Default())
	req.NoError(profiles.Put(bob))

	resumer := newTestResumer(t, db, h)
	req.NotNil(resumer.Resume(context.Background(), "bob"))
	req.Nil(resumer.Resume(context.Background(), "bob"))
	req.Nil(resumer.Resume(context.Background(), ""))
}

func Test_Resume_With_Explicit_Target_Does_Not_Persist_A_Marker(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	alice, bob := professor("alice", "Alice"), professor("bob", "Bob")
	h := newTestManager(t, db, alice)

	profiles := repositories.NewProfileRepository(db, slog.Default())
	req.NoError(profiles.Put(bob))

	conv := newTestResumer(t, db, h).Resume(context.Background(), "bob")
	req.NotNil(conv)
	req.Equal(domain.SessionID("alice", "bob"), conv.ID)

	marked, err := h.markers.LastSession("alice")
	req.NoError(err)
	req.Empty(marked)
}

func Test_Resume_Without_A_Marker_Opens_Nothing(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	h := newTestManager(t, db, professor("alice", "Alice"))

	req.Nil(newTestResumer(t, db, h).Resume(context.Background(), ""))
	req.Empty(h.manager.Current())
}

func Test_Resume_Skips_A_Dangling_Marker(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	h := newTestManager(t, db, professor("alice", "Alice"))

	req.NoError(h.markers.SetLastSession("alice", "alice__ghost"))
	req.Nil(newTestResumer(t, db, h).Resume(context.Background(), ""))
	req.Empty(h.manager.Current())
}

func Test_Resume_Skips_An_Unknown_Target(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	h := newTestManager(t, db, professor("alice", "Alice"))

	req.Nil(newTestResumer(t, db, h).Resume(context.Background(), "stranger"))
	req.Empty(h.manager.Current())
}
