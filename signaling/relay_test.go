package signaling_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "glue-connect/errors"
	"glue-connect/relay"
	"glue-connect/signaling"
)

func startHub(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(relay.NewHub(slog.Default()))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func Test_Ensure_Is_Lazy_And_Idempotent(t *testing.T) {
	req := require.New(t)
	url := startHub(t)

	client := signaling.NewRelayClient(url, "alice", slog.Default())
	defer client.Close()

	// Nothing dialed yet: sending fails.
	req.ErrorIs(client.Send(signaling.Envelope{Type: signaling.TypeHangup, To: "bob"}), apperrors.ErrRelayClosed)

	req.NoError(client.Ensure(context.Background()))
	req.NoError(client.Ensure(context.Background()))
}

func Test_Envelopes_Reach_The_Addressee(t *testing.T) {
	req := require.New(t)
	url := startHub(t)
	log := slog.Default()

	alice := signaling.NewRelayClient(url, "alice", log)
	defer alice.Close()
	bob := signaling.NewRelayClient(url, "bob", log)
	defer bob.Close()

	received := make(chan signaling.Envelope, 8)
	bob.OnEnvelope(func(env signaling.Envelope) { received <- env })

	req.NoError(alice.Ensure(context.Background()))
	req.NoError(bob.Ensure(context.Background()))
	// Registration happens on the hub's read loop, not during the dial.
	time.Sleep(100 * time.Millisecond)

	req.NoError(alice.Send(signaling.Envelope{
		Type:   signaling.TypeHangup,
		From:   "alice",
		To:     "bob",
		ChatID: "alice__bob",
	}))

	select {
	case env := <-received:
		req.Equal(signaling.TypeHangup, env.Type)
		req.Equal("alice", env.From)
		req.Equal("alice__bob", env.ChatID)
	case <-time.After(3 * time.Second):
		t.Fatal("envelope never arrived")
	}

	// Envelopes for unknown uids vanish at the hub without breaking the
	// sender's channel.
	req.NoError(alice.Send(signaling.Envelope{Type: signaling.TypeHangup, From: "alice", To: "nobody"}))
	select {
	case env := <-received:
		t.Fatalf("unexpected envelope: %+v", env)
	case <-time.After(200 * time.Millisecond):
	}
}

func Test_Close_Is_Final(t *testing.T) {
	req := require.New(t)
	url := startHub(t)

	client := signaling.NewRelayClient(url, "alice", slog.Default())
	req.NoError(client.Ensure(context.Background()))
	req.NoError(client.Close())

	req.ErrorIs(client.Ensure(context.Background()), apperrors.ErrRelayClosed)
	req.ErrorIs(client.Send(signaling.Envelope{Type: signaling.TypeHangup, To: "bob"}), apperrors.ErrRelayClosed)
}
