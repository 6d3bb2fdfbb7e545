package signaling_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	apperrors "glue-connect/errors"
	"glue-connect/mocks"
	"glue-connect/signaling"
)

func Test_Start_Requires_A_Bound_Session(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	call := signaling.NewCall(slog.Default(), mocks.NewMockSender(ctrl), signaling.StaticAudioSource{}, "alice")
	err := call.Start(context.Background(), true)
	require.ErrorIs(t, err, apperrors.ErrNoOpenSession)
}

func Test_Start_Requires_An_Online_Peer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	call := signaling.NewCall(slog.Default(), mocks.NewMockSender(ctrl), signaling.StaticAudioSource{}, "alice")
	call.Bind("alice__bob", "bob")
	err := call.Start(context.Background(), false)
	require.ErrorIs(t, err, apperrors.ErrPeerUnavailable)
	require.Equal(t, signaling.PhaseIdle, call.Phase())
}

func Test_Start_Transmits_An_Offer(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := mocks.NewMockSender(ctrl)
	sender.EXPECT().Ensure(gomock.Any()).Return(nil)

	var mu sync.Mutex
	var sent []signaling.Envelope
	sender.EXPECT().Send(gomock.Any()).DoAndReturn(func(env signaling.Envelope) error {
		mu.Lock()
		defer mu.Unlock()
		sent = append(sent, env)
		return nil
	}).AnyTimes()

	call := signaling.NewCall(slog.Default(), sender, signaling.StaticAudioSource{}, "alice")
	call.Bind("alice__bob", "bob")

	req.NoError(call.Start(context.Background(), true))
	req.Equal(signaling.PhaseOffering, call.Phase())

	mu.Lock()
	req.NotEmpty(sent)
	offer := sent[0]
	mu.Unlock()
	req.Equal(signaling.TypeOffer, offer.Type)
	req.Equal("alice", offer.From)
	req.Equal("bob", offer.To)
	req.Equal("alice__bob", offer.ChatID)
	req.NotNil(offer.SDP)

	call.End()
	req.Equal(signaling.PhaseEnded, call.Phase())

	mu.Lock()
	last := sent[len(sent)-1]
	mu.Unlock()
	req.Equal(signaling.TypeHangup, last.Type)
}

// pipeSender queues envelopes and delivers them, in order, to the other
// side's state machine.
type pipeSender struct {
	queue chan signaling.Envelope
}

func newPipeSender(deliver func(signaling.Envelope)) *pipeSender {
	s := &pipeSender{queue: make(chan signaling.Envelope, 64)}
	go func() {
		for env := range s.queue {
			deliver(env)
		}
	}()
	return s
}

func (s *pipeSender) Ensure(context.Context) error { return nil }

func (s *pipeSender) Send(env signaling.Envelope) error {
	s.queue <- env
	return nil
}

func Test_Offer_Answer_Exchange_Connects_Both_Sides(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	var alice, bob *signaling.Call
	toBob := newPipeSender(func(env signaling.Envelope) { bob.HandleEnvelope(env) })
	toAlice := newPipeSender(func(env signaling.Envelope) { alice.HandleEnvelope(env) })

	alice = signaling.NewCall(log, toBob, signaling.StaticAudioSource{}, "alice")
	bob = signaling.NewCall(log, toAlice, signaling.StaticAudioSource{}, "bob")

	chatID := "alice__bob"
	alice.Bind(chatID, "bob")
	bob.Bind(chatID, "alice")

	req.NoError(alice.Start(context.Background(), true))

	req.Eventually(func() bool {
		return alice.Phase() == signaling.PhaseConnected &&
			bob.Phase() == signaling.PhaseConnected
	}, 5*time.Second, 20*time.Millisecond, "offer/answer exchange never converged")

	// Either side hanging up drives both to Ended.
	bob.End()
	req.Equal(signaling.PhaseEnded, bob.Phase())
	req.Eventually(func() bool {
		return alice.Phase() == signaling.PhaseEnded
	}, 3*time.Second, 20*time.Millisecond, "remote hangup never landed")

	// Repeated hangups are noise, not errors.
	bob.End()
	alice.End()
}

func Test_Stale_Signaling_Is_Ignored(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := mocks.NewMockSender(ctrl)
	call := signaling.NewCall(slog.Default(), sender, signaling.StaticAudioSource{}, "alice")
	call.Bind("alice__bob", "bob")

	// An answer with no outstanding offer, candidates with no peer
	// connection, and a hangup with no call must all be no-ops.
	call.HandleEnvelope(signaling.Envelope{Type: signaling.TypeAnswer, From: "bob", To: "alice"})
	call.HandleEnvelope(signaling.Envelope{Type: signaling.TypeICECandidate, From: "bob", To: "alice"})
	call.HandleEnvelope(signaling.Envelope{Type: signaling.TypeHangup, From: "bob", To: "alice"})
	req.Equal(signaling.PhaseIdle, call.Phase())
}
