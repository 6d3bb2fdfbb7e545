package signaling

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pion/webrtc/v4"

	apperrors "glue-connect/errors"
)

// Phase is the tagged call state. Callers move Idle → Offering →
// Connected → Ended; callees move Idle → Answering → Connected → Ended.
// A hangup from either side lands on Ended regardless of phase.
type Phase string

const (
	PhaseIdle      Phase = "Idle"
	PhaseOffering  Phase = "Offering"
	PhaseAnswering Phase = "Answering"
	PhaseConnected Phase = "Connected"
	PhaseEnded     Phase = "Ended"
)

var defaultICEServers = []webrtc.ICEServer{
	{URLs: []string{"stun:stun.l.google.com:19302"}},
}

// Call is the signaling state machine for the currently open session.
// It exclusively owns the peer connection and the local media capture:
// at most one of each exists at a time, and every exit path releases
// both.
type Call struct {
	mu    sync.Mutex
	log   *slog.Logger
	relay Sender
	media MediaSource
	self  string

	phase  Phase
	chatID string
	peer   string
	pc     *webrtc.PeerConnection
	local  LocalMedia
	remote *webrtc.TrackRemote
}

func NewCall(log *slog.Logger, relay Sender, media MediaSource, selfUID string) *Call {
	return &Call{
		log:   log,
		relay: relay,
		media: media,
		self:  selfUID,
		phase: PhaseIdle,
	}
}

// Bind scopes the state machine to a session. Any call still in progress
// for the previous session is ended first.
func (c *Call) Bind(chatID, peerUID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pc != nil || c.local != nil {
		c.teardownLocked(true)
	}
	c.chatID = chatID
	c.peer = peerUID
	c.phase = PhaseIdle
}

// Unbind ends any in-progress call and detaches from the session.
func (c *Call) Unbind() {
	c.Bind("", "")
}

func (c *Call) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Start places an outbound call. It requires a bound session and an
// online counterpart, connects the relay lazily, acquires local audio,
// and transmits the offer. The phase moves to Offering as soon as the
// offer is on the wire.
func (c *Call) Start(ctx context.Context, peerOnline bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.chatID == "" || c.peer == "" {
		return apperrors.ErrNoOpenSession
	}
	if !peerOnline {
		return apperrors.ErrPeerUnavailable
	}
	// Only one peer connection may exist at a time: a new call fully
	// ends the previous one.
	if c.pc != nil {
		c.teardownLocked(true)
	}

	if err := c.relay.Ensure(ctx); err != nil {
		return err
	}
	pc, err := c.ensurePeerConnectionLocked()
	if err != nil {
		return err
	}
	if err := c.ensureLocalMediaLocked(pc); err != nil {
		c.teardownLocked(false)
		return err
	}

	offer, err := pc.CreateOffer(nil)
	if err != nil {
		c.teardownLocked(false)
		return fmt.Errorf("creating offer: %w", err)
	}
	if err := pc.SetLocalDescription(offer); err != nil {
		c.teardownLocked(false)
		return fmt.Errorf("setting local description: %w", err)
	}
	if err := c.relay.Send(Envelope{
		Type:   TypeOffer,
		From:   c.self,
		To:     c.peer,
		ChatID: c.chatID,
		SDP:    pc.LocalDescription(),
	}); err != nil {
		c.teardownLocked(false)
		return fmt.Errorf("sending offer: %w", err)
	}

	c.phase = PhaseOffering
	c.log.Info("Call started", "chat", c.chatID, "peer", c.peer)
	return nil
}

// End hangs up. The hangup envelope is best-effort: if it cannot be
// sent, the other side will notice by transport closure. Safe to call
// when no call is active.
func (c *Call) End() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pc == nil && c.local == nil {
		return
	}
	c.teardownLocked(true)
}

// HandleEnvelope dispatches one inbound envelope. The relay client has
// already filtered for the local addressee.
func (c *Call) HandleEnvelope(env Envelope) {
	switch env.Type {
	case TypeOffer:
		c.handleOffer(env)
	case TypeAnswer:
		c.handleAnswer(env)
	case TypeICECandidate:
		c.handleCandidate(env)
	case TypeHangup:
		c.handleHangup()
	}
}

// handleOffer answers an inbound call: apply the remote offer, acquire
// local audio, send the answer back. Answering is visible between
// applying the offer and the answer leaving.
func (c *Call) handleOffer(env Envelope) {
	if env.SDP == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	pc, err := c.ensurePeerConnectionLocked()
	if err != nil {
		c.log.Warn("Failed to create peer connection for offer", "err", err)
		return
	}
	if err := pc.SetRemoteDescription(*env.SDP); err != nil {
		c.log.Warn("Failed to apply remote offer", "err", err)
		return
	}
	c.phase = PhaseAnswering

	if err := c.ensureLocalMediaLocked(pc); err != nil {
		c.log.Warn("Failed to acquire local media", "err", err)
		c.teardownLocked(false)
		return
	}
	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		c.log.Warn("Failed to create answer", "err", err)
		c.teardownLocked(false)
		return
	}
	if err := pc.SetLocalDescription(answer); err != nil {
		c.log.Warn("Failed to set local answer", "err", err)
		c.teardownLocked(false)
		return
	}
	if err := c.relay.Send(Envelope{
		Type:   TypeAnswer,
		From:   c.self,
		To:     env.From,
		ChatID: env.ChatID,
		SDP:    pc.LocalDescription(),
	}); err != nil {
		c.log.Warn("Failed to send answer", "err", err)
		c.teardownLocked(false)
		return
	}
	c.phase = PhaseConnected
}

func (c *Call) handleAnswer(env Envelope) {
	if env.SDP == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	// An answer without an outstanding offer is stale noise.
	if c.pc == nil || c.phase != PhaseOffering {
		return
	}
	if err := c.pc.SetRemoteDescription(*env.SDP); err != nil {
		c.log.Warn("Failed to apply remote answer", "err", err)
		return
	}
	c.phase = PhaseConnected
}

// handleCandidate applies a remote ICE candidate. Late or duplicate
// candidates are expected and harmless, so failures are swallowed.
func (c *Call) handleCandidate(env Envelope) {
	if env.Candidate == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pc == nil {
		return
	}
	if err := c.pc.AddICECandidate(*env.Candidate); err != nil {
		c.log.Debug("Ignoring ICE candidate", "err", err)
	}
}

// handleHangup is unconditional: full teardown regardless of phase.
func (c *Call) handleHangup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pc == nil && c.local == nil {
		return
	}
	c.teardownLocked(false)
}

func (c *Call) ensurePeerConnectionLocked() (*webrtc.PeerConnection, error) {
	if c.pc != nil {
		return c.pc, nil
	}
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{ICEServers: defaultICEServers})
	if err != nil {
		return nil, fmt.Errorf("creating peer connection: %w", err)
	}

	pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		c.mu.Lock()
		c.remote = track
		c.mu.Unlock()
		c.log.Info("Remote audio track received", "codec", track.Codec().MimeType)
	})

	// Local candidates are forwarded to the counterpart as they are
	// produced; without a counterpart or a live channel they are dropped.
	pc.OnICECandidate(func(candidate *webrtc.ICECandidate) {
		if candidate == nil {
			return
		}
		c.mu.Lock()
		peer, chatID := c.peer, c.chatID
		c.mu.Unlock()
		if peer == "" {
			return
		}
		init := candidate.ToJSON()
		if err := c.relay.Send(Envelope{
			Type:      TypeICECandidate,
			From:      c.self,
			To:        peer,
			ChatID:    chatID,
			Candidate: &init,
		}); err != nil {
			c.log.Debug("Dropping local ICE candidate", "err", err)
		}
	})

	c.pc = pc
	return pc, nil
}

func (c *Call) ensureLocalMediaLocked(pc *webrtc.PeerConnection) error {
	if c.local != nil {
		return nil
	}
	local, err := c.media.Acquire()
	if err != nil {
		return fmt.Errorf("acquiring local audio: %w", err)
	}
	if _, err := pc.AddTrack(local.Track()); err != nil {
		local.Release()
		return fmt.Errorf("adding local track: %w", err)
	}
	c.local = local
	return nil
}

// teardownLocked releases the peer connection and both media slots, the
// one exit path shared by leave, local hangup, remote hangup and
// teardown. Phase lands on Ended; the machine is ready for a new call.
func (c *Call) teardownLocked(sendHangup bool) {
	if sendHangup && c.peer != "" {
		if err := c.relay.Send(Envelope{
			Type:   TypeHangup,
			From:   c.self,
			To:     c.peer,
			ChatID: c.chatID,
		}); err != nil {
			c.log.Debug("Hangup not delivered", "err", err)
		}
	}
	if c.pc != nil {
		if err := c.pc.Close(); err != nil {
			c.log.Debug("Peer connection close", "err", err)
		}
		c.pc = nil
	}
	if c.local != nil {
		c.local.Release()
		c.local = nil
	}
	c.remote = nil
	c.phase = PhaseEnded
}
