// Package session owns the lifecycle of the one active conversation:
// identity, message streaming, sends, and teardown.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"glue-connect/domain"
	"glue-connect/domain/gate"
	"glue-connect/presence"
	"glue-connect/repositories"
	"glue-connect/signaling"
)

// Conversation is the view handed out for one opened session: the
// ascending message stream and the counterpart's live online flag. Both
// channels close when the session is left or replaced.
type Conversation struct {
	ID         string
	Other      domain.Profile
	Messages   <-chan []domain.Message
	PeerOnline <-chan bool
}

// RelayCloser is the part of the relay channel the manager owns at
// teardown time.
type RelayCloser interface {
	Close() error
}

// Manager holds the explicit "currently open session" slot. All
// subscriptions tied to the previous session are cancelled before a new
// one is established; at most one session is open at a time.
type Manager struct {
	mu       sync.Mutex
	log      *slog.Logger
	self     domain.Profile
	sessions repositories.ISessionRepository
	messages repositories.IMessageRepository
	markers  repositories.IMarkerRepository
	tracker  *presence.Tracker
	call     *signaling.Call
	relay    RelayCloser

	current    *openState
	peerOnline atomic.Bool
}

type openState struct {
	id     string
	other  domain.Profile
	cancel context.CancelFunc
}

func NewManager(
	log *slog.Logger,
	self domain.Profile,
	sessions repositories.ISessionRepository,
	messages repositories.IMessageRepository,
	markers repositories.IMarkerRepository,
	tracker *presence.Tracker,
	call *signaling.Call,
	relay RelayCloser,
) *Manager {
	return &Manager{
		log:      log,
		self:     self,
		sessions: sessions,
		messages: messages,
		markers:  markers,
		tracker:  tracker,
		call:     call,
		relay:    relay,
	}
}

// Open starts a conversation with other and remembers it as the last
// active session for resume.
func (m *Manager) Open(ctx context.Context, other domain.Profile) (*Conversation, error) {
	return m.open(ctx, other, true)
}

// open is shared with the resumer, which opens explicit targets without
// touching the resume marker.
func (m *Manager) open(ctx context.Context, other domain.Profile, persistMarker bool) (*Conversation, error) {
	if err := gate.Complete(m.self); err != nil {
		return nil, fmt.Errorf("your profile: %w", err)
	}
	if err := gate.Complete(other); err != nil {
		return nil, fmt.Errorf("their profile: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Previous subscriptions must be gone before the new ones start,
	// otherwise messages from the old session keep arriving.
	m.teardownLocked()

	id := domain.SessionID(m.self.UID, other.UID)
	if err := m.sessions.Ensure(domain.NewSession(m.self, other, time.Now().UTC())); err != nil {
		return nil, fmt.Errorf("ensuring session %s: %w", id, err)
	}

	watchCtx, cancel := context.WithCancel(ctx)

	msgOut, err := m.streamMessages(watchCtx, id)
	if err != nil {
		cancel()
		return nil, err
	}

	peerUpdates, err := m.tracker.Watch(watchCtx, other.UID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watching presence of %s: %w", other.UID, err)
	}
	peerOut := make(chan bool, 8)
	// The tracker buffers a seed value before returning. Consuming it
	// here, not in the goroutine, means a call started right after Open
	// already sees the counterpart's real state.
	if online, ok := <-peerUpdates; ok {
		m.peerOnline.Store(online)
		peerOut <- online
	}
	go func() {
		defer close(peerOut)
		for online := range peerUpdates {
			m.peerOnline.Store(online)
			select {
			case peerOut <- online:
			case <-watchCtx.Done():
				return
			}
		}
	}()

	m.call.Bind(id, other.UID)
	m.current = &openState{id: id, other: other, cancel: cancel}

	if persistMarker {
		if err := m.markers.SetLastSession(m.self.UID, id); err != nil {
			m.log.Warn("Failed to persist last session marker", "err", err)
		}
	}

	m.log.Info("Session opened", "id", id, "with", other.UID)
	return &Conversation{
		ID:         id,
		Other:      other,
		Messages:   msgOut,
		PeerOnline: peerOut,
	}, nil
}

// streamMessages seeds from the stored history and then follows the live
// appends, always emitting the full list in CreatedAt ascending order.
func (m *Manager) streamMessages(ctx context.Context, id string) (<-chan []domain.Message, error) {
	history, err := m.messages.List(id)
	if err != nil {
		return nil, fmt.Errorf("loading history of %s: %w", id, err)
	}
	updates, err := m.messages.Watch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("watching messages of %s: %w", id, err)
	}

	out := make(chan []domain.Message, 8)
	out <- snapshot(history)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-updates:
				if !ok {
					return
				}
				history = insertByTime(history, msg)
				select {
				case out <- snapshot(history):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Send appends a message and refreshes the session's denormalized
// LastMessage/UpdatedAt. Empty or whitespace-only text, or no open
// session, is a silent no-op. The two writes are not atomic; a stale
// LastMessage self-corrects on the next send.
func (m *Manager) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" || m.self.UID == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}

	msg := domain.NewMessage(m.self.UID, text, time.Now().UTC())
	if err := m.messages.Append(m.current.id, msg); err != nil {
		return fmt.Errorf("appending message: %w", err)
	}
	if err := m.sessions.Touch(m.current.id, text, msg.CreatedAt); err != nil {
		return fmt.Errorf("updating session summary: %w", err)
	}
	return nil
}

// StartCall places an audio call to the counterpart of the open session.
func (m *Manager) StartCall(ctx context.Context) error {
	return m.call.Start(ctx, m.peerOnline.Load())
}

// EndCall hangs up the in-progress call, if any.
func (m *Manager) EndCall() {
	m.call.End()
}

// Leave tears down all subscriptions of the open session, clears the
// resume marker, and ends any in-progress call. Safe to call when no
// session is open.
func (m *Manager) Leave() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
	if err := m.markers.ClearLastSession(m.self.UID); err != nil {
		m.log.Warn("Failed to clear last session marker", "err", err)
	}
}

// Close is the unmount path: Leave plus closing the relay channel.
func (m *Manager) Close() {
	m.Leave()
	if err := m.relay.Close(); err != nil {
		m.log.Debug("Relay close", "err", err)
	}
}

// Current returns the id of the open session, or "".
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.id
}

func (m *Manager) teardownLocked() {
	if m.current != nil {
		m.current.cancel()
		m.current = nil
	}
	m.tracker.Unwatch()
	m.peerOnline.Store(false)
	m.call.Unbind()
}

func snapshot(messages []domain.Message) []domain.Message {
	out := make([]domain.Message, len(messages))
	copy(out, messages)
	return out
}

// insertByTime keeps the history sorted even if the store delivers a
// late append out of order.
func insertByTime(history []domain.Message, msg domain.Message) []domain.Message {
	i := sort.Search(len(history), func(i int) bool {
		return history[i].CreatedAt.After(msg.CreatedAt)
	})
	history = append(history, domain.Message{})
	copy(history[i+1:], history[i:])
	history[i] = msg
	return history
}
