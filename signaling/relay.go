//go:generate go run go.uber.org/mock/mockgen -source=relay.go -destination=../mocks/mock_sender.go -package=mocks
package signaling

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	apperrors "glue-connect/errors"
)

// Sender is the outbound half of the relay channel, as seen by the call
// state machine.
type Sender interface {
	Ensure(ctx context.Context) error
	Send(env Envelope) error
}

// Handler receives envelopes addressed to the local user.
type Handler func(env Envelope)

// RelayClient maintains the single long-lived websocket to the signaling
// relay. The connection is established lazily on first use, identified
// with a hello envelope, and reused across calls. After a transport
// failure the next Ensure dials again.
type RelayClient struct {
	mu      sync.Mutex
	url     string
	self    string
	log     *slog.Logger
	handler Handler
	conn    *websocket.Conn
	closed  bool
}

func NewRelayClient(url, selfUID string, log *slog.Logger) *RelayClient {
	return &RelayClient{url: url, self: selfUID, log: log}
}

// OnEnvelope registers the handler for inbound envelopes. Envelopes not
// addressed to the local user are discarded before it is called.
func (r *RelayClient) OnEnvelope(handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handler = handler
}

// Ensure dials the relay if no connection is live. The hello envelope
// registers the local uid with the forwarder.
func (r *RelayClient) Ensure(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return apperrors.ErrRelayClosed
	}
	if r.conn != nil {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.url, nil)
	if err != nil {
		return fmt.Errorf("dialing relay %s: %w", r.url, err)
	}
	if err := conn.WriteJSON(Envelope{Type: TypeHello, From: r.self}); err != nil {
		conn.Close()
		return fmt.Errorf("sending hello: %w", err)
	}

	r.conn = conn
	go r.readPump(conn)
	return nil
}

// Send transmits one envelope. Callers must have Ensured the channel;
// sending on a dead channel fails with ErrRelayClosed.
func (r *RelayClient) Send(env Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return apperrors.ErrRelayClosed
	}
	return r.conn.WriteJSON(env)
}

// readPump delivers inbound envelopes until the connection dies. On exit
// it clears the connection slot so the next Ensure reconnects.
func (r *RelayClient) readPump(conn *websocket.Conn) {
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			r.mu.Lock()
			if r.conn == conn {
				r.conn = nil
			}
			closed := r.closed
			r.mu.Unlock()
			if !closed {
				r.log.Debug("Relay read pump stopped", "err", err)
			}
			return
		}
		if env.To != r.self {
			continue
		}
		r.mu.Lock()
		handler := r.handler
		r.mu.Unlock()
		if handler != nil {
			handler(env)
		}
	}
}

// Close shuts the channel for good; subsequent Ensure calls fail.
func (r *RelayClient) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.conn != nil {
		err := r.conn.Close()
		r.conn = nil
		return err
	}
	return nil
}
