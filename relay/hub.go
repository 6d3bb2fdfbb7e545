// Package relay implements the dumb signaling forwarder. It keeps no
// call state: envelopes are routed to the connection registered for
// their To uid and everything else lives in the endpoints.
package relay

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"glue-connect/signaling"
)

const sendBufferSize = 32

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Hub tracks the one live connection per uid and forwards envelopes
// between them.
type Hub struct {
	mu      sync.RWMutex
	log     *slog.Logger
	clients map[string]*client
}

type client struct {
	uid  string
	conn *websocket.Conn
	send chan signaling.Envelope
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{log: log, clients: make(map[string]*client)}
}

// ServeHTTP upgrades the connection and runs its read loop. The first
// hello envelope registers the uid; a newer connection for the same uid
// replaces the old one.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan signaling.Envelope, sendBufferSize)}
	go c.writePump(h.log)
	h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	for {
		var env signaling.Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			return
		}
		if env.Type == signaling.TypeHello {
			h.register(c, env.From)
			continue
		}
		h.forward(env)
	}
}

func (h *Hub) register(c *client, uid string) {
	if uid == "" {
		return
	}
	h.mu.Lock()
	if prev, ok := h.clients[uid]; ok && prev != c {
		prev.conn.Close()
	}
	c.uid = uid
	h.clients[uid] = c
	h.mu.Unlock()
	h.log.Info("Client registered", "uid", uid)
}

// unregister removes the client and closes its send channel. The close
// happens under the write lock, so forward can never race it into a
// send on a closed channel.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if c.uid != "" {
		if current, ok := h.clients[c.uid]; ok && current == c {
			delete(h.clients, c.uid)
		}
	}
	close(c.send)
	h.mu.Unlock()
	if c.uid != "" {
		h.log.Info("Client unregistered", "uid", c.uid)
	}
}

// forward routes one envelope to the addressee. Unknown addressees and
// full buffers drop the envelope: signaling tolerates loss, the relay
// never queues. The send stays under the read lock; a client found in
// the map cannot have its channel closed until the lock is released.
func (h *Hub) forward(env signaling.Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	target, ok := h.clients[env.To]
	if !ok {
		h.log.Debug("No client for envelope", "to", env.To, "type", env.Type)
		return
	}
	select {
	case target.send <- env:
	default:
		h.log.Warn("Send buffer full, dropping envelope", "to", env.To, "type", env.Type)
	}
}

func (c *client) writePump(log *slog.Logger) {
	for env := range c.send {
		if err := c.conn.WriteJSON(env); err != nil {
			log.Debug("Write failed", "uid", c.uid, "err", err)
			return
		}
	}
}
