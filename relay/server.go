package relay

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// ServerWorker runs the HTTP side of the hub as a supervised worker:
// a serve error makes Run return it so the supervisor restarts the
// listener, while context cancellation drains connections and returns
// nil.
type ServerWorker struct {
	log             *slog.Logger
	addr            string
	hub             *Hub
	shutdownTimeout time.Duration

	mu    sync.Mutex
	bound string
}

func NewServerWorker(log *slog.Logger, addr string, hub *Hub, shutdownTimeout time.Duration) *ServerWorker {
	return &ServerWorker{log: log, addr: addr, hub: hub, shutdownTimeout: shutdownTimeout}
}

// Addr returns the bound listen address, or "" before Run has one.
// With a ":0" configuration this is how tests learn the real port.
func (w *ServerWorker) Addr() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bound
}

func (w *ServerWorker) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", w.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", w.addr, err)
	}
	w.mu.Lock()
	w.bound = listener.Addr().String()
	w.mu.Unlock()

	server := &http.Server{Handler: w.hub}
	errChan := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("relay server error: %w", err)
		}
	}()
	w.log.Info("Signaling relay listening", "address", w.Addr())

	select {
	case <-ctx.Done():
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	w.log.Info("Relay stopped cleanly")
	return nil
}
