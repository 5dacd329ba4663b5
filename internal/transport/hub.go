package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub is the loopback websocket relay between windows. Every envelope
// received from one connection is fanned out to all other connections;
// the publishing window delivers locally itself, so the hub never echoes
// a frame back to its origin connection.
type Hub struct {
	addr string
	path string

	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*hubConn]struct{}
}

type hubConn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func (c *hubConn) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.ws.WriteJSON(env)
}

// NewHub creates a Hub listening on addr at the given endpoint path.
func NewHub(addr, path string) *Hub {
	return &Hub{
		addr: addr,
		path: path,
		// Loopback only; no cross-origin browser windows to vet.
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		conns:    make(map[*hubConn]struct{}),
	}
}

// Start serves the hub until ctx is cancelled.
func (h *Hub) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(h.path, h.handleWS)

	srv := &http.Server{Addr: h.addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	slog.Info("hub: listening", "addr", h.addr, "path", h.path)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// ConnCount returns the number of attached windows.
func (h *Hub) ConnCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("hub: upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	conn := &hubConn{ws: ws}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	total := len(h.conns)
	h.mu.Unlock()
	slog.Info("hub: window attached", "remote", r.RemoteAddr, "connections", total)

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		remaining := len(h.conns)
		h.mu.Unlock()
		_ = ws.Close()
		slog.Info("hub: window detached", "remote", r.RemoteAddr, "connections", remaining)
	}()

	for {
		var env Envelope
		if err := ws.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("hub: read failed", "remote", r.RemoteAddr, "err", err)
			}
			return
		}
		if env.Topic == "" {
			slog.Warn("hub: dropping envelope without topic", "remote", r.RemoteAddr)
			continue
		}
		h.relay(env, conn)
	}
}

// relay fans env out to every connection except origin.
func (h *Hub) relay(env Envelope, origin *hubConn) {
	h.mu.Lock()
	targets := make([]*hubConn, 0, len(h.conns))
	for c := range h.conns {
		if c != origin {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.write(env); err != nil {
			slog.Warn("hub: relay write failed", "topic", env.Topic, "err", err)
		}
	}
}
