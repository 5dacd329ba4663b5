package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type clientSub struct {
	id int
	fn Handler
}

// Client attaches one window to the Hub and implements Bus over it.
// Subscriptions are local: the client receives every relayed envelope
// and dispatches to whichever topic handlers are registered.
type Client struct {
	url string

	mu     sync.Mutex
	subs   map[string][]clientSub
	nextID int

	connMu  sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewClient creates a client for the hub at addr/path, e.g.
// ("127.0.0.1:18990", "/bus").
func NewClient(addr, path string) *Client {
	return &Client{
		url:  "ws://" + addr + path,
		subs: make(map[string][]clientSub),
	}
}

// Start dials the hub and pumps incoming envelopes to subscribers,
// reconnecting with a fixed backoff until ctx is cancelled.
func (c *Client) Start(ctx context.Context) error {
	for {
		if err := c.connectOnce(ctx); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

func (c *Client) connectOnce(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		slog.Warn("transport: dial failed", "url", c.url, "err", err)
		return err
	}
	c.setConn(conn)
	defer func() {
		c.setConn(nil)
		_ = conn.Close()
	}()
	slog.Info("transport: hub connected", "url", c.url)

	// Close the socket when ctx ends so ReadJSON unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if ctx.Err() == nil {
				slog.Warn("transport: read failed", "err", err)
			}
			return err
		}
		c.dispatch(env)
	}
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
}

// Connected reports whether the client currently holds a live connection.
func (c *Client) Connected() bool {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.conn != nil
}

// Publish sends payload to the hub on topic. Fails when the hub is not
// currently connected; callers treat that as shell-transport downtime.
func (c *Client) Publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return fmt.Errorf("publish %s: hub not connected", topic)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteJSON(Envelope{Topic: topic, Payload: data}); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe registers fn for topic and returns an unsubscribe func.
func (c *Client) Subscribe(topic string, fn Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.subs[topic] = append(c.subs[topic], clientSub{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		list := c.subs[topic]
		for i, s := range list {
			if s.id == id {
				c.subs[topic] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

func (c *Client) dispatch(env Envelope) {
	c.mu.Lock()
	subs := make([]clientSub, len(c.subs[env.Topic]))
	copy(subs, c.subs[env.Topic])
	c.mu.Unlock()

	for _, s := range subs {
		deliver(s.fn, env.Topic, env.Payload)
	}
}
