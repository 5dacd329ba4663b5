package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// startTestHub serves a Hub over httptest and returns its host:port.
func startTestHub(t *testing.T) (*Hub, string) {
	t.Helper()
	h := NewHub("unused", "/bus")
	srv := httptest.NewServer(http.HandlerFunc(h.handleWS))
	t.Cleanup(srv.Close)
	return h, strings.TrimPrefix(srv.URL, "http://")
}

// startTestClient connects a Client to the hub and waits for the dial.
func startTestClient(t *testing.T, addr string) *Client {
	t.Helper()
	c := NewClient(addr, "/bus")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = c.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !c.Connected() {
		if time.Now().After(deadline) {
			t.Fatal("client did not connect to hub")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return c
}

func TestHub_RelaysBetweenClients(t *testing.T) {
	hub, addr := startTestHub(t)
	sender := startTestClient(t, addr)
	receiver := startTestClient(t, addr)

	if n := hub.ConnCount(); n != 2 {
		t.Fatalf("expected 2 attached windows, got %d", n)
	}

	got := make(chan []byte, 1)
	receiver.Subscribe(TopicChannelBroadcast, func(payload []byte) {
		got <- payload
	})

	if err := sender.Publish(TopicChannelBroadcast, map[string]string{"ticker": "AAPL"}); err != nil {
		t.Fatal(err)
	}

	select {
	case payload := <-got:
		if !strings.Contains(string(payload), "AAPL") {
			t.Errorf("unexpected payload: %s", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("receiver never saw the relayed envelope")
	}
}

func TestHub_DoesNotEchoToOrigin(t *testing.T) {
	_, addr := startTestHub(t)
	sender := startTestClient(t, addr)
	receiver := startTestClient(t, addr)

	senderGot := make(chan struct{}, 1)
	sender.Subscribe(TopicChannelBroadcast, func([]byte) {
		senderGot <- struct{}{}
	})
	receiverGot := make(chan struct{}, 1)
	receiver.Subscribe(TopicChannelBroadcast, func([]byte) {
		receiverGot <- struct{}{}
	})

	if err := sender.Publish(TopicChannelBroadcast, map[string]string{"ticker": "MSFT"}); err != nil {
		t.Fatal(err)
	}

	select {
	case <-receiverGot:
	case <-time.After(2 * time.Second):
		t.Fatal("receiver never saw the envelope")
	}
	select {
	case <-senderGot:
		t.Fatal("hub must not echo an envelope back to its origin")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestClient_PublishWithoutConnection(t *testing.T) {
	c := NewClient("127.0.0.1:1", "/bus")
	if err := c.Publish(TopicIntentRaised, "x"); err == nil {
		t.Fatal("expected error when hub is not connected")
	}
}
