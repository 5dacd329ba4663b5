package transport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

type memorySub struct {
	id int
	fn Handler
}

// MemoryBus is the in-process Bus implementation. Publish marshals the
// payload and delivers it synchronously to topic subscribers in
// registration order, so single-window shells and tests see the same
// wire shapes as hub-connected windows.
type MemoryBus struct {
	mu     sync.Mutex
	subs   map[string][]memorySub
	nextID int
}

// NewMemoryBus creates an empty MemoryBus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string][]memorySub)}
}

// Publish delivers payload to every subscriber of topic.
func (b *MemoryBus) Publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	b.mu.Lock()
	subs := make([]memorySub, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.Unlock()

	for _, s := range subs {
		deliver(s.fn, topic, data)
	}
	return nil
}

// Subscribe registers fn for topic and returns an unsubscribe func.
func (b *MemoryBus) Subscribe(topic string, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], memorySub{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[topic]
		for i, s := range list {
			if s.id == id {
				b.subs[topic] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

func deliver(fn Handler, topic string, data []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("transport subscriber panicked", "topic", topic, "panic", rec)
		}
	}()
	fn(data)
}
