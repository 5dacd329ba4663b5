// Package contextbus is the legacy single-topic variant of the broadcast
// system: one last-value cache, no channels, immediate replay to new
// subscribers. Apps that only ever track "the current instrument" use
// this instead of joining a channel.
package contextbus

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bhushanpoojary/findesktop/internal/schema"
)

// Event wraps one broadcast for the raw event tap.
type Event struct {
	Context   schema.Context
	Timestamp time.Time
}

type contextSub struct {
	id int
	fn func(schema.Context)
}

type eventSub struct {
	id int
	fn func(Event)
}

// Bus holds the last broadcast context and two independent subscriber
// sets: typed "latest value" consumers and untyped "every event"
// consumers used for logging. Lifetime is the lifetime of the instance;
// nothing is persisted.
type Bus struct {
	mu          sync.Mutex
	last        schema.Context
	hasLast     bool
	contextSubs []contextSub
	eventSubs   []eventSub
	nextID      int
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{}
}

// BroadcastInstrument stores ctx as the last context, then synchronously
// notifies all context subscribers and all event subscribers.
func (b *Bus) BroadcastInstrument(ctx schema.Context) {
	b.mu.Lock()
	b.last = ctx
	b.hasLast = true
	ctxSubs := make([]contextSub, len(b.contextSubs))
	copy(ctxSubs, b.contextSubs)
	evSubs := make([]eventSub, len(b.eventSubs))
	copy(evSubs, b.eventSubs)
	b.mu.Unlock()

	ev := Event{Context: ctx, Timestamp: time.Now()}
	for _, s := range ctxSubs {
		invokeContext(s.fn, ctx)
	}
	for _, s := range evSubs {
		invokeEvent(s.fn, ev)
	}
}

// SubscribeContext registers fn for the latest value. If a last context
// already exists the handler is invoked immediately with the cached
// value, then on every subsequent broadcast.
func (b *Bus) SubscribeContext(fn func(schema.Context)) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.contextSubs = append(b.contextSubs, contextSub{id: id, fn: fn})
	replay := b.hasLast
	last := b.last
	b.mu.Unlock()

	if replay {
		invokeContext(fn, last)
	}
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.contextSubs {
			if s.id == id {
				b.contextSubs = append(b.contextSubs[:i], b.contextSubs[i+1:]...)
				return
			}
		}
	}
}

// SubscribeEvents registers fn for every broadcast as a discrete event.
// No replay of the cached value.
func (b *Bus) SubscribeEvents(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.eventSubs = append(b.eventSubs, eventSub{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.eventSubs {
			if s.id == id {
				b.eventSubs = append(b.eventSubs[:i], b.eventSubs[i+1:]...)
				return
			}
		}
	}
}

// LastContext returns the cached context, if any.
func (b *Bus) LastContext() (schema.Context, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.hasLast
}

func invokeContext(fn func(schema.Context), ctx schema.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("context subscriber panicked", "contextType", ctx.Type(), "panic", rec)
		}
	}()
	fn(ctx)
}

func invokeEvent(fn func(Event), ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("event subscriber panicked", "contextType", ev.Context.Type(), "panic", rec)
		}
	}()
	fn(ev)
}
