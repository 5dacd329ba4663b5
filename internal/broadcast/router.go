// Package broadcast delivers context payloads to every window joined to
// a channel, plus a monitoring tap that observes all traffic.
package broadcast

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bhushanpoojary/findesktop/internal/channels"
	"github.com/bhushanpoojary/findesktop/internal/schema"
)

// Handler receives one broadcast event.
type Handler func(schema.BroadcastEvent)

type windowSub struct {
	id     int
	window schema.WindowID
	fn     Handler
}

type monitorSub struct {
	id int
	fn Handler
}

// Router fans broadcasts out to channel members. It owns no membership
// state of its own; membership is read from the channel registry fresh at
// delivery time, so windows can switch channels without re-subscribing.
type Router struct {
	registry *channels.Registry

	mu       sync.Mutex
	subs     []windowSub
	monitors []monitorSub
	nextID   int
}

// NewRouter creates a Router reading membership from registry.
func NewRouter(registry *channels.Registry) *Router {
	return &Router{registry: registry}
}

// Broadcast delivers ctx to every window currently joined to channelID,
// in subscription-registration order, then to every monitor subscriber.
// Unregistered channels fail with ErrChannelNotFound; a channel with zero
// members is a valid no-op.
//
// The sender is not excluded: if the sending window is a member of the
// target channel it receives its own broadcast. Apps that mutate local UI
// state on receipt must tolerate their own events.
func (r *Router) Broadcast(channelID string, ctx schema.Context, sender schema.WindowID) error {
	_, err := r.Emit(channelID, ctx, sender)
	return err
}

// Emit is Broadcast returning the built event, so callers that bridge
// events to other windows can forward the exact same id and timestamp.
func (r *Router) Emit(channelID string, ctx schema.Context, sender schema.WindowID) (schema.BroadcastEvent, error) {
	event := schema.BroadcastEvent{
		ID:             uuid.NewString(),
		ChannelID:      channelID,
		SenderWindowID: sender,
		Context:        ctx,
		Timestamp:      time.Now(),
	}
	return event, r.Dispatch(event)
}

// Dispatch delivers an already-built event, preserving its id and
// timestamp. Used by the transport bridge to inject broadcasts that
// originated in another window.
func (r *Router) Dispatch(event schema.BroadcastEvent) error {
	if !r.registry.HasChannel(event.ChannelID) {
		return fmt.Errorf("broadcast to %q: %w", event.ChannelID, channels.ErrChannelNotFound)
	}

	r.mu.Lock()
	subs := make([]windowSub, len(r.subs))
	copy(subs, r.subs)
	monitors := make([]monitorSub, len(r.monitors))
	copy(monitors, r.monitors)
	r.mu.Unlock()

	for _, sub := range subs {
		member, ok := r.registry.WindowChannel(sub.window)
		if !ok || member != event.ChannelID {
			continue
		}
		r.invoke(sub.fn, event, string(sub.window))
	}
	for _, mon := range monitors {
		r.invoke(mon.fn, event, "monitor")
	}
	return nil
}

// invoke runs one handler with panic isolation: a misbehaving listener
// must never prevent delivery to the rest.
func (r *Router) invoke(fn Handler, event schema.BroadcastEvent, who string) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("broadcast handler panicked",
				"subscriber", who,
				"channel", event.ChannelID,
				"contextType", event.Context.Type(),
				"panic", rec)
		}
	}()
	fn(event)
}

// SubscribeBroadcasts registers a handler keyed by window identity. The
// handler fires only for broadcasts on whichever channel that window is a
// member of at the moment of each broadcast. Returns an unsubscribe func.
func (r *Router) SubscribeBroadcasts(window schema.WindowID, fn Handler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.subs = append(r.subs, windowSub{id: id, window: window, fn: fn})
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

// SubscribeAll registers a monitoring handler that fires for every
// broadcast on every channel, irrespective of membership. Used by
// diagnostic and event-log tooling.
func (r *Router) SubscribeAll(fn Handler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.monitors = append(r.monitors, monitorSub{id: id, fn: fn})
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.monitors {
			if s.id == id {
				r.monitors = append(r.monitors[:i], r.monitors[i+1:]...)
				return
			}
		}
	}
}
