// Package channels owns the named channel set and per-window membership.
//
// A window belongs to at most one channel at any instant: joining a new
// channel atomically replaces the previous membership.
package channels

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bhushanpoojary/findesktop/internal/schema"
)

// ErrChannelNotFound is returned when an operation references an
// unregistered channel id.
var ErrChannelNotFound = errors.New("channel not found")

// JoinEvent is delivered to join subscribers on every successful join.
// PreviousChannelID is "" when the window had no prior membership.
type JoinEvent struct {
	Window            schema.WindowID
	ChannelID         string
	PreviousChannelID string
}

// LeaveEvent is delivered to leave subscribers when a window leaves a
// channel. Synthetic marks the implicit leave generated when a join
// replaces an existing membership.
type LeaveEvent struct {
	Window    schema.WindowID
	ChannelID string
	Synthetic bool
}

type joinSub struct {
	id int
	fn func(JoinEvent)
}

type leaveSub struct {
	id int
	fn func(LeaveEvent)
}

// Registry owns channel definitions and window membership. All mutation
// goes through its methods; dispatch to subscribers happens outside the
// lock on a snapshot, so handlers may re-enter the registry.
type Registry struct {
	mu         sync.Mutex
	channels   map[string]schema.Channel
	order      []string // channel ids in creation order
	membership map[schema.WindowID]string
	joinSubs   []joinSub
	leaveSubs  []leaveSub
	nextSubID  int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		channels:   make(map[string]schema.Channel),
		membership: make(map[schema.WindowID]string),
	}
}

// CreateChannel registers a channel. An id collision overwrites the
// previous definition (last-write-wins) and keeps its creation-order
// position; channels are typically seeded once at startup, so
// redefinition is a deliberate refresh rather than an error.
func (r *Registry) CreateChannel(ch schema.Channel) schema.Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.channels[ch.ID]; !exists {
		r.order = append(r.order, ch.ID)
	}
	r.channels[ch.ID] = ch
	slog.Debug("channel registered", "id", ch.ID, "name", ch.DisplayName)
	return ch
}

// Channel returns the definition for id.
func (r *Registry) Channel(id string) (schema.Channel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[id]
	return ch, ok
}

// Channels returns all definitions in creation order.
func (r *Registry) Channels() []schema.Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]schema.Channel, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.channels[id])
	}
	return out
}

// HasChannel reports whether id is registered.
func (r *Registry) HasChannel(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.channels[id]
	return ok
}

// JoinChannel makes window a member of channelID, atomically replacing
// any previous membership. Observers see exactly one join event; when a
// prior membership is replaced, leave subscribers additionally receive a
// synthetic leave for the old channel. Joining the current channel again
// is an idempotent no-op with no events.
func (r *Registry) JoinChannel(window schema.WindowID, channelID string) error {
	r.mu.Lock()
	if _, ok := r.channels[channelID]; !ok {
		r.mu.Unlock()
		return fmt.Errorf("join %q: %w", channelID, ErrChannelNotFound)
	}

	prev := r.membership[window]
	if prev == channelID {
		r.mu.Unlock()
		return nil
	}
	r.membership[window] = channelID
	joins := snapshotJoins(r.joinSubs)
	leaves := snapshotLeaves(r.leaveSubs)
	r.mu.Unlock()

	slog.Debug("window joined channel", "window", window, "channel", channelID, "previous", prev)
	if prev != "" {
		ev := LeaveEvent{Window: window, ChannelID: prev, Synthetic: true}
		for _, fn := range leaves {
			fn(ev)
		}
	}
	ev := JoinEvent{Window: window, ChannelID: channelID, PreviousChannelID: prev}
	for _, fn := range joins {
		fn(ev)
	}
	return nil
}

// LeaveChannel clears window's membership. No-op when the window has none.
func (r *Registry) LeaveChannel(window schema.WindowID) {
	r.mu.Lock()
	prev, ok := r.membership[window]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.membership, window)
	leaves := snapshotLeaves(r.leaveSubs)
	r.mu.Unlock()

	slog.Debug("window left channel", "window", window, "channel", prev)
	ev := LeaveEvent{Window: window, ChannelID: prev}
	for _, fn := range leaves {
		fn(ev)
	}
}

// WindowChannel returns the channel window currently belongs to.
func (r *Registry) WindowChannel(window schema.WindowID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.membership[window]
	return id, ok
}

// ChannelMembers returns every window currently joined to channelID.
// Linear scan over membership; intended for observability UIs, not hot paths.
func (r *Registry) ChannelMembers(channelID string) []schema.WindowID {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []schema.WindowID
	for w, id := range r.membership {
		if id == channelID {
			out = append(out, w)
		}
	}
	return out
}

// SubscribeJoins registers fn for every successful join.
// The returned func removes the subscription.
func (r *Registry) SubscribeJoins(fn func(JoinEvent)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSubID++
	id := r.nextSubID
	r.joinSubs = append(r.joinSubs, joinSub{id: id, fn: fn})
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.joinSubs {
			if s.id == id {
				r.joinSubs = append(r.joinSubs[:i], r.joinSubs[i+1:]...)
				return
			}
		}
	}
}

// SubscribeLeaves registers fn for every leave, including the synthetic
// leave fired when a join replaces an existing membership.
func (r *Registry) SubscribeLeaves(fn func(LeaveEvent)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSubID++
	id := r.nextSubID
	r.leaveSubs = append(r.leaveSubs, leaveSub{id: id, fn: fn})
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.leaveSubs {
			if s.id == id {
				r.leaveSubs = append(r.leaveSubs[:i], r.leaveSubs[i+1:]...)
				return
			}
		}
	}
}

func snapshotJoins(subs []joinSub) []func(JoinEvent) {
	out := make([]func(JoinEvent), len(subs))
	for i, s := range subs {
		out[i] = s.fn
	}
	return out
}

func snapshotLeaves(subs []leaveSub) []func(LeaveEvent) {
	out := make([]func(LeaveEvent), len(subs))
	for i, s := range subs {
		out[i] = s.fn
	}
	return out
}
