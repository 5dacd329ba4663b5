// Package agent assembles the interop core into the single surface the
// shell/UI layer talks to: channel management, broadcast routing, the
// legacy context bus and intent resolution, bridged across windows over
// the transport bus.
package agent

import (
	"context"

	"github.com/google/uuid"

	"github.com/bhushanpoojary/findesktop/internal/broadcast"
	"github.com/bhushanpoojary/findesktop/internal/channels"
	"github.com/bhushanpoojary/findesktop/internal/contextbus"
	"github.com/bhushanpoojary/findesktop/internal/directory"
	"github.com/bhushanpoojary/findesktop/internal/intents"
	"github.com/bhushanpoojary/findesktop/internal/schema"
	"github.com/bhushanpoojary/findesktop/internal/transport"
)

// DesktopAgent is the interop core's boundary surface. One instance
// lives per window process; instances on the same desktop find each
// other through the transport bus.
type DesktopAgent struct {
	id string // origin id for the transport echo guard

	dir        *directory.Directory
	registry   *channels.Registry
	router     *broadcast.Router
	contextBus *contextbus.Bus
	resolver   *intents.Resolver
	bus        transport.Bus

	stopBridge []func()
}

// New wires a DesktopAgent over the given collaborators and attaches the
// transport bridge. Call Close to detach the bridge subscriptions.
func New(
	dir *directory.Directory,
	registry *channels.Registry,
	router *broadcast.Router,
	contextBus *contextbus.Bus,
	resolver *intents.Resolver,
	bus transport.Bus,
) *DesktopAgent {
	a := &DesktopAgent{
		id:         uuid.NewString(),
		dir:        dir,
		registry:   registry,
		router:     router,
		contextBus: contextBus,
		resolver:   resolver,
		bus:        bus,
	}
	a.attachBridge()
	return a
}

// ID returns this agent instance's origin id.
func (a *DesktopAgent) ID() string { return a.id }

// Directory returns the app directory for shell listing UIs.
func (a *DesktopAgent) Directory() *directory.Directory { return a.dir }

// Close detaches the transport bridge. Registries and subscribers remain
// usable locally afterwards.
func (a *DesktopAgent) Close() {
	for _, stop := range a.stopBridge {
		stop()
	}
	a.stopBridge = nil
}

// ─── Channels ──────────────────────────────────────────────────────────────

// CreateChannel registers a channel (last-write-wins on id collision).
func (a *DesktopAgent) CreateChannel(ch schema.Channel) schema.Channel {
	return a.registry.CreateChannel(ch)
}

// GetChannel returns the channel definition for id.
func (a *DesktopAgent) GetChannel(id string) (schema.Channel, bool) {
	return a.registry.Channel(id)
}

// GetAllChannels returns every channel in creation order.
func (a *DesktopAgent) GetAllChannels() []schema.Channel {
	return a.registry.Channels()
}

// JoinChannel moves window onto channelID, replacing any prior membership.
func (a *DesktopAgent) JoinChannel(window schema.WindowID, channelID string) error {
	return a.registry.JoinChannel(window, channelID)
}

// LeaveChannel clears window's membership.
func (a *DesktopAgent) LeaveChannel(window schema.WindowID) {
	a.registry.LeaveChannel(window)
}

// GetWindowChannel returns window's current channel.
func (a *DesktopAgent) GetWindowChannel(window schema.WindowID) (string, bool) {
	return a.registry.WindowChannel(window)
}

// SubscribeJoins exposes registry join events for shell chrome.
func (a *DesktopAgent) SubscribeJoins(fn func(channels.JoinEvent)) func() {
	return a.registry.SubscribeJoins(fn)
}

// SubscribeLeaves exposes registry leave events for shell chrome.
func (a *DesktopAgent) SubscribeLeaves(fn func(channels.LeaveEvent)) func() {
	return a.registry.SubscribeLeaves(fn)
}

// ─── Broadcasts ────────────────────────────────────────────────────────────

// Broadcast delivers ctx to all current members of channelID in this
// window and republishes the event to other windows over the transport.
func (a *DesktopAgent) Broadcast(channelID string, ctx schema.Context, sender schema.WindowID) error {
	event, err := a.router.Emit(channelID, ctx, sender)
	if err != nil {
		return err
	}
	a.publishBroadcast(event)
	return nil
}

// SubscribeToBroadcasts registers a window-keyed broadcast handler.
func (a *DesktopAgent) SubscribeToBroadcasts(window schema.WindowID, fn broadcast.Handler) func() {
	return a.router.SubscribeBroadcasts(window, fn)
}

// SubscribeToAllBroadcasts registers a monitoring handler.
func (a *DesktopAgent) SubscribeToAllBroadcasts(fn broadcast.Handler) func() {
	return a.router.SubscribeAll(fn)
}

// ─── Context bus (legacy single-topic) ─────────────────────────────────────

// ContextBus returns the legacy single-topic bus.
func (a *DesktopAgent) ContextBus() *contextbus.Bus { return a.contextBus }

// BroadcastInstrument pushes ctx onto the legacy bus locally and across
// windows.
func (a *DesktopAgent) BroadcastInstrument(ctx schema.Context) {
	a.contextBus.BroadcastInstrument(ctx)
	a.publishInstrument(ctx)
}

// ─── Intents ───────────────────────────────────────────────────────────────

// RaiseIntent resolves and activates an app for intent, delivering c.
func (a *DesktopAgent) RaiseIntent(ctx context.Context, intent string, c schema.Context) (schema.IntentResolution, error) {
	return a.resolver.RaiseIntent(ctx, intent, c)
}
