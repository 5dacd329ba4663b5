package agent

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/bhushanpoojary/findesktop/internal/channels"
	"github.com/bhushanpoojary/findesktop/internal/schema"
	"github.com/bhushanpoojary/findesktop/internal/transport"
)

// attachBridge wires the transport subscriptions that carry broadcasts
// and legacy context traffic between windows. Frames tagged with this
// agent's own origin id are dropped: the local router already delivered
// them, and without the guard two agents would relay each other's
// injections forever.
func (a *DesktopAgent) attachBridge() {
	unsubBroadcast := a.bus.Subscribe(transport.TopicChannelBroadcast, a.onRemoteBroadcast)
	unsubInstrument := a.bus.Subscribe(transport.TopicInstrument, a.onRemoteInstrument)
	a.stopBridge = append(a.stopBridge, unsubBroadcast, unsubInstrument)
}

func (a *DesktopAgent) publishBroadcast(event schema.BroadcastEvent) {
	msg := transport.BroadcastMessage{Origin: a.id, Event: event}
	if err := a.bus.Publish(transport.TopicChannelBroadcast, msg); err != nil {
		slog.Warn("broadcast bridge publish failed", "channel", event.ChannelID, "err", err)
	}
}

func (a *DesktopAgent) publishInstrument(ctx schema.Context) {
	msg := transport.InstrumentMessage{Origin: a.id, Context: ctx, Timestamp: time.Now()}
	if err := a.bus.Publish(transport.TopicInstrument, msg); err != nil {
		slog.Warn("instrument bridge publish failed", "err", err)
	}
}

func (a *DesktopAgent) onRemoteBroadcast(payload []byte) {
	var msg transport.BroadcastMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		slog.Warn("broadcast bridge: bad frame", "err", err)
		return
	}
	if msg.Origin == a.id {
		return
	}
	if err := a.router.Dispatch(msg.Event); err != nil {
		// A channel seeded in the remote window but not here: log and
		// drop, membership cannot exist for an unknown channel anyway.
		if errors.Is(err, channels.ErrChannelNotFound) {
			slog.Debug("broadcast bridge: unknown channel", "channel", msg.Event.ChannelID)
			return
		}
		slog.Warn("broadcast bridge: dispatch failed", "channel", msg.Event.ChannelID, "err", err)
	}
}

func (a *DesktopAgent) onRemoteInstrument(payload []byte) {
	var msg transport.InstrumentMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		slog.Warn("instrument bridge: bad frame", "err", err)
		return
	}
	if msg.Origin == a.id {
		return
	}
	a.contextBus.BroadcastInstrument(msg.Context)
}
