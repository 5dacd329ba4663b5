package transport

import (
	"time"

	"github.com/bhushanpoojary/findesktop/internal/schema"
)

// Topic names shared by every window on the desktop.
const (
	// TopicChannelBroadcast carries BroadcastMessage frames: every
	// channel broadcast, bridged across windows.
	TopicChannelBroadcast = "channel.broadcast"

	// TopicIntentRaised carries IntentNotice frames for successfully
	// resolved intents.
	TopicIntentRaised = "intent.raised"

	// TopicIntentError carries IntentError frames: the diagnostic event
	// published on every failed resolution.
	TopicIntentError = "intent.error"

	// TopicInstrument carries the legacy single-topic context bus
	// traffic between windows.
	TopicInstrument = "context.instrument"
)

// AppTopic returns the app-targeted topic for id, e.g. "app.chart".
func AppTopic(appID string) string {
	return "app." + appID
}

// BroadcastMessage is the TopicChannelBroadcast frame. Origin is the
// publishing agent's instance id; bridges drop frames whose origin
// matches their own to avoid echo loops.
type BroadcastMessage struct {
	Origin string                `json:"origin"`
	Event  schema.BroadcastEvent `json:"event"`
}

// InstrumentMessage is the TopicInstrument frame for the legacy
// single-topic context bus. Same origin echo guard as BroadcastMessage.
type InstrumentMessage struct {
	Origin    string         `json:"origin"`
	Context   schema.Context `json:"context"`
	Timestamp time.Time      `json:"timestamp"`
}

// IntentNotice is published on TopicIntentRaised and, scoped to the
// chosen app, on AppTopic(AppID).
type IntentNotice struct {
	Intent    string         `json:"intent"`
	Context   schema.Context `json:"context"`
	AppID     string         `json:"appId"`
	AppTitle  string         `json:"appTitle"`
	Timestamp time.Time      `json:"timestamp"`
}

// IntentError is the diagnostic frame published before any RaiseIntent
// failure surfaces to the caller, so monitoring tools observe failed
// resolutions too.
type IntentError struct {
	Intent    string         `json:"intent"`
	Context   schema.Context `json:"context"`
	Reason    string         `json:"reason"`
	Timestamp time.Time      `json:"timestamp"`
}
