package schema

import "time"

// WindowID identifies one desktop window for membership and routing.
type WindowID string

// Channel is a named, colored communication group. Identity is ID;
// DisplayName and Color are descriptive only.
type Channel struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Color       string `json:"color" yaml:"color"`
}

// AppDefinition describes one registered application and the intents it
// can fulfil. Loaded once from config; read-only at runtime.
type AppDefinition struct {
	ID                string   `json:"id" yaml:"id"`
	Title             string   `json:"title" yaml:"title"`
	ComponentID       string   `json:"componentId" yaml:"componentId"`
	Intents           []string `json:"intents" yaml:"intents"`
	DefaultForIntents []string `json:"defaultForIntents" yaml:"defaultForIntents"`
}

// HandlesIntent reports whether the app declares intent in its Intents list.
func (a AppDefinition) HandlesIntent(intent string) bool {
	for _, name := range a.Intents {
		if name == intent {
			return true
		}
	}
	return false
}

// DefaultForIntent reports whether the app is the declared default for intent.
func (a AppDefinition) DefaultForIntent(intent string) bool {
	for _, name := range a.DefaultForIntents {
		if name == intent {
			return true
		}
	}
	return false
}

// BroadcastEvent is created on every broadcast call and consumed
// synchronously by all current listeners. Never persisted.
type BroadcastEvent struct {
	ID             string    `json:"id"`
	ChannelID      string    `json:"channelId"`
	SenderWindowID WindowID  `json:"senderWindowId"`
	Context        Context   `json:"context"`
	Timestamp      time.Time `json:"timestamp"`
}

// IntentResolution is the result of a successful RaiseIntent call.
type IntentResolution struct {
	Intent   string `json:"intent"`
	AppID    string `json:"appId"`
	AppTitle string `json:"appTitle"`
}
