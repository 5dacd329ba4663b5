// Package config defines the configuration schema for findesktop.
//
// JSON keys use camelCase so the same config files can be read by the
// shell/UI layer.
package config

import (
	"github.com/bhushanpoojary/findesktop/internal/schema"
)

// HubConfig configures the local websocket hub that fans broadcasts out
// to other OS-level windows.
type HubConfig struct {
	Addr string `json:"addr" yaml:"addr"` // listen/dial address, loopback only
	Path string `json:"path" yaml:"path"` // websocket endpoint path
}

func defaultHubConfig() HubConfig {
	return HubConfig{Addr: "127.0.0.1:18990", Path: "/bus"}
}

// ScheduleConfig declares one recurring broadcast, e.g. a market-clock
// announcement pushed onto a channel on a cron schedule.
type ScheduleConfig struct {
	Name    string         `json:"name" yaml:"name"`
	Cron    string         `json:"cron" yaml:"cron"` // robfig/cron expression
	Channel string         `json:"channel" yaml:"channel"`
	Context map[string]any `json:"context" yaml:"context"`
}

// Config is the root configuration object.
type Config struct {
	Channels  []schema.Channel       `json:"channels" yaml:"channels"`
	Apps      []schema.AppDefinition `json:"apps" yaml:"apps"`
	Hub       HubConfig              `json:"hub" yaml:"hub"`
	Schedules []ScheduleConfig       `json:"schedules,omitempty" yaml:"schedules,omitempty"`
}

// DefaultConfig seeds the standard channel set and the demo finance app
// directory used when no config file exists yet.
func DefaultConfig() Config {
	return Config{
		Channels: []schema.Channel{
			{ID: "red", DisplayName: "Red", Color: "#ff4d4d"},
			{ID: "blue", DisplayName: "Blue", Color: "#4d79ff"},
			{ID: "green", DisplayName: "Green", Color: "#2eb82e"},
			{ID: "yellow", DisplayName: "Yellow", Color: "#e6b800"},
		},
		Apps: []schema.AppDefinition{
			{
				ID:          "chart",
				Title:       "Chart",
				ComponentID: "chart-panel",
				Intents:     []string{"ViewChart"},
				DefaultForIntents: []string{
					"ViewChart",
				},
			},
			{
				ID:          "blotter",
				Title:       "Trade Blotter",
				ComponentID: "blotter-grid",
				Intents:     []string{"ViewTrades", "ViewChart"},
			},
			{
				ID:          "news",
				Title:       "News Feed",
				ComponentID: "news-panel",
				Intents:     []string{"ViewNews"},
				DefaultForIntents: []string{
					"ViewNews",
				},
			},
			{
				ID:          "trade-ticket",
				Title:       "Trade Ticket",
				ComponentID: "ticket-form",
				Intents:     []string{"Trade"},
			},
		},
		Hub: defaultHubConfig(),
	}
}
