package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bhushanpoojary/findesktop/internal/config"
	"github.com/bhushanpoojary/findesktop/internal/transport"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Tail every event crossing the hub",
	Long:  "Attaches to the hub and prints every broadcast, intent and diagnostic event, regardless of channel membership.",
	RunE:  runMonitor,
}

func runMonitor(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := transport.NewClient(cfg.Hub.Addr, cfg.Hub.Path)

	client.Subscribe(transport.TopicChannelBroadcast, func(payload []byte) {
		var msg transport.BroadcastMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			return
		}
		printEvent("broadcast", fmt.Sprintf("channel=%s sender=%s type=%s",
			msg.Event.ChannelID, msg.Event.SenderWindowID, msg.Event.Context.Type()))
	})
	client.Subscribe(transport.TopicInstrument, func(payload []byte) {
		var msg transport.InstrumentMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			return
		}
		printEvent("instrument", fmt.Sprintf("ticker=%v", msg.Context["ticker"]))
	})
	client.Subscribe(transport.TopicIntentRaised, func(payload []byte) {
		var n transport.IntentNotice
		if err := json.Unmarshal(payload, &n); err != nil {
			return
		}
		printEvent("intent", fmt.Sprintf("%s -> %s (%s)", n.Intent, n.AppID, n.AppTitle))
	})
	client.Subscribe(transport.TopicIntentError, func(payload []byte) {
		var e transport.IntentError
		if err := json.Unmarshal(payload, &e); err != nil {
			return
		}
		printEvent("intent-error", fmt.Sprintf("%s: %s", e.Intent, e.Reason))
	})
	for _, app := range cfg.Apps {
		app := app
		client.Subscribe(transport.AppTopic(app.ID), func(payload []byte) {
			var n transport.IntentNotice
			if err := json.Unmarshal(payload, &n); err != nil {
				return
			}
			printEvent("app-message", fmt.Sprintf("to=%s intent=%s", app.ID, n.Intent))
		})
	}

	fmt.Printf("monitoring %s%s (ctrl-c to stop)\n", cfg.Hub.Addr, cfg.Hub.Path)
	err = client.Start(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

func printEvent(kind, detail string) {
	fmt.Printf("%s  %-12s %s\n", time.Now().Format("15:04:05.000"), kind, detail)
}
