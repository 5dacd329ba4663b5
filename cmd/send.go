package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bhushanpoojary/findesktop/internal/config"
	"github.com/bhushanpoojary/findesktop/internal/schema"
	"github.com/bhushanpoojary/findesktop/internal/transport"
)

var (
	sendChannel string
	sendTicker  string
	sendJSON    string
	sendWindow  string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Publish a context onto a channel",
	Long:  "Connects to the hub and broadcasts a context payload on the given channel, as if a window had sent it.",
	RunE:  runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendChannel, "channel", "c", "red", "Target channel id")
	sendCmd.Flags().StringVarP(&sendTicker, "ticker", "t", "", "Shorthand for an instrument context")
	sendCmd.Flags().StringVarP(&sendJSON, "json", "j", "", "Raw context JSON (overrides --ticker)")
	sendCmd.Flags().StringVarP(&sendWindow, "window", "w", "cli", "Sender window id")
}

func runSend(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := schema.NewInstrumentContext(sendTicker)
	if sendJSON != "" {
		ctx = schema.Context{}
		if err := json.Unmarshal([]byte(sendJSON), &ctx); err != nil {
			return fmt.Errorf("parse --json: %w", err)
		}
	} else if sendTicker == "" {
		return fmt.Errorf("one of --ticker or --json is required")
	}

	client := transport.NewClient(cfg.Hub.Addr, cfg.Hub.Path)
	runCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go func() { _ = client.Start(runCtx) }()

	for !client.Connected() {
		if runCtx.Err() != nil {
			return fmt.Errorf("connect to hub at %s: timed out", cfg.Hub.Addr)
		}
		time.Sleep(20 * time.Millisecond)
	}

	msg := transport.BroadcastMessage{
		Origin: uuid.NewString(),
		Event: schema.BroadcastEvent{
			ID:             uuid.NewString(),
			ChannelID:      sendChannel,
			SenderWindowID: schema.WindowID(sendWindow),
			Context:        ctx,
			Timestamp:      time.Now(),
		},
	}
	if err := client.Publish(transport.TopicChannelBroadcast, msg); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	fmt.Printf("sent %s context on %s\n", ctx.Type(), sendChannel)
	return nil
}
