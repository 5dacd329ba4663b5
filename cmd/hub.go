package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bhushanpoojary/findesktop/internal/config"
	"github.com/bhushanpoojary/findesktop/internal/dependency"
	"github.com/bhushanpoojary/findesktop/internal/transport"
)

var (
	hubAddr    string
	hubVerbose bool
)

var hubCmd = &cobra.Command{
	Use:   "hub",
	Short: "Run the cross-window message hub",
	Long:  "Runs the loopback websocket hub all desktop windows attach to, plus any configured schedules.",
	RunE:  runHub,
}

func init() {
	hubCmd.Flags().StringVarP(&hubAddr, "addr", "a", "", "Listen address (overrides config)")
	hubCmd.Flags().BoolVarP(&hubVerbose, "verbose", "v", false, "Verbose logging")
}

func runHub(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if hubAddr != "" {
		cfg.Hub.Addr = hubAddr
	}
	if hubVerbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := transport.NewHub(cfg.Hub.Addr, cfg.Hub.Path)

	// The hub process hosts the scheduler; its broadcasts reach other
	// windows through a regular client attached to our own hub.
	client := transport.NewClient(cfg.Hub.Addr, cfg.Hub.Path)
	container, err := dependency.New(cfg, dependency.Options{Bus: client})
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}
	defer container.Agent().Close()

	fmt.Printf("findesktop hub listening on %s%s\n", cfg.Hub.Addr, cfg.Hub.Path)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Start(ctx) })
	g.Go(func() error { return client.Start(ctx) })
	g.Go(func() error { return container.Scheduler().Start(ctx) })
	g.Go(func() error { return statsLoop(ctx, hub) })

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// statsLoop periodically logs hub occupancy for operators tailing the log.
func statsLoop(ctx context.Context, hub *transport.Hub) error {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			slog.Info("hub: stats", "connections", hub.ConnCount())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
