package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bhushanpoojary/findesktop/internal/config"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List configured channels",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		fmt.Printf("%-10s %-16s %s\n", "ID", "NAME", "COLOR")
		for _, ch := range cfg.Channels {
			fmt.Printf("%-10s %-16s %s\n", ch.ID, ch.DisplayName, ch.Color)
		}
		return nil
	},
}
