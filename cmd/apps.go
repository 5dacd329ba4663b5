package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bhushanpoojary/findesktop/internal/config"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List the app directory",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		fmt.Printf("%-14s %-18s %-24s %s\n", "ID", "TITLE", "INTENTS", "DEFAULT FOR")
		for _, app := range cfg.Apps {
			fmt.Printf("%-14s %-18s %-24s %s\n",
				app.ID,
				app.Title,
				strings.Join(app.Intents, ","),
				strings.Join(app.DefaultForIntents, ","))
		}
		return nil
	},
}
