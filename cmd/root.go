// Package cmd implements the findesktop CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var configPath string

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "findesktop",
	Short: "findesktop — desktop application interop core",
	Long:  "findesktop — context channels and intent resolution for desktop windows",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.findesktop/config.json)")

	rootCmd.AddCommand(hubCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(channelsCmd)
	rootCmd.AddCommand(appsCmd)
}
