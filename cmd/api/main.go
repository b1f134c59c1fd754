package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/isail-maritime/crew-rotation-api/internal/platform/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "crew-rotation-api",
	Short:         "Crew rotation matching service",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (CREW_* environment variables override it)")
	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newMatchCmd(), newProjectCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}
