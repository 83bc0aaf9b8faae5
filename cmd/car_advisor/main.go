// Package main provides the car_advisor CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// configPath is the --config flag shared by every command.
var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "car_advisor",
		Short:         "Car recommendation engine and AI car advisor",
		Long:          "car_advisor ranks a car catalog against buyer preferences and serves the recommendation and AI advisor REST API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default $CONFIG_PATH or ./config.yaml)")

	root.AddCommand(
		newServeCmd(),
		newRecommendCmd(),
		newCatalogCmd(),
		newMigrateCmd(),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
