package main

import (
	"fmt"
	"os"

	"github.com/aretw0/patrol/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "patrol",
	Short: "Patrol simulates a guard walking a grid",
	Long: `Patrol traces an agent that walks straight and turns right at obstacles,
reports the cells it covers, and finds every cell where one new obstacle would
trap it in a loop.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "patrol.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if f := flags.Lookup("workers"); f != nil && f.Changed {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if f := flags.Lookup("exhaustive"); f != nil && f.Changed {
		cfg.Exhaustive, _ = flags.GetBool("exhaustive")
	}
	if f := flags.Lookup("port"); f != nil && f.Changed {
		cfg.HTTP.Port, _ = flags.GetInt("port")
	}
	return cfg, cfg.Validate()
}
