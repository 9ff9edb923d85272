package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/patrol/internal/cli"
	"github.com/spf13/cobra"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage stored analysis reports",
	Long:  `List, inspect, and remove reports saved by 'patrol analyze' or the HTTP API.`,
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		ids, err := p.Store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing reports: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No reports found.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Print a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		report, err := p.Store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading report '%s': %w", args[0], err)
		}

		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete <report-id>...",
	Short: "Remove one or more reports",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		var failed int
		for _, id := range args {
			if err := p.Store.Delete(cmd.Context(), id); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", id, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed report '%s'\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d reports could not be removed", failed, len(args))
		}
		return nil
	},
}

func openStore(cmd *cobra.Command) (*cli.Persistence, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := cli.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	return cli.NewPersistence(cmd.Context(), cfg, logger)
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
	reportsCmd.AddCommand(reportsDeleteCmd)
}
