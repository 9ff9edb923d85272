package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/patrol/internal/cli"
	"github.com/aretw0/patrol/pkg/domain"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run trace and search, and persist the result as a report",
	Long: `Runs the full analysis and saves it to the configured report store.
A grid that was already analyzed is served from the store unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := cli.NewLogger(cfg)
		if err != nil {
			return err
		}
		eng, err := cli.NewEngine(cfg, logger)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		p, err := cli.NewPersistence(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer p.Close()
		mgr := cli.NewManager(eng, p, logger)

		path := "-"
		if len(args) > 0 {
			path = args[0]
		}
		data, err := cli.ReadInput(path, cmd.InOrStdin())
		if err != nil {
			return err
		}

		var report *domain.Report
		cached := false
		if force, _ := cmd.Flags().GetBool("force"); force {
			report, err = mgr.Reanalyze(ctx, data)
		} else {
			report, cached, err = mgr.Analyze(ctx, data)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		printReport(cmd, report)
		if cached {
			fmt.Fprintln(out, "(cached)")
		}
		return nil
	},
}

func printReport(cmd *cobra.Command, r *domain.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "report:     %s\n", r.ID)
	fmt.Fprintf(out, "grid:       %dx%d, %d obstacles, start %s facing %s\n", r.Width, r.Height, r.Obstacles, r.Start, r.Heading)
	fmt.Fprintf(out, "baseline:   %s\n", r.Baseline)
	fmt.Fprintf(out, "visited:    %d\n", r.Visited)
	fmt.Fprintf(out, "candidates: %d\n", r.Candidates)
	fmt.Fprintf(out, "loops:      %d\n", r.LoopCount())
	if len(r.Blocked) > 0 {
		fmt.Fprintf(out, "blocked:    %d\n", len(r.Blocked))
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().Bool("json", false, "Print the report as JSON")
	analyzeCmd.Flags().Bool("force", false, "Recompute even if a report for this grid exists")
	analyzeCmd.Flags().Bool("exhaustive", false, "Probe every empty cell instead of only the baseline trail")
	analyzeCmd.Flags().Int("workers", 0, "Concurrent probes (0 = one per CPU)")
}
