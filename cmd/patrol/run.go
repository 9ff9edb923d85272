package main

import (
	"bytes"
	"os"

	"github.com/aretw0/patrol"
	"github.com/aretw0/patrol/internal/cli"
	"github.com/aretw0/patrol/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace [file]",
	Short: "Trace the baseline patrol and count visited cells",
	Long:  `Reads a grid ('.' empty, '#' obstacle, '^', '>', 'v' or '<' agent) from a file or stdin ("-") and reports how the patrol ends.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, eng, err := setupRun(cmd, args)
		if err != nil {
			return err
		}
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		_, err = r.Trace(ctx, eng)
		return err
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [file]",
	Short: "Find every cell where one new obstacle causes a loop",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, eng, err := setupRun(cmd, args)
		if err != nil {
			return err
		}
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		_, err = r.Search(ctx, eng)
		return err
	},
}

func setupRun(cmd *cobra.Command, args []string) (*patrol.Runner, *patrol.Engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cli.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	eng, err := cli.NewEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	data, err := cli.ReadInput(path, cmd.InOrStdin())
	if err != nil {
		return nil, nil, err
	}

	r := patrol.NewRunner(bytes.NewReader(data), cmd.OutOrStdout())
	r.JSON, _ = cmd.Flags().GetBool("json")
	if show, _ := cmd.Flags().GetBool("show"); show && !r.JSON {
		r.Renderer = tui.NewRenderer(os.Stdout)
	}
	return r, eng, nil
}

func init() {
	for _, c := range []*cobra.Command{traceCmd, searchCmd} {
		c.Flags().Bool("json", false, "Print the result as JSON")
		c.Flags().Bool("show", false, "Draw the grid with the trail")
		rootCmd.AddCommand(c)
	}
	searchCmd.Flags().Bool("exhaustive", false, "Probe every empty cell instead of only the baseline trail")
	searchCmd.Flags().Int("workers", 0, "Concurrent probes (0 = one per CPU)")
}
