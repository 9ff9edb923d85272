package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aretw0/patrol/internal/cli"
	"github.com/aretw0/patrol/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Patrol as an MCP Server exposing the trace_patrol and find_obstructions tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// The logger writes to stderr, so it never corrupts JSON-RPC on stdout.
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

		srv := mcp.NewServer(eng, mcp.WithReports(p.Store))

		switch transport {
		case "stdio":
			log.SetOutput(os.Stderr)
			logger.Info("Starting Patrol MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting Patrol MCP Server (SSE)", "port", cfg.HTTP.Port)
			if err := srv.ServeSSE(ctx, cfg.HTTP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
