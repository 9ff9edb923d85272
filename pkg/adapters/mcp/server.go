package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/patrol"
	"github.com/aretw0/patrol/pkg/domain"
	"github.com/aretw0/patrol/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const reportsURI = "patrol://reports"

// GridArgs are the arguments shared by every grid tool.
type GridArgs struct {
	Grid string `json:"grid"`
}

// TraceResponse is the structured result of trace_patrol.
type TraceResponse struct {
	Outcome domain.Outcome `json:"outcome" jsonschema_description:"exit, loop or blocked"`
	Visited int            `json:"visited" jsonschema_description:"Number of distinct cells the agent stood on"`
	Steps   int            `json:"steps" jsonschema_description:"Number of moves made"`
	Final   domain.Agent   `json:"final" jsonschema_description:"Agent position and heading when the run ended"`
}

// SearchResponse is the structured result of find_obstructions.
type SearchResponse struct {
	Baseline   domain.Outcome    `json:"baseline" jsonschema_description:"Outcome of the unmodified patrol"`
	Visited    int               `json:"visited" jsonschema_description:"Cells visited by the unmodified patrol"`
	Candidates int               `json:"candidates" jsonschema_description:"Number of cells probed"`
	Loops      []domain.Position `json:"loops" jsonschema_description:"Cells where one new obstacle traps the agent in a loop"`
	Blocked    []domain.Position `json:"blocked,omitempty" jsonschema_description:"Cells where one new obstacle leaves the agent unable to move"`
}

// Server wraps the patrol Engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.Simulator
	reports   ports.ReportStore
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithReports exposes stored analysis reports as the patrol://reports resource.
func WithReports(store ports.ReportStore) Option {
	return func(s *Server) {
		s.reports = store
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Simulator, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("patrol-mcp", strings.TrimSpace(patrol.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	if s.reports != nil {
		s.registerResources()
	}
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: trace_patrol
	traceTool := mcp.NewTool("trace_patrol",
		mcp.WithDescription("Trace the agent across a grid ('.' empty, '#' obstacle, '^', '>', 'v' or '<' agent marker) and report how the patrol ends."),
		mcp.WithString("grid", mcp.Required(), mcp.Description("Grid text, one row per line")),
		mcp.WithOutputSchema[TraceResponse](),
	)
	s.mcpServer.AddTool(traceTool, mcp.NewStructuredToolHandler(s.handleTrace))

	// TOOL: find_obstructions
	searchTool := mcp.NewTool("find_obstructions",
		mcp.WithDescription("List every cell where placing one new obstacle traps the agent in a loop."),
		mcp.WithString("grid", mcp.Required(), mcp.Description("Grid text, one row per line")),
		mcp.WithOutputSchema[SearchResponse](),
	)
	s.mcpServer.AddTool(searchTool, mcp.NewStructuredToolHandler(s.handleSearch))
}

func (s *Server) handleTrace(ctx context.Context, request mcp.CallToolRequest, args GridArgs) (TraceResponse, error) {
	sc, err := s.engine.Parse([]byte(args.Grid))
	if err != nil {
		return TraceResponse{}, err
	}
	tr, err := s.engine.Trace(ctx, sc)
	if err != nil {
		return TraceResponse{}, fmt.Errorf("trace failed: %w", err)
	}
	return TraceResponse{
		Outcome: tr.Outcome,
		Visited: tr.VisitedCount(),
		Steps:   tr.Steps,
		Final:   tr.Final,
	}, nil
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest, args GridArgs) (SearchResponse, error) {
	sc, err := s.engine.Parse([]byte(args.Grid))
	if err != nil {
		return SearchResponse{}, err
	}
	res, err := s.engine.Search(ctx, sc)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search failed: %w", err)
	}
	return SearchResponse{
		Baseline:   res.Baseline.Outcome,
		Visited:    res.Baseline.VisitedCount(),
		Candidates: res.Candidates,
		Loops:      res.Loops,
		Blocked:    res.Blocked,
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: patrol://reports
	s.mcpServer.AddResource(mcp.NewResource(reportsURI, "Stored Analysis Reports",
		mcp.WithMIMEType("application/json"),
	), s.readReports)
}

func (s *Server) readReports(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ids, err := s.reports.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	reports := make([]*domain.Report, 0, len(ids))
	for _, id := range ids {
		r, err := s.reports.Load(ctx, id)
		if err != nil {
			// Deleted between List and Load.
			continue
		}
		reports = append(reports, r)
	}
	jsonBytes, err := json.Marshal(reports)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      reportsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
