// Package mcp exposes the ledger over the Model Context Protocol. Tools
// cover both record kinds plus the category catalog; results and errors
// are JSON payloads inside text content, never protocol-level failures.
package mcp

import (
	"context"
	"errors"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tally/internal/catalog"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/middleware/trace"
)

const serverName = "tally"

// Version is reported to clients during the MCP handshake.
const Version = "1.0.0"

const instructions = `tally keeps a personal ledger of expenses and credits.
Use add_expense/add_credit to record entries, list_expenses/list_credits to
browse a date range, edit_* for partial updates, delete_* to remove records,
and summarize/summarize_credits for per-category totals. Call the categories
tool first to learn the valid categories and subcategories. All dates use
YYYY-MM-DD.`

// Ledger is the service surface the tools need.
type Ledger interface {
	Add(ctx context.Context, kind core.Kind, r core.Record) (int64, error)
	List(ctx context.Context, kind core.Kind, rng core.DateRange) ([]core.Record, error)
	Edit(ctx context.Context, kind core.Kind, id int64, u core.RecordUpdate) (core.Record, error)
	Delete(ctx context.Context, kind core.Kind, id int64) error
	Summarize(ctx context.Context, kind core.Kind, rng core.DateRange, category string) (core.Summary, error)
}

type Server struct {
	mcp      *server.MCPServer
	ledger   Ledger
	catalog  *catalog.Catalog
	logger   *log.Logger
	toolLog  *log.ToolLogger
	recorder *trace.Recorder
}

// NewServer wires the tool set, the categories resource, and the tracing
// middleware onto a ready-to-serve MCP server.
func NewServer(ledger Ledger, cat *catalog.Catalog, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	s := &Server{
		ledger:   ledger,
		catalog:  cat,
		logger:   logger.WithComponent(log.ComponentMCP),
		recorder: trace.NewRecorder(),
	}
	s.toolLog = log.NewToolLogger(s.logger)

	s.mcp = server.NewMCPServer(serverName, Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
		server.WithToolHandlerMiddleware(s.traceMiddleware),
	)

	s.registerExpenseTools()
	s.registerCreditTools()
	s.registerCatalog()

	return s
}

// ServeStdio speaks JSON-RPC over stdin/stdout until the client closes the
// stream or the context is cancelled. Logging must go to stderr in this
// mode; stdout belongs to the protocol.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcp)
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// HandleMessage processes one raw JSON-RPC message. Exposed for in-process
// clients and tests.
func (s *Server) HandleMessage(ctx context.Context, message []byte) mcp.JSONRPCMessage {
	return s.mcp.HandleMessage(ctx, message)
}

// Metrics reports how many tool calls the server has handled.
func (s *Server) Metrics() trace.Metrics {
	return s.recorder.GetMetrics()
}
