package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/gptsh/internal/assistant"
	"github.com/ziadkadry99/gptsh/internal/history"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Recorder stores served suggestions. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, run history.Run) (*history.Run, error)
}

// Server wraps an MCP server that exposes the gptsh suggestion tools.
// Tools only return text; nothing is executed or written.
type Server struct {
	assistant *assistant.Assistant
	dir       string
	recorder  Recorder
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server. Context for shell and search requests
// is gathered from dir. recorder may be nil.
func NewServer(a *assistant.Assistant, dir string, recorder Recorder) *Server {
	s := &Server{
		assistant: a,
		dir:       dir,
		recorder:  recorder,
	}

	s.mcp = server.NewMCPServer(
		"gptsh",
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(suggestShellCommandTool, s.handleSuggestShellCommand)
	s.mcp.AddTool(suggestSearchCommandTool, s.handleSuggestSearchCommand)
	s.mcp.AddTool(refactorCodeTool, s.handleRefactorCode)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
