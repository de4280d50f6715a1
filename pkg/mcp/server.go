// Package mcp exposes the tool catalog through the Model Context Protocol
// (JSON-RPC over stdio) as an alternative to the line protocol.
package mcp

import (
	"context"
	"io"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/carlos-arino/mcp-home-simulator/pkg/tools"
)

// ServerVersion is reported to MCP clients during initialization.
const ServerVersion = "0.1.0"

// Server wraps the MCP server with the home simulator's tool registry
type Server struct {
	mcpServer *server.MCPServer
	registry  *tools.Registry

	// mu serializes tool calls; the transport may dispatch them concurrently
	// and the home state has no locking of its own.
	mu sync.Mutex
}

// NewServer creates a new MCP server backed by registry
func NewServer(registry *tools.Registry) *Server {
	s := &Server{
		registry: registry,
	}

	// Create MCP server
	s.mcpServer = server.NewMCPServer(
		"homesim",
		ServerVersion,
		server.WithToolCapabilities(false),
	)

	// Register all tools
	s.registerTools()

	return s
}

// Serve runs the MCP stdio transport over the given streams until ctx is
// done or in is exhausted.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}
