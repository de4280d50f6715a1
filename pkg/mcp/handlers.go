package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
)

func (s *Server) toolHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.handleCall(ctx, name, request)
	}
}

func (s *Server) handleCall(_ context.Context, name string, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	res := s.registry.ExecuteTool(name, request.GetArguments())
	s.mu.Unlock()

	if !res.OK() {
		log.Debug().Str("tool", name).Err(res.Err).Msg("Tool failed")
		return mcp.NewToolResultError(res.Message()), nil
	}

	return mcp.NewToolResultText(formatJSON(res)), nil
}

// --- helpers ---

func formatJSON(v any) string {
	b, err := encodeJSON(v)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}

func encodeJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
