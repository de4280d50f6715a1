package mcp

import (
	"slices"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers every catalog tool with the MCP server
func (s *Server) registerTools() {
	for _, def := range s.registry.Definitions() {
		opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}

		names := make([]string, 0, len(def.InputSchema.Properties))
		for name := range def.InputSchema.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			prop := def.InputSchema.Properties[name]

			propOpts := []mcp.PropertyOption{mcp.Description(prop.Description)}
			if slices.Contains(def.InputSchema.Required, name) {
				propOpts = append(propOpts, mcp.Required())
			}

			switch prop.Type {
			case "boolean":
				opts = append(opts, mcp.WithBoolean(name, propOpts...))
			case "number":
				opts = append(opts, mcp.WithNumber(name, propOpts...))
			default:
				opts = append(opts, mcp.WithString(name, propOpts...))
			}
		}

		s.mcpServer.AddTool(mcp.NewTool(string(def.Name), opts...), s.toolHandler(string(def.Name)))
	}
}
