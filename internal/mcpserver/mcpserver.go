// Package mcpserver exposes smell detection as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with the whiff tools registered.
type Server struct {
	server  *mcp.Server
	version string
}

// NewServer creates an MCP server for the given release version.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "whiff",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, version: version}
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "scan_smells",
		Description: describeScan(),
	}, s.handleScanSmells)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_detectors",
		Description: describeListDetectors(),
	}, s.handleListDetectors)
}
