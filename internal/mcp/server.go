// ABOUTME: MCP server setup for the nourish tracker.
// ABOUTME: Wraps the MCP server around the tracker service.
package mcp

import (
	"context"
	"errors"

	"github.com/harperreed/nourish/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with tracker access.
type Server struct {
	mcpServer *mcp.Server
	svc       *tracker.Service
}

// NewServer creates a new MCP server over svc.
func NewServer(svc *tracker.Service) (*Server, error) {
	if svc == nil {
		return nil, errors.New("tracker service is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "nourish",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
