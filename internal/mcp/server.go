// ABOUTME: MCP server initialization and configuration
// ABOUTME: Exposes the adot workflows as tools and the effective config as a resource

package mcp

import (
	"context"
	"fmt"

	"github.com/harper/adot/internal/readme"
	"github.com/harper/adot/internal/workflow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps MCP server with the workflow dependencies.
type Server struct {
	mcp    *mcp.Server
	deps   workflow.Deps
	footer string
}

// NewServer creates MCP server with all capabilities. footer is the README
// footer used when a tool call does not supply one.
func NewServer(deps workflow.Deps, footer string) (*Server, error) {
	if deps.LoadConfig == nil || deps.OpenStore == nil || deps.NewLocator == nil {
		return nil, fmt.Errorf("workflow dependencies are required")
	}
	if footer == "" {
		footer = readme.DefaultFooter
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "adot",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:    mcpServer,
		deps:   deps,
		footer: footer,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
