// ABOUTME: MCP resource definitions
// ABOUTME: Provides a read-only view of the effective configuration for AI agents

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const configResourceURI = "adot://config"

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        configResourceURI,
		Description: "Effective adot configuration with secrets masked",
		URI:         configResourceURI,
		MIMEType:    "application/json",
	}, s.handleConfigResource)
}

func (s *Server) handleConfigResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	cfg, err := s.deps.LoadConfig(0)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	jsonBytes, _ := json.MarshalIndent(cfg.View(), "", "  ") //nolint:errchkjson // output is always serializable

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      configResourceURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}, nil
}
