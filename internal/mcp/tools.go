// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Lets AI agents post to the microblog, refresh location, and stamp READMEs

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harper/adot/internal/models"
	"github.com/harper/adot/internal/readme"
	"github.com/harper/adot/internal/workflow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerPostMicroblogTool()
	s.registerRefreshLocationTool()
	s.registerAppendReadmeFooterTool()
}

// textResult renders output as indented JSON text content.
func textResult(output any) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

// PostMicroblogInput defines input for post_microblog tool.
type PostMicroblogInput struct {
	Content string `json:"content"`
}

// PostOutput defines output for post_microblog tool.
type PostOutput struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Time    string `json:"time"`
}

func (s *Server) registerPostMicroblogTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "post_microblog",
		Description: "Publish a short microblog post. The content is stored verbatim with a new id and the current UTC time.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Text of the post",
				},
			},
			"required": []string{"content"},
		},
	}, s.handlePostMicroblog)
}

func (s *Server) handlePostMicroblog(ctx context.Context, req *mcp.CallToolRequest, input PostMicroblogInput) (*mcp.CallToolResult, PostOutput, error) {
	res, err := workflow.PostMicroblog(ctx, s.deps, input.Content)
	if err != nil {
		return nil, PostOutput{}, fmt.Errorf("failed to post: %w", err)
	}

	output := PostOutput{
		ID:      res.Post.ID.String(),
		Content: res.Post.Content,
		Time:    models.FormatTimestamp(res.Post.PostedAt),
	}
	return textResult(output), output, nil
}

// RefreshLocationInput is empty but required for type.
type RefreshLocationInput struct{}

// LocationOutput defines output for refresh_location tool.
type LocationOutput struct {
	City            string `json:"city"`
	Region          string `json:"region"`
	Country         string `json:"country"`
	Timezone        string `json:"timezone"`
	Time            string `json:"time"`
	ClearedPrevious bool   `json:"cleared_previous"`
}

func (s *Server) registerRefreshLocationTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "refresh_location",
		Description: "Look up the current location from the machine's public IP and replace the stored 'latest' location record.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleRefreshLocation)
}

func (s *Server) handleRefreshLocation(ctx context.Context, req *mcp.CallToolRequest, input RefreshLocationInput) (*mcp.CallToolResult, LocationOutput, error) {
	res, err := workflow.RefreshLocation(ctx, s.deps)
	if err != nil {
		return nil, LocationOutput{}, fmt.Errorf("failed to refresh location: %w", err)
	}

	output := LocationOutput{
		City:            res.Record.City,
		Region:          res.Record.Region,
		Country:         res.Record.Country,
		Timezone:        res.Record.Timezone,
		Time:            models.FormatTimestamp(res.Record.ObservedAt),
		ClearedPrevious: res.ClearedPrevious,
	}
	return textResult(output), output, nil
}

// AppendFooterInput defines input for append_readme_footer tool.
type AppendFooterInput struct {
	Path   string  `json:"path"`
	Footer *string `json:"footer,omitempty"`
}

// AppendFooterOutput defines output for append_readme_footer tool.
type AppendFooterOutput struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
	Message string `json:"message"`
}

func (s *Server) registerAppendReadmeFooterTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "append_readme_footer",
		Description: "Append the attribution footer to a README file. Does nothing if the footer is already present.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the README file (e.g., 'README.md')",
				},
				"footer": map[string]interface{}{
					"type":        "string",
					"description": "Optional footer text to use instead of the default",
				},
			},
			"required": []string{"path"},
		},
	}, s.handleAppendFooter)
}

func (s *Server) handleAppendFooter(_ context.Context, req *mcp.CallToolRequest, input AppendFooterInput) (*mcp.CallToolResult, AppendFooterOutput, error) {
	if strings.TrimSpace(input.Path) == "" {
		return nil, AppendFooterOutput{}, fmt.Errorf("path is required")
	}
	footer := s.footer
	if input.Footer != nil && strings.TrimSpace(*input.Footer) != "" {
		footer = *input.Footer
	}

	changed, err := readme.AppendFooter(input.Path, footer)
	if err != nil {
		return nil, AppendFooterOutput{}, fmt.Errorf("failed to append footer: %w", err)
	}

	output := AppendFooterOutput{Path: input.Path, Changed: changed}
	if changed {
		output.Message = fmt.Sprintf("Footer added to %s", input.Path)
	} else {
		output.Message = fmt.Sprintf("Footer already present in %s", input.Path)
	}
	return textResult(output), output, nil
}
