// ABOUTME: MCP serve command
// ABOUTME: Starts the MCP server for AI agent integration

package main

import (
	"github.com/harper/adot/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpFooter string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(deps, mcpFooter)
		if err != nil {
			return err
		}
		logger.Debug("serving MCP over stdio")
		return server.Serve(cmd.Context())
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpFooter, "footer", "", "default README footer for append_readme_footer")
	rootCmd.AddCommand(mcpCmd)
}
