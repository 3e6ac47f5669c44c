package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tameralinada/ai-code-reviewer/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for editor and agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This exposes reviews and scans as tools for MCP clients. Configure in
a client with:

  {
    "mcpServers": {
      "acr": { "command": "acr", "args": ["mcp"] }
    }
  }

Available tools: review_code, recent_reviews, review_details,
security_scan, quality_scan, quick_feedback`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		engine, err := getEngine()
		if err != nil {
			return err
		}

		srv := mcp.NewServer(s, engine)
		return srv.ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
