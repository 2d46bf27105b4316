package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/docassist/docassist/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing document search and retrieval tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		_, store, index, cat, _, err := openComponents(ctx)
		if err != nil {
			return err
		}
		defer cat.Close()

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "docassist MCP server started on stdio (entries=%d)\n", index.Count())

		srv := mcpserver.NewServer(store, index)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
