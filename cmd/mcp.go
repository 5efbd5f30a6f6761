package cmd

import (
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joescharf/osg/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets an MCP client browse the showcase and add projects. Configure
the client with:

  {
    "mcpServers": {
      "osg": { "command": "osg", "args": ["mcp"] }
    }
  }

Available tools: osg_list_projects, osg_preview_repository, osg_add_project`,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := sitePage()
		if err != nil {
			return err
		}
		gc, err := newPreviewer()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals()...)
		defer stop()

		return mcp.NewServer(newBackend(), gc, page, buildVersion).ServeStdio(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
