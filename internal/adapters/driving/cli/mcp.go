package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes two tools:
  rebuild_index  - rebuild the index from the PDFs in ./files
  query_pdfs     - search the indexed PDFs for a query

and one resource, pdfrag://index, describing the current index.

By default, the server communicates over stdio using JSON-RPC. Use --port
to start a streamable HTTP server instead.

Examples:
  # Stdio mode (default)
  pdfrag mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  pdfrag mcp serve --port 8080

Client configuration (mcpServers):
  {
    "mcpServers": {
      "pdf_rag": {
        "command": "/path/to/pdfrag",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Index:    indexService,
		Query:    queryService,
		MaxChars: maxResultChars,
	}

	server, err := mcp.NewServer(ports, version)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		// stdout stays clean in stdio mode; here it is safe to print.
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
