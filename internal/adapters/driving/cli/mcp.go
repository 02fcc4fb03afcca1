package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/acqscope/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose acqscope to MCP clients",
}

var mcpPort int

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the acqscope tools over MCP",
	Long: `Serve search_acquisitions, encode_filters, decode_query, image_candidates
and cache_stats to a Model Context Protocol client.

Without --port the server speaks JSON-RPC on stdin/stdout, which is what
desktop assistants launch:

  {"mcpServers": {"acqscope": {"command": "acqscope", "args": ["mcp", "serve"]}}}

With --port it serves the streamable HTTP transport instead:

  acqscope mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

// newMCPServer builds the server from the injected services.
func newMCPServer() (*mcp.Server, error) {
	return mcp.NewServer(&mcp.Ports{
		Browse: browseService,
		Images: imageService,
		Cache:  cacheService,
	})
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := newMCPServer()
	if err != nil {
		return err
	}

	if background != nil {
		go background(cmd.Context(), nil)
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		cmd.Printf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
