// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server exposing resolution and lookup tools
package cli

import (
	"context"
	"database/sql"
	"log"

	"attrib/handlers"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(db *sql.DB) error {
	log.Println("Starting attribution MCP server...")

	contactHandlers := handlers.NewContactHandlers(db)
	resolveHandlers := handlers.NewResolveHandlers(db)
	syncHandlers := handlers.NewSyncHandlers(db)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "attrib",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_contact",
		Description: "Resolve an incoming contact record against the store: merge into a match or create a new contact",
	}, resolveHandlers.ResolveContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search for contacts by name, email, or company",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_contact",
		Description: "Get one contact with its per-platform source payloads",
	}, contactHandlers.GetContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sync_status",
		Description: "Show ingestion status for the source platforms",
	}, syncHandlers.SyncStatus)

	// Run server on stdio
	return server.Run(context.Background(), &mcp.StdioTransport{})
}
