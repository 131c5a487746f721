// ABOUTME: Entry point for attribution MCP server and CLI
// ABOUTME: Routes to MCP server or CLI commands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"attrib/cli"
	"attrib/db"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const version = "0.1.0"

func main() {
	// Thresholds and other ingestion settings may live in a .env file
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/attrib/attrib.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("attrib version %s\n", version)
		os.Exit(0)
	}

	// Get remaining args after flags
	args := flag.Args()

	// If no command specified, show usage
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	finalDBPath := getDatabasePath(*dbPath)
	database, err := db.OpenDatabase(finalDBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if *initOnly {
		log.Printf("Database initialized: %s", finalDBPath)
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "mcp":
		if err := cli.MCPCommand(database); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "ingest":
		if err := cli.IngestCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "resolve":
		if err := cli.ResolveCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "list-contacts":
		if err := cli.ListContactsCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "show-contact":
		if err := cli.ShowContactCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "sync-status":
		if err := cli.SyncStatusCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	return filepath.Join(xdg.DataHome, "attrib", "attrib.db")
}

func printUsage() {
	fmt.Printf(`attrib v%s - Marketing attribution contact store

USAGE:
  attrib [global flags] <command> [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/attrib/attrib.db)
  --init                 Initialize database and exit

COMMANDS:
  mcp                    Start MCP server (stdio)

  ingest <source> <file> Import a platform export file
                         Sources: close, calendly, typeform
    --threshold <level>    Override minimum match confidence

  resolve                Resolve a single record from flags
    --name <name>          Contact name
    --email <email>        Email address
    --phone <phone>        Phone number
    --company <company>    Company name
    --title <title>        Job title
    --source <tag>         Origin platform (default: close)
    --source-id <id>       External id on the origin platform
    --threshold <level>    Minimum match confidence (default: medium)
    --dry-run              Report the match without writing

  list-contacts          List contacts
    --query <text>         Search by name, email, or company
    --limit <n>            Max results (default: 50)

  show-contact <id>      Show one contact with its source records
    --email <email>        Look up by email instead of ID

  sync-status            Show ingestion state per platform

ENVIRONMENT (.env is loaded if present):
  ATTRIB_CRM_THRESHOLD         Match threshold for CRM imports
  ATTRIB_SCHEDULING_THRESHOLD  Match threshold for scheduling imports
  ATTRIB_FORMS_THRESHOLD       Match threshold for form imports

EXAMPLES:
  # Import a CRM lead export
  attrib ingest close leads.json

  # Resolve one record by hand
  attrib resolve --name "Jane Doe" --email jane@acme.com --source typeform

  # Audit a contact
  attrib show-contact --email jane@acme.com

`, version)
}
