// ABOUTME: Ingestion CLI commands
// ABOUTME: Imports platform export files through the identity resolver
package cli

import (
	"database/sql"
	"flag"
	"fmt"

	"attrib/models"
	"attrib/resolver"
	"attrib/sync"
)

// IngestCommand imports a platform export file: ingest <source> <file>.
func IngestCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	threshold := fs.String("threshold", "", "Override the minimum match confidence (exact, high, medium, low)")
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: ingest [--threshold <level>] <source> <file>")
	}
	source := fs.Arg(0)
	path := fs.Arg(1)

	cfg, err := sync.LoadConfig()
	if err != nil {
		return err
	}
	if *threshold != "" {
		if err := overrideThreshold(cfg, source, *threshold); err != nil {
			return err
		}
	}

	switch source {
	case models.SourceCRM:
		_, err = sync.ImportCRMFile(database, path, cfg)
	case models.SourceScheduling:
		_, err = sync.ImportSchedulingFile(database, path, cfg)
	case models.SourceForms:
		_, err = sync.ImportFormsFile(database, path, cfg)
	default:
		return fmt.Errorf("unknown source %q (expected one of %v)", source, models.KnownSources)
	}

	return err
}

func overrideThreshold(cfg *sync.Config, source, level string) error {
	parsed, err := resolver.ParseConfidence(level)
	if err != nil {
		return err
	}

	switch source {
	case models.SourceCRM:
		cfg.CRMThreshold = parsed
	case models.SourceScheduling:
		cfg.SchedulingThreshold = parsed
	case models.SourceForms:
		cfg.FormsThreshold = parsed
	}
	return nil
}
