// ABOUTME: Single-record resolution CLI command
// ABOUTME: Runs one contact record through the resolver from flags
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"time"

	"attrib/models"
	"attrib/resolver"
)

// ResolveCommand resolves a single incoming record supplied via flags.
func ResolveCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	name := fs.String("name", "", "Contact name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	title := fs.String("title", "", "Job title")
	source := fs.String("source", models.SourceCRM, "Origin platform tag")
	sourceID := fs.String("source-id", "", "External id on the origin platform")
	threshold := fs.String("threshold", "medium", "Minimum match confidence (exact, high, medium, low)")
	dryRun := fs.Bool("dry-run", false, "Report the match without merging or creating")
	_ = fs.Parse(args)

	if *name == "" && *email == "" && *phone == "" {
		return fmt.Errorf("at least one of --name, --email, or --phone is required")
	}

	level, err := resolver.ParseConfidence(*threshold)
	if err != nil {
		return err
	}

	rec := &models.IncomingRecord{
		Name:      *name,
		Email:     *email,
		Phone:     *phone,
		Company:   *company,
		Title:     *title,
		Source:    *source,
		SourceID:  *sourceID,
		CreatedAt: time.Now(),
	}

	res := resolver.New(database)

	if *dryRun {
		candidate, err := res.ResolveCandidate(rec)
		if err != nil {
			return fmt.Errorf("resolution failed: %w", err)
		}
		if candidate == nil {
			fmt.Println("No candidate found; a new contact would be created")
			return nil
		}
		fmt.Printf("Best candidate: %s (%s)\n", candidate.Contact.Name, candidate.Contact.ID.String()[:8])
		fmt.Printf("Confidence:     %s\n", candidate.Confidence)
		return nil
	}

	result, err := res.Resolve(rec, resolver.Options{
		Threshold:     level,
		UpdateIfFound: true,
	})
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	if result.Created {
		fmt.Printf("✓ Contact created: %s (ID: %s)\n", result.Contact.Name, result.Contact.ID)
	} else {
		fmt.Printf("✓ Contact updated: %s (ID: %s)\n", result.Contact.Name, result.Contact.ID)
	}
	fmt.Printf("  Confidence: %s\n", result.Confidence)
	fmt.Printf("  Reason: %s\n", result.Reason)
	for _, fc := range result.Conflicts {
		fmt.Printf("  ⚠ Conflicting %s: kept %q, ignored %q\n", fc.Field, fc.Existing, fc.Incoming)
	}

	return nil
}
