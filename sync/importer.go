// ABOUTME: Shared ingestion loop for platform record imports
// ABOUTME: Resolves each incoming record and tracks sync state and provenance
package sync

import (
	"database/sql"
	"fmt"

	"attrib/db"
	"attrib/models"
	"attrib/resolver"
)

// Importer runs incoming records from one platform through the resolver.
type Importer struct {
	db        *sql.DB
	resolver  *resolver.Resolver
	service   string
	threshold resolver.Confidence
}

// ImportStats summarizes one ingestion run.
type ImportStats struct {
	Fetched int
	Created int
	Updated int
	Skipped int
	Failed  int
}

// NewImporter creates an importer for one source platform.
func NewImporter(database *sql.DB, service string, cfg *Config) *Importer {
	return &Importer{
		db:        database,
		resolver:  resolver.NewWithNameThreshold(database, cfg.NameSimilarity),
		service:   service,
		threshold: cfg.ThresholdFor(service),
	}
}

// ImportRecord resolves a single record. Records already present in the
// sync log are skipped, which makes re-running an export file a no-op.
func (im *Importer) ImportRecord(rec *models.IncomingRecord) (*resolver.Result, bool, error) {
	if rec.SourceID != "" {
		exists, err := db.CheckSyncLogExists(im.db, im.service, rec.SourceID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to check sync log: %w", err)
		}
		if exists {
			return nil, true, nil
		}
	}

	result, err := im.resolver.Resolve(rec, resolver.Options{
		Threshold:     im.threshold,
		UpdateIfFound: true,
	})
	if err != nil {
		return nil, false, err
	}

	if rec.SourceID != "" {
		if err := db.CreateSyncLog(im.db, im.service, rec.SourceID, result.Contact.ID); err != nil {
			return nil, false, fmt.Errorf("failed to log sync: %w", err)
		}
	}

	return result, false, nil
}

// RunImport ingests a batch of records with sync-state bookkeeping and a
// printed summary, the shape every platform command shares.
func RunImport(database *sql.DB, service string, records []models.IncomingRecord, cfg *Config) (*ImportStats, error) {
	fmt.Printf("Importing %s records...\n", service)
	if err := db.UpdateSyncStatus(database, service, models.SyncStatusSyncing, nil); err != nil {
		return nil, fmt.Errorf("failed to update sync status: %w", err)
	}

	importer := NewImporter(database, service, cfg)
	stats := &ImportStats{Fetched: len(records)}

	for i := range records {
		rec := &records[i]

		result, skipped, err := importer.ImportRecord(rec)
		if err != nil {
			// Record-level failures don't abort the batch; the caller's
			// export file can be re-run for the failed rows.
			fmt.Printf("  ✗ Failed to import %q: %v\n", rec.Name, err)
			stats.Failed++
			continue
		}
		if skipped {
			stats.Skipped++
			continue
		}

		if result.Created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	if stats.Failed > 0 {
		errMsg := fmt.Sprintf("%d of %d records failed", stats.Failed, stats.Fetched)
		if err := db.UpdateSyncStatus(database, service, models.SyncStatusError, &errMsg); err != nil {
			return stats, fmt.Errorf("failed to update sync status: %w", err)
		}
	} else {
		if err := db.MarkSyncComplete(database, service); err != nil {
			return stats, fmt.Errorf("failed to update sync status: %w", err)
		}
	}

	fmt.Printf("\n✓ Processed %d %s records\n", stats.Fetched, service)
	if stats.Created > 0 {
		fmt.Printf("  ✓ Created %d new contacts\n", stats.Created)
	}
	if stats.Updated > 0 {
		fmt.Printf("  ✓ Updated %d existing contacts\n", stats.Updated)
	}
	if stats.Skipped > 0 {
		fmt.Printf("  ✓ Skipped %d already-imported records\n", stats.Skipped)
	}
	if stats.Failed > 0 {
		fmt.Printf("  ✗ Failed %d records\n", stats.Failed)
	}

	return stats, nil
}
