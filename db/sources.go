// ABOUTME: Per-source payload storage for contacts
// ABOUTME: Retains each platform's raw record alongside the merged contact
package db

import (
	"database/sql"
	"time"

	"attrib/models"

	"github.com/google/uuid"
)

// execer covers *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func upsertSourcePayload(e execer, payload *models.SourcePayload) error {
	if payload.ImportedAt.IsZero() {
		payload.ImportedAt = time.Now()
	}

	// One payload row per (contact, source); a re-import from the same
	// platform replaces that platform's payload only.
	_, err := e.Exec(`
		INSERT INTO contact_sources (contact_id, source, source_id, data, imported_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(contact_id, source) DO UPDATE SET
			source_id = excluded.source_id,
			data = excluded.data,
			imported_at = excluded.imported_at
	`, payload.ContactID.String(), payload.Source, payload.SourceID, payload.Data, payload.ImportedAt)

	return err
}

// UpsertSourcePayload stores a platform's raw payload for a contact.
func UpsertSourcePayload(db *sql.DB, payload *models.SourcePayload) error {
	return upsertSourcePayload(db, payload)
}

// GetSourcePayloads returns every stored per-platform payload for a contact.
func GetSourcePayloads(db *sql.DB, contactID uuid.UUID) ([]models.SourcePayload, error) {
	rows, err := db.Query(`
		SELECT contact_id, source, source_id, data, imported_at
		FROM contact_sources
		WHERE contact_id = ?
		ORDER BY source ASC
	`, contactID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payloads []models.SourcePayload
	for rows.Next() {
		var p models.SourcePayload
		var data sql.NullString

		if err := rows.Scan(&p.ContactID, &p.Source, &p.SourceID, &data, &p.ImportedAt); err != nil {
			return nil, err
		}
		if data.Valid {
			p.Data = data.String
		}

		payloads = append(payloads, p)
	}

	return payloads, rows.Err()
}
