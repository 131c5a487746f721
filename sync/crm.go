// ABOUTME: CRM lead export parsing and import
// ABOUTME: Converts Close-style lead exports into incoming records
package sync

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"attrib/models"
)

// CRMExport is the envelope of a CRM lead export file.
type CRMExport struct {
	Data []CRMLead `json:"data"`
}

// CRMLead is one lead: a company plus the people attached to it.
type CRMLead struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"` // company name
	StatusLabel string           `json:"status_label,omitempty"`
	Contacts    []CRMLeadContact `json:"contacts"`
	DateCreated time.Time        `json:"date_created"`
}

type CRMLeadContact struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Title  string     `json:"title,omitempty"`
	Emails []CRMEmail `json:"emails,omitempty"`
	Phones []CRMPhone `json:"phones,omitempty"`
}

type CRMEmail struct {
	Email string `json:"email"`
	Type  string `json:"type,omitempty"`
}

type CRMPhone struct {
	Phone string `json:"phone"`
	Type  string `json:"type,omitempty"`
}

// ParseCRMExport reads a lead export and flattens it into one incoming
// record per lead contact.
func ParseCRMExport(r io.Reader) ([]models.IncomingRecord, error) {
	var export CRMExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("failed to decode CRM export: %w", err)
	}

	var records []models.IncomingRecord
	for _, lead := range export.Data {
		for _, lc := range lead.Contacts {
			rec := models.IncomingRecord{
				Name:      lc.Name,
				Title:     lc.Title,
				Company:   lead.Name,
				Source:    models.SourceCRM,
				SourceID:  lc.ID,
				CreatedAt: lead.DateCreated,
			}
			if len(lc.Emails) > 0 {
				rec.Email = lc.Emails[0].Email
			}
			if len(lc.Phones) > 0 {
				rec.Phone = lc.Phones[0].Phone
			}
			if lead.StatusLabel != "" {
				rec.Notes = "CRM status: " + lead.StatusLabel
			}

			if raw, err := json.Marshal(lc); err == nil {
				rec.SourceData = string(raw)
			}

			records = append(records, rec)
		}
	}

	return records, nil
}

// ImportCRMFile ingests a CRM lead export file.
func ImportCRMFile(database *sql.DB, path string, cfg *Config) (*ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CRM export: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := ParseCRMExport(f)
	if err != nil {
		return nil, err
	}

	return RunImport(database, models.SourceCRM, records, cfg)
}
