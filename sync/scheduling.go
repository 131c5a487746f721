// ABOUTME: Scheduling tool invitee export parsing and import
// ABOUTME: Converts Calendly-style invitee exports into incoming records
package sync

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"attrib/models"
)

// SchedulingExport is the envelope of an invitee export file.
type SchedulingExport struct {
	Collection []SchedulingInvitee `json:"collection"`
}

// SchedulingInvitee is one booked meeting attendee.
type SchedulingInvitee struct {
	URI       string         `json:"uri"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	EventName string         `json:"event_name,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Questions []SchedulingQA `json:"questions_and_answers,omitempty"`
}

type SchedulingQA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ParseSchedulingExport reads an invitee export. Phone and company are
// pulled from booking-form answers when present.
func ParseSchedulingExport(r io.Reader) ([]models.IncomingRecord, error) {
	var export SchedulingExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("failed to decode scheduling export: %w", err)
	}

	var records []models.IncomingRecord
	for _, inv := range export.Collection {
		rec := models.IncomingRecord{
			Name:      inv.Name,
			Email:     inv.Email,
			Source:    models.SourceScheduling,
			SourceID:  inviteeID(inv.URI),
			CreatedAt: inv.CreatedAt,
		}

		for _, qa := range inv.Questions {
			q := strings.ToLower(qa.Question)
			switch {
			case rec.Phone == "" && strings.Contains(q, "phone"):
				rec.Phone = qa.Answer
			case rec.Company == "" && strings.Contains(q, "company"):
				rec.Company = qa.Answer
			}
		}

		if inv.EventName != "" {
			rec.Notes = "Booked meeting: " + inv.EventName
		}

		if raw, err := json.Marshal(inv); err == nil {
			rec.SourceData = string(raw)
		}

		records = append(records, rec)
	}

	return records, nil
}

// inviteeID extracts the stable id from an invitee URI.
func inviteeID(uri string) string {
	uri = strings.TrimRight(uri, "/")
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// ImportSchedulingFile ingests a scheduling invitee export file.
func ImportSchedulingFile(database *sql.DB, path string, cfg *Config) (*ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scheduling export: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := ParseSchedulingExport(f)
	if err != nil {
		return nil, err
	}

	return RunImport(database, models.SourceScheduling, records, cfg)
}
