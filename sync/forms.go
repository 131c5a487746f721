// ABOUTME: Form tool response export parsing and import
// ABOUTME: Converts Typeform-style response exports into incoming records
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

// FormsExport is the envelope of a form response export file.
type FormsExport struct {
	Items []FormResponse `json:"items"`
}

// FormResponse is one submitted form.
type FormResponse struct {
	ResponseID  string       `json:"response_id"`
	SubmittedAt time.Time    `json:"submitted_at"`
	Answers     []FormAnswer `json:"answers"`
}

// FormAnswer is one answered field. Which value member is set depends on
// the answer type.
type FormAnswer struct {
	Field       FormField `json:"field"`
	Type        string    `json:"type"`
	Text        string    `json:"text,omitempty"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
}

type FormField struct {
	ID  string `json:"id"`
	Ref string `json:"ref,omitempty"`
}

// ParseFormsExport reads a form response export. Identity fields are
// mapped by answer type (email, phone_number) and by field ref for text
// answers; everything else lands in the notes.
func ParseFormsExport(r io.Reader) ([]models.IncomingRecord, error) {
	var export FormsExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("failed to decode form export: %w", err)
	}

	var records []models.IncomingRecord
	for _, resp := range export.Items {
		rec := models.IncomingRecord{
			Source:    models.SourceForms,
			SourceID:  resp.ResponseID,
			CreatedAt: resp.SubmittedAt,
		}

		var extra []string
		for _, ans := range resp.Answers {
			ref := strings.ToLower(ans.Field.Ref)
			switch {
			case ans.Type == "email" && rec.Email == "":
				rec.Email = ans.Email
			case ans.Type == "phone_number" && rec.Phone == "":
				rec.Phone = ans.PhoneNumber
			case ans.Type == "text" && rec.Name == "" && strings.Contains(ref, "name"):
				rec.Name = ans.Text
			case ans.Type == "text" && rec.Company == "" && strings.Contains(ref, "company"):
				rec.Company = ans.Text
			case ans.Type == "text" && rec.Title == "" && (strings.Contains(ref, "title") || strings.Contains(ref, "role")):
				rec.Title = ans.Text
			case ans.Type == "text" && ans.Text != "":
				label := ans.Field.Ref
				if label == "" {
					label = ans.Field.ID
				}
				extra = append(extra, label+": "+ans.Text)
			}
		}

		if len(extra) > 0 {
			rec.Notes = "Form answers:\n" + strings.Join(extra, "\n")
		}

		if raw, err := json.Marshal(resp); err == nil {
			rec.SourceData = string(raw)
		}

		records = append(records, rec)
	}

	return records, nil
}

// ImportFormsFile ingests a form response export file.
func ImportFormsFile(database *sql.DB, path string, cfg *Config) (*ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open form export: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := ParseFormsExport(f)
	if err != nil {
		return nil, err
	}

	return RunImport(database, models.SourceForms, records, cfg)
}
