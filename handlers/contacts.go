// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements find_contacts and get_contact tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"attrib/db"
	"attrib/models"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContactHandlers struct {
	db *sql.DB
}

func NewContactHandlers(database *sql.DB) *ContactHandlers {
	return &ContactHandlers{db: database}
}

type ContactOutput struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Company        string   `json:"company,omitempty"`
	Title          string   `json:"title,omitempty"`
	LeadSources    []string `json:"lead_sources,omitempty"`
	SourcesCount   int      `json:"sources_count"`
	Notes          string   `json:"notes,omitempty"`
	LastActivityAt *string  `json:"last_activity_at,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

func contactToOutput(contact *models.Contact) ContactOutput {
	out := ContactOutput{
		ID:           contact.ID.String(),
		Name:         contact.Name,
		Email:        contact.Email,
		Phone:        contact.Phone,
		Company:      contact.Company,
		Title:        contact.Title,
		LeadSources:  contact.LeadSources(),
		SourcesCount: contact.SourcesCount,
		Notes:        contact.Notes,
		CreatedAt:    contact.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    contact.UpdatedAt.Format(time.RFC3339),
	}
	if contact.LastActivityAt != nil {
		s := contact.LastActivityAt.Format(time.RFC3339)
		out.LastActivityAt = &s
	}
	return out
}

type FindContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (searches name, email, and company)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *ContactHandlers) FindContacts(_ context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	contacts, err := db.FindContacts(h.db, input.Query, limit)
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	result := make([]ContactOutput, len(contacts))
	for i, contact := range contacts {
		result[i] = contactToOutput(&contact)
	}

	return nil, FindContactsOutput{Contacts: result}, nil
}

type GetContactInput struct {
	ID    string `json:"id,omitempty" jsonschema:"Contact ID"`
	Email string `json:"email,omitempty" jsonschema:"Contact email (alternative to id)"`
}

type SourcePayloadOutput struct {
	Source     string `json:"source"`
	SourceID   string `json:"source_id"`
	Data       string `json:"data,omitempty"`
	ImportedAt string `json:"imported_at"`
}

type GetContactOutput struct {
	Contact ContactOutput         `json:"contact"`
	Sources []SourcePayloadOutput `json:"sources,omitempty"`
}

func (h *ContactHandlers) GetContact(_ context.Context, request *mcp.CallToolRequest, input GetContactInput) (*mcp.CallToolResult, GetContactOutput, error) {
	var contact *models.Contact
	var err error

	switch {
	case input.ID != "":
		contactID, parseErr := uuid.Parse(input.ID)
		if parseErr != nil {
			return nil, GetContactOutput{}, fmt.Errorf("invalid id: %w", parseErr)
		}
		contact, err = db.GetContact(h.db, contactID)
	case input.Email != "":
		contact, err = db.GetContactByEmail(h.db, input.Email)
	default:
		return nil, GetContactOutput{}, fmt.Errorf("id or email is required")
	}

	if err != nil {
		return nil, GetContactOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, GetContactOutput{}, fmt.Errorf("contact not found")
	}

	payloads, err := db.GetSourcePayloads(h.db, contact.ID)
	if err != nil {
		return nil, GetContactOutput{}, fmt.Errorf("failed to get source payloads: %w", err)
	}

	out := GetContactOutput{Contact: contactToOutput(contact)}
	for _, p := range payloads {
		out.Sources = append(out.Sources, SourcePayloadOutput{
			Source:     p.Source,
			SourceID:   p.SourceID,
			Data:       p.Data,
			ImportedAt: p.ImportedAt.Format(time.RFC3339),
		})
	}

	return nil, out, nil
}
