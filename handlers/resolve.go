// ABOUTME: Identity resolution MCP tool handlers
// ABOUTME: Implements the resolve_contact tool over the resolver
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"attrib/models"
	"attrib/resolver"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ResolveHandlers struct {
	db *sql.DB
}

func NewResolveHandlers(database *sql.DB) *ResolveHandlers {
	return &ResolveHandlers{db: database}
}

type ResolveContactInput struct {
	Name          string `json:"name,omitempty" jsonschema:"Contact name as seen by the source platform"`
	Email         string `json:"email,omitempty" jsonschema:"Contact email address"`
	Phone         string `json:"phone,omitempty" jsonschema:"Contact phone number"`
	Company       string `json:"company,omitempty" jsonschema:"Company name"`
	Title         string `json:"title,omitempty" jsonschema:"Job title"`
	Source        string `json:"source" jsonschema:"Origin platform tag (close, calendly, or typeform)"`
	SourceID      string `json:"source_id,omitempty" jsonschema:"External id on the origin platform"`
	Threshold     string `json:"threshold,omitempty" jsonschema:"Minimum match confidence: exact, high, medium, or low (default medium)"`
	UpdateIfFound bool   `json:"update_if_found" jsonschema:"Merge into the matched contact instead of only reporting it"`
}

type FieldConflictOutput struct {
	Field    string `json:"field"`
	Existing string `json:"existing"`
	Incoming string `json:"incoming"`
}

type ResolveContactOutput struct {
	Contact    ContactOutput         `json:"contact"`
	Created    bool                  `json:"created"`
	Confidence string                `json:"confidence"`
	Reason     string                `json:"reason"`
	Conflicts  []FieldConflictOutput `json:"conflicts,omitempty"`
}

func (h *ResolveHandlers) ResolveContact(_ context.Context, request *mcp.CallToolRequest, input ResolveContactInput) (*mcp.CallToolResult, ResolveContactOutput, error) {
	if input.Email == "" && input.Name == "" && input.Phone == "" {
		return nil, ResolveContactOutput{}, fmt.Errorf("at least one of name, email, or phone is required")
	}

	source := input.Source
	if source == "" {
		return nil, ResolveContactOutput{}, fmt.Errorf("source is required")
	}

	threshold := resolver.ConfidenceMedium
	if input.Threshold != "" {
		var err error
		threshold, err = resolver.ParseConfidence(input.Threshold)
		if err != nil {
			return nil, ResolveContactOutput{}, err
		}
	}

	rec := &models.IncomingRecord{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Company:   input.Company,
		Title:     input.Title,
		Source:    source,
		SourceID:  input.SourceID,
		CreatedAt: time.Now(),
	}

	result, err := resolver.New(h.db).Resolve(rec, resolver.Options{
		Threshold:     threshold,
		UpdateIfFound: input.UpdateIfFound,
	})
	if err != nil {
		return nil, ResolveContactOutput{}, fmt.Errorf("resolution failed: %w", err)
	}

	out := ResolveContactOutput{
		Contact:    contactToOutput(result.Contact),
		Created:    result.Created,
		Confidence: result.Confidence.String(),
		Reason:     result.Reason,
	}
	for _, fc := range result.Conflicts {
		out.Conflicts = append(out.Conflicts, FieldConflictOutput{
			Field:    fc.Field,
			Existing: fc.Existing,
			Incoming: fc.Incoming,
		})
	}

	return nil, out, nil
}
