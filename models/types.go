// ABOUTME: Data models for attribution entities
// ABOUTME: Defines Contact, IncomingRecord, and source payload structs
package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Source platform tags. Every incoming record carries exactly one of these.
const (
	SourceCRM        = "close"
	SourceScheduling = "calendly"
	SourceForms      = "typeform"
)

// KnownSources lists every platform tag the importers produce.
var KnownSources = []string{SourceCRM, SourceScheduling, SourceForms}

// Contact is the canonical person record, keyed by normalized email.
type Contact struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Company        string     `json:"company,omitempty"`
	Title          string     `json:"title,omitempty"`
	LeadSource     string     `json:"lead_source,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	SourcesCount   int        `json:"sources_count"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// LeadSources returns the lead-source set as a sorted slice.
func (c *Contact) LeadSources() []string {
	if c.LeadSource == "" {
		return nil
	}

	seen := make(map[string]bool)
	var sources []string
	for _, tag := range strings.Split(c.LeadSource, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" && !seen[tag] {
			seen[tag] = true
			sources = append(sources, tag)
		}
	}

	sort.Strings(sources)
	return sources
}

// HasLeadSource reports whether the given platform tag is already in the set.
func (c *Contact) HasLeadSource(tag string) bool {
	for _, s := range c.LeadSources() {
		if s == tag {
			return true
		}
	}
	return false
}

// AddLeadSource adds a platform tag to the lead-source set and recomputes
// SourcesCount. Returns true if the set changed.
func (c *Contact) AddLeadSource(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}

	sources := c.LeadSources()
	for _, s := range sources {
		if s == tag {
			c.SourcesCount = len(sources)
			return false
		}
	}

	sources = append(sources, tag)
	sort.Strings(sources)
	c.LeadSource = strings.Join(sources, ",")
	c.SourcesCount = len(sources)
	return true
}

// IncomingRecord is an ephemeral per-source representation of a contact,
// produced by a platform importer and consumed by the resolver. It is never
// persisted directly.
type IncomingRecord struct {
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Company    string    `json:"company,omitempty"`
	Title      string    `json:"title,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Source     string    `json:"source"`
	SourceID   string    `json:"source_id"`
	SourceData string    `json:"source_data,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SourcePayload is the raw per-platform payload retained for a contact.
// One row per (contact, source); merging data from one source never
// discards the payload stored by another.
type SourcePayload struct {
	ContactID  uuid.UUID `json:"contact_id"`
	Source     string    `json:"source"`
	SourceID   string    `json:"source_id"`
	Data       string    `json:"data,omitempty"`
	ImportedAt time.Time `json:"imported_at"`
}

// Sync status constants.
const (
	SyncStatusIdle    = "idle"
	SyncStatusSyncing = "syncing"
	SyncStatusError   = "error"
)
