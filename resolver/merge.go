// ABOUTME: Field-level merge policy for combining incoming records into contacts
// ABOUTME: Declarative rule table, one reviewable declaration per field
package resolver

import (
	"strings"

	"attrib/models"
)

// PlaceholderName is the display name given to contacts created without
// one. The name rule treats it as empty and lets real names replace it.
const PlaceholderName = "Unknown Contact"

// FieldConflict records a populated field whose incoming value disagreed
// with the stored one. The stored value always wins.
type FieldConflict struct {
	Field    string `json:"field"`
	Existing string `json:"existing"`
	Incoming string `json:"incoming"`
}

type mergeOutcome struct {
	value    string
	changed  bool
	conflict bool
}

type mergeFn func(existing, incoming string) mergeOutcome

// fieldRule binds one contact field to its merge behavior.
type fieldRule struct {
	field    string
	get      func(*models.Contact) string
	set      func(*models.Contact, string)
	incoming func(*models.IncomingRecord) string
	merge    mergeFn
}

// contactFieldRules is the merge policy: every string field's behavior in
// a single declaration. Lead source and last activity have non-string
// semantics and are handled in MergeContact directly.
var contactFieldRules = []fieldRule{
	{
		field:    "name",
		get:      func(c *models.Contact) string { return c.Name },
		set:      func(c *models.Contact, v string) { c.Name = v },
		incoming: func(r *models.IncomingRecord) string { return r.Name },
		merge:    replaceIfPlaceholder,
	},
	{
		field:    "email",
		get:      func(c *models.Contact) string { return c.Email },
		set:      func(c *models.Contact, v string) { c.Email = v },
		incoming: func(r *models.IncomingRecord) string { return r.Email },
		merge:    fillEmail,
	},
	{
		field:    "phone",
		get:      func(c *models.Contact) string { return c.Phone },
		set:      func(c *models.Contact, v string) { c.Phone = v },
		incoming: func(r *models.IncomingRecord) string { return r.Phone },
		merge:    fillPhone,
	},
	{
		field:    "company",
		get:      func(c *models.Contact) string { return c.Company },
		set:      func(c *models.Contact, v string) { c.Company = v },
		incoming: func(r *models.IncomingRecord) string { return r.Company },
		merge:    fillIfEmpty,
	},
	{
		field:    "title",
		get:      func(c *models.Contact) string { return c.Title },
		set:      func(c *models.Contact, v string) { c.Title = v },
		incoming: func(r *models.IncomingRecord) string { return r.Title },
		merge:    fillIfEmpty,
	},
	{
		field:    "notes",
		get:      func(c *models.Contact) string { return c.Notes },
		set:      func(c *models.Contact, v string) { c.Notes = v },
		incoming: func(r *models.IncomingRecord) string { return r.Notes },
		merge:    appendNotes,
	},
}

// fillIfEmpty fills an empty field and never overwrites a populated one.
// A populated field that disagrees with the incoming value is a conflict.
func fillIfEmpty(existing, incoming string) mergeOutcome {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" {
		return mergeOutcome{value: existing}
	}
	if strings.TrimSpace(existing) == "" {
		return mergeOutcome{value: incoming, changed: true}
	}
	if !strings.EqualFold(strings.TrimSpace(existing), incoming) {
		return mergeOutcome{value: existing, conflict: true}
	}
	return mergeOutcome{value: existing}
}

// fillEmail is fillIfEmpty with email normalization: the same address in
// different casing is not a conflict, and email is never overwritten once
// set (it is the contact's key).
func fillEmail(existing, incoming string) mergeOutcome {
	incoming = models.NormalizeEmail(incoming)
	if incoming == "" {
		return mergeOutcome{value: existing}
	}
	if models.NormalizeEmail(existing) == "" {
		return mergeOutcome{value: incoming, changed: true}
	}
	if models.NormalizeEmail(existing) != incoming {
		return mergeOutcome{value: existing, conflict: true}
	}
	return mergeOutcome{value: existing}
}

// fillPhone is fillIfEmpty comparing normalized digits, so "555-1234" and
// "(555) 1234" are the same number, not a conflict.
func fillPhone(existing, incoming string) mergeOutcome {
	if strings.TrimSpace(incoming) == "" {
		return mergeOutcome{value: existing}
	}
	if strings.TrimSpace(existing) == "" {
		return mergeOutcome{value: incoming, changed: true}
	}
	if models.NormalizePhone(existing) != models.NormalizePhone(incoming) {
		return mergeOutcome{value: existing, conflict: true}
	}
	return mergeOutcome{value: existing}
}

// replaceIfPlaceholder replaces the name only when the stored one is
// empty or a placeholder. Differing real names keep the stored value
// without raising a conflict.
func replaceIfPlaceholder(existing, incoming string) mergeOutcome {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" || isPlaceholderName(incoming) {
		return mergeOutcome{value: existing}
	}
	if isPlaceholderName(existing) {
		return mergeOutcome{value: incoming, changed: true}
	}
	return mergeOutcome{value: existing}
}

// appendNotes concatenates, never replaces. A note already present in the
// stored text is skipped so re-imports don't duplicate it.
func appendNotes(existing, incoming string) mergeOutcome {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" {
		return mergeOutcome{value: existing}
	}
	if strings.TrimSpace(existing) == "" {
		return mergeOutcome{value: incoming, changed: true}
	}
	if strings.Contains(existing, incoming) {
		return mergeOutcome{value: existing}
	}
	return mergeOutcome{value: existing + "\n\n" + incoming, changed: true}
}

func isPlaceholderName(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unknown", strings.ToLower(PlaceholderName):
		return true
	}
	return false
}

// MergeContact applies the field-rule table to a copy of the existing
// contact and returns the merged result, whether anything changed, and
// any field conflicts. It performs no writes; persistence is the
// decision gate's job.
func MergeContact(existing *models.Contact, rec *models.IncomingRecord) (models.Contact, bool, []FieldConflict) {
	merged := *existing
	changed := false
	var conflicts []FieldConflict

	for _, rule := range contactFieldRules {
		out := rule.merge(rule.get(&merged), rule.incoming(rec))
		if out.conflict {
			conflicts = append(conflicts, FieldConflict{
				Field:    rule.field,
				Existing: rule.get(&merged),
				Incoming: rule.incoming(rec),
			})
			continue
		}
		if out.changed {
			rule.set(&merged, out.value)
			changed = true
		}
	}

	// Lead source is a union; sources count is its cardinality.
	prevLead, prevCount := merged.LeadSource, merged.SourcesCount
	merged.AddLeadSource(rec.Source)
	if merged.LeadSource != prevLead || merged.SourcesCount != prevCount {
		changed = true
	}

	// Last activity moves forward only.
	if !rec.CreatedAt.IsZero() {
		if merged.LastActivityAt == nil || rec.CreatedAt.After(*merged.LastActivityAt) {
			t := rec.CreatedAt
			merged.LastActivityAt = &t
			changed = true
		}
	}

	return merged, changed, conflicts
}
