// ABOUTME: Candidate lookup for contact identity resolution
// ABOUTME: Gathers plausible matches by email, phone, and fuzzy name/company
package resolver

import (
	"fmt"
	"sort"
	"strings"

	"attrib/db"
	"attrib/models"
)

// Candidate pairs an incoming record's potential match with the
// confidence computed for it. Discarded after the decision gate runs.
type Candidate struct {
	Contact    *models.Contact
	Confidence Confidence
	Signals    []Signal
}

// strongestSignal returns the best-ranked signal that matched.
func (c *Candidate) strongestSignal() Signal {
	best := SignalDomain
	for _, s := range c.Signals {
		if s < best {
			best = s
		}
	}
	return best
}

// FindCandidates queries the contact store for plausible matches and
// scores each one. Candidates come back ordered best-first: confidence,
// then strongest signal, then oldest contact (creation time, id). The
// ordering is the deterministic tie-break for ambiguous matches.
func (r *Resolver) FindCandidates(rec *models.IncomingRecord) ([]Candidate, error) {
	// Gather by recall; precision comes from the scorer below. A contact
	// found by several passes is scored once.
	seen := make(map[string]*models.Contact)
	var order []string

	add := func(contacts []models.Contact) {
		for i := range contacts {
			key := contacts[i].ID.String()
			if _, ok := seen[key]; !ok {
				c := contacts[i]
				seen[key] = &c
				order = append(order, key)
			}
		}
	}

	// Exact email pass.
	if exact, err := db.GetContactByEmail(r.db, rec.Email); err != nil {
		return nil, fmt.Errorf("email lookup failed: %w", err)
	} else if exact != nil {
		add([]models.Contact{*exact})
	}

	// Plus-addressed variants of the same mailbox.
	if variants, err := db.FindContactsByCanonicalEmail(r.db, rec.Email); err != nil {
		return nil, fmt.Errorf("email variant lookup failed: %w", err)
	} else {
		add(variants)
	}

	// Normalized phone pass.
	if byPhone, err := db.FindContactsByPhone(r.db, rec.Phone); err != nil {
		return nil, fmt.Errorf("phone lookup failed: %w", err)
	} else {
		add(byPhone)
	}

	// Fuzzy name/company pass: coarse SQL prefilter, similarity in memory.
	if fuzzy, err := db.FindContactsForFuzzy(r.db, longestToken(rec.Name), rec.Company, 0); err != nil {
		return nil, fmt.Errorf("fuzzy lookup failed: %w", err)
	} else {
		add(fuzzy)
	}

	var candidates []Candidate
	for _, key := range order {
		contact := seen[key]
		confidence, signals := ScoreCandidate(rec, contact, r.nameThreshold)
		if confidence == ConfidenceNone {
			continue
		}
		candidates = append(candidates, Candidate{
			Contact:    contact,
			Confidence: confidence,
			Signals:    signals,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := &candidates[i], &candidates[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.strongestSignal() != b.strongestSignal() {
			return a.strongestSignal() < b.strongestSignal()
		}
		if !a.Contact.CreatedAt.Equal(b.Contact.CreatedAt) {
			return a.Contact.CreatedAt.Before(b.Contact.CreatedAt)
		}
		return a.Contact.ID.String() < b.Contact.ID.String()
	})

	return candidates, nil
}

// longestToken picks the most distinctive word of a name for the LIKE
// prefilter. Short tokens ("jo") match too much to be useful.
func longestToken(name string) string {
	var longest string
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		if len(tok) > len(longest) {
			longest = tok
		}
	}
	if len(longest) < 3 {
		return ""
	}
	return longest
}
