// ABOUTME: Contact identity resolver
// ABOUTME: Decides whether an incoming record matches a known contact and merges or creates
package resolver

import (
	"database/sql"
	"fmt"
	"log"

	"attrib/db"
	"attrib/models"
)

// Options are supplied by the caller per resolution call. There is no
// global default threshold; ingestion code for each platform passes its
// own. ConfidenceMedium is the recommended general-purpose threshold.
type Options struct {
	// Threshold is the minimum confidence at which a candidate counts as
	// a match.
	Threshold Confidence
	// UpdateIfFound controls whether a match is merged and persisted or
	// only reported.
	UpdateIfFound bool
}

// Result is what every resolution call returns. Reason is a short
// human-readable explanation of which signals drove the decision, for
// audit logging by callers.
type Result struct {
	Contact    *models.Contact `json:"contact"`
	Created    bool            `json:"created"`
	Confidence Confidence      `json:"confidence"`
	Reason     string          `json:"reason"`
	Conflicts  []FieldConflict `json:"conflicts,omitempty"`
}

// Resolver resolves incoming records against the contact store.
type Resolver struct {
	db            *sql.DB
	nameThreshold float64
}

// New creates a resolver using the default name-similarity threshold.
func New(database *sql.DB) *Resolver {
	return NewWithNameThreshold(database, DefaultNameSimilarity)
}

// NewWithNameThreshold creates a resolver with an explicit fuzzy-name
// similarity threshold in (0, 1].
func NewWithNameThreshold(database *sql.DB, nameThreshold float64) *Resolver {
	if nameThreshold <= 0 || nameThreshold > 1 {
		nameThreshold = DefaultNameSimilarity
	}
	return &Resolver{db: database, nameThreshold: nameThreshold}
}

// Resolve runs the full pipeline: candidate lookup, scoring, decision
// gate, and persistence.
func (r *Resolver) Resolve(rec *models.IncomingRecord, opts Options) (*Result, error) {
	candidate, err := r.ResolveCandidate(rec)
	if err != nil {
		return nil, err
	}
	return r.ApplyDecision(rec, candidate, opts)
}

// ResolveCandidate returns the best-scoring candidate for a record, or
// nil when nothing plausible exists. It performs no writes, so scoring
// is testable without touching contact state.
func (r *Resolver) ResolveCandidate(rec *models.IncomingRecord) (*Candidate, error) {
	candidates, err := r.FindCandidates(rec)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return &candidates[0], nil
}

// ApplyDecision runs the decision gate against an already-scored
// candidate: merge into it when its confidence clears the threshold,
// otherwise create a new contact.
func (r *Resolver) ApplyDecision(rec *models.IncomingRecord, candidate *Candidate, opts Options) (*Result, error) {
	if candidate != nil && candidate.Confidence >= opts.Threshold {
		if !opts.UpdateIfFound {
			return &Result{
				Contact:    candidate.Contact,
				Created:    false,
				Confidence: candidate.Confidence,
				Reason:     matchReason(candidate) + " (update skipped)",
			}, nil
		}
		return r.merge(rec, candidate.Contact, candidate.Confidence, matchReason(candidate))
	}

	contact := contactFromRecord(rec)
	if err := db.CreateContactWithSource(r.db, contact, payloadFromRecord(rec)); err != nil {
		// A concurrent call may have created this email between our
		// lookup and the insert; the unique index rejects the duplicate.
		// Re-attempt the lookup once and merge instead.
		existing, lookupErr := db.GetContactByEmail(r.db, rec.Email)
		if lookupErr != nil {
			return nil, fmt.Errorf("failed to create contact: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("failed to create contact: %w", err)
		}

		confidence, signals := ScoreCandidate(rec, existing, r.nameThreshold)
		retry := &Candidate{Contact: existing, Confidence: confidence, Signals: signals}
		return r.merge(rec, existing, confidence, matchReason(retry)+" (contact created concurrently)")
	}

	reason := "no candidate found; created new contact"
	confidence := ConfidenceNone
	if candidate != nil {
		confidence = candidate.Confidence
		reason = fmt.Sprintf("best candidate %s below %s threshold; created new contact",
			candidate.Confidence, opts.Threshold)
	}

	return &Result{
		Contact:    contact,
		Created:    true,
		Confidence: confidence,
		Reason:     reason,
	}, nil
}

// merge applies a record to an existing contact. A failed write may mean
// a concurrent call created a contact owning an email this merge tried to
// fill; the lookup is re-attempted once and the record merged into that
// contact before any error surfaces.
func (r *Resolver) merge(rec *models.IncomingRecord, existing *models.Contact, confidence Confidence, reason string) (*Result, error) {
	result, err := r.applyMerge(rec, existing, confidence, reason)
	if err == nil {
		return result, nil
	}

	owner, lookupErr := db.GetContactByEmail(r.db, rec.Email)
	if lookupErr != nil || owner == nil || owner.ID == existing.ID {
		return nil, err
	}

	ownerConfidence, signals := ScoreCandidate(rec, owner, r.nameThreshold)
	retry := &Candidate{Contact: owner, Confidence: ownerConfidence, Signals: signals}
	return r.applyMerge(rec, owner, ownerConfidence, matchReason(retry)+" (contact created concurrently)")
}

func (r *Resolver) applyMerge(rec *models.IncomingRecord, existing *models.Contact, confidence Confidence, reason string) (*Result, error) {
	merged, changed, conflicts := MergeContact(existing, rec)

	for _, fc := range conflicts {
		log.Printf("warning: conflicting %s for contact %s: keeping %q, ignoring %q",
			fc.Field, merged.ID, fc.Existing, fc.Incoming)
	}

	if err := db.ApplyMerge(r.db, &merged, changed, payloadFromRecord(rec)); err != nil {
		return nil, fmt.Errorf("failed to apply merge: %w", err)
	}

	return &Result{
		Contact:    &merged,
		Created:    false,
		Confidence: confidence,
		Reason:     reason,
		Conflicts:  conflicts,
	}, nil
}

func contactFromRecord(rec *models.IncomingRecord) *models.Contact {
	contact := &models.Contact{
		Name:    rec.Name,
		Email:   models.NormalizeEmail(rec.Email),
		Phone:   rec.Phone,
		Company: rec.Company,
		Title:   rec.Title,
		Notes:   rec.Notes,
	}
	if contact.Name == "" {
		contact.Name = PlaceholderName
	}
	contact.AddLeadSource(rec.Source)
	if !rec.CreatedAt.IsZero() {
		t := rec.CreatedAt
		contact.LastActivityAt = &t
	}
	return contact
}

func payloadFromRecord(rec *models.IncomingRecord) *models.SourcePayload {
	if rec.Source == "" {
		return nil
	}
	return &models.SourcePayload{
		Source:   rec.Source,
		SourceID: rec.SourceID,
		Data:     rec.SourceData,
	}
}

func matchReason(c *Candidate) string {
	switch c.strongestSignal() {
	case SignalEmail:
		return "matched by exact email"
	case SignalEmailVariant:
		return "matched by plus-addressed email variant"
	case SignalPhone:
		return "matched by phone number"
	case SignalName:
		corroborated := ""
		for _, s := range c.Signals {
			if s == SignalCompany {
				corroborated = " and matching company"
				break
			}
			if s == SignalDomain {
				corroborated = " and matching email domain"
			}
		}
		return "matched by name similarity" + corroborated
	default:
		return "matched"
	}
}
