// ABOUTME: Tests for the field-level merge policy
// ABOUTME: Verifies fill-if-empty, unions, note concatenation, and conflicts
package resolver

import (
	"testing"
	"time"

	"attrib/models"

	"github.com/google/uuid"
)

func baseContact() *models.Contact {
	return &models.Contact{
		ID:           uuid.New(),
		Name:         "Jane Doe",
		Email:        "jane@acme.com",
		LeadSource:   models.SourceCRM,
		SourcesCount: 1,
	}
}

func TestMergeFillsEmptyFields(t *testing.T) {
	existing := baseContact()
	rec := &models.IncomingRecord{
		Name:    "Jane Doe",
		Email:   "jane@acme.com",
		Phone:   "555-1234",
		Company: "Acme",
		Title:   "VP Sales",
		Source:  models.SourceCRM,
	}

	merged, changed, conflicts := MergeContact(existing, rec)
	if !changed {
		t.Fatal("expected merge to report a change")
	}
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}
	if merged.Phone != "555-1234" || merged.Company != "Acme" || merged.Title != "VP Sales" {
		t.Errorf("empty fields not filled: %+v", merged)
	}
}

func TestMergeNeverDowngrades(t *testing.T) {
	existing := baseContact()
	existing.Phone = "555-1234"
	existing.Company = "Acme"
	existing.Title = "VP Sales"
	existing.Notes = "important"

	// Incoming record with everything blank must not erase anything.
	rec := &models.IncomingRecord{Email: "jane@acme.com", Source: models.SourceCRM}

	merged, _, conflicts := MergeContact(existing, rec)
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}
	if merged.Phone != "555-1234" || merged.Company != "Acme" || merged.Title != "VP Sales" || merged.Notes != "important" {
		t.Errorf("merge downgraded populated fields: %+v", merged)
	}
}

func TestMergeConflictKeepsExisting(t *testing.T) {
	existing := baseContact()
	existing.Company = "Acme Inc"
	rec := &models.IncomingRecord{
		Email:   "jane@acme.com",
		Company: "Acme Corp",
		Source:  models.SourceCRM,
	}

	merged, _, conflicts := MergeContact(existing, rec)
	if merged.Company != "Acme Inc" {
		t.Errorf("expected existing company retained, got %q", merged.Company)
	}
	if len(conflicts) != 1 || conflicts[0].Field != "company" {
		t.Fatalf("expected one company conflict, got %v", conflicts)
	}
	if conflicts[0].Existing != "Acme Inc" || conflicts[0].Incoming != "Acme Corp" {
		t.Errorf("conflict values wrong: %+v", conflicts[0])
	}
}

func TestMergePhoneFormattingIsNotAConflict(t *testing.T) {
	existing := baseContact()
	existing.Phone = "(555) 123-4567"
	rec := &models.IncomingRecord{
		Email:  "jane@acme.com",
		Phone:  "555.123.4567",
		Source: models.SourceCRM,
	}

	_, _, conflicts := MergeContact(existing, rec)
	if len(conflicts) != 0 {
		t.Errorf("same number in different formatting flagged as conflict: %v", conflicts)
	}
}

func TestMergeReplacesPlaceholderName(t *testing.T) {
	existing := baseContact()
	existing.Name = PlaceholderName
	rec := &models.IncomingRecord{Name: "Jane Doe", Email: "jane@acme.com", Source: models.SourceCRM}

	merged, changed, _ := MergeContact(existing, rec)
	if !changed || merged.Name != "Jane Doe" {
		t.Errorf("placeholder name not replaced: %q", merged.Name)
	}

	// A real stored name is kept even when the incoming one differs.
	existing.Name = "Jane R. Doe"
	merged, _, _ = MergeContact(existing, rec)
	if merged.Name != "Jane R. Doe" {
		t.Errorf("real name overwritten: %q", merged.Name)
	}
}

func TestMergeEmailNeverOverwritten(t *testing.T) {
	existing := baseContact()
	rec := &models.IncomingRecord{
		Name:   "Jane Doe",
		Email:  "jane@other.com",
		Phone:  "555-1234",
		Source: models.SourceCRM,
	}

	merged, _, conflicts := MergeContact(existing, rec)
	if merged.Email != "jane@acme.com" {
		t.Errorf("email overwritten to %q", merged.Email)
	}

	found := false
	for _, fc := range conflicts {
		if fc.Field == "email" {
			found = true
		}
	}
	if !found {
		t.Error("expected a conflict for the differing email")
	}
}

func TestMergeFillsEmptyEmail(t *testing.T) {
	existing := baseContact()
	existing.Email = ""
	rec := &models.IncomingRecord{Name: "Jane Doe", Email: "Jane@Acme.com", Source: models.SourceForms}

	merged, changed, _ := MergeContact(existing, rec)
	if !changed || merged.Email != "jane@acme.com" {
		t.Errorf("empty email not filled normalized: %q", merged.Email)
	}
}

func TestMergeNotesConcatenate(t *testing.T) {
	existing := baseContact()
	existing.Notes = "First note"
	rec := &models.IncomingRecord{
		Email:  "jane@acme.com",
		Notes:  "Second note",
		Source: models.SourceCRM,
	}

	merged, _, _ := MergeContact(existing, rec)
	if merged.Notes != "First note\n\nSecond note" {
		t.Errorf("notes not concatenated: %q", merged.Notes)
	}

	// Merging the same note again must not duplicate it.
	again, changed, _ := MergeContact(&merged, rec)
	if changed {
		t.Error("re-merge of same note reported a change")
	}
	if again.Notes != merged.Notes {
		t.Errorf("note duplicated on re-merge: %q", again.Notes)
	}
}

func TestMergeLeadSourceUnion(t *testing.T) {
	existing := baseContact() // leadSource = close
	rec := &models.IncomingRecord{Email: "jane@acme.com", Source: models.SourceScheduling}

	merged, changed, _ := MergeContact(existing, rec)
	if !changed {
		t.Fatal("expected change from new lead source")
	}

	sources := merged.LeadSources()
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %v", sources)
	}
	if !merged.HasLeadSource(models.SourceCRM) || !merged.HasLeadSource(models.SourceScheduling) {
		t.Errorf("lead source union wrong: %v", sources)
	}
	if merged.SourcesCount != 2 {
		t.Errorf("sourcesCount = %d, want 2", merged.SourcesCount)
	}

	// Same source again is a no-op for the set.
	again, _, _ := MergeContact(&merged, rec)
	if again.SourcesCount != 2 || len(again.LeadSources()) != 2 {
		t.Errorf("re-merge duplicated source tag: %v", again.LeadSources())
	}
}

func TestMergeLastActivityMovesForwardOnly(t *testing.T) {
	existing := baseContact()
	now := time.Now()
	existing.LastActivityAt = &now

	earlier := &models.IncomingRecord{
		Email:     "jane@acme.com",
		Source:    models.SourceCRM,
		CreatedAt: now.Add(-24 * time.Hour),
	}
	merged, changed, _ := MergeContact(existing, earlier)
	if changed {
		t.Error("older record should not change anything")
	}
	if !merged.LastActivityAt.Equal(now) {
		t.Errorf("lastActivity moved backwards to %v", merged.LastActivityAt)
	}

	later := &models.IncomingRecord{
		Email:     "jane@acme.com",
		Source:    models.SourceCRM,
		CreatedAt: now.Add(24 * time.Hour),
	}
	merged, changed, _ = MergeContact(existing, later)
	if !changed || !merged.LastActivityAt.Equal(later.CreatedAt) {
		t.Errorf("lastActivity not advanced: %v", merged.LastActivityAt)
	}
}

func TestMergeNoOpForIdenticalRecord(t *testing.T) {
	existing := baseContact()
	existing.Phone = "555-1234"
	existing.Company = "Acme"
	existing.Notes = "hello"
	now := time.Now()
	existing.LastActivityAt = &now

	rec := &models.IncomingRecord{
		Name:      "Jane Doe",
		Email:     "jane@acme.com",
		Phone:     "555-1234",
		Company:   "Acme",
		Notes:     "hello",
		Source:    models.SourceCRM,
		CreatedAt: now,
	}

	_, changed, conflicts := MergeContact(existing, rec)
	if changed {
		t.Error("identical record should be a no-op")
	}
	if len(conflicts) != 0 {
		t.Errorf("identical record produced conflicts: %v", conflicts)
	}
}
