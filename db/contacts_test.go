// ABOUTME: Tests for contact storage and lookup queries
// ABOUTME: Covers CRUD, normalized lookups, and merge persistence
package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attrib/models"
)

func TestCreateAndGetContact(t *testing.T) {
	database := setupTestDB(t)

	contact := &models.Contact{
		Name:    "Jane Doe",
		Email:   "Jane@Acme.COM",
		Phone:   "(555) 123-4567",
		Company: "Acme",
	}
	require.NoError(t, CreateContact(database, contact))
	require.NotEqual(t, "", contact.ID.String())

	got, err := GetContact(database, contact.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "jane@acme.com", got.Email, "email is normalized on insert")
	assert.Equal(t, "(555) 123-4567", got.Phone, "display phone keeps its formatting")
	assert.Equal(t, "Acme", got.Company)
}

func TestGetContactNotFound(t *testing.T) {
	database := setupTestDB(t)

	got, err := GetContact(database, [16]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetContactByEmailNormalizes(t *testing.T) {
	database := setupTestDB(t)

	contact := &models.Contact{Name: "Jane Doe", Email: "jane@acme.com"}
	require.NoError(t, CreateContact(database, contact))

	got, err := GetContactByEmail(database, "  JANE@ACME.COM ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, contact.ID, got.ID)

	missing, err := GetContactByEmail(database, "nobody@acme.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	blank, err := GetContactByEmail(database, "")
	require.NoError(t, err)
	assert.Nil(t, blank)
}

func TestCreateContactDuplicateEmail(t *testing.T) {
	database := setupTestDB(t)

	first := &models.Contact{Name: "Jane Doe", Email: "jane@acme.com"}
	require.NoError(t, CreateContact(database, first))

	second := &models.Contact{Name: "Other Jane", Email: "jane@acme.com"}
	assert.Error(t, CreateContact(database, second))
}

func TestCreateContactWithSourceRollsBack(t *testing.T) {
	database := setupTestDB(t)

	first := &models.Contact{Name: "Jane Doe", Email: "jane@acme.com"}
	require.NoError(t, CreateContact(database, first))

	dup := &models.Contact{Name: "Other Jane", Email: "jane@acme.com"}
	payload := &models.SourcePayload{Source: models.SourceCRM, SourceID: "lead_1", Data: "{}"}
	require.Error(t, CreateContactWithSource(database, dup, payload))

	// Nothing from the failed transaction survives.
	var contacts, payloads int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM contacts").Scan(&contacts))
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM contact_sources").Scan(&payloads))
	assert.Equal(t, 1, contacts)
	assert.Equal(t, 0, payloads)
}

func TestFindContactsByCanonicalEmail(t *testing.T) {
	database := setupTestDB(t)

	base := &models.Contact{Name: "Jane Doe", Email: "jane@acme.com"}
	require.NoError(t, CreateContact(database, base))
	tagged := &models.Contact{Name: "Jane D", Email: "jane+news@acme.com"}
	require.NoError(t, CreateContact(database, tagged))
	other := &models.Contact{Name: "Bob", Email: "bob@acme.com"}
	require.NoError(t, CreateContact(database, other))

	// Incoming tagged address finds the base contact.
	matches, err := FindContactsByCanonicalEmail(database, "jane+webinar@acme.com")
	require.NoError(t, err)
	ids := contactIDs(matches)
	assert.Contains(t, ids, base.ID.String())
	assert.NotContains(t, ids, other.ID.String())

	// Incoming base address finds the tagged variant.
	matches, err = FindContactsByCanonicalEmail(database, "jane@acme.com")
	require.NoError(t, err)
	ids = contactIDs(matches)
	assert.Contains(t, ids, tagged.ID.String())
	assert.NotContains(t, ids, base.ID.String(), "exact address is excluded, it is the email pass's job")
}

func TestFindContactsByPhone(t *testing.T) {
	database := setupTestDB(t)

	contact := &models.Contact{Name: "Jane Doe", Phone: "+1 (555) 123-4567"}
	require.NoError(t, CreateContact(database, contact))

	matches, err := FindContactsByPhone(database, "1-555-123-4567")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, contact.ID, matches[0].ID)

	none, err := FindContactsByPhone(database, "555-000-0000")
	require.NoError(t, err)
	assert.Empty(t, none)

	blank, err := FindContactsByPhone(database, "--")
	require.NoError(t, err)
	assert.Empty(t, blank)
}

func TestFindContactsForFuzzy(t *testing.T) {
	database := setupTestDB(t)

	require.NoError(t, CreateContact(database, &models.Contact{Name: "Samantha Park", Company: "Acme"}))
	require.NoError(t, CreateContact(database, &models.Contact{Name: "Bob Lee", Company: "Acme"}))
	require.NoError(t, CreateContact(database, &models.Contact{Name: "Sam Other", Company: "Globex"}))

	// Name token hits rows with matching name, company hits the rest.
	matches, err := FindContactsForFuzzy(database, "Samantha", "Acme", 0)
	require.NoError(t, err)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Name)
	}
	assert.Contains(t, names, "Samantha Park")
	assert.Contains(t, names, "Bob Lee")
	assert.NotContains(t, names, "Sam Other")
}

func TestApplyMerge(t *testing.T) {
	database := setupTestDB(t)

	contact := &models.Contact{Name: "Jane Doe", Email: "jane@acme.com"}
	require.NoError(t, CreateContact(database, contact))

	contact.Phone = "555-1234"
	payload := &models.SourcePayload{
		Source:   models.SourceScheduling,
		SourceID: "inv_1",
		Data:     `{"uri":"inv_1"}`,
	}
	require.NoError(t, ApplyMerge(database, contact, true, payload))

	got, err := GetContact(database, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-1234", got.Phone)

	payloads, err := GetSourcePayloads(database, contact.ID)
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, models.SourceScheduling, payloads[0].Source)
}

func TestApplyMergeNoFieldChanges(t *testing.T) {
	database := setupTestDB(t)

	contact := &models.Contact{Name: "Jane Doe", Email: "jane@acme.com"}
	require.NoError(t, CreateContact(database, contact))
	originalUpdated := contact.UpdatedAt

	time.Sleep(10 * time.Millisecond)

	payload := &models.SourcePayload{Source: models.SourceCRM, SourceID: "lead_1", Data: "{}"}
	require.NoError(t, ApplyMerge(database, contact, false, payload))

	// The payload is recorded even when no contact field changed.
	payloads, err := GetSourcePayloads(database, contact.ID)
	require.NoError(t, err)
	require.Len(t, payloads, 1)

	got, err := GetContact(database, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, originalUpdated.Unix(), got.UpdatedAt.Unix(), "no-op merge leaves updated_at alone")
}

func TestUpsertSourcePayloadReplacesPerSource(t *testing.T) {
	database := setupTestDB(t)

	contact := &models.Contact{Name: "Jane Doe", Email: "jane@acme.com"}
	require.NoError(t, CreateContact(database, contact))

	first := &models.SourcePayload{ContactID: contact.ID, Source: models.SourceCRM, SourceID: "lead_1", Data: `{"v":1}`}
	require.NoError(t, UpsertSourcePayload(database, first))
	second := &models.SourcePayload{ContactID: contact.ID, Source: models.SourceCRM, SourceID: "lead_1", Data: `{"v":2}`}
	require.NoError(t, UpsertSourcePayload(database, second))

	payloads, err := GetSourcePayloads(database, contact.ID)
	require.NoError(t, err)
	require.Len(t, payloads, 1, "one payload per contact+source pair")
	assert.Equal(t, `{"v":2}`, payloads[0].Data)
}

func contactIDs(contacts []models.Contact) []string {
	ids := make([]string, 0, len(contacts))
	for _, c := range contacts {
		ids = append(ids, c.ID.String())
	}
	return ids
}
