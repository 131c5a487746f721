// ABOUTME: Tests for the find_contacts and get_contact MCP tool handlers
// ABOUTME: Covers search, lookup by id and email, and source payload output
package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attrib/db"
	"attrib/models"
)

func TestFindContacts(t *testing.T) {
	database := setupTestDB(t)

	require.NoError(t, db.CreateContact(database, &models.Contact{Name: "Jane Doe", Email: "jane@acme.com", Company: "Acme"}))
	require.NoError(t, db.CreateContact(database, &models.Contact{Name: "Bob Lee", Email: "bob@globex.com", Company: "Globex"}))

	h := NewContactHandlers(database)

	_, out, err := h.FindContacts(context.Background(), nil, FindContactsInput{Query: "acme"})
	require.NoError(t, err)
	require.Len(t, out.Contacts, 1)
	assert.Equal(t, "Jane Doe", out.Contacts[0].Name)

	_, out, err = h.FindContacts(context.Background(), nil, FindContactsInput{})
	require.NoError(t, err)
	assert.Len(t, out.Contacts, 2, "empty query lists everyone")
}

func TestGetContactByID(t *testing.T) {
	database := setupTestDB(t)

	contact := &models.Contact{Name: "Jane Doe", Email: "jane@acme.com"}
	require.NoError(t, db.CreateContact(database, contact))
	require.NoError(t, db.UpsertSourcePayload(database, &models.SourcePayload{
		ContactID: contact.ID,
		Source:    models.SourceCRM,
		SourceID:  "lead_1",
		Data:      `{"id":"lead_1"}`,
	}))

	h := NewContactHandlers(database)
	_, out, err := h.GetContact(context.Background(), nil, GetContactInput{ID: contact.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", out.Contact.Name)
	require.Len(t, out.Sources, 1)
	assert.Equal(t, models.SourceCRM, out.Sources[0].Source)
	assert.Equal(t, "lead_1", out.Sources[0].SourceID)
}

func TestGetContactByEmail(t *testing.T) {
	database := setupTestDB(t)

	contact := &models.Contact{Name: "Jane Doe", Email: "jane@acme.com"}
	require.NoError(t, db.CreateContact(database, contact))

	h := NewContactHandlers(database)
	_, out, err := h.GetContact(context.Background(), nil, GetContactInput{Email: "JANE@ACME.COM"})
	require.NoError(t, err)
	assert.Equal(t, contact.ID.String(), out.Contact.ID)
}

func TestGetContactErrors(t *testing.T) {
	h := NewContactHandlers(setupTestDB(t))

	_, _, err := h.GetContact(context.Background(), nil, GetContactInput{})
	assert.Error(t, err, "id or email required")

	_, _, err = h.GetContact(context.Background(), nil, GetContactInput{ID: "not-a-uuid"})
	assert.Error(t, err)

	_, _, err = h.GetContact(context.Background(), nil, GetContactInput{Email: "nobody@x.com"})
	assert.Error(t, err, "unknown contact is an error")
}
