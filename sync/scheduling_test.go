// ABOUTME: Tests for scheduling invitee export parsing
// ABOUTME: Verifies booking-form answer extraction and invitee id derivation
package sync

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attrib/models"
)

const schedulingFixture = `{
  "collection": [
    {
      "uri": "https://api.example.com/scheduled_events/ev1/invitees/inv_xyz",
      "name": "Sam Park",
      "email": "sam@acme.com",
      "event_name": "Intro Call",
      "created_at": "2026-02-01T09:30:00Z",
      "questions_and_answers": [
        {"question": "What is your phone number?", "answer": "555-987-6543"},
        {"question": "Company name", "answer": "Acme"},
        {"question": "Anything else?", "answer": "Looking forward to it"}
      ]
    },
    {
      "uri": "https://api.example.com/scheduled_events/ev2/invitees/inv_min/",
      "name": "Min Fields",
      "email": "min@x.com",
      "created_at": "2026-02-02T10:00:00Z"
    }
  ]
}`

func TestParseSchedulingExport(t *testing.T) {
	records, err := ParseSchedulingExport(strings.NewReader(schedulingFixture))
	require.NoError(t, err)
	require.Len(t, records, 2)

	sam := records[0]
	assert.Equal(t, "Sam Park", sam.Name)
	assert.Equal(t, "sam@acme.com", sam.Email)
	assert.Equal(t, "555-987-6543", sam.Phone, "phone pulled from the booking form")
	assert.Equal(t, "Acme", sam.Company)
	assert.Equal(t, "Booked meeting: Intro Call", sam.Notes)
	assert.Equal(t, models.SourceScheduling, sam.Source)
	assert.Equal(t, "inv_xyz", sam.SourceID)

	min := records[1]
	assert.Equal(t, "inv_min", min.SourceID, "trailing slash is stripped")
	assert.Empty(t, min.Phone)
	assert.Empty(t, min.Notes)
}

func TestInviteeID(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"https://api.example.com/invitees/abc", "abc"},
		{"https://api.example.com/invitees/abc/", "abc"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := inviteeID(tt.uri); got != tt.want {
			t.Errorf("inviteeID(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
