// ABOUTME: Tests for sync state tracking and the import log
// ABOUTME: Covers status transitions and duplicate-record suppression
package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attrib/models"
)

func TestSyncStateLifecycle(t *testing.T) {
	database := setupTestDB(t)

	state, err := GetSyncState(database, models.SourceCRM)
	require.NoError(t, err)
	assert.Nil(t, state, "unknown service has no state")

	require.NoError(t, UpdateSyncStatus(database, models.SourceCRM, models.SyncStatusSyncing, nil))

	state, err = GetSyncState(database, models.SourceCRM)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.SyncStatusSyncing, state.Status)
	assert.Nil(t, state.LastSyncTime)

	require.NoError(t, MarkSyncComplete(database, models.SourceCRM))

	state, err = GetSyncState(database, models.SourceCRM)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.SyncStatusIdle, state.Status)
	require.NotNil(t, state.LastSyncTime)
}

func TestSyncStateError(t *testing.T) {
	database := setupTestDB(t)

	msg := "export file unreadable"
	require.NoError(t, UpdateSyncStatus(database, models.SourceForms, models.SyncStatusError, &msg))

	state, err := GetSyncState(database, models.SourceForms)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.SyncStatusError, state.Status)
	require.NotNil(t, state.ErrorMessage)
	assert.Equal(t, msg, *state.ErrorMessage)

	// Recovery clears the error.
	require.NoError(t, UpdateSyncStatus(database, models.SourceForms, models.SyncStatusSyncing, nil))
	state, err = GetSyncState(database, models.SourceForms)
	require.NoError(t, err)
	assert.Nil(t, state.ErrorMessage)
}

func TestSyncLogDedupe(t *testing.T) {
	database := setupTestDB(t)
	contactID := uuid.New()

	exists, err := CheckSyncLogExists(database, models.SourceCRM, "lead_1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, CreateSyncLog(database, models.SourceCRM, "lead_1", contactID))

	exists, err = CheckSyncLogExists(database, models.SourceCRM, "lead_1")
	require.NoError(t, err)
	assert.True(t, exists)

	// Re-logging the same source record is a no-op, not an error.
	require.NoError(t, CreateSyncLog(database, models.SourceCRM, "lead_1", contactID))

	var count int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM sync_log").Scan(&count))
	assert.Equal(t, 1, count)

	// The same id under a different service is a distinct record.
	exists, err = CheckSyncLogExists(database, models.SourceScheduling, "lead_1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetAllSyncStates(t *testing.T) {
	database := setupTestDB(t)

	require.NoError(t, UpdateSyncStatus(database, models.SourceCRM, models.SyncStatusIdle, nil))
	require.NoError(t, UpdateSyncStatus(database, models.SourceScheduling, models.SyncStatusSyncing, nil))

	states, err := GetAllSyncStates(database)
	require.NoError(t, err)
	assert.Len(t, states, 2)
}
