// ABOUTME: Sync status MCP tool handlers
// ABOUTME: Exposes ingestion state for each source platform
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"attrib/db"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type SyncHandlers struct {
	db *sql.DB
}

func NewSyncHandlers(database *sql.DB) *SyncHandlers {
	return &SyncHandlers{db: database}
}

type SyncStatusInput struct {
	Service string `json:"service,omitempty" jsonschema:"Limit to one platform tag (close, calendly, or typeform)"`
}

type SyncStateOutput struct {
	Service      string  `json:"service"`
	Status       string  `json:"status"`
	LastSyncTime *string `json:"last_sync_time,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
}

type SyncStatusOutput struct {
	States []SyncStateOutput `json:"states"`
}

func (h *SyncHandlers) SyncStatus(_ context.Context, request *mcp.CallToolRequest, input SyncStatusInput) (*mcp.CallToolResult, SyncStatusOutput, error) {
	var states []db.SyncState

	if input.Service != "" {
		state, err := db.GetSyncState(h.db, input.Service)
		if err != nil {
			return nil, SyncStatusOutput{}, fmt.Errorf("failed to get sync state: %w", err)
		}
		if state != nil {
			states = append(states, *state)
		}
	} else {
		var err error
		states, err = db.GetAllSyncStates(h.db)
		if err != nil {
			return nil, SyncStatusOutput{}, fmt.Errorf("failed to get sync states: %w", err)
		}
	}

	out := SyncStatusOutput{}
	for _, state := range states {
		s := SyncStateOutput{
			Service:      state.Service,
			Status:       state.Status,
			ErrorMessage: state.ErrorMessage,
		}
		if state.LastSyncTime != nil {
			ts := state.LastSyncTime.Format(time.RFC3339)
			s.LastSyncTime = &ts
		}
		out.States = append(out.States, s)
	}

	return nil, out, nil
}
