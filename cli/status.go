// ABOUTME: Sync status CLI command
// ABOUTME: Prints per-platform ingestion state
package cli

import (
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"

	"attrib/db"
)

// SyncStatusCommand shows the ingestion state of each source platform.
func SyncStatusCommand(database *sql.DB, args []string) error {
	states, err := db.GetAllSyncStates(database)
	if err != nil {
		return fmt.Errorf("failed to load sync states: %w", err)
	}

	if len(states) == 0 {
		fmt.Println("No imports have run yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SERVICE\tSTATUS\tLAST SYNC\tERROR")
	_, _ = fmt.Fprintln(w, "-------\t------\t---------\t-----")

	for _, state := range states {
		lastSync := "-"
		if state.LastSyncTime != nil {
			lastSync = state.LastSyncTime.Format("2006-01-02 15:04")
		}
		errMsg := "-"
		if state.ErrorMessage != nil && *state.ErrorMessage != "" {
			errMsg = *state.ErrorMessage
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", state.Service, state.Status, lastSync, errMsg)
	}
	_ = w.Flush()

	return nil
}
