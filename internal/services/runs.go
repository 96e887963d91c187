package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

// recordRun appends one bookkeeping row for this import to the
// brix_import_runs table, so repeated imports against the same database stay
// auditable. Failure to record is reported and never fails the run.
func recordRun(ctx context.Context, conn *sql.DB, log brix.Logger, summary *brix.ImportSummary, start time.Time) {
	createSQL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		run_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		files_loaded INTEGER NOT NULL,
		rows_inserted INTEGER NOT NULL
	);`, brix.RunsTable)
	if _, err := conn.ExecContext(ctx, createSQL); err != nil {
		log.Error("Failed to create %s: %v", brix.RunsTable, err)
		return
	}

	loaded := 0
	for _, r := range summary.Results {
		if !r.Skipped {
			loaded++
		}
	}

	insertSQL := fmt.Sprintf(`INSERT INTO %q
		(run_id, started_at, finished_at, files_loaded, rows_inserted)
		VALUES (?, ?, ?, ?, ?)`, brix.RunsTable)
	_, err := conn.ExecContext(ctx, insertSQL,
		summary.RunID.String(),
		start.UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
		loaded,
		summary.TotalRows(),
	)
	if err != nil {
		log.Error("Failed to record run %s: %v", summary.RunID, err)
	}
}
