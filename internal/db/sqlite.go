// Package db opens and configures the target SQLite database.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

// Open creates or opens the SQLite database at path and applies the pragmas
// the load pass depends on: foreign-key enforcement OFF (constraints are
// advisory until the post-load integrity check turns enforcement on),
// synchronous NORMAL and WAL journaling for bulk-insert throughput.
//
// The returned handle is used serially by the pipeline; SQLite requires no
// locking discipline beyond that. Callers must Close it on all exit paths.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, brix.ErrDatabaseOpen)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %v: %w", path, err, brix.ErrDatabaseOpen)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = OFF;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA journal_mode = WAL;",
	}
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to apply %q: %v: %w", p, err, brix.ErrDatabaseOpen)
		}
	}
	return conn, nil
}
