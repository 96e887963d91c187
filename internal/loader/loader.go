package loader

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

// Loader writes one table at a time to the target database. The create +
// load + index sequence for a table completes before the next table begins;
// there is no concurrent access to the shared connection.
type Loader struct {
	db        *sql.DB
	log       brix.Logger
	batchSize int
}

// New creates a Loader inserting batchSize rows per transaction.
func New(db *sql.DB, log brix.Logger, batchSize int) *Loader {
	return &Loader{db: db, log: log, batchSize: batchSize}
}

// LoadTable runs the full per-table sequence: the skip-large check (before
// anything is created), table creation, row streaming, and index creation.
// One table's sequence completes before the next table begins.
func (l *Loader) LoadTable(ctx context.Context, meta *brix.TableMetadata, fks []brix.ForeignKey, maxRows, skipLarge int64) (brix.TableResult, error) {
	result := brix.TableResult{Table: meta.Name}

	if skipLarge > 0 {
		total, err := countDataRows(meta.SourcePath)
		if err != nil {
			return result, err
		}
		if total > skipLarge {
			l.log.Info("  Skipping large file (%d rows) > %d", total, skipLarge)
			result.Skipped = true
			result.SkipReason = fmt.Sprintf("%d rows exceed skip-large threshold %d", total, skipLarge)
			return result, nil
		}
	}

	if err := l.CreateTable(ctx, meta, fks); err != nil {
		return result, err
	}

	inserted, err := l.insertRows(ctx, meta, maxRows)
	if err != nil {
		return result, err
	}
	result.RowsInserted = inserted
	l.log.Info("  Inserted %d rows into '%s'", inserted, meta.Name)

	l.CreateIndexes(ctx, meta)
	return result, nil
}

// CreateTable emits a CREATE TABLE IF NOT EXISTS statement with the inferred
// column types, an inline PRIMARY KEY marker when one was detected, and
// inline FOREIGN KEY clauses for the resolved references.
func (l *Loader) CreateTable(ctx context.Context, meta *brix.TableMetadata, fks []brix.ForeignKey) error {
	parts := make([]string, 0, len(meta.Columns)+len(fks))
	for _, col := range meta.Columns {
		def := fmt.Sprintf("%s %s", quoteIdent(col.SanitizedName), col.Type)
		if meta.PKDetected && col.SanitizedName == meta.PKColumn {
			def += " PRIMARY KEY"
		}
		parts = append(parts, def)
	}
	for _, fk := range fks {
		parts = append(parts, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)",
			quoteIdent(fk.Column), quoteIdent(fk.RefTable), quoteIdent(fk.RefColumn)))
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);",
		quoteIdent(meta.Name), strings.Join(parts, ", "))
	if _, err := l.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", meta.Name, err)
	}
	return nil
}

// DropTable removes a table if it exists. Used by the --drop workflow.
func (l *Loader) DropTable(ctx context.Context, table string) error {
	if _, err := l.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", quoteIdent(table))); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	return nil
}

// insertRows streams the source rows of meta into its table.
//
// Rows shorter than the column count are padded with NULLs, longer rows are
// truncated. Each value is coerced to its column's inferred type when
// parseable and inserted as raw text otherwise; empty strings become NULL.
// Inserts use INSERT OR IGNORE in batches, so re-running against an
// already-populated table is a no-op for previously inserted rows.
// maxRows caps insertion per file (0 = unlimited).
func (l *Loader) insertRows(ctx context.Context, meta *brix.TableMetadata, maxRows int64) (inserted int64, err error) {
	f, err := os.Open(meta.SourcePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", meta.SourcePath, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read header of %s: %w", meta.SourcePath, err)
	}

	cols := meta.SanitizedColumnNames()
	insertSQL := buildInsertSQL(meta.Name, cols)

	batch := make([][]any, 0, l.batchSize)
	for {
		if maxRows > 0 && inserted >= maxRows {
			break
		}
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return inserted, fmt.Errorf("failed to read %s: %w", meta.SourcePath, err)
		}

		batch = append(batch, coerceRow(row, meta.Columns))
		inserted++

		if len(batch) >= l.batchSize {
			if err := l.flush(ctx, insertSQL, batch); err != nil {
				return inserted, err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := l.flush(ctx, insertSQL, batch); err != nil {
			return inserted, err
		}
	}
	return inserted, nil
}

// CreateIndexes creates an index on every foreign-key-like column (name ends
// in _id) that is not itself the primary key. Failures are reported per
// column and do not abort the rest of the load.
func (l *Loader) CreateIndexes(ctx context.Context, meta *brix.TableMetadata) {
	for _, col := range meta.Columns {
		name := col.SanitizedName
		if !strings.HasSuffix(strings.ToLower(name), "_id") {
			continue
		}
		if meta.PKDetected && name == meta.PKColumn {
			continue
		}
		idx := fmt.Sprintf("idx_%s_%s", meta.Name, name)
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s);",
			quoteIdent(idx), quoteIdent(meta.Name), quoteIdent(name))
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			l.log.Error("  Failed to create index on %s.%s: %v", meta.Name, name, err)
			continue
		}
		l.log.Verbose("  Created index %s on %s", idx, name)
	}
}

// flush inserts one batch inside its own transaction.
func (l *Loader) flush(ctx context.Context, insertSQL string, batch [][]any) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	for _, row := range batch {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// coerceRow pads or truncates a raw record to the column count and coerces
// each value to its column's inferred type.
func coerceRow(row []string, cols []brix.Column) []any {
	out := make([]any, len(cols))
	for i, col := range cols {
		if i >= len(row) || row[i] == "" {
			out[i] = nil
			continue
		}
		out[i] = coerce(row[i], col.Type)
	}
	return out
}

// coerce converts v to the Go representation of t. A value that defeats
// parsing is kept as raw text rather than failing the row.
func coerce(v string, t brix.ColumnType) any {
	switch t {
	case brix.TypeInteger:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case brix.TypeReal:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return v
}

func buildInsertSQL(table string, cols []string) string {
	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}

// quoteIdent double-quotes an identifier. Names are already sanitized; the
// quoting guards against identifiers that collide with SQL keywords.
func quoteIdent(s string) string {
	return `"` + s + `"`
}

// countDataRows counts the data rows of a CSV file, excluding the header.
func countDataRows(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	var count int64
	for {
		if _, err := r.Read(); err != nil {
			if err == io.EOF {
				break
			}
			return 0, fmt.Errorf("failed to count rows of %s: %w", path, err)
		}
		count++
	}
	if count > 0 {
		count-- // header
	}
	return count, nil
}
