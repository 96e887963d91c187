package brix

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ColumnType is an inferred SQLite storage type for a CSV column.
type ColumnType string

const (
	TypeInteger ColumnType = "INTEGER"
	TypeReal    ColumnType = "REAL"
	TypeText    ColumnType = "TEXT"
)

// SourceFile is a discovered CSV file together with its derived table name.
type SourceFile struct {
	// Path is the absolute or caller-relative path to the CSV file.
	Path string

	// Table is the sanitized table name derived from the file's base name,
	// deduplicated against collisions with other files in the same run.
	Table string
}

// Column describes one header column of a source file.
type Column struct {
	// Name is the original header cell, whitespace-trimmed.
	Name string

	// SanitizedName is the identifier-safe name used in SQL statements.
	// Unique within a table; collisions and empty cells fall back to col_N.
	SanitizedName string

	// Type is the inferred storage type (Integer until demoted).
	Type ColumnType

	// Position is the zero-based ordinal of the column in the header.
	Position int
}

// TableMetadata holds everything the load pass needs to know about one table.
// Computed once per run during the metadata pass and discarded on completion.
type TableMetadata struct {
	Name       string
	SourcePath string
	Columns    []Column

	// PKColumn is the sanitized name of the detected primary-key column.
	// Empty when detection was disabled, skipped, or found no candidate.
	PKColumn   string
	PKDetected bool
}

// SanitizedColumnNames returns the sanitized names in ordinal order.
func (t *TableMetadata) SanitizedColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.SanitizedName
	}
	return names
}

// ForeignKey is a heuristically resolved reference from one table's column
// to another table. Advisory until the post-load integrity check.
type ForeignKey struct {
	Column    string // owning column (sanitized, ends in _id)
	RefTable  string
	RefColumn string
}

// Violation is one row reported by the post-load referential-integrity scan.
type Violation struct {
	Table      string
	RowID      int64
	Parent     string
	Constraint int64 // foreign-key index within the referencing table
}

// TableResult summarizes the load outcome for one table.
type TableResult struct {
	Table        string
	RowsInserted int64
	Skipped      bool
	SkipReason   string
}

// ImportSummary is the final report of an import run.
type ImportSummary struct {
	RunID      uuid.UUID
	Results    []TableResult
	Violations []Violation
	Duration   time.Duration
}

// TotalRows returns the number of rows inserted across all tables.
func (s *ImportSummary) TotalRows() int64 {
	var total int64
	for _, r := range s.Results {
		total += r.RowsInserted
	}
	return total
}

// ImportConfig contains all parameters needed for an import run.
type ImportConfig struct {
	// DatabasePath is the SQLite database file to create or open.
	DatabasePath string

	// SourceDir is the directory containing CSV files. The first row of each
	// file is treated as a header.
	SourceDir string

	// Drop removes existing tables for the discovered files before loading.
	// Requires interactive confirmation unless Force is set.
	Drop bool

	// Force bypasses interactive approval when used with Drop.
	Force bool

	// DetectPK enables heuristic primary-key detection.
	DetectPK bool

	// MaxRows caps the number of rows inserted per file. 0 means unlimited.
	MaxRows int64

	// SkipLarge skips a file entirely (before any insertion) when it has more
	// data rows than this threshold. 0 disables the check.
	SkipLarge int64

	// SampleSize is the number of data rows sampled for type inference.
	SampleSize int

	// BatchSize is the number of rows per insert transaction.
	BatchSize int

	// PKRowLimit is the row-count ceiling above which primary-key detection
	// is skipped for a file.
	PKRowLimit int64

	// Timeout is the global timeout for the entire run.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks if the ImportConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *ImportConfig) Validate() error {
	var errs []error

	if c.DatabasePath == "" {
		errs = append(errs, fmt.Errorf("DatabasePath is required: %w", ErrInvalidConfig))
	}

	if c.SourceDir == "" {
		errs = append(errs, fmt.Errorf("SourceDir is required: %w", ErrInvalidConfig))
	}

	// Force requires Drop to be set
	if c.Force && !c.Drop {
		errs = append(errs, fmt.Errorf("force flag requires drop to be enabled: %w", ErrInvalidConfig))
	}

	if c.MaxRows < 0 {
		errs = append(errs, fmt.Errorf("MaxRows cannot be negative: %w", ErrInvalidConfig))
	}

	if c.SkipLarge < 0 {
		errs = append(errs, fmt.Errorf("SkipLarge cannot be negative: %w", ErrInvalidConfig))
	}

	if c.SampleSize <= 0 {
		errs = append(errs, fmt.Errorf("SampleSize must be positive: %w", ErrInvalidConfig))
	}

	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("BatchSize must be positive: %w", ErrInvalidConfig))
	}

	if c.PKRowLimit <= 0 {
		errs = append(errs, fmt.Errorf("PKRowLimit must be positive: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
