package brix

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess        = 0  // Import completed successfully
	ExitGeneralError   = 1  // Unknown or unclassified error
	ExitUsageError     = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic          = 3  // Internal panic (unexpected crash)
	ExitConfigError    = 10 // Invalid configuration or parameters
	ExitDatabaseError  = 11 // Failed to open the SQLite database
	ExitApprovalDenied = 12 // User denied drop approval
	ExitDirMissing     = 14 // CSV input directory not found
)

const (
	// DefaultDatabasePath is the SQLite file created when --db is not given.
	DefaultDatabasePath = "Brix.sqlite"

	// DefaultSampleSize is the number of data rows sampled per file
	// for column type inference.
	DefaultSampleSize = 1000

	// DefaultBatchSize is the number of rows inserted per transaction.
	DefaultBatchSize = 1000

	// DefaultPKRowLimit is the row-count ceiling for primary-key detection.
	// Files with more data rows skip detection entirely; the uniqueness scan
	// keeps every seen value in memory, so it must be bounded.
	DefaultPKRowLimit = 50_000_000

	// DefaultTimeout is the global timeout for an import run.
	DefaultTimeout = 10 * time.Minute

	// DefaultForceApprovalCountdown is the countdown duration before a forced
	// drop approval proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// RunsTable is the bookkeeping table recording one row per import run.
	RunsTable = "brix_import_runs"
)
