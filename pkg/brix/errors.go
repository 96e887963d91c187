package brix

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	summary, err := importer.Run(ctx, config)
//	if errors.Is(err, brix.ErrDirNotFound) {
//	    // Handle missing input directory
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDirNotFound indicates the CSV input directory does not exist.
	// This is the only condition treated as a fatal startup error.
	ErrDirNotFound = errors.New("input directory not found")

	// ErrDatabaseOpen indicates the SQLite database could not be opened.
	ErrDatabaseOpen = errors.New("database open failed")

	// ErrApprovalDenied indicates the user denied approval for dropping tables.
	ErrApprovalDenied = errors.New("approval denied")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrDirNotFound):
		return ExitDirMissing
	case errors.Is(err, ErrDatabaseOpen):
		return ExitDatabaseError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	}

	// Cobra reports argument and flag mistakes as plain errors.
	errStr := err.Error()
	if strings.Contains(errStr, "unknown flag") ||
		strings.Contains(errStr, "unknown shorthand flag") ||
		strings.Contains(errStr, "unknown command") ||
		strings.Contains(errStr, "invalid argument") ||
		strings.Contains(errStr, "required flag") ||
		strings.Contains(errStr, "accepts") {
		return ExitUsageError
	}

	return ExitGeneralError
}
