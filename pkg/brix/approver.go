package brix

import "context"

// Approver handles user interaction for approval workflows,
// particularly for the destructive --drop workflow.
//
// Implementations:
//   - ForcedApprover: Shows countdown and automatically approves
//   - InteractiveApprover: Prompts user to type the database file name
type Approver interface {
	// RequestApproval prompts for confirmation before dropping existing
	// tables in the target database.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//   - dbPath: Path of the database whose tables will be dropped
	//
	// Returns:
	//   - bool: true if approved, false if denied
	//   - error: Any error that occurred during the approval process
	RequestApproval(ctx context.Context, dbPath string) (bool, error)
}
