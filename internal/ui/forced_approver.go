package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

// ForcedApprover implements the Approver interface for forced (non-interactive)
// approval. It displays a countdown and automatically approves after the
// countdown, used when the --force flag is provided.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover with the default countdown.
func NewForcedApprover(verbose bool) brix.Approver {
	return &ForcedApprover{
		verbose: verbose,
		output:  os.Stderr,
		sleepFn: time.Sleep,
	}
}

// RequestApproval displays a countdown and automatically approves afterwards.
func (a *ForcedApprover) RequestApproval(ctx context.Context, dbPath string) (bool, error) {
	fmt.Fprintf(a.output, "\nWARNING: dropping existing tables in '%s' (--force)\n", dbPath)

	seconds := int(brix.DefaultForceApprovalCountdown.Seconds())
	for i := seconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rDropping in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(1 * time.Second)
		}
	}

	fmt.Fprintf(a.output, "\rProceeding with drop...                                \n")
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ brix.Approver = (*ForcedApprover)(nil)
