// Package ui implements the approval prompts for the destructive --drop workflow.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts the user to type the database file
// name to confirm dropping existing tables.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover creates a new InteractiveApprover reading from
// stdin and writing prompts to stderr.
func NewInteractiveApprover(verbose bool) brix.Approver {
	return &InteractiveApprover{
		verbose: verbose,
		input:   os.Stdin,
		output:  os.Stderr,
	}
}

// RequestApproval prompts the user to type the database file name to confirm.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, dbPath string) (bool, error) {
	name := filepath.Base(dbPath)
	fmt.Fprintf(a.output, "\nWARNING: You are about to DROP the existing tables in '%s'\n", dbPath)
	fmt.Fprintln(a.output, "This will permanently delete previously imported data!")
	fmt.Fprintf(a.output, "\nTo confirm, type the database file name '%s' and press Enter: ", name)

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		line, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(line)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case line := <-inputChan:
		if line == name {
			fmt.Fprintln(a.output, "Confirmed. Proceeding with drop...")
			return true, nil
		}
		fmt.Fprintf(a.output, "Input '%s' does not match '%s'. Operation cancelled.\n", line, name)
		return false, nil
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ brix.Approver = (*InteractiveApprover)(nil)
