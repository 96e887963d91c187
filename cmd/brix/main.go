package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mpwg/RebrickableDatabase/internal/cli"
	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(brix.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(brix.ExitCodeForError(err))
	}
}
