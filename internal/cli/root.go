// Package cli wires the cobra command surface to the import pipeline.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "brix",
	Short: "Bulk-load CSV files into a SQLite database",
	Long: `brix imports every CSV file from a directory into a SQLite database,
one table per file, inferring the schema heuristically: column types from
sampled values, primary keys from uniqueness scanning, and foreign keys from
naming conventions across tables.

Imports are idempotent: re-running against an unchanged database inserts
no duplicate rows.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Failed to open the SQLite database
  12 - User denied drop approval
  14 - CSV input directory not found`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
