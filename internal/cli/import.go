package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mpwg/RebrickableDatabase/internal/config"
	"github.com/mpwg/RebrickableDatabase/internal/logging"
	"github.com/mpwg/RebrickableDatabase/internal/services"
	"github.com/mpwg/RebrickableDatabase/internal/ui"
	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

var importCmd = &cobra.Command{
	Use:   "import <csv_dir>",
	Short: "Import a directory of CSV files into a SQLite database",
	Long: `Import loads every *.csv file from the given directory into the target
SQLite database, one table per file.

The import command:
1. Derives a sanitized table name from each file name
2. Samples rows to infer column types (INTEGER, REAL, or TEXT)
3. Optionally detects a uniquely-valued column as the primary key
4. Resolves foreign keys across tables from _id naming conventions
5. Batch-inserts rows idempotently and indexes foreign-key columns
6. Reports referential-integrity violations after the load

Arguments:
  csv_dir    Directory containing CSV files; the first row of each file is
             treated as the header

Configuration precedence: flags > brix.yaml (in csv_dir) > environment.
The database path also honors $BRIX_DB when --db is not given.

Examples:
  # Basic import into the default Brix.sqlite
  brix import ./csv

  # Recreate tables with primary-key detection
  brix import ./csv --db Brix.sqlite --drop --force --detect-pk

  # Bounded trial import
  brix import ./csv --max-rows 1000 --skip-large 500000`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

type importFlagValues struct {
	dbPath     string
	drop       bool
	force      bool
	detectPK   bool
	maxRows    int64
	skipLarge  int64
	sampleSize int
	batchSize  int
	timeout    time.Duration
}

var importFlags importFlagValues

func init() {
	rootCmd.AddCommand(importCmd)
	registerImportFlags(importCmd)
}

// registerImportFlags binds the import flag set to the given command.
// Separated from init so tests can build a fresh command.
func registerImportFlags(cmd *cobra.Command) {
	importFlags = importFlagValues{}

	cmd.Flags().StringVar(&importFlags.dbPath, "db", "",
		"SQLite database file to create/use\n"+
			"Precedence: --db > brix.yaml database > $BRIX_DB > "+brix.DefaultDatabasePath)
	cmd.Flags().BoolVar(&importFlags.drop, "drop", false,
		"Drop existing tables before import\n"+
			"Requires interactive confirmation unless --force is used")
	cmd.Flags().BoolVar(&importFlags.force, "force", false,
		"Skip interactive approval prompt for --drop\n"+
			"Use for CI/CD pipelines")
	cmd.Flags().BoolVar(&importFlags.detectPK, "detect-pk", false,
		"Try to detect a primary key column per file\n"+
			"Scans each file for a column with unique, non-empty values")
	cmd.Flags().Int64Var(&importFlags.maxRows, "max-rows", 0,
		"Maximum rows to import per file (0 = unlimited)")
	cmd.Flags().Int64Var(&importFlags.skipLarge, "skip-large", 0,
		"Skip files with more than this many rows (0 = disabled)")
	cmd.Flags().IntVar(&importFlags.sampleSize, "sample", brix.DefaultSampleSize,
		"Number of rows sampled per file for type inference")
	cmd.Flags().IntVar(&importFlags.batchSize, "batch", brix.DefaultBatchSize,
		"Rows inserted per transaction")
	cmd.Flags().DurationVar(&importFlags.timeout, "timeout", brix.DefaultTimeout,
		"Catastrophic failure protection timeout\n"+
			"Prevents indefinite hangs; examples: 30s, 5m, 1h30m")
}

// buildImportConfig builds an ImportConfig from CLI flags, the optional
// brix.yaml in the source directory, and the environment.
// Extracted for testability.
func buildImportConfig(cmd *cobra.Command, sourceDir string, verbose bool) (brix.ImportConfig, error) {
	_ = godotenv.Load()

	projectCfg, err := config.Load(sourceDir)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return brix.ImportConfig{}, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}

	cfg := brix.ImportConfig{
		DatabasePath: importFlags.dbPath,
		SourceDir:    sourceDir,
		Drop:         importFlags.drop,
		Force:        importFlags.force,
		DetectPK:     importFlags.detectPK,
		MaxRows:      importFlags.maxRows,
		SkipLarge:    importFlags.skipLarge,
		SampleSize:   importFlags.sampleSize,
		BatchSize:    importFlags.batchSize,
		PKRowLimit:   brix.DefaultPKRowLimit,
		Timeout:      importFlags.timeout,
		Verbose:      verbose,
	}

	// Layer in brix.yaml values for anything the flags left unset.
	if projectCfg != nil {
		if cfg.DatabasePath == "" {
			cfg.DatabasePath = projectCfg.Database
		}
		if !cmd.Flags().Changed("detect-pk") && projectCfg.DetectPK {
			cfg.DetectPK = true
		}
		if !cmd.Flags().Changed("max-rows") && projectCfg.MaxRows > 0 {
			cfg.MaxRows = projectCfg.MaxRows
		}
		if !cmd.Flags().Changed("skip-large") && projectCfg.SkipLarge > 0 {
			cfg.SkipLarge = projectCfg.SkipLarge
		}
		if !cmd.Flags().Changed("sample") && projectCfg.Sample > 0 {
			cfg.SampleSize = projectCfg.Sample
		}
		if !cmd.Flags().Changed("timeout") && projectCfg.Timeout != "" {
			parsed, parseErr := time.ParseDuration(projectCfg.Timeout)
			if parseErr != nil {
				return brix.ImportConfig{}, fmt.Errorf("invalid timeout in %s: %w", config.ConfigFileName, parseErr)
			}
			cfg.Timeout = parsed
		}
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = os.Getenv("BRIX_DB")
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = brix.DefaultDatabasePath
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Configuration resolved:\n")
		fmt.Fprintf(os.Stderr, "  Database: %s\n", cfg.DatabasePath)
		fmt.Fprintf(os.Stderr, "  Source Dir: %s\n", cfg.SourceDir)
		fmt.Fprintf(os.Stderr, "  Detect PK: %v\n", cfg.DetectPK)
		fmt.Fprintf(os.Stderr, "  Sample Size: %d\n", cfg.SampleSize)
	}

	return cfg, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	sourceDir := args[0]
	verbose := getVerboseFlag(cmd)

	cfg, err := buildImportConfig(cmd, sourceDir, verbose)
	if err != nil {
		return err
	}

	// Select approver implementation based on --force flag
	var approver brix.Approver
	if importFlags.force {
		approver = ui.NewForcedApprover(verbose)
	} else {
		approver = ui.NewInteractiveApprover(verbose)
	}
	logger := logging.NewConsoleLogger(verbose)

	importer := services.NewImportService(logger, approver)

	// Setup context with timeout and signal handling for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling import...")
		cancel()
	}()

	if _, err := importer.Run(ctx, cfg); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}
