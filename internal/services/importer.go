// Package services orchestrates the import pipeline: discovery, metadata
// pass, schema resolution, load pass, and the post-load integrity check.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mpwg/RebrickableDatabase/internal/db"
	"github.com/mpwg/RebrickableDatabase/internal/files"
	"github.com/mpwg/RebrickableDatabase/internal/integrity"
	"github.com/mpwg/RebrickableDatabase/internal/loader"
	"github.com/mpwg/RebrickableDatabase/internal/schema"
	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

// TypePolicy infers a storage type per column by sampling up to sampleSize
// data rows. Replaceable for future refinement without touching the pipeline.
type TypePolicy func(path string, numCols, sampleSize int) ([]brix.ColumnType, error)

// PKPolicy detects a primary-key column, returning its sanitized name.
// A schema.ErrRowLimitExceeded result skips detection for that file only.
type PKPolicy func(path string, cols []brix.Column, rowLimit int64) (string, bool, error)

// ImportService runs the whole pipeline for one configuration.
// Fully sequential: one table's create+load+index sequence completes before
// the next table begins.
type ImportService struct {
	log      brix.Logger
	approver brix.Approver

	// Inference policies, defaulting to the heuristics in internal/schema.
	InferTypes TypePolicy
	DetectPK   PKPolicy
}

// NewImportService creates an ImportService with the default inference
// policies. The approver is only consulted for the --drop workflow.
func NewImportService(log brix.Logger, approver brix.Approver) *ImportService {
	return &ImportService{
		log:        log,
		approver:   approver,
		InferTypes: schema.InferTypes,
		DetectPK:   schema.DetectPrimaryKey,
	}
}

// Run executes an import. All metadata is computed once, held in memory for
// the load pass, and discarded on completion; the only persistent output is
// the target database itself.
func (s *ImportService) Run(ctx context.Context, cfg brix.ImportConfig) (*brix.ImportSummary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	summary := &brix.ImportSummary{RunID: uuid.New()}

	sources, err := files.Discover(cfg.SourceDir)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		s.log.Info("No CSV files found in %s", cfg.SourceDir)
		summary.Duration = time.Since(start)
		return summary, nil
	}
	s.log.Verbose("Discovered %d CSV file(s) in %s", len(sources), cfg.SourceDir)

	s.log.Info("Creating/opening SQLite DB at: %s", cfg.DatabasePath)
	conn, err := db.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	tables, err := s.collectMetadata(sources, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Drop {
		if err := s.approveDrop(ctx, cfg.DatabasePath); err != nil {
			return nil, err
		}
	}

	ldr := loader.New(conn, s.log, cfg.BatchSize)
	if cfg.Drop {
		for _, t := range tables {
			if err := ldr.DropTable(ctx, t.Name); err != nil {
				return nil, err
			}
		}
	}

	resolver := schema.NewFKResolver(s.log)
	for _, t := range tables {
		s.log.Info("Importing '%s' -> table '%s'", t.SourcePath, t.Name)
		fks := resolver.Resolve(t, tables)
		result, err := ldr.LoadTable(ctx, t, fks, cfg.MaxRows, cfg.SkipLarge)
		if err != nil {
			return nil, err
		}
		summary.Results = append(summary.Results, result)
	}

	recordRun(ctx, conn, s.log, summary, start)

	checker := integrity.New(conn, s.log)
	violations, err := checker.Check(ctx)
	if err != nil {
		return nil, err
	}
	summary.Violations = violations
	checker.Report(violations)

	summary.Duration = time.Since(start)
	s.log.Info("Imported %d row(s) across %d table(s) in %s (run %s)",
		summary.TotalRows(), len(summary.Results), summary.Duration.Round(time.Millisecond), summary.RunID)
	return summary, nil
}

// collectMetadata runs the metadata pass for every discovered file: header,
// sanitized columns, sampled type inference, optional primary-key detection.
// Files without a header row are skipped with a notice.
func (s *ImportService) collectMetadata(sources []brix.SourceFile, cfg brix.ImportConfig) ([]*brix.TableMetadata, error) {
	tables := make([]*brix.TableMetadata, 0, len(sources))
	for _, src := range sources {
		header, err := schema.ReadHeader(src.Path)
		if err != nil {
			if errors.Is(err, schema.ErrNoHeader) {
				s.log.Info("  Skipping empty file: %s", src.Path)
				continue
			}
			return nil, err
		}

		meta := &brix.TableMetadata{
			Name:       src.Table,
			SourcePath: src.Path,
			Columns:    schema.HeaderColumns(header),
		}

		types, err := s.InferTypes(src.Path, len(meta.Columns), cfg.SampleSize)
		if err != nil {
			return nil, err
		}
		for i := range meta.Columns {
			meta.Columns[i].Type = types[i]
		}

		if cfg.DetectPK {
			pk, detected, err := s.DetectPK(src.Path, meta.Columns, cfg.PKRowLimit)
			if err != nil {
				if !errors.Is(err, schema.ErrRowLimitExceeded) {
					return nil, err
				}
				s.log.Info("  Skipping PK detection for %s: file has >%d rows", src.Path, cfg.PKRowLimit)
			} else {
				meta.PKColumn = pk
				meta.PKDetected = detected
				if detected {
					s.log.Verbose("  Detected primary key '%s' for table '%s'", pk, meta.Name)
				}
			}
		}

		tables = append(tables, meta)
	}
	return tables, nil
}

// approveDrop asks the configured approver before any table is dropped.
func (s *ImportService) approveDrop(ctx context.Context, dbPath string) error {
	approved, err := s.approver.RequestApproval(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("approval failed: %w", err)
	}
	if !approved {
		return fmt.Errorf("drop of %s: %w", dbPath, brix.ErrApprovalDenied)
	}
	return nil
}
