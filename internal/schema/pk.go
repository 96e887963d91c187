package schema

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

// ErrRowLimitExceeded is returned when a file has more data rows than the
// detection ceiling. The caller reports it as an advisory and loads the table
// without a primary key; it is not a failure.
var ErrRowLimitExceeded = errors.New("row count exceeds primary-key detection limit")

// DetectPrimaryKey scans a file for a column whose values are unique and
// non-empty across all rows, and returns its sanitized name.
//
// The first pass only counts rows; if the count exceeds rowLimit the scan is
// abandoned with ErrRowLimitExceeded, because the second pass keeps every
// seen value in memory. The second pass tracks a uniqueness set per column.
// A column is eliminated permanently the moment it shows an empty value
// (missing trailing fields count as empty) or a repeated value, and the scan
// stops early once no candidates remain.
//
// Among surviving candidates a column named "id" or ending in "_id"
// (case-insensitive) is preferred; otherwise the lowest-ordinal survivor wins.
// Returns ("", false, nil) when no candidate survives.
func DetectPrimaryKey(path string, cols []brix.Column, rowLimit int64) (string, bool, error) {
	count, err := countDataRows(path, rowLimit)
	if err != nil {
		return "", false, err
	}
	if count == 0 {
		return "", false, nil
	}

	candidates := make(map[int]map[string]struct{}, len(cols))
	for i := range cols {
		candidates[i] = make(map[string]struct{})
	}

	f, err := os.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := newReader(f)
	if _, err := r.Read(); err != nil {
		return "", false, nil // no header, nothing to detect
	}

	for len(candidates) > 0 {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", false, fmt.Errorf("failed to scan %s: %w", path, err)
		}

		for i := range cols {
			set, alive := candidates[i]
			if !alive {
				continue
			}
			var v string
			if i < len(row) {
				v = row[i]
			}
			if v == "" {
				// Empty values disqualify a primary key.
				delete(candidates, i)
				continue
			}
			if _, dup := set[v]; dup {
				delete(candidates, i)
				continue
			}
			set[v] = struct{}{}
		}
	}

	if len(candidates) == 0 {
		return "", false, nil
	}

	// Prefer columns named id or ending with _id.
	for i, col := range cols {
		if _, alive := candidates[i]; !alive {
			continue
		}
		lower := strings.ToLower(col.SanitizedName)
		if lower == "id" || strings.HasSuffix(lower, "_id") {
			return col.SanitizedName, true, nil
		}
	}

	// Otherwise the first remaining candidate in ordinal order.
	for i := range cols {
		if _, alive := candidates[i]; alive {
			return cols[i].SanitizedName, true, nil
		}
	}
	return "", false, nil
}

// countDataRows counts data rows (excluding the header) up to limit.
// Returns ErrRowLimitExceeded as soon as the count passes limit.
func countDataRows(path string, limit int64) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := newReader(f)
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	var count int64
	for {
		if _, err := r.Read(); err != nil {
			if err == io.EOF {
				return count, nil
			}
			return 0, fmt.Errorf("failed to count rows of %s: %w", path, err)
		}
		count++
		if count > limit {
			return count, fmt.Errorf("%s: %w", path, ErrRowLimitExceeded)
		}
	}
}
