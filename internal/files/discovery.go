package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mpwg/RebrickableDatabase/internal/schema"
	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

// Discover enumerates the *.csv files in dir (non-recursive, sorted by file
// name) and derives a table name for each: the base name minus extension,
// sanitized, then deduplicated with a numeric suffix when two files collide
// on the same sanitized name.
//
// Returns brix.ErrDirNotFound (wrapped) when dir does not exist or is not a
// directory, the only fatal startup condition of the pipeline.
func Discover(dir string) ([]brix.SourceFile, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, brix.ErrDirNotFound)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	taken := make(map[string]bool, len(paths))
	sources := make([]brix.SourceFile, 0, len(paths))
	for _, p := range paths {
		base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		table := schema.SanitizeName(base)
		if table == "" {
			table = "table"
		}

		// Deduplicate: "part num.csv" and "part-num.csv" both sanitize to
		// part_num; the second becomes part_num_2.
		name := table
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s_%d", table, n)
		}
		taken[name] = true

		sources = append(sources, brix.SourceFile{Path: p, Table: name})
	}
	return sources, nil
}
