package schema

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

// InferTypes infers a storage type for each of numCols columns by sampling up
// to sampleSize data rows after the header. Every column starts as Integer and
// is demoted permanently the first time a sampled value fails to parse as the
// current candidate: to Real if the value is a valid float, otherwise to Text.
// Empty values are skipped and do not influence inference. If the file has no
// data rows, all columns default to Text.
//
// Single streaming pass; values beyond the sample window are never examined,
// so the result is a heuristic, not a guarantee.
func InferTypes(path string, numCols, sampleSize int) ([]brix.ColumnType, error) {
	types := make([]brix.ColumnType, numCols)
	for i := range types {
		types[i] = brix.TypeInteger
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := newReader(f)
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return allText(numCols), nil
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	seen := 0
	for seen < sampleSize {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to sample %s: %w", path, err)
		}
		seen++

		n := len(row)
		if n > numCols {
			n = numCols
		}
		for i := 0; i < n; i++ {
			v := row[i]
			if v == "" {
				continue
			}
			switch types[i] {
			case brix.TypeText:
				// Terminal; nothing can demote further.
			case brix.TypeInteger:
				if _, err := strconv.ParseInt(v, 10, 64); err == nil {
					continue
				}
				if _, err := strconv.ParseFloat(v, 64); err == nil {
					types[i] = brix.TypeReal
				} else {
					types[i] = brix.TypeText
				}
			case brix.TypeReal:
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					types[i] = brix.TypeText
				}
			}
		}
	}

	if seen == 0 {
		return allText(numCols), nil
	}
	return types, nil
}

func allText(n int) []brix.ColumnType {
	types := make([]brix.ColumnType, n)
	for i := range types {
		types[i] = brix.TypeText
	}
	return types
}
