package schema

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNoHeader is returned when a source file has no header row.
// Callers skip such files with a notice; this is never fatal to the run.
var ErrNoHeader = errors.New("no header row")

// ReadHeader reads the first row of a CSV file.
// Returns ErrNoHeader (wrapped) for an empty file.
func ReadHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := newReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: %w", path, ErrNoHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	return header, nil
}

// newReader configures a csv.Reader the way every pass in this package and
// the loader reads source files: fixed comma delimiter, variable-length
// records (short and long rows are handled downstream, not rejected here),
// and tolerant quoting.
func newReader(f *os.File) *csv.Reader {
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r
}
