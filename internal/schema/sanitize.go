package schema

import (
	"fmt"
	"strings"

	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

// SanitizeName converts an arbitrary string into an identifier-safe name.
// Runes outside [0-9A-Za-z_] are replaced with underscores; a leading digit
// gets an underscore prefix. Deterministic and pure.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 1)
	for _, r := range name {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}

// HeaderColumns builds the ordered column list for a header row.
// Cells are whitespace-trimmed. An empty cell, or a cell whose sanitized name
// collides with an earlier column in the same header, falls back to the
// positional name col_N (1-based).
func HeaderColumns(header []string) []brix.Column {
	cols := make([]brix.Column, len(header))
	seen := make(map[string]bool, len(header))

	for i, cell := range header {
		name := strings.TrimSpace(cell)
		sanitized := SanitizeName(name)
		if sanitized == "" || seen[sanitized] {
			sanitized = fmt.Sprintf("col_%d", i+1)
		}
		seen[sanitized] = true

		cols[i] = brix.Column{
			Name:          name,
			SanitizedName: sanitized,
			Type:          brix.TypeInteger, // optimistic start, demoted by inference
			Position:      i,
		}
	}
	return cols
}
