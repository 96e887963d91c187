package schema

import (
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

// FKResolver infers foreign-key relationships between tables from column
// naming conventions. Resolution is advisory: nothing is verified against
// actual data until the post-load integrity check.
type FKResolver struct {
	log brix.Logger
}

// NewFKResolver creates a resolver that logs near-miss suggestions through log.
func NewFKResolver(log brix.Logger) *FKResolver {
	return &FKResolver{log: log}
}

// Resolve returns the foreign keys for table, matched against all known
// tables. all must be in discovery order so that "first match wins" is
// deterministic across runs.
//
// For every column whose sanitized name ends in "_id" (case-insensitive),
// the suffix is stripped and the base is matched against table names using,
// in order: exact match, base+"s", base+"es", the inflected plural (covers
// irregular forms like person -> people), and finally any table equal to the
// base or whose name ends in base+"s" or base. A column with no match
// produces no constraint.
func (r *FKResolver) Resolve(table *brix.TableMetadata, all []*brix.TableMetadata) []brix.ForeignKey {
	byName := make(map[string]*brix.TableMetadata, len(all))
	names := make([]string, 0, len(all))
	for _, t := range all {
		byName[t.Name] = t
		names = append(names, t.Name)
	}

	var fks []brix.ForeignKey
	for _, col := range table.Columns {
		if !strings.HasSuffix(strings.ToLower(col.SanitizedName), "_id") {
			continue
		}
		base := col.SanitizedName[:len(col.SanitizedName)-len("_id")]
		if base == "" {
			continue
		}

		ref := matchTable(base, names, byName)
		if ref == nil {
			if r.log != nil {
				if near := nearestName(base, names); near != "" {
					r.log.Verbose("No table matches column %s.%s (nearest name: %s)",
						table.Name, col.SanitizedName, near)
				}
			}
			continue
		}

		fks = append(fks, brix.ForeignKey{
			Column:    col.SanitizedName,
			RefTable:  ref.Name,
			RefColumn: referencedColumn(ref),
		})
	}
	return fks
}

// matchTable applies the candidate rules in order and returns the first hit.
func matchTable(base string, names []string, byName map[string]*brix.TableMetadata) *brix.TableMetadata {
	candidates := []string{base, base + "s", base + "es"}
	if plural := inflection.Plural(base); plural != candidates[1] && plural != candidates[2] && plural != base {
		candidates = append(candidates, plural)
	}
	for _, c := range candidates {
		if t, ok := byName[c]; ok {
			return t
		}
	}

	// Fall back to suffix matching against every known table, e.g. a column
	// inventory_set_id resolving to table inventory_sets.
	for _, name := range names {
		if name == base || strings.HasSuffix(name, base+"s") || strings.HasSuffix(name, base) {
			return byName[name]
		}
	}
	return nil
}

// referencedColumn picks the column a foreign key should reference in the
// target table: the detected primary key, else a column literally named "id",
// else the first column.
func referencedColumn(t *brix.TableMetadata) string {
	if t.PKDetected && t.PKColumn != "" {
		return t.PKColumn
	}
	for _, c := range t.Columns {
		if c.SanitizedName == "id" {
			return "id"
		}
	}
	if len(t.Columns) > 0 {
		return t.Columns[0].SanitizedName
	}
	return ""
}

// nearestName returns the known table name closest to base by Levenshtein
// distance, or "" when nothing is within half the base's length. Purely a
// logging aid for diagnosing almost-matching naming conventions.
func nearestName(base string, names []string) string {
	best := ""
	bestDist := len(base)/2 + 1
	for _, name := range names {
		d := levenshtein.DistanceForStrings([]rune(base), []rune(name), levenshtein.DefaultOptions)
		if d < bestDist {
			best = name
			bestDist = d
		}
	}
	return best
}
