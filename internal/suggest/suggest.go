// Package suggest finds the closest known name for a misspelled identifier
// so diagnostics can offer a "did you mean" hint.
package suggest

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// candidates implements fuzzy.Source over lower-cased names.
type candidates []string

func (c candidates) String(i int) string { return c[i] }
func (c candidates) Len() int            { return len(c) }

// Closest returns the entry of known that best matches name, or "" when
// nothing is close enough. Matching is case-insensitive and works in both
// directions: an abbreviation of a known name ("Rol" for "Role") and a known
// name embedded in a longer one ("Roles" for "Role") both match. A known
// name identical to name is never suggested.
func Closest(name string, known []string) string {
	if name == "" || len(known) == 0 {
		return ""
	}
	lowerName := strings.ToLower(name)
	lower := make(candidates, len(known))
	for i, k := range known {
		lower[i] = strings.ToLower(k)
	}

	type scored struct {
		index int
		score int
	}
	var hits []scored

	for _, m := range fuzzy.FindFrom(lowerName, lower) {
		if known[m.Index] == name || !closeInLength(lowerName, lower[m.Index]) {
			continue
		}
		hits = append(hits, scored{m.Index, m.Score})
	}
	for i, k := range lower {
		if known[i] == name || !closeInLength(k, lowerName) {
			continue
		}
		if ms := fuzzy.Find(k, []string{lowerName}); len(ms) > 0 {
			hits = append(hits, scored{i, ms[0].Score})
		}
	}
	if len(hits) == 0 {
		return ""
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].index < hits[j].index
	})
	return known[hits[0].index]
}

// closeInLength rejects pairs where the shorter string covers less than half of
// the longer one; such matches are almost always accidental.
func closeInLength(short, long string) bool {
	return len(short) >= 2 && 2*len(short) >= len(long)
}
