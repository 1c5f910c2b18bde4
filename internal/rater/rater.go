// Package rater defines the static rater assignment table.
package rater

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Assignment selects the catalog sub-range a rater may access.
type Assignment string

const (
	FirstHalf  Assignment = "first_half"
	SecondHalf Assignment = "second_half"
	All        Assignment = "all"
)

// Fixed at build time; assignments are not configurable.
var assignments = map[string]Assignment{
	"Tom":      FirstHalf,
	"Caroline": FirstHalf,
	"Becky":    SecondHalf,
	"Alice":    SecondHalf,
	"Patrick":  All,
}

// Names returns the known raters in stable order.
func Names() []string {
	names := make([]string, 0, len(assignments))
	for name := range assignments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AssignmentFor returns the rater's assignment, if known.
func AssignmentFor(raterID string) (Assignment, bool) {
	a, ok := assignments[raterID]
	return a, ok
}

// Resolve maps a rater onto the half-open catalog range [lo, hi).
// The halves split at total/2 with floor division, so for an odd total
// the second half holds the extra problem.
func Resolve(raterID string, total int) (lo, hi int, err error) {
	if total < 0 {
		return 0, 0, fmt.Errorf("catalog size is negative: %d", total)
	}
	a, ok := assignments[raterID]
	if !ok {
		return 0, 0, fmt.Errorf("unknown rater %q", raterID)
	}
	switch a {
	case FirstHalf:
		return 0, total / 2, nil
	case SecondHalf:
		return total / 2, total, nil
	default:
		return 0, total, nil
	}
}

// Suggest returns the known rater closest to name by edit distance, or
// an empty string when nothing is close enough to be a likely typo.
func Suggest(name string) string {
	best := ""
	bestDist := 3
	for _, known := range Names() {
		dist := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(known))
		if dist < bestDist {
			best, bestDist = known, dist
		}
	}
	return best
}
