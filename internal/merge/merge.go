// Package merge combines an incoming, already-normalized dataset into the
// current working set. Both operations are pure: inputs are never mutated.
package merge

import (
	"fmt"
	"strings"

	"github.com/julianstephens/yearlit/internal/ids"
	"github.com/julianstephens/yearlit/internal/models"
)

// Policy decides how an import is combined with the working set
type Policy string

const (
	// PolicyOverwrite replaces the working set with the incoming data
	PolicyOverwrite Policy = "overwrite"
	// PolicyMerge appends incoming ranges and overlays incoming entries
	PolicyMerge Policy = "merge"
)

// ParsePolicy parses a user-supplied policy name
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyOverwrite:
		return PolicyOverwrite, nil
	case PolicyMerge:
		return PolicyMerge, nil
	default:
		return "", fmt.Errorf("invalid import policy %q (expected overwrite or merge)", s)
	}
}

// Ranges appends incoming to base. Base elements keep their order and
// contents; incoming elements follow in input order. An incoming id already
// present gets a fresh id from gen, and an incoming name already present is
// suffixed -2, -3, ... using the lowest free integer.
func Ranges(base, incoming []models.Range, gen ids.Generator) []models.Range {
	out := make([]models.Range, 0, len(base)+len(incoming))
	takenIDs := make(map[string]bool, len(base)+len(incoming))
	takenNames := make(map[string]bool, len(base)+len(incoming))

	for _, r := range base {
		out = append(out, r.Clone())
		takenIDs[r.ID] = true
		takenNames[strings.TrimSpace(r.Name)] = true
	}

	for _, r := range incoming {
		next := r.Clone()
		if takenIDs[next.ID] {
			next.ID = ids.FreshID(takenIDs, gen)
		}
		takenIDs[next.ID] = true

		next.Name = ids.UniqueName(next.Name, takenNames)
		takenNames[next.Name] = true

		out = append(out, next)
	}
	return out
}

// Entries overlays incoming onto base. An incoming entry replaces the local
// entry for the same day entirely; there is no field-level merge.
func Entries(base, incoming models.Entries) models.Entries {
	out := make(models.Entries, len(base)+len(incoming))
	for day, e := range base {
		out[day] = e
	}
	for day, e := range incoming {
		out[day] = e
	}
	return out
}
