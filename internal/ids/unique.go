package ids

import (
	"fmt"
	"strings"

	"github.com/julianstephens/yearlit/internal/constants"
)

// UniqueName returns name (trimmed, or the default filler when blank) if it is
// not in taken, otherwise name-N for the lowest N >= 2 that is free.
// The returned name is not added to taken.
func UniqueName(name string, taken map[string]bool) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = constants.DefaultRangeName
	}
	if !taken[name] {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", name, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// UniqueID returns id when it is free, otherwise id-<suffix> with suffixes
// drawn from gen until one is free.
func UniqueID(id string, taken map[string]bool, gen Generator) string {
	candidate := id
	for taken[candidate] {
		candidate = fmt.Sprintf("%s-%s", id, gen.Suffix())
	}
	return candidate
}

// FreshID draws ids from gen until one is not in taken
func FreshID(taken map[string]bool, gen Generator) string {
	for {
		id := gen.NewID()
		if !taken[id] {
			return id
		}
	}
}
