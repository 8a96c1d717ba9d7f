package models

import (
	"fmt"
	"strings"

	"github.com/julianstephens/yearlit/internal/constants"
)

// Entry is one day's body-state rating plus an optional short note.
// State 0 means "unrecorded"; 1-5 is the ordinal self-rating.
type Entry struct {
	State int    `json:"state"`
	Note  string `json:"note"`
}

// Entries maps an ISO date key (YYYY-MM-DD) to that day's entry.
type Entries map[string]Entry

// NewEntry builds an entry the way it is written by an edit: the note is
// trimmed and truncated to MaxNoteLength runes.
func NewEntry(state int, note string) Entry {
	return Entry{State: state, Note: TruncateNote(note)}
}

// TruncateNote trims surrounding whitespace and caps the note at MaxNoteLength runes
func TruncateNote(note string) string {
	note = strings.TrimSpace(note)
	runes := []rune(note)
	if len(runes) > constants.MaxNoteLength {
		return strings.TrimSpace(string(runes[:constants.MaxNoteLength]))
	}
	return note
}

// IsEmpty reports whether the entry carries no information and so must not be persisted
func (e Entry) IsEmpty() bool {
	return e.State == 0 && strings.TrimSpace(e.Note) == ""
}

// IsRecorded reports whether the day has a rating
func (e Entry) IsRecorded() bool {
	return e.State >= 1 && e.State <= constants.MaxState
}

// Clone returns a shallow copy of the map so callers can mutate it freely
func (es Entries) Clone() Entries {
	if es == nil {
		return nil
	}
	out := make(Entries, len(es))
	for k, v := range es {
		out[k] = v
	}
	return out
}

// Label renders the state and note on one line, "-" for an unrated day
func (e Entry) Label() string {
	state := "-"
	if e.IsRecorded() {
		state = fmt.Sprintf("%d/%d", e.State, constants.MaxState)
	}
	if e.Note == "" {
		return state
	}
	return state + "  " + e.Note
}
