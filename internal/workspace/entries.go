package workspace

import (
	"fmt"

	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/models"
)

// Entry returns the entry for day, either from the global calendar or,
// when rangeID is set, from that range's own entries.
func (w *Workspace) Entry(day, rangeID string) (models.Entry, bool, error) {
	if err := w.ensureLoaded(); err != nil {
		return models.Entry{}, false, err
	}
	entries := w.state.Entries
	if rangeID != "" {
		i := w.rangeIndex(rangeID)
		if i < 0 {
			return models.Entry{}, false, fmt.Errorf("%w: %s", ErrRangeNotFound, rangeID)
		}
		entries = w.state.Ranges[i].Entries
	}
	e, ok := entries[day]
	return e, ok, nil
}

// SetEntry writes the entry for day. An entry with state 0 and a blank note
// is removed instead of stored. Range-scoped entries must fall inside the
// range bounds.
func (w *Workspace) SetEntry(day string, state int, note, rangeID string) (models.Entry, error) {
	if err := w.ensureLoaded(); err != nil {
		return models.Entry{}, err
	}
	if !dates.IsISODate(day) {
		return models.Entry{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidDate, day)
	}
	if state < constants.MinState || state > constants.MaxState {
		return models.Entry{}, fmt.Errorf("%w: %d (expected %d-%d)", ErrInvalidState, state, constants.MinState, constants.MaxState)
	}

	entry := models.NewEntry(state, note)

	if rangeID == "" {
		if entry.IsEmpty() {
			delete(w.state.Entries, day)
		} else {
			w.state.Entries[day] = entry
		}
		return entry, w.persist(constants.KeyEntries)
	}

	i := w.rangeIndex(rangeID)
	if i < 0 {
		return models.Entry{}, fmt.Errorf("%w: %s", ErrRangeNotFound, rangeID)
	}
	r := &w.state.Ranges[i]
	if !r.Contains(day) {
		return models.Entry{}, fmt.Errorf("%w: %s is not within %s..%s", ErrOutsideRange, day, r.StartISO, r.EndISO)
	}
	if entry.IsEmpty() {
		delete(r.Entries, day)
		if len(r.Entries) == 0 {
			r.Entries = nil
		}
	} else {
		if r.Entries == nil {
			r.Entries = models.Entries{}
		}
		r.Entries[day] = entry
	}
	return entry, w.persist(constants.KeyRanges)
}

// ClearEntry removes the entry for day
func (w *Workspace) ClearEntry(day, rangeID string) error {
	_, err := w.SetEntry(day, 0, "", rangeID)
	return err
}
