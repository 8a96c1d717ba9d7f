package workspace

import (
	"fmt"
	"strings"

	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/ids"
	"github.com/julianstephens/yearlit/internal/logger"
	"github.com/julianstephens/yearlit/internal/models"
)

// Draft is the editable part of a range as entered by the user
type Draft struct {
	Name     string
	StartISO string
	EndISO   string
	Color    models.Color
	Goal     string
}

// DraftFrom returns the editable fields of r
func DraftFrom(r models.Range) Draft {
	return Draft{Name: r.Name, StartISO: r.StartISO, EndISO: r.EndISO, Color: r.Color, Goal: r.Goal}
}

// Validate checks the draft against the same rules imported ranges obey
func (d Draft) Validate() error {
	if !dates.IsISODate(d.StartISO) {
		return fmt.Errorf("%w: start %q (expected YYYY-MM-DD)", ErrInvalidDate, d.StartISO)
	}
	if !dates.IsISODate(d.EndISO) {
		return fmt.Errorf("%w: end %q (expected YYYY-MM-DD)", ErrInvalidDate, d.EndISO)
	}
	if d.StartISO > d.EndISO {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidDate, d.StartISO, d.EndISO)
	}
	if d.Color != "" && !d.Color.Valid() {
		return fmt.Errorf("unknown color %q", d.Color)
	}
	return nil
}

// Ranges returns a copy of the ranges in display order
func (w *Workspace) Ranges() []models.Range {
	return models.CloneRanges(w.state.Ranges)
}

func (w *Workspace) rangeIndex(id string) int {
	for i, r := range w.state.Ranges {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// FindRange resolves ref as a range id, falling back to a case-insensitive
// name match.
func (w *Workspace) FindRange(ref string) (models.Range, error) {
	if err := w.ensureLoaded(); err != nil {
		return models.Range{}, err
	}
	if i := w.rangeIndex(ref); i >= 0 {
		return w.state.Ranges[i].Clone(), nil
	}
	ref = strings.TrimSpace(ref)
	for _, r := range w.state.Ranges {
		if strings.EqualFold(r.Name, ref) {
			return r.Clone(), nil
		}
	}
	return models.Range{}, fmt.Errorf("%w: %s", ErrRangeNotFound, ref)
}

// takenNames collects the names of every range except skipID
func (w *Workspace) takenNames(skipID string) map[string]bool {
	taken := make(map[string]bool, len(w.state.Ranges))
	for _, r := range w.state.Ranges {
		if r.ID != skipID {
			taken[r.Name] = true
		}
	}
	return taken
}

// AddRange validates d and appends a new range with a fresh id and a name
// made unique against the existing ranges.
func (w *Workspace) AddRange(d Draft) (models.Range, error) {
	if err := w.ensureLoaded(); err != nil {
		return models.Range{}, err
	}
	if err := d.Validate(); err != nil {
		return models.Range{}, err
	}

	takenIDs := make(map[string]bool, len(w.state.Ranges))
	for _, r := range w.state.Ranges {
		takenIDs[r.ID] = true
	}

	r := models.Range{
		ID:       ids.FreshID(takenIDs, w.ids),
		Name:     ids.UniqueName(d.Name, w.takenNames("")),
		StartISO: d.StartISO,
		EndISO:   d.EndISO,
		Color:    d.Color,
		Goal:     strings.TrimSpace(d.Goal),
	}
	w.state.Ranges = append(w.state.Ranges, r)
	if err := w.persist(constants.KeyRanges); err != nil {
		return models.Range{}, err
	}
	return r.Clone(), nil
}

// UpdateRange applies d to the range with id. Range-scoped entries that fall
// outside the new bounds are dropped.
func (w *Workspace) UpdateRange(id string, d Draft) (models.Range, error) {
	if err := w.ensureLoaded(); err != nil {
		return models.Range{}, err
	}
	i := w.rangeIndex(id)
	if i < 0 {
		return models.Range{}, fmt.Errorf("%w: %s", ErrRangeNotFound, id)
	}
	if err := d.Validate(); err != nil {
		return models.Range{}, err
	}

	r := &w.state.Ranges[i]
	r.Name = ids.UniqueName(d.Name, w.takenNames(id))
	r.StartISO = d.StartISO
	r.EndISO = d.EndISO
	r.Color = d.Color
	r.Goal = strings.TrimSpace(d.Goal)

	dropped := 0
	for day := range r.Entries {
		if !r.Contains(day) {
			delete(r.Entries, day)
			dropped++
		}
	}
	if len(r.Entries) == 0 {
		r.Entries = nil
	}
	if dropped > 0 {
		logger.Info("Dropped range entries outside new bounds", "range", id, "count", dropped)
	}

	if err := w.persist(constants.KeyRanges); err != nil {
		return models.Range{}, err
	}
	return r.Clone(), nil
}

// DeleteRange removes the range from the working list. There is no
// tombstone; a deleted range only survives in exports and backups.
func (w *Workspace) DeleteRange(id string) error {
	if err := w.ensureLoaded(); err != nil {
		return err
	}
	i := w.rangeIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRangeNotFound, id)
	}
	w.state.Ranges = append(w.state.Ranges[:i], w.state.Ranges[i+1:]...)

	keys := []string{constants.KeyRanges}
	if p := w.state.ViewPref; p != nil && p.ActiveRangeID != nil && *p.ActiveRangeID == id {
		p.ActiveRangeID = nil
		keys = append(keys, constants.KeyViewPref)
	}
	return w.persist(keys...)
}

// CompleteRange marks the range finished as of today
func (w *Workspace) CompleteRange(id string) (models.Range, error) {
	today, err := w.Today()
	if err != nil {
		return models.Range{}, err
	}
	return w.setCompleted(id, true, today)
}

// ReopenRange clears the completion mark
func (w *Workspace) ReopenRange(id string) (models.Range, error) {
	return w.setCompleted(id, false, "")
}

func (w *Workspace) setCompleted(id string, done bool, at string) (models.Range, error) {
	if err := w.ensureLoaded(); err != nil {
		return models.Range{}, err
	}
	i := w.rangeIndex(id)
	if i < 0 {
		return models.Range{}, fmt.Errorf("%w: %s", ErrRangeNotFound, id)
	}
	r := &w.state.Ranges[i]
	r.IsCompleted = done
	r.CompletedAtISO = at
	if err := w.persist(constants.KeyRanges); err != nil {
		return models.Range{}, err
	}
	return r.Clone(), nil
}

// AddMilestone appends a milestone to the range
func (w *Workspace) AddMilestone(rangeID, text string) (models.Milestone, error) {
	if err := w.ensureLoaded(); err != nil {
		return models.Milestone{}, err
	}
	i := w.rangeIndex(rangeID)
	if i < 0 {
		return models.Milestone{}, fmt.Errorf("%w: %s", ErrRangeNotFound, rangeID)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Milestone{}, fmt.Errorf("milestone text cannot be empty")
	}
	r := &w.state.Ranges[i]
	if len(r.Milestones) >= constants.MaxMilestones {
		return models.Milestone{}, fmt.Errorf("%w: a range holds at most %d milestones", ErrTooManyMilestones, constants.MaxMilestones)
	}

	taken := make(map[string]bool, len(r.Milestones))
	for _, m := range r.Milestones {
		taken[m.ID] = true
	}
	m := models.Milestone{ID: ids.FreshID(taken, w.ids), Text: text}
	r.Milestones = append(r.Milestones, m)
	return m, w.persist(constants.KeyRanges)
}

// ToggleMilestone flips the done flag of a milestone
func (w *Workspace) ToggleMilestone(rangeID, milestoneID string) (models.Milestone, error) {
	r, j, err := w.milestone(rangeID, milestoneID)
	if err != nil {
		return models.Milestone{}, err
	}
	r.Milestones[j].Done = !r.Milestones[j].Done
	return r.Milestones[j], w.persist(constants.KeyRanges)
}

// RemoveMilestone deletes a milestone from the range
func (w *Workspace) RemoveMilestone(rangeID, milestoneID string) error {
	r, j, err := w.milestone(rangeID, milestoneID)
	if err != nil {
		return err
	}
	r.Milestones = append(r.Milestones[:j], r.Milestones[j+1:]...)
	if len(r.Milestones) == 0 {
		r.Milestones = nil
	}
	return w.persist(constants.KeyRanges)
}

func (w *Workspace) milestone(rangeID, milestoneID string) (*models.Range, int, error) {
	if err := w.ensureLoaded(); err != nil {
		return nil, 0, err
	}
	i := w.rangeIndex(rangeID)
	if i < 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrRangeNotFound, rangeID)
	}
	r := &w.state.Ranges[i]
	for j, m := range r.Milestones {
		if m.ID == milestoneID {
			return r, j, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: %s", ErrMilestoneNotFound, milestoneID)
}
