// Package workspace owns the in-memory working set: it loads each stored
// key through the normalizer, applies edits and imports, and writes the
// affected keys back to the storage port.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/ids"
	"github.com/julianstephens/yearlit/internal/lock"
	"github.com/julianstephens/yearlit/internal/logger"
	"github.com/julianstephens/yearlit/internal/merge"
	"github.com/julianstephens/yearlit/internal/models"
	"github.com/julianstephens/yearlit/internal/normalize"
	"github.com/julianstephens/yearlit/internal/storage"
	"github.com/julianstephens/yearlit/internal/transfer"
)

var (
	ErrRangeNotFound     = errors.New("range not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidState      = errors.New("invalid state")
	ErrOutsideRange      = errors.New("date is outside the range")
	ErrTooManyMilestones = errors.New("milestone limit reached")
	ErrNotLoaded         = errors.New("workspace not loaded")
)

// State is the working set held in memory
type State = transfer.State

// Options configures a Workspace. Zero values pick the system clock, the
// default id generator, the local timezone, and no writer lock.
type Options struct {
	Clock    dates.Clock
	IDs      ids.Generator
	Timezone string
	// LockDir enables the single-writer lockfile for imports and restores
	LockDir string
}

type Workspace struct {
	store    storage.Provider
	clock    dates.Clock
	ids      ids.Generator
	timezone string
	lockDir  string

	state     State
	loaded    bool
	lockDepth int
}

func New(store storage.Provider, opts Options) *Workspace {
	w := &Workspace{
		store:    store,
		clock:    opts.Clock,
		ids:      opts.IDs,
		timezone: opts.Timezone,
		lockDir:  opts.LockDir,
	}
	if w.clock == nil {
		w.clock = dates.SystemClock{}
	}
	if w.ids == nil {
		w.ids = ids.New(w.clock)
	}
	if w.timezone == "" {
		w.timezone = constants.DefaultTimezone
	}
	return w
}

// Clock returns the clock the workspace reads "today" from
func (w *Workspace) Clock() dates.Clock { return w.clock }

// Timezone returns the IANA name used to decide the current day
func (w *Workspace) Timezone() string { return w.timezone }

// Today returns the current ISO day in the workspace timezone
func (w *Workspace) Today() (string, error) {
	return dates.Today(w.clock, w.timezone)
}

// Store returns the underlying storage port
func (w *Workspace) Store() storage.Provider { return w.store }

// Load reads every key from the store and normalizes it. Missing or
// corrupt values fall back to defaults; missing ranges yield one range
// covering the current quarter.
func (w *Workspace) Load() (State, error) {
	var s State

	raw, err := w.read(constants.KeyEntries)
	if err != nil {
		return State{}, err
	}
	s.Entries = normalize.Entries(raw)
	if obj, ok := raw.(map[string]any); ok && len(obj) != len(s.Entries) {
		logger.Debug("Dropped invalid entries", "kept", len(s.Entries), "stored", len(obj))
	}
	if s.Entries == nil {
		s.Entries = models.Entries{}
	}

	raw, err = w.read(constants.KeyRanges)
	if err != nil {
		return State{}, err
	}
	s.Ranges = normalize.Ranges(raw, w.ids)
	if list, ok := raw.([]any); ok && len(list) != len(s.Ranges) {
		logger.Debug("Dropped invalid ranges", "kept", len(s.Ranges), "stored", len(list))
	}
	if s.Ranges == nil {
		r, err := w.defaultRange()
		if err != nil {
			return State{}, err
		}
		s.Ranges = []models.Range{r}
	}

	raw, err = w.read(constants.KeyViewPref)
	if err != nil {
		return State{}, err
	}
	s.ViewPref = normalize.ViewPref(raw)

	raw, err = w.read(constants.KeyGuideDismissed)
	if err != nil {
		return State{}, err
	}
	s.GuideDismissed, _ = raw.(bool)

	w.state = s
	w.loaded = true
	return w.State(), nil
}

// read fetches and JSON-decodes one key. A missing key or undecodable text
// yields nil; only storage failures are returned as errors.
func (w *Workspace) read(key string) (any, error) {
	text, ok, err := w.store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		logger.Warn("Ignoring corrupt stored value", "key", key, "error", err)
		return nil, nil
	}
	return v, nil
}

func (w *Workspace) defaultRange() (models.Range, error) {
	now, err := dates.NowIn(w.clock, w.timezone)
	if err != nil {
		return models.Range{}, err
	}
	quarter := (int(now.Month())-1)/3 + 1
	start := time.Date(now.Year(), time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, -1)
	return models.Range{
		ID:       w.ids.NewID(),
		Name:     fmt.Sprintf("Q%d %d", quarter, now.Year()),
		StartISO: dates.FormatISO(start),
		EndISO:   dates.FormatISO(end),
	}, nil
}

// State returns a deep copy of the working set
func (w *Workspace) State() State {
	return State{
		Entries:        w.state.Entries.Clone(),
		Ranges:         models.CloneRanges(w.state.Ranges),
		ViewPref:       cloneViewPref(w.state.ViewPref),
		GuideDismissed: w.state.GuideDismissed,
	}
}

// Save replaces the working set with s and persists every key
func (w *Workspace) Save(s State) error {
	w.state = State{
		Entries:        s.Entries.Clone(),
		Ranges:         models.CloneRanges(s.Ranges),
		ViewPref:       cloneViewPref(s.ViewPref),
		GuideDismissed: s.GuideDismissed,
	}
	if w.state.Entries == nil {
		w.state.Entries = models.Entries{}
	}
	if w.state.Ranges == nil {
		w.state.Ranges = []models.Range{}
	}
	w.loaded = true
	return w.persist(constants.KeyEntries, constants.KeyRanges, constants.KeyViewPref, constants.KeyGuideDismissed)
}

func (w *Workspace) persist(keys ...string) error {
	for _, key := range keys {
		var value any
		switch key {
		case constants.KeyEntries:
			value = w.state.Entries
		case constants.KeyRanges:
			value = w.state.Ranges
		case constants.KeyViewPref:
			if w.state.ViewPref == nil {
				if err := w.store.Delete(key); err != nil {
					return fmt.Errorf("failed to clear %s: %w", key, err)
				}
				continue
			}
			value = w.state.ViewPref
		case constants.KeyGuideDismissed:
			value = w.state.GuideDismissed
		default:
			return fmt.Errorf("unknown storage key %q", key)
		}

		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to serialize %s: %w", key, err)
		}
		if err := w.store.Set(key, string(data)); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}
	return nil
}

func (w *Workspace) ensureLoaded() error {
	if !w.loaded {
		return ErrNotLoaded
	}
	return nil
}

// Exclusive runs fn while holding the writer lock. Nested calls reuse the
// lock already held by this workspace.
func (w *Workspace) Exclusive(fn func() error) error {
	if w.lockDir == "" || w.lockDepth > 0 {
		w.lockDepth++
		defer func() { w.lockDepth-- }()
		return fn()
	}

	l, err := lock.Acquire(w.lockDir)
	if err != nil {
		return err
	}
	w.lockDepth++
	defer func() {
		w.lockDepth--
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release writer lock", "error", err)
		}
	}()
	return fn()
}

// Import parses data and applies it under policy, then persists the result
func (w *Workspace) Import(data []byte, policy merge.Policy) (transfer.Summary, error) {
	if err := w.ensureLoaded(); err != nil {
		return transfer.Summary{}, err
	}

	var summary transfer.Summary
	err := w.Exclusive(func() error {
		payload, err := transfer.Parse(data, w.ids)
		if err != nil {
			return err
		}
		next, s := transfer.Apply(w.state, payload, policy, w.ids)
		if err := w.Save(next); err != nil {
			return err
		}
		summary = s
		return nil
	})
	if err != nil {
		return transfer.Summary{}, err
	}

	logger.Info("Imported data", "policy", summary.Policy, "entries", summary.EntriesImported, "ranges", summary.RangesImported)
	return summary, nil
}

// Export returns the working set as an indented snapshot
func (w *Workspace) Export() ([]byte, error) {
	if err := w.ensureLoaded(); err != nil {
		return nil, err
	}
	return transfer.Export(w.state, w.clock)
}

// SetViewPref replaces the stored view preference. nil clears it.
func (w *Workspace) SetViewPref(p *models.ViewPref) error {
	if err := w.ensureLoaded(); err != nil {
		return err
	}
	w.state.ViewPref = cloneViewPref(p)
	return w.persist(constants.KeyViewPref)
}

// DismissGuide records that the first-run guide has been seen
func (w *Workspace) DismissGuide() error {
	if err := w.ensureLoaded(); err != nil {
		return err
	}
	if w.state.GuideDismissed {
		return nil
	}
	w.state.GuideDismissed = true
	return w.persist(constants.KeyGuideDismissed)
}

func cloneViewPref(p *models.ViewPref) *models.ViewPref {
	if p == nil {
		return nil
	}
	out := &models.ViewPref{}
	if p.ActiveRangeID != nil {
		v := *p.ActiveRangeID
		out.ActiveRangeID = &v
	}
	if p.AnchorISO != nil {
		v := *p.AnchorISO
		out.AnchorISO = &v
	}
	if p.CustomStartISO != nil {
		v := *p.CustomStartISO
		out.CustomStartISO = &v
	}
	if p.CustomEndISO != nil {
		v := *p.CustomEndISO
		out.CustomEndISO = &v
	}
	if p.CalendarMode != nil {
		v := *p.CalendarMode
		out.CalendarMode = &v
	}
	return out
}
