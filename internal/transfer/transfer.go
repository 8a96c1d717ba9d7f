// Package transfer reads import payloads and writes export snapshots.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/ids"
	"github.com/julianstephens/yearlit/internal/merge"
	"github.com/julianstephens/yearlit/internal/models"
	"github.com/julianstephens/yearlit/internal/normalize"
)

var (
	// ErrFileTooLarge is returned when an import exceeds MaxImportBytes
	ErrFileTooLarge = errors.New("import file is too large")
	// ErrInvalidJSON is returned when import data is not valid JSON
	ErrInvalidJSON = errors.New("import data is not valid JSON")
	// ErrNotObject is returned when the top-level JSON value is not an object
	ErrNotObject = errors.New("import data is not a JSON object")
)

// EntrySource records where a payload's entries came from
type EntrySource int

const (
	// EntriesAbsent means no usable entry map was found
	EntriesAbsent EntrySource = iota
	// EntriesDeclared means the payload carried an "entries" field
	EntriesDeclared
	// EntriesInline means the payload itself was read as the entry map
	EntriesInline
)

// ViewPrefSource records where a payload's view preference came from
type ViewPrefSource int

const (
	// ViewPrefAbsent means no usable view preference was found
	ViewPrefAbsent ViewPrefSource = iota
	// ViewPrefDeclared means the payload carried a "viewPref" field
	ViewPrefDeclared
	// ViewPrefInline means the view fields sat at the top level of the payload
	ViewPrefInline
)

// State is the full working set the application holds in memory
type State struct {
	Entries        models.Entries
	Ranges         []models.Range
	ViewPref       *models.ViewPref
	GuideDismissed bool
}

// Payload is a normalized import. Nil Entries or Ranges mean the payload
// did not carry that component in a recognisable shape.
type Payload struct {
	EntrySource    EntrySource
	Entries        models.Entries
	Ranges         []models.Range
	ViewPrefSource ViewPrefSource
	ViewPref       *models.ViewPref
	GuideDismissed *bool
}

// Summary describes what an Apply call changed
type Summary struct {
	Policy          merge.Policy
	EntriesImported int
	RangesImported  int
	EntriesTotal    int
	RangesTotal     int
	ViewPrefApplied bool
}

// Read reads at most MaxImportBytes from r
func Read(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, constants.MaxImportBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read import data: %w", err)
	}
	if len(data) > constants.MaxImportBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, constants.MaxImportBytes)
	}
	return data, nil
}

// Decode parses raw JSON into the generic value tree the normalizer consumes
func Decode(data []byte) (any, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrInvalidJSON)
	}
	return v, nil
}

// Parse decodes and normalizes an import payload.
//
// "entries" and "viewPref" are each either declared as a field or, when
// the field is missing, read from the payload object itself. This keeps
// bare entry maps (older exports) importable. An object without any ISO
// date key carries no inline entries.
func Parse(data []byte, gen ids.Generator) (Payload, error) {
	v, err := Decode(data)
	if err != nil {
		return Payload{}, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Payload{}, ErrNotObject
	}

	var p Payload

	if raw, declared := obj["entries"]; declared {
		p.Entries = normalize.Entries(raw)
		p.EntrySource = EntriesDeclared
	} else if hasDateKey(obj) {
		p.Entries = normalize.Entries(obj)
		p.EntrySource = EntriesInline
	}
	if p.Entries == nil {
		p.EntrySource = EntriesAbsent
	}

	if raw, declared := obj["viewPref"]; declared {
		p.ViewPref = normalize.ViewPref(raw)
		p.ViewPrefSource = ViewPrefDeclared
	} else {
		p.ViewPref = normalize.ViewPref(obj)
		p.ViewPrefSource = ViewPrefInline
	}
	if p.ViewPref == nil {
		p.ViewPrefSource = ViewPrefAbsent
	}

	p.Ranges = normalize.Ranges(obj["ranges"], gen)

	if b, ok := obj["guideDismissed"].(bool); ok {
		p.GuideDismissed = &b
	}

	return p, nil
}

func hasDateKey(obj map[string]any) bool {
	for k := range obj {
		if dates.IsISODate(k) {
			return true
		}
	}
	return false
}

// Apply combines p into current under policy and returns the new state.
// current is not mutated.
func Apply(current State, p Payload, policy merge.Policy, gen ids.Generator) (State, Summary) {
	next := State{
		Entries:        current.Entries.Clone(),
		Ranges:         models.CloneRanges(current.Ranges),
		ViewPref:       current.ViewPref,
		GuideDismissed: current.GuideDismissed,
	}
	summary := Summary{Policy: policy}

	switch policy {
	case merge.PolicyOverwrite:
		if p.Entries != nil {
			next.Entries = p.Entries.Clone()
			summary.EntriesImported = len(p.Entries)
		}
		if p.Ranges != nil {
			next.Ranges = models.CloneRanges(p.Ranges)
			summary.RangesImported = len(p.Ranges)
		}
		if p.ViewPref != nil {
			next.ViewPref = p.ViewPref
			summary.ViewPrefApplied = true
		}
	default:
		if p.Entries != nil {
			next.Entries = merge.Entries(next.Entries, p.Entries)
			summary.EntriesImported = len(p.Entries)
		}
		if p.Ranges != nil {
			next.Ranges = merge.Ranges(next.Ranges, p.Ranges, gen)
			summary.RangesImported = len(p.Ranges)
		}
	}

	if p.GuideDismissed != nil {
		next.GuideDismissed = *p.GuideDismissed
	}
	if next.Entries == nil {
		next.Entries = models.Entries{}
	}
	if next.Ranges == nil {
		next.Ranges = []models.Range{}
	}

	summary.EntriesTotal = len(next.Entries)
	summary.RangesTotal = len(next.Ranges)
	return next, summary
}

// Export serializes the working set as an indented snapshot
func Export(s State, clock dates.Clock) ([]byte, error) {
	snap := models.Snapshot{
		Version:        constants.SnapshotVersion,
		ExportedAt:     clock.Now().UTC(),
		Entries:        s.Entries,
		Ranges:         s.Ranges,
		ViewPref:       s.ViewPref,
		GuideDismissed: s.GuideDismissed,
	}
	if snap.Entries == nil {
		snap.Entries = models.Entries{}
	}
	if snap.Ranges == nil {
		snap.Ranges = []models.Range{}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	return data, nil
}
