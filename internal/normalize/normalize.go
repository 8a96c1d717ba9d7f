// Package normalize turns untrusted, JSON-decoded values into domain values
// that satisfy the model invariants.
//
// Every function is total: malformed fragments are dropped and the rest is
// kept. A nil result means the input was not of a recognisable shape at all
// (callers fall back to defaults); an empty non-nil result means the shape
// was right but nothing inside survived.
package normalize

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/ids"
	"github.com/julianstephens/yearlit/internal/models"
)

// Entries validates a date-keyed entry map.
func Entries(v any) models.Entries {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	out := make(models.Entries, len(obj))
	for day, raw := range obj {
		if !dates.IsISODate(day) {
			continue
		}
		fields, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		state, ok := stateValue(fields["state"])
		if !ok {
			continue
		}
		note, _ := fields["note"].(string)
		entry := models.Entry{State: state, Note: note}
		if entry.IsEmpty() {
			continue
		}
		out[day] = entry
	}
	return out
}

// Ranges validates a list of ranges and resolves id and name collisions
// across the survivors. gen supplies the random suffix for duplicate ids.
func Ranges(v any, gen ids.Generator) []models.Range {
	list, ok := v.([]any)
	if !ok {
		return nil
	}

	valid := make([]models.Range, 0, len(list))
	for _, raw := range list {
		if r, ok := rangeValue(raw, gen); ok {
			valid = append(valid, r)
		}
	}

	seenIDs := make(map[string]bool, len(valid))
	seenNames := make(map[string]bool, len(valid))
	for i := range valid {
		valid[i].ID = ids.UniqueID(valid[i].ID, seenIDs, gen)
		seenIDs[valid[i].ID] = true

		valid[i].Name = ids.UniqueName(valid[i].Name, seenNames)
		seenNames[valid[i].Name] = true
	}
	return valid
}

// ViewPref validates a view preference object. It returns nil when no
// recognised field holds a valid value.
func ViewPref(v any) *models.ViewPref {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	var pref models.ViewPref
	found := false

	if s, ok := obj["activeRangeId"].(string); ok && s != "" {
		pref.ActiveRangeID = &s
		found = true
	}
	if s, ok := isoValue(obj["anchorISO"]); ok {
		pref.AnchorISO = &s
		found = true
	}
	if s, ok := isoValue(obj["customStartISO"]); ok {
		pref.CustomStartISO = &s
		found = true
	}
	if s, ok := isoValue(obj["customEndISO"]); ok {
		pref.CustomEndISO = &s
		found = true
	}
	if s, ok := obj["calendarMode"].(string); ok {
		mode := constants.CalendarMode(s)
		if models.ValidCalendarMode(mode) {
			pref.CalendarMode = &mode
			found = true
		}
	}

	if !found {
		return nil
	}
	return &pref
}

func rangeValue(raw any, gen ids.Generator) (models.Range, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return models.Range{}, false
	}

	id, ok := obj["id"].(string)
	if !ok || id == "" {
		return models.Range{}, false
	}
	start, ok := isoValue(obj["startISO"])
	if !ok {
		return models.Range{}, false
	}
	end, ok := isoValue(obj["endISO"])
	if !ok || start > end {
		return models.Range{}, false
	}

	r := models.Range{ID: id, StartISO: start, EndISO: end}

	if name, ok := obj["name"].(string); ok {
		r.Name = strings.TrimSpace(name)
	}
	if r.Name == "" {
		r.Name = constants.DefaultRangeName
	}
	if c, ok := obj["color"].(string); ok && models.Color(c).Valid() {
		r.Color = models.Color(c)
	}
	if entries := Entries(obj["entries"]); len(entries) > 0 {
		r.Entries = entries
	}
	if goal, ok := obj["goal"].(string); ok {
		r.Goal = strings.TrimSpace(goal)
	}
	r.Milestones = Milestones(obj["milestones"], gen)
	if done, ok := obj["isCompleted"].(bool); ok {
		r.IsCompleted = done
	}
	if at, ok := isoValue(obj["completedAtISO"]); ok {
		r.CompletedAtISO = at
	}

	return r, true
}

// Milestones validates a milestone list: non-object items and blank texts
// are dropped, missing or duplicate ids are re-minted, and at most
// MaxMilestones items are kept. It returns nil when nothing survives.
func Milestones(v any, gen ids.Generator) []models.Milestone {
	list, ok := v.([]any)
	if !ok {
		return nil
	}

	var out []models.Milestone
	seen := make(map[string]bool)
	for _, raw := range list {
		if len(out) == constants.MaxMilestones {
			break
		}
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		text, _ := obj["text"].(string)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		id, _ := obj["id"].(string)
		if id == "" || seen[id] {
			id = ids.FreshID(seen, gen)
		}
		seen[id] = true
		done, _ := obj["done"].(bool)
		out = append(out, models.Milestone{ID: id, Text: text, Done: done})
	}
	return out
}

func isoValue(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || !dates.IsISODate(s) {
		return "", false
	}
	return s, true
}

// stateValue accepts an integral JSON number in [MinState, MaxState].
func stateValue(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < constants.MinState || f > constants.MaxState {
		return 0, false
	}
	return int(f), true
}
