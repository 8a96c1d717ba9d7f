package calendar

import (
	"fmt"

	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/models"
)

// View is the span of days a calendar mode selects
type View struct {
	Mode     constants.CalendarMode
	StartISO string
	EndISO   string
	Title    string
	// Range is set in range mode
	Range *models.Range
}

// Entries returns the entries drawn for the view: the range's own entries
// in range mode, the global calendar otherwise.
func (v View) Entries(global models.Entries) models.Entries {
	if v.Range != nil {
		return v.Range.Entries
	}
	return global
}

// Resolve turns a view preference into a concrete span. Modes whose inputs
// are missing or invalid fall back to the year containing today, or the
// anchor's year when one is set.
func Resolve(pref *models.ViewPref, ranges []models.Range, today string) View {
	switch pref.Mode() {
	case constants.CalendarModeRange:
		if r, ok := activeRange(pref, ranges); ok {
			return View{
				Mode:     constants.CalendarModeRange,
				StartISO: r.StartISO,
				EndISO:   r.EndISO,
				Title:    r.Name,
				Range:    &r,
			}
		}
	case constants.CalendarModeCustom:
		if pref.CustomStartISO != nil && pref.CustomEndISO != nil {
			start, end := *pref.CustomStartISO, *pref.CustomEndISO
			if dates.IsISODate(start) && dates.IsISODate(end) && start <= end {
				return View{
					Mode:     constants.CalendarModeCustom,
					StartISO: start,
					EndISO:   end,
					Title:    fmt.Sprintf("%s to %s", start, end),
				}
			}
		}
	}
	return YearView(anchorYear(pref, today))
}

// YearView spans the whole calendar year
func YearView(year int) View {
	return View{
		Mode:     constants.CalendarModeYear,
		StartISO: fmt.Sprintf("%04d-01-01", year),
		EndISO:   fmt.Sprintf("%04d-12-31", year),
		Title:    fmt.Sprintf("%04d", year),
	}
}

func activeRange(pref *models.ViewPref, ranges []models.Range) (models.Range, bool) {
	if len(ranges) == 0 {
		return models.Range{}, false
	}
	if pref != nil && pref.ActiveRangeID != nil {
		for _, r := range ranges {
			if r.ID == *pref.ActiveRangeID {
				return r.Clone(), true
			}
		}
	}
	return ranges[0].Clone(), true
}

func anchorYear(pref *models.ViewPref, today string) int {
	if pref != nil && pref.AnchorISO != nil {
		if t, err := dates.ParseISO(*pref.AnchorISO); err == nil {
			return t.Year()
		}
	}
	if t, err := dates.ParseISO(today); err == nil {
		return t.Year()
	}
	return 1970
}
