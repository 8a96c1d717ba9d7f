package models

import (
	"time"

	"github.com/julianstephens/yearlit/internal/constants"
)

// ViewPref holds transient UI state. It is not data of record and can be
// discarded at any time; every field is optional.
type ViewPref struct {
	ActiveRangeID  *string                 `json:"activeRangeId,omitempty"`
	AnchorISO      *string                 `json:"anchorISO,omitempty"`
	CustomStartISO *string                 `json:"customStartISO,omitempty"`
	CustomEndISO   *string                 `json:"customEndISO,omitempty"`
	CalendarMode   *constants.CalendarMode `json:"calendarMode,omitempty"`
}

// Mode returns the calendar mode, falling back to year view
func (v *ViewPref) Mode() constants.CalendarMode {
	if v == nil || v.CalendarMode == nil {
		return constants.CalendarModeYear
	}
	return *v.CalendarMode
}

// ValidCalendarMode reports whether m is a known calendar mode
func ValidCalendarMode(m constants.CalendarMode) bool {
	switch m {
	case constants.CalendarModeYear, constants.CalendarModeRange, constants.CalendarModeCustom:
		return true
	}
	return false
}

// Snapshot is the export file format. Re-importing a snapshot with the
// overwrite policy reproduces the working set it was taken from.
type Snapshot struct {
	Version        int       `json:"version"`
	ExportedAt     time.Time `json:"exportedAt"`
	Entries        Entries   `json:"entries"`
	Ranges         []Range   `json:"ranges"`
	ViewPref       *ViewPref `json:"viewPref,omitempty"`
	GuideDismissed bool      `json:"guideDismissed"`
}
