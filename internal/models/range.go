package models

import "slices"

// Color is one of the fixed palette names a range can be drawn with
type Color string

const (
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorTeal   Color = "teal"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"

	// DefaultColor is applied at render time when a range has none
	DefaultColor = ColorTeal
)

// Palette lists every valid range colour in display order
var Palette = []Color{ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorTeal, ColorBlue, ColorPurple, ColorPink}

// Valid reports whether c is part of the palette
func (c Color) Valid() bool {
	return slices.Contains(Palette, c)
}

// OrDefault returns c, or DefaultColor when c is unset or unknown
func (c Color) OrDefault() Color {
	if c.Valid() {
		return c
	}
	return DefaultColor
}

// Milestone is a checklist item attached to a range
type Milestone struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done,omitempty"`
}

// Range is a named date span ("chapter") tracked independently of the calendar year.
type Range struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	StartISO       string      `json:"startISO"`
	EndISO         string      `json:"endISO"`
	Color          Color       `json:"color,omitempty"`
	Entries        Entries     `json:"entries,omitempty"`
	Goal           string      `json:"goal,omitempty"`
	Milestones     []Milestone `json:"milestones,omitempty"`
	IsCompleted    bool        `json:"isCompleted,omitempty"`
	CompletedAtISO string      `json:"completedAtISO,omitempty"`
}

// Contains reports whether the ISO day falls inside the range (inclusive).
// ISO date strings order lexically, so no parsing is needed.
func (r Range) Contains(day string) bool {
	return day >= r.StartISO && day <= r.EndISO
}

// Clone returns a deep copy of the range
func (r Range) Clone() Range {
	out := r
	out.Entries = r.Entries.Clone()
	if r.Milestones != nil {
		out.Milestones = slices.Clone(r.Milestones)
	}
	return out
}

// CloneRanges deep-copies a slice of ranges
func CloneRanges(rs []Range) []Range {
	if rs == nil {
		return nil
	}
	out := make([]Range, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}
