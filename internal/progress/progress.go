// Package progress derives elapsed-time and streak statistics for a year
// or a range.
package progress

import (
	"fmt"
	"time"

	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/models"
)

// Progress describes how far "now" is through an inclusive span of days
type Progress struct {
	StartISO string
	EndISO   string
	// TotalDays counts every day in the span, both ends included
	TotalDays int
	// ElapsedDays counts days strictly before today
	ElapsedDays int
	// DaysLeft counts today (when inside the span) through the last day
	DaysLeft int
	// Percent is the elapsed share of the span in [0, 100], to the second
	Percent float64
	// Remaining is the wall-clock time until the span's final midnight,
	// saturating at the largest time.Duration
	Remaining time.Duration
}

// Span computes progress through [start, end] at now. now is read as wall
// clock time in its own location.
func Span(start, end string, now time.Time) (Progress, error) {
	s, err := dates.ParseISO(start)
	if err != nil {
		return Progress{}, err
	}
	e, err := dates.ParseISO(end)
	if err != nil {
		return Progress{}, err
	}
	if s.After(e) {
		return Progress{}, fmt.Errorf("span start %s is after end %s", start, end)
	}

	total, _ := dates.DaysBetween(start, end)
	total++

	// Work in a UTC copy of the wall clock so DST shifts don't skew percentages
	wall := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.UTC)
	today := dates.FormatISO(wall)
	finish := e.AddDate(0, 0, 1)

	p := Progress{StartISO: start, EndISO: end, TotalDays: total}

	left, _ := dates.DaysBetween(today, end)
	p.DaysLeft = clamp(left+1, 0, total)
	p.ElapsedDays = total - p.DaysLeft

	// Unix seconds keep spans longer than time.Duration's range exact
	span := float64(finish.Unix() - s.Unix())
	done := float64(wall.Unix()-s.Unix()) + float64(wall.Nanosecond())/1e9
	switch {
	case done <= 0:
		p.Percent = 0
	case done >= span:
		p.Percent = 100
	default:
		p.Percent = done / span * 100
	}

	if finish.After(wall) {
		p.Remaining = finish.Sub(wall)
	}
	return p, nil
}

// Year computes progress through the calendar year at now
func Year(year int, now time.Time) Progress {
	p, _ := Span(fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year), now)
	return p
}

// Stats summarises the recorded days of a span
type Stats struct {
	// Current counts consecutive recorded days ending today, or ending
	// yesterday when today has no record yet
	Current  int
	Longest  int
	Recorded int
	// Distribution[n] counts days rated n; index 0 is unused
	Distribution [constants.MaxState + 1]int
	Average      float64
}

// Streaks computes record streaks over [start, end]. Days after today are
// ignored for the current streak but still count toward the totals.
func Streaks(entries models.Entries, start, end, today string) (Stats, error) {
	days, err := dateList(start, end)
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	run, sum := 0, 0
	for _, day := range days {
		e, ok := entries[day]
		if !ok || !e.IsRecorded() {
			run = 0
			continue
		}
		run++
		if run > st.Longest {
			st.Longest = run
		}
		st.Recorded++
		st.Distribution[e.State]++
		sum += e.State
	}
	if st.Recorded > 0 {
		st.Average = float64(sum) / float64(st.Recorded)
	}

	cursor := today
	if cursor > end {
		cursor = end
	}
	if e, ok := entries[cursor]; cursor == today && (!ok || !e.IsRecorded()) {
		cursor, _ = dates.AddDays(cursor, -1)
	}
	for cursor >= start {
		e, ok := entries[cursor]
		if !ok || !e.IsRecorded() {
			break
		}
		st.Current++
		cursor, _ = dates.AddDays(cursor, -1)
	}
	return st, nil
}

func dateList(start, end string) ([]string, error) {
	n, err := dates.DaysBetween(start, end)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("span start %s is after end %s", start, end)
	}
	days := make([]string, 0, n+1)
	for day, i := start, 0; i <= n; i++ {
		days = append(days, day)
		day, _ = dates.AddDays(day, 1)
	}
	return days, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
