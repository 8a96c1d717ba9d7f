package dates

import (
	"fmt"
	"regexp"
	"time"

	"github.com/julianstephens/yearlit/internal/constants"
)

var isoPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Clock supplies the current time. Code that would otherwise call
// time.Now takes a Clock so it stays deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// IsISODate reports whether s is a real calendar date written as YYYY-MM-DD.
// The string must match the pattern and survive a parse/format round-trip,
// which rejects impossible dates such as 2024-02-30.
func IsISODate(s string) bool {
	if !isoPattern.MatchString(s) {
		return false
	}
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return false
	}
	return t.Format(constants.DateFormat) == s
}

// ParseISO parses a strict ISO date at midnight UTC
func ParseISO(s string) (time.Time, error) {
	if !IsISODate(s) {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return time.Parse(constants.DateFormat, s)
}

// FormatISO formats the calendar day of t as YYYY-MM-DD
func FormatISO(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// AddDays shifts an ISO date by n calendar days
func AddDays(day string, n int) (string, error) {
	t, err := ParseISO(day)
	if err != nil {
		return "", err
	}
	return FormatISO(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns the number of calendar days from start to end.
// It is negative when end precedes start.
func DaysBetween(start, end string) (int, error) {
	s, err := ParseISO(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseISO(end)
	if err != nil {
		return 0, err
	}
	// Both values are UTC midnights; Unix seconds avoid Duration overflow on long spans
	return int((e.Unix() - s.Unix()) / 86400), nil
}

// Midnight returns the start of t's calendar day as a UTC date value
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// NowIn returns the clock's current time in the given timezone
func NowIn(clock Clock, timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return clock.Now().In(loc), nil
}

// Today returns today's ISO date in the given timezone.
// "Today" follows the configured timezone, not the system one.
func Today(clock Clock, timezone string) (string, error) {
	now, err := NowIn(clock, timezone)
	if err != nil {
		return "", err
	}
	return FormatISO(now), nil
}

// ResolveDay accepts an ISO date or one of the shortcuts "today" / "yesterday"
func ResolveDay(input string, clock Clock, timezone string) (string, error) {
	switch input {
	case "", "today":
		return Today(clock, timezone)
	case "yesterday":
		today, err := Today(clock, timezone)
		if err != nil {
			return "", err
		}
		return AddDays(today, -1)
	}
	if !IsISODate(input) {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD, today or yesterday)", input)
	}
	return input, nil
}
