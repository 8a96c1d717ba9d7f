package dates

import (
	"testing"
	"time"
)

func TestIsISODate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2024-02-30", false},
		{"2024-13-01", false},
		{"2024-1-01", false},
		{"2024-01-01T00:00:00Z", false},
		{" 2024-01-01", false},
		{"0001-01-01", true},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsISODate(tt.input); got != tt.want {
				t.Errorf("IsISODate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		day  string
		n    int
		want string
	}{
		{"2024-02-28", 1, "2024-02-29"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-03-10", 0, "2024-03-10"},
	}
	for _, tt := range tests {
		got, err := AddDays(tt.day, tt.n)
		if err != nil || got != tt.want {
			t.Errorf("AddDays(%s, %d) = %s, %v; want %s", tt.day, tt.n, got, err, tt.want)
		}
	}
	if _, err := AddDays("nope", 1); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2024-01-01", "2024-12-31", 365},
		{"2023-01-01", "2023-12-31", 364},
		{"2024-03-05", "2024-03-01", -4},
		{"0001-01-01", "9999-12-31", 3652058},
	}
	for _, tt := range tests {
		got, err := DaysBetween(tt.start, tt.end)
		if err != nil || got != tt.want {
			t.Errorf("DaysBetween(%s, %s) = %d, %v; want %d", tt.start, tt.end, got, err, tt.want)
		}
	}
}

func TestTodayFollowsTimezone(t *testing.T) {
	// 23:30 UTC is already the next day in Tokyo and still the same day in UTC
	clock := FixedClock(time.Date(2024, 8, 15, 23, 30, 0, 0, time.UTC))

	if got, _ := Today(clock, "UTC"); got != "2024-08-15" {
		t.Errorf("Today(UTC) = %s", got)
	}
	if got, err := Today(clock, "Asia/Tokyo"); err != nil || got != "2024-08-16" {
		t.Errorf("Today(Asia/Tokyo) = %s, %v", got, err)
	}
	if _, err := Today(clock, "Not/AZone"); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestResolveDay(t *testing.T) {
	clock := FixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "", want: "2024-03-01"},
		{input: "today", want: "2024-03-01"},
		{input: "yesterday", want: "2024-02-29"},
		{input: "2023-07-04", want: "2023-07-04"},
		{input: "tomorrow", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ResolveDay(tt.input, clock, "UTC")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveDay() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveDay() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	for _, tz := range []string{"", "Local", "UTC"} {
		if !ValidateTimezone(tz) {
			t.Errorf("ValidateTimezone(%q) = false", tz)
		}
	}
	if ValidateTimezone("Invalid/Zone") {
		t.Error("ValidateTimezone accepted an unknown zone")
	}
}
