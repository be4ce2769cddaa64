package dates

import (
	"testing"
	"time"

	"retro/internal/core"
)

func TestDayCount(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2025-06-17", 1}, // epoch, a Tuesday
		{"2025-06-18", 2},
		{"2025-06-20", 4}, // first Friday
		{"2025-06-21", 4}, // Saturday, not counted
		{"2025-06-22", 4}, // Sunday, not counted
		{"2025-06-23", 5}, // next Monday
		{"2025-06-24", 6},
		{"2025-07-17", 23},
	}
	for _, tc := range tests {
		d, err := core.ParseDate(tc.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.date, err)
		}
		if got := DayCount(d); got != tc.want {
			t.Errorf("DayCount(%s) = %d, want %d", tc.date, got, tc.want)
		}
	}
}

func TestMonthIndex(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2025-06-17", 1}, // epoch
		{"2025-06-30", 1},
		{"2025-07-16", 1}, // last day of the first period
		{"2025-07-17", 2}, // anniversary rollover
		{"2025-08-16", 2},
		{"2025-08-17", 3},
		{"2025-12-17", 7},
		{"2026-01-17", 8}, // wraps into the next calendar year
		{"2026-06-17", 13},
		{"2025-06-01", 1}, // before epoch, clamped
	}
	for _, tc := range tests {
		d, err := core.ParseDate(tc.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.date, err)
		}
		if got := MonthIndex(d); got != tc.want {
			t.Errorf("MonthIndex(%s) = %d, want %d", tc.date, got, tc.want)
		}
	}
}

func TestMonthIndexNonDecreasing(t *testing.T) {
	prev := 0
	end := core.NewDate(2026, 12, 31)
	for d := Epoch; !d.After(end); d = d.Next() {
		idx := MonthIndex(d)
		if idx < prev {
			t.Fatalf("MonthIndex decreased at %s: %d < %d", d, idx, prev)
		}
		prev = idx
	}
}

func TestMonthLabel(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{1, "6월"},
		{2, "7월"},
		{7, "12월"},
		{8, "1월"}, // wraps past December
		{13, "6월"},
	}
	for _, tc := range tests {
		if got := MonthLabel(tc.index); got != tc.want {
			t.Errorf("MonthLabel(%d) = %q, want %q", tc.index, got, tc.want)
		}
	}
}

func TestFixedClock(t *testing.T) {
	instant := time.Date(2025, 7, 1, 15, 30, 0, 0, time.UTC)
	clock := Fixed(instant)

	if got := clock.Today(); got.String() != "2025-07-01" {
		t.Errorf("Today() = %s, want 2025-07-01", got)
	}
	if got := clock.Now(); !got.Equal(instant) {
		t.Errorf("Now() = %v, want %v", got, instant)
	}
}
