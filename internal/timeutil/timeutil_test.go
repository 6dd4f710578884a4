package timeutil

import (
	"testing"
	"time"
)

func TestParseAndFormatDateRoundTrip(t *testing.T) {
	parsed, err := ParseDate("2025-02-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := FormatDate(parsed); got != "2025-02-14" {
		t.Fatalf("expected 2025-02-14, got %s", got)
	}
}

func TestCombineDateClock(t *testing.T) {
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	got := CombineDateClock(date, "19:30")
	if got.Hour() != 19 || got.Minute() != 30 {
		t.Fatalf("expected 19:30, got %s", got)
	}
}

func TestCombineDateClockBadClockFallsBack(t *testing.T) {
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := CombineDateClock(date, "late"); !got.Equal(date) {
		t.Fatalf("expected midnight fallback, got %s", got)
	}
}

func TestWeekKeyGroupsMondayThroughSunday(t *testing.T) {
	// 2025-06-02 is a Monday.
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	nextMonday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	if WeekKey(monday) != WeekKey(sunday) {
		t.Fatalf("expected Monday and Sunday to share a week key")
	}
	if WeekKey(sunday) == WeekKey(nextMonday) {
		t.Fatalf("expected week boundary after Sunday")
	}
	if got := WeekKey(sunday); got != "2025-06-02" {
		t.Fatalf("expected key 2025-06-02, got %s", got)
	}
}

func TestIsWeekend(t *testing.T) {
	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	wednesday := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	if !IsWeekend(saturday) {
		t.Fatalf("expected Saturday to be weekend")
	}
	if IsWeekend(wednesday) {
		t.Fatalf("expected Wednesday to be weekday")
	}
}

func TestDaysBetween(t *testing.T) {
	fri := time.Date(2025, 6, 6, 21, 0, 0, 0, time.UTC)
	sun := time.Date(2025, 6, 8, 9, 0, 0, 0, time.UTC)
	if got := DaysBetween(fri, sun); got != 2 {
		t.Fatalf("expected 2 days, got %d", got)
	}
	if got := DaysBetween(sun, fri); got != -2 {
		t.Fatalf("expected -2 days, got %d", got)
	}
}
