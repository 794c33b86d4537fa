package service

import (
	"testing"
	"time"

	"crmdash_backend/internal/analytics/transport"
)

var testNow = time.Date(2026, time.August, 19, 14, 30, 0, 0, time.UTC) // a Wednesday

func TestResolveDateRange_PresetsEndAtNow(t *testing.T) {
	presets := []transport.DateRangePreset{
		transport.PresetToday,
		transport.PresetThisWeek,
		transport.PresetThisMonth,
		transport.PresetThisQuarter,
		transport.PresetThisYear,
	}

	for _, preset := range presets {
		start, end := ResolveDateRange(testNow, preset, "", "")
		if !end.Equal(testNow) {
			t.Fatalf("%s: expected end %v, got %v", preset, testNow, end)
		}
		if start.After(end) {
			t.Fatalf("%s: start %v after end %v", preset, start, end)
		}
	}
}

func TestResolveDateRange_Today(t *testing.T) {
	start, _ := ResolveDateRange(testNow, transport.PresetToday, "", "")
	want := time.Date(2026, time.August, 19, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("expected %v, got %v", want, start)
	}
}

func TestResolveDateRange_ThisWeekStartsMonday(t *testing.T) {
	start, _ := ResolveDateRange(testNow, transport.PresetThisWeek, "", "")
	want := time.Date(2026, time.August, 17, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("expected Monday %v, got %v", want, start)
	}

	// A Monday resolves to itself.
	monday := time.Date(2026, time.August, 17, 9, 0, 0, 0, time.UTC)
	start, _ = ResolveDateRange(monday, transport.PresetThisWeek, "", "")
	if !start.Equal(want) {
		t.Fatalf("expected Monday to resolve to itself, got %v", start)
	}

	// A Sunday resolves back six days.
	sunday := time.Date(2026, time.August, 23, 9, 0, 0, 0, time.UTC)
	start, _ = ResolveDateRange(sunday, transport.PresetThisWeek, "", "")
	if !start.Equal(want) {
		t.Fatalf("expected Sunday to resolve to previous Monday, got %v", start)
	}
}

func TestResolveDateRange_ThisQuarter(t *testing.T) {
	start, _ := ResolveDateRange(testNow, transport.PresetThisQuarter, "", "")
	want := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("expected quarter start %v, got %v", want, start)
	}

	feb := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
	start, _ = ResolveDateRange(feb, transport.PresetThisQuarter, "", "")
	if start.Month() != time.January || start.Day() != 1 {
		t.Fatalf("expected January 1 for February, got %v", start)
	}
}

func TestResolveDateRange_ThisYear(t *testing.T) {
	start, _ := ResolveDateRange(testNow, transport.PresetThisYear, "", "")
	want := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("expected %v, got %v", want, start)
	}
}

func TestResolveDateRange_CustomBounds(t *testing.T) {
	start, end := ResolveDateRange(testNow, transport.PresetCustom, "2026-03-01", "2026-03-15")
	if start.Month() != time.March || start.Day() != 1 {
		t.Fatalf("unexpected custom start %v", start)
	}
	if end.Before(time.Date(2026, time.March, 15, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("custom end should cover the final day, got %v", end)
	}
}

func TestResolveDateRange_CustomMissingBoundsFallsBackToThisMonth(t *testing.T) {
	monthStart, monthEnd := ResolveDateRange(testNow, transport.PresetThisMonth, "", "")

	start, end := ResolveDateRange(testNow, transport.PresetCustom, "", "")
	if !start.Equal(monthStart) || !end.Equal(monthEnd) {
		t.Fatalf("expected THIS_MONTH fallback, got [%v, %v]", start, end)
	}

	// A single bound is not enough either.
	start, end = ResolveDateRange(testNow, transport.PresetCustom, "2026-03-01", "")
	if !start.Equal(monthStart) || !end.Equal(monthEnd) {
		t.Fatalf("expected THIS_MONTH fallback for partial bounds, got [%v, %v]", start, end)
	}
}
