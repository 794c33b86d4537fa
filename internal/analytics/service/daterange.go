package service

import (
	"time"

	"crmdash_backend/internal/analytics/transport"
)

// ResolveDateRange maps a preset plus optional explicit bounds to a concrete
// [start, end] pair in UTC. For every non-custom preset the end bound is the
// current instant, not end-of-period. CUSTOM with either bound missing
// silently falls back to THIS_MONTH; callers relying on the fallback get the
// month-to-date window without an error.
func ResolveDateRange(now time.Time, preset transport.DateRangePreset, customStart, customEnd string) (time.Time, time.Time) {
	now = now.UTC()

	if preset == transport.PresetCustom {
		start, errStart := time.ParseInLocation("2006-01-02", customStart, time.UTC)
		end, errEnd := time.ParseInLocation("2006-01-02", customEnd, time.UTC)
		if errStart == nil && errEnd == nil {
			// Custom end covers the whole final day.
			return start, end.Add(24*time.Hour - time.Nanosecond)
		}
		preset = transport.PresetThisMonth
	}

	var start time.Time
	switch preset {
	case transport.PresetToday:
		start = startOfDay(now)
	case transport.PresetThisWeek:
		start = startOfWeek(now)
	case transport.PresetThisQuarter:
		start = startOfQuarter(now)
	case transport.PresetThisYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default: // THIS_MONTH, also the fallback for empty/unknown presets
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	return start, now
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// startOfWeek returns the most recent Monday (ISO weekday 1).
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t).AddDate(0, 0, -offset)
}

// startOfQuarter returns the first day of the month beginning the current
// calendar quarter (January, April, July, October).
func startOfQuarter(t time.Time) time.Time {
	quarterMonth := time.Month(((int(t.Month())-1)/3)*3 + 1)
	return time.Date(t.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
}
