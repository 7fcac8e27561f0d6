package schedule

import (
	"strconv"
	"strings"

	"time"

	"github.com/masjid-cloud/minbar/internal/model"
)

// IsActiveAt reports whether a schedule entry is live at the given instant.
// The caller must pass `now` already converted to the masjid's local
// timezone; this function only compares naive wall-clock values.
//
// Policy for partial windows: a missing start or end bound is treated as
// always satisfied on that side. A window whose end precedes its start is an
// admin configuration error and matches nothing.
func IsActiveAt(entry *model.ScheduleEntry, now time.Time) bool {
	if !entry.Active {
		return false
	}
	if !entry.RunsOn(now.Weekday()) {
		return false
	}

	sec := secondOfDay(now)
	if entry.StartTime != nil && entry.EndTime != nil {
		start, ok := parseClock(*entry.StartTime)
		if !ok {
			return false
		}
		end, ok := parseClock(*entry.EndTime)
		if !ok {
			return false
		}
		if end < start {
			return false
		}
		// inclusive on both ends so start == end still matches at the bound
		return sec >= start && sec <= end
	}
	if entry.StartTime != nil {
		start, ok := parseClock(*entry.StartTime)
		if !ok {
			return false
		}
		return sec >= start
	}
	if entry.EndTime != nil {
		end, ok := parseClock(*entry.EndTime)
		if !ok {
			return false
		}
		return sec <= end
	}
	return true
}

// ValidClock reports whether s is a parseable "HH:MM" or "HH:MM:SS"
// wall-clock value; used to validate admin input before it is stored.
func ValidClock(s string) bool {
	_, ok := parseClock(s)
	return ok
}

func secondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// parseClock accepts "HH:MM" or "HH:MM:SS" and returns the second of day.
func parseClock(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	sec := 0
	if len(parts) == 3 {
		sec, err = strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, false
		}
	}
	return h*3600 + m*60 + sec, true
}
