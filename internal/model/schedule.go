package model

import (
	"time"

	"github.com/lib/pq"
)

// Content types a schedule entry can bind to.
const (
	ContentPrayerTimes  = "PRAYER_TIMES"
	ContentAnnouncement = "ANNOUNCEMENT"
	ContentImage        = "IMAGE"
	ContentVideo        = "VIDEO"
	ContentWebview      = "WEBVIEW"
)

// MinDurationSeconds is the floor for how long a display holds one entry.
const MinDurationSeconds = 5

// ScheduleEntry binds a content reference to a time window for one masjid.
// StartTime/EndTime are naive wall-clock values ("HH:MM", no date); both nil
// means all day. DaysOfWeek uses Sunday=0; empty means every day.
type ScheduleEntry struct {
	ID              int           `db:"id"               json:"id"`
	MasjidID        int           `db:"masjid_id"        json:"masjid_id"`
	ContentType     string        `db:"content_type"     json:"content_type"`
	ContentRef      *int          `db:"content_ref"      json:"content_ref,omitempty"`
	WebviewURL      *string       `db:"webview_url"      json:"webview_url,omitempty"`
	StartTime       *string       `db:"start_time"       json:"start_time,omitempty"`
	EndTime         *string       `db:"end_time"         json:"end_time,omitempty"`
	DaysOfWeek      pq.Int64Array `db:"days_of_week"     json:"days_of_week"`
	DurationSeconds int           `db:"duration_seconds" json:"duration_seconds"`
	Priority        int           `db:"priority"         json:"priority"`
	Active          bool          `db:"active"           json:"active"`
	CreatedAt       time.Time     `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"       json:"updated_at"`
}

// RunsOn reports whether the entry's day mask includes the given weekday.
// An empty mask runs every day.
func (e *ScheduleEntry) RunsOn(day time.Weekday) bool {
	if len(e.DaysOfWeek) == 0 {
		return true
	}
	for _, d := range e.DaysOfWeek {
		if int(d) == int(day) {
			return true
		}
	}
	return false
}
