package model

import "time"

// Announcement is admin-entered content with an optional date window,
// distinct from a schedule entry's time-of-day window.
type Announcement struct {
	ID        int        `db:"id"         json:"id"`
	MasjidID  int        `db:"masjid_id"  json:"masjid_id"`
	Title     string     `db:"title"      json:"title"`
	Body      string     `db:"body"       json:"body"`
	ImageURL  *string    `db:"image_url"  json:"image_url,omitempty"`
	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `db:"end_date"   json:"end_date,omitempty"`
	Priority  int        `db:"priority"   json:"priority"`
	Active    bool       `db:"active"     json:"active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// ActiveOn reports whether the announcement should show on the given day:
// the kill switch is on and the day falls inside the optional date window.
// The end bound is inclusive through the end of the end date's calendar day,
// regardless of any time component stored on it.
func (a *Announcement) ActiveOn(now time.Time) bool {
	if !a.Active {
		return false
	}
	if a.StartDate != nil && now.Before(*a.StartDate) {
		return false
	}
	if a.EndDate != nil {
		y, m, d := a.EndDate.Date()
		cutoff := time.Date(y, m, d, 0, 0, 0, 0, a.EndDate.Location()).AddDate(0, 0, 1)
		if !now.Before(cutoff) {
			return false
		}
	}
	return true
}
