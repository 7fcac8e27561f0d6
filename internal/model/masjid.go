package model

import "time"

// Masjid is the tenant: the unit of data isolation for devices,
// announcements, media, and schedule entries.
type Masjid struct {
	ID        int       `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	City      string    `db:"city"       json:"city"`
	Timezone  string    `db:"timezone"   json:"timezone"`
	Latitude  float64   `db:"latitude"   json:"latitude"`
	Longitude float64   `db:"longitude"  json:"longitude"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
