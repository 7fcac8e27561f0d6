package model

import "time"

// Device represents a paired TV display. PairingCode is the 6-digit code
// used for out-of-band pairing; MasjidID is set once the device is claimed.
type Device struct {
	ID             int        `db:"id"              json:"id"`
	MasjidID       *int       `db:"masjid_id"       json:"masjid_id,omitempty"`
	Name           string     `db:"name"            json:"name"`
	PairingCode    string     `db:"pairing_code"    json:"pairing_code"`
	Paired         bool       `db:"paired"          json:"paired"`
	ActiveTemplate string     `db:"active_template" json:"active_template"`
	LastSeenAt     *time.Time `db:"last_seen_at"    json:"last_seen_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"      json:"updated_at"`
}
