package model

import "time"

// Media types.
const (
	MediaImage = "IMAGE"
	MediaVideo = "VIDEO"
	MediaPDF   = "PDF"
)

// MediaItem is uploaded file metadata referenced by schedule entries.
type MediaItem struct {
	ID        int       `db:"id"         json:"id"`
	MasjidID  int       `db:"masjid_id"  json:"masjid_id"`
	Name      string    `db:"name"       json:"name"`
	Type      string    `db:"type"       json:"type"`
	URL       string    `db:"url"        json:"url"`
	SizeBytes int64     `db:"size_bytes" json:"size_bytes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
