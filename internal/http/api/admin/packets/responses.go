package packets

// RESPONSES FOR /api/admin/*

// AnnouncementResponse mirrors model.Announcement but flattens times to RFC3339.
type AnnouncementResponse struct {
	ID        int     `json:"id"`
	MasjidID  int     `json:"masjid_id"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	ImageURL  *string `json:"image_url,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Priority  int     `json:"priority"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type ScheduleEntryResponse struct {
	ID              int     `json:"id"`
	MasjidID        int     `json:"masjid_id"`
	ContentType     string  `json:"content_type"`
	ContentRef      *int    `json:"content_ref,omitempty"`
	WebviewURL      *string `json:"webview_url,omitempty"`
	StartTime       *string `json:"start_time,omitempty"`
	EndTime         *string `json:"end_time,omitempty"`
	DaysOfWeek      []int   `json:"days_of_week"`
	DurationSeconds int     `json:"duration_seconds"`
	Priority        int     `json:"priority"`
	Active          bool    `json:"active"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type MediaResponse struct {
	ID        int    `json:"id"`
	MasjidID  int    `json:"masjid_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	SizeBytes int64  `json:"size_bytes"`
	CreatedAt string `json:"created_at"`
}

type DeviceResponse struct {
	ID             int     `json:"id"`
	MasjidID       *int    `json:"masjid_id,omitempty"`
	Name           string  `json:"name"`
	PairingCode    string  `json:"pairing_code"`
	Paired         bool    `json:"paired"`
	ActiveTemplate string  `json:"active_template"`
	Connected      bool    `json:"connected"`
	LastSeenAt     *string `json:"last_seen_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}
