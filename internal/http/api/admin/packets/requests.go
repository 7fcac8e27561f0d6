package packets

import "time"

// REQUESTS FOR /api/admin/auth
type SignupRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8"`
	Name       *string `json:"name"`
	MasjidName string  `json:"masjid_name" binding:"required"`
	City       string  `json:"city" binding:"required"`
	Timezone   string  `json:"timezone" binding:"required"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// REQUESTS FOR /api/admin/announcements
type CreateAnnouncementRequest struct {
	Title     string     `json:"title" binding:"required"`
	Body      string     `json:"body"`
	ImageURL  *string    `json:"image_url"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Priority  int        `json:"priority" binding:"gte=0"`
}

type UpdateAnnouncementRequest struct {
	Title     *string    `json:"title"`
	Body      *string    `json:"body"`
	ImageURL  *string    `json:"image_url"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Priority  *int       `json:"priority"`
	Active    *bool      `json:"active"`
}

// REQUESTS FOR /api/admin/schedules
type CreateScheduleEntryRequest struct {
	ContentType     string  `json:"content_type" binding:"required,oneof=PRAYER_TIMES ANNOUNCEMENT IMAGE VIDEO WEBVIEW"`
	ContentRef      *int    `json:"content_ref"`
	WebviewURL      *string `json:"webview_url"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	DaysOfWeek      []int   `json:"days_of_week"`
	DurationSeconds int     `json:"duration_seconds" binding:"required,gte=5"`
	Priority        int     `json:"priority" binding:"gte=0"`
}

type UpdateScheduleEntryRequest struct {
	ContentType     *string `json:"content_type" binding:"omitempty,oneof=PRAYER_TIMES ANNOUNCEMENT IMAGE VIDEO WEBVIEW"`
	ContentRef      *int    `json:"content_ref"`
	WebviewURL      *string `json:"webview_url"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	DaysOfWeek      *[]int  `json:"days_of_week"`
	DurationSeconds *int    `json:"duration_seconds" binding:"omitempty,gte=5"`
	Priority        *int    `json:"priority"`
	Active          *bool   `json:"active"`
}

// REQUESTS FOR /api/admin/devices
type ClaimDeviceRequest struct {
	Code string  `json:"code" binding:"required,len=6"`
	Name *string `json:"name"`
}

type SetTemplateRequest struct {
	Template string `json:"template" binding:"required"`
}
