package realtime

import (
	"encoding/json"
	"time"
)

// Push event vocabulary. Every event carries a server timestamp; delivery is
// fire-and-forget, at-most-once per connected display. Displays compensate
// for missed pushes with their periodic content poll.
const (
	EventAnnouncementUpdate = "announcement:update"
	EventScheduleUpdate     = "schedule:update"
	EventContentUpdate      = "content:update"
	EventTemplateChanged    = "template_changed"
	EventRefresh            = "refresh"
	EventDeviceReload       = "device:reload"
)

// Envelope is the wire-level message pushed to displays.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	TS    time.Time       `json:"ts"`
}

// NewEnvelope stamps the payload with the current server time. Marshal
// failures degrade to an envelope without data; the event name alone is
// enough for the display to refetch.
func NewEnvelope(event string, payload any) Envelope {
	env := Envelope{Event: event, TS: time.Now().UTC()}
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			env.Data = data
		}
	}
	return env
}

// NotifyTenantContentChanged is called by admin mutation handlers after any
// create/update/delete of an announcement, schedule entry, or media item.
func NotifyTenantContentChanged(reg Registry, masjidID int, kind string, payload any) {
	var event string
	switch kind {
	case "announcement":
		event = EventAnnouncementUpdate
	case "schedule":
		event = EventScheduleUpdate
	default:
		event = EventContentUpdate
	}
	reg.BroadcastToTenant(masjidID, event, payload)
}
