package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/masjid-cloud/minbar/internal/db"
	"github.com/masjid-cloud/minbar/internal/http/api"
	"github.com/masjid-cloud/minbar/internal/http/api/admin/packets"
	"github.com/masjid-cloud/minbar/internal/http/middleware"
	"github.com/masjid-cloud/minbar/internal/model"
	"github.com/masjid-cloud/minbar/internal/realtime"
	"github.com/masjid-cloud/minbar/internal/schedule"
)

type ScheduleController struct {
	store    db.Store
	registry realtime.Registry
}

func NewScheduleController(store db.Store, registry realtime.Registry) *ScheduleController {
	return &ScheduleController{store: store, registry: registry}
}

func ScheduleModule(store db.Store, registry realtime.Registry) api.Module {
	ctl := NewScheduleController(store, registry)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules", ctl.listEntries)
		c.POST("/schedules", ctl.createEntry)
		c.PUT("/schedules/:id", ctl.updateEntry)
		c.DELETE("/schedules/:id", ctl.deleteEntry)
	})
}

func (s *ScheduleController) listEntries(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	masjidID, apiErr := masjidScope(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	if !user.Role.CanView(masjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	list, err := s.store.ListScheduleEntries(masjidID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list schedule entries"}
	}
	response := make([]packets.ScheduleEntryResponse, 0, len(list))
	for i := range list {
		response = append(response, scheduleEntryResponse(&list[i]))
	}
	return response, nil
}

func (s *ScheduleController) createEntry(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	masjidID, apiErr := masjidScope(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	if !user.Role.CanManageContent(masjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	var request packets.CreateScheduleEntryRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	entry := model.ScheduleEntry{
		MasjidID:        masjidID,
		ContentType:     request.ContentType,
		ContentRef:      request.ContentRef,
		WebviewURL:      request.WebviewURL,
		StartTime:       request.StartTime,
		EndTime:         request.EndTime,
		DaysOfWeek:      toInt64Array(request.DaysOfWeek),
		DurationSeconds: request.DurationSeconds,
		Priority:        request.Priority,
		Active:          true,
	}
	if apiErr := s.validateEntry(&entry); apiErr != nil {
		return nil, apiErr
	}

	created, err := s.store.CreateScheduleEntry(entry)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create schedule entry"}
	}

	realtime.NotifyTenantContentChanged(s.registry, masjidID, "schedule", created)
	return scheduleEntryResponse(&created), nil
}

func (s *ScheduleController) updateEntry(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	entry, err := s.store.GetScheduleEntry(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "schedule entry not found"}
	}
	if !user.Role.CanManageContent(entry.MasjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	var request packets.UpdateScheduleEntryRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if request.ContentType != nil {
		entry.ContentType = *request.ContentType
	}
	if request.ContentRef != nil {
		entry.ContentRef = request.ContentRef
	}
	if request.WebviewURL != nil {
		entry.WebviewURL = request.WebviewURL
	}
	if request.StartTime != nil {
		entry.StartTime = request.StartTime
	}
	if request.EndTime != nil {
		entry.EndTime = request.EndTime
	}
	if request.DaysOfWeek != nil {
		entry.DaysOfWeek = toInt64Array(*request.DaysOfWeek)
	}
	if request.DurationSeconds != nil {
		entry.DurationSeconds = *request.DurationSeconds
	}
	if request.Priority != nil {
		entry.Priority = *request.Priority
	}
	if request.Active != nil {
		entry.Active = *request.Active
	}
	if apiErr := s.validateEntry(&entry); apiErr != nil {
		return nil, apiErr
	}

	if err := s.store.UpdateScheduleEntry(entry); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update schedule entry"}
	}

	realtime.NotifyTenantContentChanged(s.registry, entry.MasjidID, "schedule", entry)
	return scheduleEntryResponse(&entry), nil
}

func (s *ScheduleController) deleteEntry(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	entry, err := s.store.GetScheduleEntry(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "schedule entry not found"}
	}
	if !user.Role.CanManageContent(entry.MasjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	if err := s.store.DeleteScheduleEntry(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete schedule entry"}
	}

	realtime.NotifyTenantContentChanged(s.registry, entry.MasjidID, "schedule", gin.H{"deleted_id": id})
	return gin.H{"message": "deleted"}, nil
}

// validateEntry enforces the invariants admin input must satisfy: day mask
// values in [0,6], parseable clock strings, a media reference for IMAGE and
// VIDEO, and a non-empty URL for WEBVIEW.
func (s *ScheduleController) validateEntry(entry *model.ScheduleEntry) *api.APIError {
	for _, d := range entry.DaysOfWeek {
		if d < 0 || d > 6 {
			return &api.APIError{Code: http.StatusBadRequest, Message: "days_of_week values must be in [0,6]"}
		}
	}
	if entry.StartTime != nil && !schedule.ValidClock(*entry.StartTime) {
		return &api.APIError{Code: http.StatusBadRequest, Message: "start_time must be HH:MM"}
	}
	if entry.EndTime != nil && !schedule.ValidClock(*entry.EndTime) {
		return &api.APIError{Code: http.StatusBadRequest, Message: "end_time must be HH:MM"}
	}

	switch entry.ContentType {
	case model.ContentImage, model.ContentVideo:
		if entry.ContentRef == nil {
			return &api.APIError{Code: http.StatusBadRequest, Message: "content_ref required for media entries"}
		}
		media, err := s.store.GetMediaByID(*entry.ContentRef)
		if err != nil {
			return &api.APIError{Code: http.StatusNotFound, Message: "referenced media not found"}
		}
		if media.MasjidID != entry.MasjidID {
			return &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
		}
	case model.ContentWebview:
		if entry.WebviewURL == nil || *entry.WebviewURL == "" {
			return &api.APIError{Code: http.StatusBadRequest, Message: "webview_url required for webview entries"}
		}
	}
	return nil
}

func toInt64Array(days []int) pq.Int64Array {
	out := make(pq.Int64Array, 0, len(days))
	for _, d := range days {
		out = append(out, int64(d))
	}
	return out
}

func scheduleEntryResponse(e *model.ScheduleEntry) packets.ScheduleEntryResponse {
	days := make([]int, 0, len(e.DaysOfWeek))
	for _, d := range e.DaysOfWeek {
		days = append(days, int(d))
	}
	return packets.ScheduleEntryResponse{
		ID:              e.ID,
		MasjidID:        e.MasjidID,
		ContentType:     e.ContentType,
		ContentRef:      e.ContentRef,
		WebviewURL:      e.WebviewURL,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		DaysOfWeek:      days,
		DurationSeconds: e.DurationSeconds,
		Priority:        e.Priority,
		Active:          e.Active,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.Format(time.RFC3339),
	}
}
