package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/masjid-cloud/minbar/internal/db"
	"github.com/masjid-cloud/minbar/internal/http/api"
	"github.com/masjid-cloud/minbar/internal/http/api/admin/packets"
	"github.com/masjid-cloud/minbar/internal/http/middleware"
	"github.com/masjid-cloud/minbar/internal/model"
	"github.com/masjid-cloud/minbar/internal/realtime"
)

type AnnouncementController struct {
	store    db.Store
	registry realtime.Registry
}

func NewAnnouncementController(store db.Store, registry realtime.Registry) *AnnouncementController {
	return &AnnouncementController{store: store, registry: registry}
}

func AnnouncementModule(store db.Store, registry realtime.Registry) api.Module {
	ctl := NewAnnouncementController(store, registry)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/announcements", ctl.listAnnouncements)
		c.POST("/announcements", ctl.createAnnouncement)
		c.PUT("/announcements/:id", ctl.updateAnnouncement)
		c.DELETE("/announcements/:id", ctl.deleteAnnouncement)
	})
}

func (a *AnnouncementController) listAnnouncements(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	masjidID, apiErr := masjidScope(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	if !user.Role.CanView(masjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	list, err := a.store.ListAnnouncements(masjidID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list announcements"}
	}

	response := make([]packets.AnnouncementResponse, 0, len(list))
	for i := range list {
		response = append(response, announcementResponse(&list[i]))
	}
	return response, nil
}

func (a *AnnouncementController) createAnnouncement(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	masjidID, apiErr := masjidScope(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	if !user.Role.CanManageContent(masjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	var request packets.CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	created, err := a.store.CreateAnnouncement(masjidID, request.Title, request.Body,
		request.ImageURL, request.StartDate, request.EndDate, request.Priority)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create announcement"}
	}

	realtime.NotifyTenantContentChanged(a.registry, masjidID, "announcement", created)
	return announcementResponse(&created), nil
}

func (a *AnnouncementController) updateAnnouncement(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := a.store.GetAnnouncementByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "announcement not found"}
	}
	if !user.Role.CanManageContent(existing.MasjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	var request packets.UpdateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := a.store.UpdateAnnouncement(id, request.Title, request.Body, request.ImageURL,
		request.StartDate, request.EndDate, request.Priority, request.Active); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update announcement"}
	}

	updated, err := a.store.GetAnnouncementByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reload announcement"}
	}

	realtime.NotifyTenantContentChanged(a.registry, existing.MasjidID, "announcement", updated)
	return announcementResponse(updated), nil
}

func (a *AnnouncementController) deleteAnnouncement(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := a.store.GetAnnouncementByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "announcement not found"}
	}
	if !user.Role.CanManageContent(existing.MasjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	if err := a.store.DeleteAnnouncement(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete announcement"}
	}

	realtime.NotifyTenantContentChanged(a.registry, existing.MasjidID, "announcement", gin.H{"deleted_id": id})
	return gin.H{"message": "deleted"}, nil
}

func announcementResponse(a *model.Announcement) packets.AnnouncementResponse {
	resp := packets.AnnouncementResponse{
		ID:        a.ID,
		MasjidID:  a.MasjidID,
		Title:     a.Title,
		Body:      a.Body,
		ImageURL:  a.ImageURL,
		Priority:  a.Priority,
		Active:    a.Active,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
	if a.StartDate != nil {
		s := a.StartDate.Format("2006-01-02")
		resp.StartDate = &s
	}
	if a.EndDate != nil {
		s := a.EndDate.Format("2006-01-02")
		resp.EndDate = &s
	}
	return resp
}
