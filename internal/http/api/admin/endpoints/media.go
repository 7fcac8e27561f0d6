package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/db"
	"github.com/masjid-cloud/minbar/internal/http/api"
	"github.com/masjid-cloud/minbar/internal/http/api/admin/packets"
	"github.com/masjid-cloud/minbar/internal/http/middleware"
	"github.com/masjid-cloud/minbar/internal/model"
	"github.com/masjid-cloud/minbar/internal/realtime"
	"github.com/masjid-cloud/minbar/internal/storage"
)

type MediaController struct {
	store    db.Store
	registry realtime.Registry
	files    storage.Storage
}

func NewMediaController(store db.Store, registry realtime.Registry, files storage.Storage) *MediaController {
	return &MediaController{store: store, registry: registry, files: files}
}

func MediaModule(store db.Store, registry realtime.Registry, files storage.Storage) api.Module {
	ctl := NewMediaController(store, registry, files)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/media", ctl.listMedia)
		c.POST("/media", ctl.uploadMedia)
		c.DELETE("/media/:id", ctl.deleteMedia)
	})
}

func (m *MediaController) listMedia(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	masjidID, apiErr := masjidScope(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	if !user.Role.CanView(masjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	list, err := m.store.ListMedia(masjidID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list media"}
	}
	response := make([]packets.MediaResponse, 0, len(list))
	for i := range list {
		response = append(response, mediaResponse(&list[i]))
	}
	return response, nil
}

// uploadMedia accepts a multipart form with a "file" part and an optional
// "name" field. The media type is derived from the file extension.
func (m *MediaController) uploadMedia(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	masjidID, apiErr := masjidScope(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	if !user.Role.CanManageContent(masjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file is required"}
	}
	mediaType, ok := storage.MediaTypeFor(fileHeader.Filename)
	if !ok {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "unsupported file type"}
	}

	url, err := m.files.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Msg("media upload failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save file"}
	}

	name := ctx.PostForm("name")
	if name == "" {
		name = fileHeader.Filename
	}

	created, err := m.store.CreateMediaItem(masjidID, name, mediaType, url, fileHeader.Size)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create media item"}
	}

	realtime.NotifyTenantContentChanged(m.registry, masjidID, "content", created)
	return mediaResponse(&created), nil
}

func (m *MediaController) deleteMedia(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := m.store.GetMediaByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "media not found"}
	}
	if !user.Role.CanManageContent(existing.MasjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	if err := m.store.DeleteMediaItem(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete media"}
	}

	realtime.NotifyTenantContentChanged(m.registry, existing.MasjidID, "content", gin.H{"deleted_id": id})
	return gin.H{"message": "deleted"}, nil
}

func mediaResponse(m *model.MediaItem) packets.MediaResponse {
	return packets.MediaResponse{
		ID:        m.ID,
		MasjidID:  m.MasjidID,
		Name:      m.Name,
		Type:      m.Type,
		URL:       m.URL,
		SizeBytes: m.SizeBytes,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}
