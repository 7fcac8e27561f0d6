package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/db"
	"github.com/masjid-cloud/minbar/internal/http/api"
	"github.com/masjid-cloud/minbar/internal/schedule"
)

type ContentController struct {
	store    db.Store
	resolver *schedule.Service
	secret   string
}

func NewContentController(store db.Store, resolver *schedule.Service, secret string) *ContentController {
	return &ContentController{store: store, resolver: resolver, secret: secret}
}

func ContentModule(store db.Store, resolver *schedule.Service, secret string) api.Module {
	ctl := NewContentController(store, resolver, secret)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PublicGET("/content", ctl.getContent)
	})
}

// getContent is the display poll endpoint. It returns the resolved content
// list as a bare array so displays can compare payloads byte for byte
// between polls.
func (cc *ContentController) getContent(ctx *gin.Context) (any, *api.APIError) {
	deviceID, masjidID, apiErr := deviceIdentity(ctx, cc.secret)
	if apiErr != nil {
		return nil, apiErr
	}

	// a poll counts as a heartbeat
	if err := cc.store.TouchDevice(deviceID); err != nil {
		log.Warn().Err(err).Int("device_id", deviceID).Msg("failed to touch device")
	}

	items, err := cc.resolver.ResolveForMasjid(masjidID, time.Now())
	if err != nil {
		log.Error().Err(err).Int("masjid_id", masjidID).Msg("content resolution failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not resolve content"}
	}
	return items, nil
}
