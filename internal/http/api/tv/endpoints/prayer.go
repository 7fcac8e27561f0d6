package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/db"
	"github.com/masjid-cloud/minbar/internal/http/api"
	"github.com/masjid-cloud/minbar/internal/prayer"
)

type PrayerController struct {
	store  db.Store
	secret string
}

func NewPrayerController(store db.Store, secret string) *PrayerController {
	return &PrayerController{store: store, secret: secret}
}

func PrayerModule(store db.Store, secret string) api.Module {
	ctl := NewPrayerController(store, secret)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PublicGET("/prayer", ctl.getPrayerTimes)
	})
}

// getPrayerTimes returns today's timings for the display's masjid, localized
// to the masjid's timezone.
func (pc *PrayerController) getPrayerTimes(ctx *gin.Context) (any, *api.APIError) {
	_, masjidID, apiErr := deviceIdentity(ctx, pc.secret)
	if apiErr != nil {
		return nil, apiErr
	}

	masjid, err := pc.store.GetMasjidByID(masjidID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load masjid"}
	}

	now := time.Now()
	if loc, err := time.LoadLocation(masjid.Timezone); err == nil {
		now = now.In(loc)
	}

	page, err := prayer.PageData(masjid, now)
	if err != nil {
		log.Error().Err(err).Int("masjid_id", masjidID).Msg("prayer times fetch failed")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "prayer times unavailable"}
	}
	return page, nil
}
