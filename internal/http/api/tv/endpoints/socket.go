package endpoints

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/db"
	"github.com/masjid-cloud/minbar/internal/http/api"
	"github.com/masjid-cloud/minbar/internal/http/api/tv/packets"
	"github.com/masjid-cloud/minbar/internal/http/middleware"
	"github.com/masjid-cloud/minbar/internal/realtime"
)

type SocketController struct {
	store    db.Store
	registry realtime.Registry
	secret   string
}

func NewSocketController(store db.Store, registry realtime.Registry, secret string) *SocketController {
	return &SocketController{store: store, registry: registry, secret: secret}
}

func SocketModule(store db.Store, registry realtime.Registry, secret string) api.Module {
	ctl := NewSocketController(store, registry, secret)
	return api.ModuleFunc(func(c *api.Controller) {
		c.Handle(http.MethodGet, "/socket", ctl.serveSocket())
		c.PublicPOST("/socket/mqtt", ctl.connectMQTT)
	})
}

func (sc *SocketController) serveSocket() gin.HandlerFunc {
	validate := func(token string) (int, int, error) {
		return middleware.ParseDeviceToken(token, sc.secret)
	}
	touch := func(deviceID int) {
		if err := sc.store.TouchDevice(deviceID); err != nil {
			log.Warn().Err(err).Int("device_id", deviceID).Msg("failed to touch device")
		}
	}
	return realtime.ServeWs(sc.registry, validate, touch)
}

// connectMQTT registers an MQTT leg for displays whose firmware cannot hold
// a websocket. The connection id is derived from the device id so a repeat
// request replaces the previous broker client instead of stacking a second
// one.
func (sc *SocketController) connectMQTT(ctx *gin.Context) (any, *api.APIError) {
	deviceID, masjidID, apiErr := deviceIdentity(ctx, sc.secret)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.MQTTConnectRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if request.BrokerURL == "" {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "broker_url required"}
	}

	connID := fmt.Sprintf("mqtt-%d", deviceID)
	client, err := realtime.DialMQTT(request.BrokerURL, deviceID, func() {
		sc.registry.Unregister(connID)
	})
	if err != nil {
		log.Error().Err(err).Int("device_id", deviceID).Msg("MQTT dial failed")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "could not reach MQTT broker"}
	}

	sc.registry.Register(&realtime.Connection{
		ID:          connID,
		MasjidID:    masjidID,
		DeviceID:    &deviceID,
		ConnectedAt: time.Now(),
		Sender:      realtime.NewMQTTSender(client, deviceID),
	})
	log.Info().Int("device_id", deviceID).Str("broker", request.BrokerURL).
		Msg("display registered over MQTT")

	return gin.H{"topic": realtime.CommandTopic(deviceID)}, nil
}
