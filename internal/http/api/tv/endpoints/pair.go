package endpoints

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/db"
	"github.com/masjid-cloud/minbar/internal/http/api"
	"github.com/masjid-cloud/minbar/internal/http/api/tv/packets"
	"github.com/masjid-cloud/minbar/internal/http/middleware"
	"github.com/masjid-cloud/minbar/internal/model"
	redisclient "github.com/masjid-cloud/minbar/internal/redis"
)

type PairingController struct {
	store  db.Store
	secret string
}

func NewPairingController(store db.Store, secret string) *PairingController {
	return &PairingController{store: store, secret: secret}
}

func PairingModule(store db.Store, secret string) api.Module {
	ctl := NewPairingController(store, secret)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PublicPOST("/pair/register", ctl.registerPairingCode)
		c.PublicGET("/pair/status", ctl.pairingStatus)
	})
}

// registerPairingCode creates an unclaimed device record with a fresh
// 6-digit code, stages the code in Redis for an admin to claim, and tells
// the display its device id and code.
func (p *PairingController) registerPairingCode(ctx *gin.Context) (any, *api.APIError) {
	var request packets.RegisterPairingRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	name := request.Name
	if name == "" {
		name = "unnamed display"
	}

	// codes are globally unique; retry on the rare collision
	device, err := p.tryCreateDevice(name)
	if err != nil {
		log.Error().Err(err).Msg("failed to create device for pairing")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not register device"}
	}

	if err := redisclient.StagePairingCode(ctx, device.PairingCode, device.ID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not stage pairing code"}
	}

	return packets.RegisterPairingResponse{
		DeviceID:    device.ID,
		PairingCode: device.PairingCode,
	}, nil
}

// pairingStatus is polled by the display while it shows its code. Once an
// admin claims the code the response carries the device token.
func (p *PairingController) pairingStatus(ctx *gin.Context) (any, *api.APIError) {
	deviceID, err := strconv.Atoi(ctx.Query("device_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid device_id"}
	}
	code := ctx.Query("code")
	if code == "" {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "code required"}
	}

	device, err := p.store.GetDeviceByID(deviceID)
	if err != nil || device.PairingCode != code {
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "unknown device"}
	}

	if !device.Paired || device.MasjidID == nil {
		return packets.PairingStatusResponse{Paired: false}, nil
	}

	token, err := middleware.GenerateDeviceJWT(device.ID, *device.MasjidID, p.secret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not issue device token"}
	}
	return packets.PairingStatusResponse{Paired: true, Token: &token}, nil
}

func (p *PairingController) tryCreateDevice(name string) (model.Device, error) {
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		var code string
		code, err = generatePairingCode()
		if err != nil {
			return model.Device{}, err
		}
		var created model.Device
		created, err = p.store.CreateDevice(name, code)
		if err == nil {
			return created, nil
		}
	}
	return model.Device{}, fmt.Errorf("could not allocate pairing code: %w", err)
}

func generatePairingCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
