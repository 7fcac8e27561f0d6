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
	redisclient "github.com/masjid-cloud/minbar/internal/redis"
)

type DeviceController struct {
	store    db.Store
	registry realtime.Registry
}

func NewDeviceController(store db.Store, registry realtime.Registry) *DeviceController {
	return &DeviceController{store: store, registry: registry}
}

func DeviceModule(store db.Store, registry realtime.Registry) api.Module {
	ctl := NewDeviceController(store, registry)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/devices", ctl.listDevices)
		c.POST("/devices/claim", ctl.claimDevice)
		c.GET("/devices/:id/status", ctl.deviceStatus)
		c.POST("/devices/:id/template", ctl.setTemplate)
		c.POST("/devices/:id/reload", ctl.reloadDevice)
		c.POST("/devices/refresh", ctl.refreshTenant)
	})
}

func (d *DeviceController) listDevices(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	masjidID, apiErr := masjidScope(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	if !user.Role.CanView(masjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	list, err := d.store.ListDevices(masjidID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list devices"}
	}
	response := make([]packets.DeviceResponse, 0, len(list))
	for i := range list {
		response = append(response, d.deviceResponse(&list[i]))
	}
	return response, nil
}

// claimDevice binds a display waiting on a pairing code to the admin's
// masjid. The code is staged in Redis by the display and consumed here so
// it cannot be claimed twice.
func (d *DeviceController) claimDevice(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	masjidID, apiErr := masjidScope(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	if !user.Role.CanManageDevices(masjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	var request packets.ClaimDeviceRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	deviceID, ok, err := redisclient.LookupPairingCode(ctx, request.Code)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not look up pairing code"}
	}
	if !ok {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "pairing code not found or expired"}
	}

	device, err := d.store.GetDeviceByID(deviceID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "device not found"}
	}
	if device.Paired {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "device already paired"}
	}

	if err := d.store.PairDevice(deviceID, masjidID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not pair device"}
	}
	redisclient.ConsumePairingCode(ctx, request.Code)

	log.Info().Int("device_id", deviceID).Int("masjid_id", masjidID).Msg("device paired")

	paired, err := d.store.GetDeviceByID(deviceID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reload device"}
	}
	return d.deviceResponse(&paired), nil
}

func (d *DeviceController) deviceStatus(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	device, apiErr := d.ownedDevice(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return gin.H{
		"connected":       d.registry.IsDeviceConnected(device.ID),
		"connected_count": d.registry.ConnectedCount(*device.MasjidID),
		"last_seen_at":    device.LastSeenAt,
	}, nil
}

// setTemplate swaps the rendering template on a live display without
// touching its content rotation.
func (d *DeviceController) setTemplate(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	device, apiErr := d.ownedDevice(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.SetTemplateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := d.store.SetDeviceTemplate(device.ID, request.Template); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not set template"}
	}

	d.registry.SendToDevice(device.ID, realtime.EventTemplateChanged, gin.H{"template": request.Template})
	return gin.H{"message": "template updated"}, nil
}

// reloadDevice forces one display to fully reload. Offline devices are a
// silent no-op; the command is not queued.
func (d *DeviceController) reloadDevice(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	device, apiErr := d.ownedDevice(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	d.registry.SendToDevice(device.ID, realtime.EventDeviceReload, nil)
	return gin.H{"message": "reload sent"}, nil
}

// refreshTenant forces every display of the masjid to reload.
func (d *DeviceController) refreshTenant(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	masjidID, apiErr := masjidScope(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	if !user.Role.CanManageDevices(masjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	d.registry.BroadcastToTenant(masjidID, realtime.EventRefresh, nil)
	return gin.H{"message": "refresh sent"}, nil
}

func (d *DeviceController) ownedDevice(ctx *gin.Context, user *middleware.Identity) (*model.Device, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	device, err := d.store.GetDeviceByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "device not found"}
	}
	if device.MasjidID == nil || !user.Role.CanManageDevices(*device.MasjidID) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return &device, nil
}

func (d *DeviceController) deviceResponse(device *model.Device) packets.DeviceResponse {
	resp := packets.DeviceResponse{
		ID:             device.ID,
		MasjidID:       device.MasjidID,
		Name:           device.Name,
		PairingCode:    device.PairingCode,
		Paired:         device.Paired,
		ActiveTemplate: device.ActiveTemplate,
		Connected:      d.registry.IsDeviceConnected(device.ID),
		CreatedAt:      device.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      device.UpdatedAt.Format(time.RFC3339),
	}
	if device.LastSeenAt != nil {
		s := device.LastSeenAt.Format(time.RFC3339)
		resp.LastSeenAt = &s
	}
	return resp
}
