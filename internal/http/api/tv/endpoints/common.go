package endpoints

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/masjid-cloud/minbar/internal/http/api"
	"github.com/masjid-cloud/minbar/internal/http/middleware"
)

// deviceIdentity verifies the device token on a TV request. Displays send
// "Authorization: Bearer <token>"; the websocket upgrade passes ?token=
// instead because browsers cannot set headers on a socket dial.
func deviceIdentity(ctx *gin.Context, secret string) (deviceID, masjidID int, apiErr *api.APIError) {
	token := ""
	if header := ctx.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		token = ctx.Query("token")
	}
	if token == "" {
		return 0, 0, &api.APIError{Code: http.StatusUnauthorized, Message: "device token required"}
	}

	deviceID, masjidID, err := middleware.ParseDeviceToken(token, secret)
	if err != nil {
		return 0, 0, &api.APIError{Code: http.StatusUnauthorized, Message: "invalid device token"}
	}
	return deviceID, masjidID, nil
}
