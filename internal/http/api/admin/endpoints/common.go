package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/masjid-cloud/minbar/internal/http/api"
	"github.com/masjid-cloud/minbar/internal/http/middleware"
)

// masjidScope resolves which masjid an admin call operates on. Tenant-scoped
// roles always act on their own masjid; a super admin names one with the
// masjid_id query parameter.
func masjidScope(ctx *gin.Context, user *middleware.Identity) (int, *api.APIError) {
	if user.Role.Kind == middleware.RoleSuperAdmin {
		id, err := strconv.Atoi(ctx.Query("masjid_id"))
		if err != nil {
			return 0, &api.APIError{Code: http.StatusBadRequest, Message: "masjid_id required for super admin"}
		}
		return id, nil
	}
	return user.Role.MasjidID, nil
}
