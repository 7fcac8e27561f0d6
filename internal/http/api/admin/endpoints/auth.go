package endpoints

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/db"
	"github.com/masjid-cloud/minbar/internal/http/api"
	"github.com/masjid-cloud/minbar/internal/http/api/admin/packets"
	"github.com/masjid-cloud/minbar/internal/http/middleware"
)

type AuthController struct {
	secret string
	store  db.Store
}

func NewAuthController(secret string, store db.Store) *AuthController {
	return &AuthController{secret: secret, store: store}
}

// AuthPublicModule mounts signup and login, which issue tokens.
func AuthPublicModule(secret string, store db.Store) api.Module {
	ctl := NewAuthController(secret, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PublicPOST("/auth/signup", ctl.signup)
		c.PublicPOST("/auth/login", ctl.login)
	})
}

// AuthSessionModule mounts endpoints that require a valid session.
func AuthSessionModule(secret string, store db.Store) api.Module {
	ctl := NewAuthController(secret, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/auth/current_profile", ctl.currentProfile)
	})
}

// signup creates a masjid and its first tenant admin in one step.
func (a *AuthController) signup(ctx *gin.Context) (any, *api.APIError) {
	var request packets.SignupRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if _, err := a.store.GetUserByEmail(request.Email); err == nil {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "email already registered"}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not check email"}
	}

	hashed, err := middleware.HashPassword(request.Password)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not hash password"}
	}

	masjid, err := a.store.CreateMasjid(request.MasjidName, request.City, request.Timezone, request.Latitude, request.Longitude)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create masjid"}
	}

	userID, err := a.store.CreateUser(request.Email, hashed, request.Name, "tenant_admin", &masjid.ID)
	if err != nil {
		log.Error().Err(err).Msg("signup failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create user"}
	}

	token, err := middleware.GenerateJWT(userID, a.secret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not issue token"}
	}
	return gin.H{"token": token, "masjid_id": masjid.ID}, nil
}

func (a *AuthController) login(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	user, err := a.store.GetUserByEmail(request.Email)
	if err != nil || !middleware.CheckPassword(user.HashedPassword, request.Password) {
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: middleware.ErrInvalidCredentials.Error()}
	}

	token, err := middleware.GenerateJWT(user.ID, a.secret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not issue token"}
	}
	return gin.H{"token": token}, nil
}

func (a *AuthController) currentProfile(ctx *gin.Context, user *middleware.Identity) (any, *api.APIError) {
	return gin.H{
		"id":    user.UserID,
		"email": user.Email,
		"name":  user.Name,
	}, nil
}
