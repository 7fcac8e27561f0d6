package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/masjid-cloud/minbar/internal/db"
	"github.com/masjid-cloud/minbar/internal/http/api"
	adminapi "github.com/masjid-cloud/minbar/internal/http/api/admin/endpoints"
	tvapi "github.com/masjid-cloud/minbar/internal/http/api/tv/endpoints"
	"github.com/masjid-cloud/minbar/internal/realtime"
	"github.com/masjid-cloud/minbar/internal/schedule"
	"github.com/masjid-cloud/minbar/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env Environment, store db.Store, files storage.Storage, registry realtime.Registry) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	resolver := schedule.NewService(store)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		adminapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
	},
		adminapi.AuthSessionModule(env.SecretKey, store),
		adminapi.AnnouncementModule(store, registry),
		adminapi.ScheduleModule(store, registry),
		adminapi.MediaModule(store, registry, files),
		adminapi.DeviceModule(store, registry),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/tv",
	},
		tvapi.PairingModule(store, env.SecretKey),
		tvapi.ContentModule(store, resolver, env.SecretKey),
		tvapi.SocketModule(store, registry, env.SecretKey),
		tvapi.PrayerModule(store, env.SecretKey),
	)

	// uploaded media when Spaces is off
	if !env.UseSpaces {
		r.Static("/uploads", "./uploads")
	}
}
