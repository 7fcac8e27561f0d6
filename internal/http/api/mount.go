package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/http/middleware"
)

// Module is a pluggable feature that attaches its endpoints to a Controller.
type Module interface {
	Mount(c *Controller)
}

// ModuleFunc lets a plain function act as a Module.
type ModuleFunc func(c *Controller)

func (f ModuleFunc) Mount(c *Controller) { f(c) }

// GroupConfig describes one mounted route group. Auth groups run the JWT
// middleware before any module handler.
type GroupConfig struct {
	Prefix     string
	Auth       bool
	SecretKey  string            // required when Auth is set
	Middleware []gin.HandlerFunc // optional, runs before auth
}

// MountGroup attaches modules under a prefix on the root router. The same
// prefix may be mounted twice with different configs, which is how the
// public auth endpoints share /api/admin with the protected modules.
func MountGroup(r *gin.Engine, cfg GroupConfig, modules ...Module) {
	grp := r.Group(cfg.Prefix)

	for _, mw := range cfg.Middleware {
		grp.Use(mw)
	}
	if cfg.Auth {
		if cfg.SecretKey == "" {
			log.Fatal().Str("prefix", cfg.Prefix).Msg("auth group mounted without a secret key")
		}
		grp.Use(middleware.JWTMiddleware(cfg.SecretKey))
	}

	controller := &Controller{Group: grp}
	for _, m := range modules {
		m.Mount(controller)
	}
}
