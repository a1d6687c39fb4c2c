package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/jsonplaceholder-api/config"
	"github.com/oksasatya/jsonplaceholder-api/internal/container"
	"github.com/oksasatya/jsonplaceholder-api/internal/interface/middleware"
	"github.com/oksasatya/jsonplaceholder-api/internal/metrics"
	"github.com/oksasatya/jsonplaceholder-api/pkg/apperror"
	"github.com/oksasatya/jsonplaceholder-api/pkg/helpers"
	"github.com/oksasatya/jsonplaceholder-api/pkg/validation"
)

// NewEngine builds the gin engine with global middleware, /metrics and the
// /api route tree. c must already be built.
func NewEngine(c *container.Container) *gin.Engine {
	validation.Init()

	r := gin.New()
	if err := r.SetTrustedProxies(c.Config.TrustedProxies()); err != nil {
		// Validate rejects bad entries; trust nothing if one slips through
		helpers.LogError(c.Logger, "invalid trusted proxies, trusting none", err, nil)
		_ = r.SetTrustedProxies(nil)
	}
	r.TrustedPlatform = trustedPlatform(c.Config.TrustedPlatform)
	r.Use(middleware.RequestID(), middleware.RealIP())
	if c.Config.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger))
	}
	r.Use(middleware.Metrics(c.Metrics))
	r.Use(middleware.ErrorEnvelope(c.Logger), middleware.Recovery(c.Logger))
	r.Use(cors.New(corsConfig(c.Config.CORSOrigins())))

	r.GET("/metrics", gin.WrapH(metrics.Handler(c.Registry)))
	r.NoRoute(func(ctx *gin.Context) {
		_ = ctx.Error(apperror.NotFound("Cannot " + ctx.Request.Method + " " + ctx.Request.URL.Path))
	})

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// trustedPlatform maps TRUSTED_PLATFORM to the header gin reads the client IP from.
func trustedPlatform(name string) string {
	switch name {
	case config.PlatformCloudflare:
		return gin.PlatformCloudflare
	case config.PlatformGoogleAppEngine:
		return gin.PlatformGoogleAppEngine
	default:
		return ""
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
