package router

import (
	"context"
	"time"

	"github.com/oksasatya/jsonplaceholder-api/internal/container"
	handlers "github.com/oksasatya/jsonplaceholder-api/internal/interface/http"
	"github.com/oksasatya/jsonplaceholder-api/internal/interface/middleware"
	"github.com/oksasatya/jsonplaceholder-api/internal/router/modules"
	"github.com/oksasatya/jsonplaceholder-api/pkg/helpers"
)

const (
	authLimit  = 10
	userLimit  = 120
	debugLimit = 120
)

// InitModules installs the API gate and registers every feature module.
func InitModules(r *Registry, c *container.Container) {
	limiter := c.RateLimiter()

	r.Use(middleware.Gate(r.IsPublic, c.JWT, c.AuthService))
	r.UseProtected(middleware.RateLimit(limiter, userLimit, time.Minute, middleware.KeyByUserID(), nil))

	r.Add(modules.NewAuthModule(
		handlers.NewAuthHandler(c.AuthService),
		middleware.RateLimit(limiter, authLimit, time.Minute, middleware.KeyByIPAndPath(), nil),
	))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.UserService)))
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(pingers(c))))

	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(
			middleware.RateLimit(limiter, debugLimit, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		))
	}
}

func pingers(c *container.Container) map[string]handlers.Pinger {
	out := map[string]handlers.Pinger{}
	if c.PG != nil {
		out["postgres"] = c.PG.Ping
	}
	if c.ES != nil {
		es := c.ES
		out["elasticsearch"] = func(ctx context.Context) error {
			return helpers.PingES(ctx, es)
		}
	}
	if c.Redis != nil {
		rdb := c.Redis
		out["redis"] = func(ctx context.Context) error {
			return helpers.PingRedis(ctx, rdb, time.Second)
		}
	}
	return out
}
