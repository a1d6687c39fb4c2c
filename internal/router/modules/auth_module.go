package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/jsonplaceholder-api/internal/interface/http"
	"github.com/oksasatya/jsonplaceholder-api/internal/router/route"
)

// AuthModule serves /auth. Register and login run behind a per-IP limiter.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limit   gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, limit gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Limit: limit}
}

func (m *AuthModule) Routes() []route.Route {
	return []route.Route{
		{Method: http.MethodPost, Path: "/auth/register", Public: true, Handlers: chain(m.Limit, m.Handler.Register)},
		{Method: http.MethodPost, Path: "/auth/login", Public: true, Handlers: chain(m.Limit, m.Handler.Login)},
		{Method: http.MethodGet, Path: "/auth/profile", Handlers: chain(m.Handler.Profile)},
		{Method: http.MethodGet, Path: "/auth/admin/test", Public: true, Handlers: chain(m.Handler.Test)},
	}
}

// chain drops nil handlers so optional middleware can be passed unconditionally.
func chain(hs ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(hs))
	for _, h := range hs {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
