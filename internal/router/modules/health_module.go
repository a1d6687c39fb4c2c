package modules

import (
	"net/http"

	handlers "github.com/oksasatya/jsonplaceholder-api/internal/interface/http"
	"github.com/oksasatya/jsonplaceholder-api/internal/router/route"
)

type HealthModule struct {
	Handler *handlers.HealthHandler
}

func NewHealthModule(h *handlers.HealthHandler) *HealthModule {
	return &HealthModule{Handler: h}
}

func (m *HealthModule) Routes() []route.Route {
	return []route.Route{
		{Method: http.MethodGet, Path: "/health", Public: true, Handlers: chain(m.Handler.Check)},
		{Method: http.MethodGet, Path: "/health/admin/test", Public: true, Handlers: chain(m.Handler.Test)},
	}
}
