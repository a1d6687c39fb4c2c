package modules

import (
	"net/http"

	handlers "github.com/oksasatya/jsonplaceholder-api/internal/interface/http"
	"github.com/oksasatya/jsonplaceholder-api/internal/router/route"
)

// UserModule serves /users. Every route requires a bearer token.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Routes() []route.Route {
	h := m.Handler
	return []route.Route{
		{Method: http.MethodGet, Path: "/users", Handlers: chain(h.List)},
		{Method: http.MethodPost, Path: "/users", Handlers: chain(h.Create)},
		{Method: http.MethodGet, Path: "/users/search", Handlers: chain(h.Search)},
		{Method: http.MethodGet, Path: "/users/admin/test", Handlers: chain(h.Test)},
		{Method: http.MethodGet, Path: "/users/:id", Handlers: chain(h.Get)},
		{Method: http.MethodPut, Path: "/users/:id", Handlers: chain(h.Update)},
		{Method: http.MethodDelete, Path: "/users/:id", Handlers: chain(h.Delete)},
	}
}
