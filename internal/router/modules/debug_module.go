package modules

import (
	"expvar"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/jsonplaceholder-api/internal/router/route"
)

// DebugModule exposes expvar at /debug/vars behind its own limiter.
type DebugModule struct {
	Limit gin.HandlerFunc
}

func NewDebugModule(limit gin.HandlerFunc) *DebugModule {
	return &DebugModule{Limit: limit}
}

func (m *DebugModule) Routes() []route.Route {
	return []route.Route{
		{Method: http.MethodGet, Path: "/debug/vars", Public: true, Handlers: chain(m.Limit, gin.WrapH(expvar.Handler()))},
	}
}
