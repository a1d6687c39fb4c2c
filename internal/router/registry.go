package router

import (
	"path"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/jsonplaceholder-api/internal/router/route"
)

// Module describes a feature module contributing routes to the API group.
type Module interface {
	Routes() []route.Route
}

type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	protected   []gin.HandlerFunc
	modules     []Module
	public      map[string]struct{}
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api, public: map[string]struct{}{}}
}

// Use adds middleware to every API route.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

// UseProtected adds middleware to protected routes only. It runs after the
// group middleware, so the caller identity is already known.
func (r *Registry) UseProtected(mw ...gin.HandlerFunc) {
	r.protected = append(r.protected, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// IsPublic reports whether the route method+fullPath was declared public.
func (r *Registry) IsPublic(method, fullPath string) bool {
	_, ok := r.public[route.Key(method, fullPath)]
	return ok
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		for _, rt := range m.Routes() {
			handlers := rt.Handlers
			if rt.Public {
				r.public[route.Key(rt.Method, path.Join(r.API.BasePath(), rt.Path))] = struct{}{}
			} else if len(r.protected) > 0 {
				handlers = append(append([]gin.HandlerFunc{}, r.protected...), handlers...)
			}
			r.API.Handle(rt.Method, rt.Path, handlers...)
		}
	}
}
