// Package route declares the route table shared by the router and its modules.
package route

import "github.com/gin-gonic/gin"

// Route is one endpoint. Routes are protected unless Public is set.
type Route struct {
	Method   string
	Path     string
	Public   bool
	Handlers []gin.HandlerFunc
}

// Key identifies a route by method and full path pattern.
func Key(method, fullPath string) string {
	return method + " " + fullPath
}
