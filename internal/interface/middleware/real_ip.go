package middleware

import (
	"github.com/gin-gonic/gin"
)

const CtxRealIP = "real_ip"

// RealIP stores c.ClientIP() under CtxRealIP. Forwarding headers are only
// honored when the engine trusts the peer (SetTrustedProxies) or a trusted
// platform header is configured, so clients cannot pick their own address.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIP, c.ClientIP())
		c.Next()
	}
}

// clientIP reads the address stored by RealIP, for middleware that may run
// without it.
func clientIP(c *gin.Context) string {
	if ip := c.GetString(CtxRealIP); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
