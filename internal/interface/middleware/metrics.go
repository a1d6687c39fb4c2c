package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestRecorder is satisfied by metrics.Collector.
type RequestRecorder interface {
	RecordRequest(method, route string, status int, d time.Duration)
}

// Metrics records every request against its matched route pattern.
func Metrics(rec RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rec.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
