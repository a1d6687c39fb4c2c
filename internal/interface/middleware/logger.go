package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AccessLog writes one line per request:
// "<METHOD> <URL> <STATUS> <LEN>b <MS>ms - <UA>".
func AccessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		size := "-"
		if n := c.Writer.Size(); n > 0 {
			size = fmt.Sprintf("%db", n)
		}
		line := fmt.Sprintf("%s %s %d %s %dms - %s",
			c.Request.Method,
			c.Request.URL.RequestURI(),
			status,
			size,
			time.Since(start).Milliseconds(),
			c.Request.UserAgent(),
		)

		entry := logger.WithFields(logrus.Fields{
			"request_id": c.GetString(CtxRequestID),
			"ip":         clientIP(c),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error(line)
		case status >= http.StatusBadRequest:
			entry.Warn(line)
		default:
			entry.Info(line)
		}
	}
}
