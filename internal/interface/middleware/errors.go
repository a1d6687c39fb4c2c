package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jsonplaceholder-api/pkg/apperror"
	"github.com/oksasatya/jsonplaceholder-api/pkg/response"
)

// ErrorEnvelope renders the last error attached with c.Error as the error
// envelope and logs it with its stack. Nothing is written when the handler
// already produced a response.
func ErrorEnvelope(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		ae := apperror.From(c.Errors.Last().Err)
		logError(logger, c, ae)

		if c.Writer.Written() {
			return
		}
		response.Abort(c, ae.Status, ae.Message, ae.Details)
	}
}

// Recovery converts panics into a 500 envelope.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", recovered)
		}
		ae := apperror.Internal(errors.WithStack(err))
		logError(logger, c, ae)
		response.Abort(c, http.StatusInternalServerError, ae.Message, nil)
	})
}

func logError(logger *logrus.Logger, c *gin.Context, ae *apperror.Error) {
	if logger == nil {
		return
	}
	entry := logger.WithFields(logrus.Fields{
		"status":     ae.Status,
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"request_id": c.GetString(CtxRequestID),
		"error":      ae.Error(),
	})
	msg := fmt.Sprintf("%s %s %d", c.Request.Method, c.Request.URL.Path, ae.Status)
	if ae.Status >= http.StatusInternalServerError {
		entry.WithField("stack", ae.StackTrace()).Error(msg)
		return
	}
	entry.WithField("stack", ae.StackTrace()).Warn(msg)
}
