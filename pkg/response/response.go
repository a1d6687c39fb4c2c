package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Meta accompanies every successful payload.
type Meta struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

// APIResponse is the success envelope. Data is always emitted, even when nil.
type APIResponse[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	StatusCode int               `json:"statusCode"`
	Timestamp  string            `json:"timestamp"`
	Path       string            `json:"path"`
	Method     string            `json:"method"`
	Message    string            `json:"message"`
	Errors     map[string]string `json:"errors,omitempty"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Success writes data wrapped in the success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Data: data,
		Meta: Meta{
			Timestamp: now(),
			Status:    status,
			RequestID: ctx.GetString("request_id"),
		},
	}
	// gin drops the body for 204 itself
	ctx.JSON(status, resp)
	return resp
}

// Error builds the error envelope for the current request without writing it.
func Error(ctx *gin.Context, status int, message string, details map[string]string) ErrorResponse {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return ErrorResponse{
		StatusCode: status,
		Timestamp:  now(),
		Path:       ctx.Request.URL.RequestURI(),
		Method:     ctx.Request.Method,
		Message:    message,
		Errors:     details,
	}
}

// Abort writes the error envelope and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string, details map[string]string) {
	resp := Error(ctx, status, message, details)
	ctx.AbortWithStatusJSON(resp.StatusCode, resp)
}
