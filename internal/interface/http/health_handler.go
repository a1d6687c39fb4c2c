package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/jsonplaceholder-api/pkg/response"
)

const healthCheckTimeout = 2 * time.Second

// Pinger checks one backing service.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	Components map[string]Pinger
}

func NewHealthHandler(components map[string]Pinger) *HealthHandler {
	return &HealthHandler{Components: components}
}

type healthResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Components map[string]string `json:"components,omitempty"`
}

// Check always answers 200 while the process serves requests; backing
// services are reported individually.
func (h *HealthHandler) Check(c *gin.Context) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if len(h.Components) > 0 {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()
		resp.Components = make(map[string]string, len(h.Components))
		for name, ping := range h.Components {
			if err := ping(ctx); err != nil {
				resp.Components[name] = "down"
				continue
			}
			resp.Components[name] = "up"
		}
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *HealthHandler) Test(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"message": "Health API is working!"})
}
