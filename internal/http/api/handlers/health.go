package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minn2020/minndash/internal/auth"
)

// HealthHandler reports liveness of the record store.
type HealthHandler struct {
	guard *auth.Guard
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(guard *auth.Guard) *HealthHandler {
	return &HealthHandler{guard: guard}
}

// Healthz returns ok when the record store is reachable.
func (h *HealthHandler) Healthz(c *gin.Context) {
	if _, err := h.guard.Users(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
