package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mapsmith/internal/session"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store *session.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store *session.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.store.Len()})
}
