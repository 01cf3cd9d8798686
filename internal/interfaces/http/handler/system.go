package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/infrastructure/logger"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler handles health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db      Pinger
	version string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger, version string) *SystemHandler {
	return &SystemHandler{db: db, version: version}
}

// Health reports process liveness
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready reports whether the service can reach its database
// GET /ready
func (h *SystemHandler) Ready(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"reason": "database unreachable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
