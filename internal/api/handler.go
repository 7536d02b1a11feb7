package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ziklo-timetrack-backend/internal/audit"
	"ziklo-timetrack-backend/internal/closure"
	"ziklo-timetrack-backend/internal/export"
	"ziklo-timetrack-backend/internal/store"
	"ziklo-timetrack-backend/internal/tracking"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	entries  *tracking.Service
	closures *closure.Manager
	exports  *export.Service
	audit    audit.Sink
	logger   *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, entries *tracking.Service, closures *closure.Manager, exports *export.Service, sink audit.Sink, logger *zap.Logger) *Handler {
	return &Handler{
		store:    s,
		entries:  entries,
		closures: closures,
		exports:  exports,
		audit:    sink,
		logger:   logger,
	}
}

// ok writes the success envelope the admin console expects.
func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// fail writes the failure envelope with the given status.
func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}
