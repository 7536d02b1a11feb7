package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ziklo-timetrack-backend/internal/closure"
)

// ListClosures handles GET /api/export-closures, newest first.
func (h *Handler) ListClosures(c *gin.Context) {
	closures, err := h.store.ListClosures(c.Request.Context(), false)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error al consultar cierres")
		return
	}
	ok(c, closures)
}

// ListClosuresDetailed handles GET /api/export-closures-detailed: the same
// listing with scope rows and exception windows attached.
func (h *Handler) ListClosuresDetailed(c *gin.Context) {
	closures, err := h.store.ListClosures(c.Request.Context(), true)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error al consultar cierres")
		return
	}
	ok(c, closures)
}

type reopenRequest struct {
	Type           string                  `json:"type" binding:"required"`
	PartialFilters *closure.PartialFilters `json:"partial_filters"`
	RequestedBy    string                  `json:"requested_by"`
}

// ReopenClosure handles POST /api/export-closures/:id/reopen.
func (h *Handler) ReopenClosure(c *gin.Context) {
	var req reopenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	reopened, err := h.closures.Reopen(c.Request.Context(), c.Param("id"),
		closure.ReopenType(req.Type), req.PartialFilters, req.RequestedBy)
	if err != nil {
		switch {
		case errors.Is(err, closure.ErrClosureNotFound):
			fail(c, http.StatusNotFound, err.Error())
		case errors.Is(err, closure.ErrInvalidReopenState), errors.Is(err, closure.ErrInvalidReopenType):
			fail(c, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("closure reopen failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, "Error interno")
		}
		return
	}
	ok(c, reopened)
}
