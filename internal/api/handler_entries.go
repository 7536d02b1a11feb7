package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ziklo-timetrack-backend/internal/store"
	"ziklo-timetrack-backend/internal/tracking"
)

// ListTimeEntries handles GET /api/time-entries with optional date-range,
// project and engineer filters.
func (h *Handler) ListTimeEntries(c *gin.Context) {
	q := store.TimeEntryQuery{
		DateStart:  c.Query("start_date"),
		DateEnd:    c.Query("end_date"),
		ProjectID:  c.Query("project_id"),
		EngineerID: c.Query("engineer_id"),
	}

	entries, err := h.entries.List(c.Request.Context(), q)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error al consultar registros de tiempo")
		return
	}
	ok(c, entries)
}

// CreateTimeEntry handles POST /api/time-entries.
func (h *Handler) CreateTimeEntry(c *gin.Context) {
	var in tracking.EntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.entries.Create(c.Request.Context(), in)
	if err != nil {
		h.writeEntryError(c, err)
		return
	}
	ok(c, entry)
}

// UpdateTimeEntry handles PUT /api/time-entries/:id with a full replacement
// of the mutable fields.
func (h *Handler) UpdateTimeEntry(c *gin.Context) {
	var in tracking.EntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.entries.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeEntryError(c, err)
		return
	}
	ok(c, entry)
}

// DeleteTimeEntry handles DELETE /api/time-entries/:id.
func (h *Handler) DeleteTimeEntry(c *gin.Context) {
	if err := h.entries.Delete(c.Request.Context(), c.Param("id"), c.GetHeader("X-User-Id")); err != nil {
		h.writeEntryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Registro eliminado"})
}

// writeEntryError maps the tracking domain errors onto the status codes the
// console expects: closure conflicts are 409, validation failures 400,
// missing entries 404, everything else a generic 500.
func (h *Handler) writeEntryError(c *gin.Context, err error) {
	var blocked *tracking.BlockedError
	var limit *tracking.DailyLimitError

	switch {
	case errors.As(err, &blocked):
		fail(c, http.StatusConflict, blocked.Error())
	case errors.As(err, &limit):
		fail(c, http.StatusBadRequest, limit.Error())
	case errors.Is(err, tracking.ErrInvalidDate):
		fail(c, http.StatusBadRequest, "Fecha inválida")
	case errors.Is(err, tracking.ErrEntryNotFound):
		fail(c, http.StatusNotFound, "Registro de tiempo no encontrado")
	default:
		h.logger.Error("time entry operation failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Error interno")
	}
}
