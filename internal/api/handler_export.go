package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ziklo-timetrack-backend/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportExcel handles POST /api/export-excel: it returns the workbook as a
// download and surfaces the resulting closure through response headers so
// the console can show which closure the export created or revised.
func (h *Handler) ExportExcel(c *gin.Context) {
	var req export.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.exports.ExportExcel(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("excel export failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Error al generar la exportación")
		return
	}

	c.Header("X-Closure-Id", result.Closure.ID)
	c.Header("X-Closure-Revision", fmt.Sprintf("%d", result.Closure.Revision))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(result.Filename))
	c.Data(http.StatusOK, xlsxContentType, result.File.Bytes())
}
