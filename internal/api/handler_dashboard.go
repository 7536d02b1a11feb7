package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DashboardKPIs handles GET /api/dashboard/kpis: project/engineer counts
// plus the hours logged in the current calendar month.
func (h *Handler) DashboardKPIs(c *gin.Context) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	monthEnd := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Format("2006-01-02")

	kpis, err := h.store.DashboardKPIs(c.Request.Context(), monthStart, monthEnd)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error al calcular indicadores")
		return
	}
	ok(c, kpis)
}

// DashboardHoursByProject handles GET /api/dashboard/hours-by-project with
// an optional date range.
func (h *Handler) DashboardHoursByProject(c *gin.Context) {
	rows, err := h.store.HoursByProject(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error al agrupar horas por proyecto")
		return
	}
	ok(c, rows)
}
