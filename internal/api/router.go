package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"ziklo-timetrack-backend/config"
	"ziklo-timetrack-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/users", h.ListUsers)
		api.POST("/users", h.CreateUser)
		api.GET("/projects", h.ListProjects)
		api.POST("/projects", h.CreateProject)
		api.GET("/cost-centers", h.ListCostCenters)
		api.POST("/cost-centers", h.CreateCostCenter)
		api.GET("/engineers", h.ListEngineers)
		api.POST("/engineers", h.CreateEngineer)
		api.GET("/concepts", h.ListConcepts)
		api.POST("/concepts", h.CreateConcept)

		api.GET("/time-entries", h.ListTimeEntries)
		api.POST("/time-entries", h.CreateTimeEntry)
		api.PUT("/time-entries/:id", h.UpdateTimeEntry)
		api.DELETE("/time-entries/:id", h.DeleteTimeEntry)

		api.POST("/export-excel", h.ExportExcel)
		api.GET("/export-closures", h.ListClosures)
		api.GET("/export-closures-detailed", h.ListClosuresDetailed)
		api.POST("/export-closures/:id/reopen", h.ReopenClosure)

		api.GET("/dashboard/kpis", caching, h.DashboardKPIs)
		api.GET("/dashboard/hours-by-project", caching, h.DashboardHoursByProject)
	}

	return r
}
