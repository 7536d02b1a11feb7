package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ziklo-timetrack-backend/internal/audit"
	"ziklo-timetrack-backend/internal/model"
)

// Catalog handlers: list and create for the five reference entities the
// time-entry form selects from. Statuses default to "active" as in the
// admin console contract.

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error al consultar usuarios")
		return
	}
	ok(c, users)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req struct {
		ExternalID string `json:"external_id"`
		Name       string `json:"name" binding:"required"`
		Email      string `json:"email" binding:"required"`
		Status     string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user := &model.User{
		ID:         uuid.NewString(),
		ExternalID: req.ExternalID,
		Name:       req.Name,
		Email:      req.Email,
		Status:     defaultStatus(req.Status),
		CreatedAt:  time.Now().UTC(),
	}
	if user.ExternalID == "" {
		user.ExternalID = uuid.NewString()
	}

	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		fail(c, http.StatusInternalServerError, "Error al crear usuario")
		return
	}
	h.recordCatalogAudit(c, "user", user.ID, map[string]any{"name": user.Name, "email": user.Email})
	ok(c, user)
}

func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.store.ListProjects(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error al consultar proyectos")
		return
	}
	ok(c, projects)
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req struct {
		Code         string `json:"code" binding:"required"`
		Name         string `json:"name" binding:"required"`
		Client       string `json:"client"`
		Status       string `json:"status"`
		LeaderUserID string `json:"leader_user_id"`
		CostCenterID string `json:"cost_center_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	project := &model.Project{
		ID:           uuid.NewString(),
		Code:         req.Code,
		Name:         req.Name,
		Client:       req.Client,
		Status:       defaultStatus(req.Status),
		LeaderUserID: req.LeaderUserID,
		CostCenterID: req.CostCenterID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.store.CreateProject(c.Request.Context(), project); err != nil {
		fail(c, http.StatusInternalServerError, "Error al crear proyecto")
		return
	}
	h.recordCatalogAudit(c, "project", project.ID, map[string]any{"code": project.Code, "name": project.Name})
	ok(c, project)
}

func (h *Handler) ListCostCenters(c *gin.Context) {
	centers, err := h.store.ListCostCenters(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error al consultar centros de costo")
		return
	}
	ok(c, centers)
}

func (h *Handler) CreateCostCenter(c *gin.Context) {
	var req struct {
		Code   string `json:"code" binding:"required"`
		Name   string `json:"name" binding:"required"`
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	center := &model.CostCenter{
		ID:        uuid.NewString(),
		Code:      req.Code,
		Name:      req.Name,
		Status:    defaultStatus(req.Status),
		CreatedAt: time.Now().UTC(),
	}

	if err := h.store.CreateCostCenter(c.Request.Context(), center); err != nil {
		fail(c, http.StatusInternalServerError, "Error al crear centro de costo")
		return
	}
	h.recordCatalogAudit(c, "cost_center", center.ID, map[string]any{"code": center.Code, "name": center.Name})
	ok(c, center)
}

func (h *Handler) ListEngineers(c *gin.Context) {
	engineers, err := h.store.ListEngineers(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error al consultar ingenieros")
		return
	}
	ok(c, engineers)
}

func (h *Handler) CreateEngineer(c *gin.Context) {
	var req struct {
		UserID         string `json:"user_id"`
		DocumentNumber string `json:"document_number"`
		Title          string `json:"title"`
		Status         string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	engineer := &model.Engineer{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		DocumentNumber: req.DocumentNumber,
		Title:          req.Title,
		Status:         defaultStatus(req.Status),
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.store.CreateEngineer(c.Request.Context(), engineer); err != nil {
		fail(c, http.StatusInternalServerError, "Error al crear ingeniero")
		return
	}
	h.recordCatalogAudit(c, "engineer", engineer.ID, map[string]any{"user_id": engineer.UserID})
	ok(c, engineer)
}

func (h *Handler) ListConcepts(c *gin.Context) {
	concepts, err := h.store.ListConcepts(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error al consultar conceptos")
		return
	}
	ok(c, concepts)
}

func (h *Handler) CreateConcept(c *gin.Context) {
	var req struct {
		Code   string `json:"code" binding:"required"`
		Name   string `json:"name" binding:"required"`
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	concept := &model.Concept{
		ID:        uuid.NewString(),
		Code:      req.Code,
		Name:      req.Name,
		Status:    defaultStatus(req.Status),
		CreatedAt: time.Now().UTC(),
	}

	if err := h.store.CreateConcept(c.Request.Context(), concept); err != nil {
		fail(c, http.StatusInternalServerError, "Error al crear concepto")
		return
	}
	h.recordCatalogAudit(c, "concept", concept.ID, map[string]any{"code": concept.Code, "name": concept.Name})
	ok(c, concept)
}

func (h *Handler) recordCatalogAudit(c *gin.Context, entity, entityID string, payload map[string]any) {
	h.audit.Record(audit.Entry{
		Action:   "CREATE",
		Entity:   entity,
		EntityID: entityID,
		Payload:  payload,
		IP:       c.ClientIP(),
	})
}

func defaultStatus(s string) string {
	if s == "" {
		return "active"
	}
	return s
}
