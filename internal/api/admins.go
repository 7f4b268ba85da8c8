package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/almoftah/internal/middleware"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/service"
	"go.uber.org/zap"
)

type AdminHandler struct {
	svc    *service.AdminService
	logger *zap.Logger
}

func NewAdminHandler(svc *service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

type adminRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	Tasks    []string    `json:"tasks"`
	Visible  *bool       `json:"visible"`
}

func (r adminRequest) input() service.AdminInput {
	return service.AdminInput{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
		Tasks:    r.Tasks,
		Visible:  r.Visible,
	}
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

// Team handles GET /v1/admin/team
func (h *AdminHandler) Team(c *gin.Context) {
	team, err := h.svc.Team(c.Request.Context(), middleware.GetViewer(c))
	if err != nil {
		respondError(c, h.logger, err, "list team")
		return
	}
	c.JSON(http.StatusOK, team)
}

// List handles GET /v1/admin/users
func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "list admins")
		return
	}
	c.JSON(http.StatusOK, admins)
}

// Create handles POST /v1/admin/users
func (h *AdminHandler) Create(c *gin.Context) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	a, err := h.svc.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, h.logger, err, "create admin")
		return
	}
	h.logger.Info("admin account created",
		zap.String("admin_id", a.ID.String()),
		zap.String("by", middleware.GetUserID(c).String()),
	)
	c.JSON(http.StatusCreated, a)
}

// Update handles PUT /v1/admin/users/:id
func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	a, err := h.svc.Update(c.Request.Context(), middleware.GetViewer(c), id, req.input())
	if err != nil {
		respondError(c, h.logger, err, "update admin")
		return
	}
	c.JSON(http.StatusOK, a)
}

// SetVisibility handles PUT /v1/admin/users/:id/visibility
func (h *AdminHandler) SetVisibility(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Visible == nil {
		badRequest(c, "visible is required")
		return
	}
	if err := h.svc.SetVisible(c.Request.Context(), middleware.GetViewer(c), id, *req.Visible); err != nil {
		respondError(c, h.logger, err, "change admin visibility")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "visible": *req.Visible})
}

// Delete handles DELETE /v1/admin/users/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetViewer(c), id); err != nil {
		respondError(c, h.logger, err, "delete admin")
		return
	}
	h.logger.Info("admin account deleted",
		zap.String("admin_id", id.String()),
		zap.String("by", middleware.GetUserID(c).String()),
	)
	c.Status(http.StatusNoContent)
}
