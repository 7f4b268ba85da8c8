package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/almoftah/internal/middleware"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/service"
	"go.uber.org/zap"
)

type LeadHandler struct {
	svc    *service.LeadService
	logger *zap.Logger
}

func NewLeadHandler(svc *service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{svc: svc, logger: logger}
}

type leadRequest struct {
	Name   string            `json:"name"`
	Email  string            `json:"email"`
	Phone  string            `json:"phone"`
	Status models.LeadStatus `json:"status"`
}

func (r leadRequest) input() service.LeadInput {
	return service.LeadInput{Name: r.Name, Email: r.Email, Phone: r.Phone, Status: r.Status}
}

// List handles GET /v1/admin/leads?status=New
func (h *LeadHandler) List(c *gin.Context) {
	status := models.LeadStatus(c.Query("status"))
	if status == "all" {
		status = ""
	}
	leads, err := h.svc.List(c.Request.Context(), middleware.GetViewer(c), status)
	if err != nil {
		respondError(c, h.logger, err, "list leads")
		return
	}
	c.JSON(http.StatusOK, leads)
}

// Get handles GET /v1/admin/leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	l, err := h.svc.Get(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		respondError(c, h.logger, err, "get lead")
		return
	}
	c.JSON(http.StatusOK, l)
}

// Create handles POST /v1/admin/leads
func (h *LeadHandler) Create(c *gin.Context) {
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	l, err := h.svc.Create(c.Request.Context(), middleware.GetViewer(c), req.input())
	if err != nil {
		respondError(c, h.logger, err, "create lead")
		return
	}
	c.JSON(http.StatusCreated, l)
}

// Update handles PUT /v1/admin/leads/:id
func (h *LeadHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	l, err := h.svc.Update(c.Request.Context(), middleware.GetViewer(c), id, req.input())
	if err != nil {
		respondError(c, h.logger, err, "update lead")
		return
	}
	c.JSON(http.StatusOK, l)
}

// Delete handles DELETE /v1/admin/leads/:id
func (h *LeadHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetViewer(c), id); err != nil {
		respondError(c, h.logger, err, "delete lead")
		return
	}
	c.Status(http.StatusNoContent)
}

// Share handles POST /v1/admin/leads/:id/share
func (h *LeadHandler) Share(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	target, ok := bindShare(c)
	if !ok {
		return
	}
	l, err := h.svc.Share(c.Request.Context(), middleware.GetViewer(c), id, target)
	if err != nil {
		respondError(c, h.logger, err, "share lead")
		return
	}
	c.JSON(http.StatusOK, l)
}
