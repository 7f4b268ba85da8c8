package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/middleware"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/service"
	"go.uber.org/zap"
)

type UnitHandler struct {
	svc    *service.UnitService
	logger *zap.Logger
}

func NewUnitHandler(svc *service.UnitService, logger *zap.Logger) *UnitHandler {
	return &UnitHandler{svc: svc, logger: logger}
}

type unitRequest struct {
	Title       string              `json:"title"`
	Type        models.UnitType     `json:"type"`
	Category    models.UnitCategory `json:"category"`
	Description string              `json:"description"`
	Price       float64             `json:"price"`
	City        string              `json:"city"`
	Governorate string              `json:"governorate"`
	Photos      []models.Photo      `json:"photos"`
	Bedrooms    *int                `json:"bedrooms"`
	Bathrooms   *int                `json:"bathrooms"`
	Area        *float64            `json:"area"`
	ClientName  string              `json:"clientName"`
	ClientPhone string              `json:"clientPhone"`
	FromBroker  bool                `json:"fromBroker"`
}

func (r unitRequest) input() service.UnitInput {
	return service.UnitInput{
		Title:       r.Title,
		Type:        r.Type,
		Category:    r.Category,
		Description: r.Description,
		Price:       r.Price,
		City:        r.City,
		Governorate: r.Governorate,
		Photos:      r.Photos,
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		Area:        r.Area,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		FromBroker:  r.FromBroker,
	}
}

type shareRequest struct {
	TargetID uuid.UUID `json:"targetId"`
}

func bindShare(c *gin.Context) (uuid.UUID, bool) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return uuid.Nil, false
	}
	if req.TargetID == uuid.Nil {
		badRequest(c, "targetId is required")
		return uuid.Nil, false
	}
	return req.TargetID, true
}

// List handles GET /v1/admin/units
func (h *UnitHandler) List(c *gin.Context) {
	units, err := h.svc.List(c.Request.Context(), middleware.GetViewer(c))
	if err != nil {
		respondError(c, h.logger, err, "list units")
		return
	}
	c.JSON(http.StatusOK, units)
}

// Get handles GET /v1/admin/units/:id
func (h *UnitHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	u, err := h.svc.Get(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		respondError(c, h.logger, err, "get unit")
		return
	}
	c.JSON(http.StatusOK, u)
}

// Create handles POST /v1/admin/units
func (h *UnitHandler) Create(c *gin.Context) {
	var req unitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	u, err := h.svc.Create(c.Request.Context(), middleware.GetViewer(c), req.input())
	if err != nil {
		respondError(c, h.logger, err, "create unit")
		return
	}
	c.JSON(http.StatusCreated, u)
}

// Update handles PUT /v1/admin/units/:id
func (h *UnitHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req unitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	u, err := h.svc.Update(c.Request.Context(), middleware.GetViewer(c), id, req.input())
	if err != nil {
		respondError(c, h.logger, err, "update unit")
		return
	}
	c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /v1/admin/units/:id
func (h *UnitHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetViewer(c), id); err != nil {
		respondError(c, h.logger, err, "delete unit")
		return
	}
	c.Status(http.StatusNoContent)
}

// Share handles POST /v1/admin/units/:id/share
func (h *UnitHandler) Share(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	target, ok := bindShare(c)
	if !ok {
		return
	}
	u, err := h.svc.Share(c.Request.Context(), middleware.GetViewer(c), id, target)
	if err != nil {
		respondError(c, h.logger, err, "share unit")
		return
	}
	c.JSON(http.StatusOK, u)
}

// Search handles GET /v1/properties
func (h *UnitHandler) Search(c *gin.Context) {
	units, err := h.svc.Search(c.Request.Context(), service.SearchParams{
		Type:        c.Query("type"),
		Category:    c.Query("category"),
		Governorate: c.Query("governorate"),
		City:        c.Query("city"),
		MinPrice:    c.Query("minPrice"),
		MaxPrice:    c.Query("maxPrice"),
	})
	if err != nil {
		respondError(c, h.logger, err, "search properties")
		return
	}
	c.JSON(http.StatusOK, units)
}

// GetPublic handles GET /v1/properties/:id
func (h *UnitHandler) GetPublic(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	u, err := h.svc.GetPublic(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "get property")
		return
	}
	c.JSON(http.StatusOK, u)
}
