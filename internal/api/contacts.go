package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/almoftah/internal/middleware"
	"github.com/lalith-99/almoftah/internal/service"
	"go.uber.org/zap"
)

// ContactHandler serves clients and brokers. Both are addressed by the
// digits of their phone number.
type ContactHandler struct {
	svc    *service.ContactService
	logger *zap.Logger
}

func NewContactHandler(svc *service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, logger: logger}
}

type contactRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

func (r contactRequest) input() service.ContactInput {
	return service.ContactInput{Name: r.Name, Phone: r.Phone, Company: r.Company}
}

func bindContact(c *gin.Context) (service.ContactInput, bool) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return service.ContactInput{}, false
	}
	return req.input(), true
}

// ListClients handles GET /v1/admin/clients?q=
func (h *ContactHandler) ListClients(c *gin.Context) {
	clients, err := h.svc.ListClients(c.Request.Context(), middleware.GetViewer(c), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err, "list clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClient handles GET /v1/admin/clients/:id
func (h *ContactHandler) GetClient(c *gin.Context) {
	cl, err := h.svc.GetClient(c.Request.Context(), middleware.GetViewer(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "get client")
		return
	}
	c.JSON(http.StatusOK, cl)
}

// CreateClient handles POST /v1/admin/clients
func (h *ContactHandler) CreateClient(c *gin.Context) {
	in, ok := bindContact(c)
	if !ok {
		return
	}
	cl, err := h.svc.CreateClient(c.Request.Context(), middleware.GetViewer(c), in)
	if err != nil {
		respondError(c, h.logger, err, "create client")
		return
	}
	c.JSON(http.StatusCreated, cl)
}

// UpdateClient handles PUT /v1/admin/clients/:id
func (h *ContactHandler) UpdateClient(c *gin.Context) {
	in, ok := bindContact(c)
	if !ok {
		return
	}
	cl, err := h.svc.UpdateClient(c.Request.Context(), middleware.GetViewer(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err, "update client")
		return
	}
	c.JSON(http.StatusOK, cl)
}

// DeleteClient handles DELETE /v1/admin/clients/:id
func (h *ContactHandler) DeleteClient(c *gin.Context) {
	if err := h.svc.DeleteClient(c.Request.Context(), middleware.GetViewer(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "delete client")
		return
	}
	c.Status(http.StatusNoContent)
}

// ClientUnits handles GET /v1/admin/clients/:id/units
func (h *ContactHandler) ClientUnits(c *gin.Context) {
	units, err := h.svc.ClientUnits(c.Request.Context(), middleware.GetViewer(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "list client units")
		return
	}
	c.JSON(http.StatusOK, units)
}

// ListBrokers handles GET /v1/admin/brokers?q=
func (h *ContactHandler) ListBrokers(c *gin.Context) {
	brokers, err := h.svc.ListBrokers(c.Request.Context(), middleware.GetViewer(c), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err, "list brokers")
		return
	}
	c.JSON(http.StatusOK, brokers)
}

// GetBroker handles GET /v1/admin/brokers/:id
func (h *ContactHandler) GetBroker(c *gin.Context) {
	b, err := h.svc.GetBroker(c.Request.Context(), middleware.GetViewer(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "get broker")
		return
	}
	c.JSON(http.StatusOK, b)
}

// CreateBroker handles POST /v1/admin/brokers
func (h *ContactHandler) CreateBroker(c *gin.Context) {
	in, ok := bindContact(c)
	if !ok {
		return
	}
	b, err := h.svc.CreateBroker(c.Request.Context(), middleware.GetViewer(c), in)
	if err != nil {
		respondError(c, h.logger, err, "create broker")
		return
	}
	c.JSON(http.StatusCreated, b)
}

// UpdateBroker handles PUT /v1/admin/brokers/:id
func (h *ContactHandler) UpdateBroker(c *gin.Context) {
	in, ok := bindContact(c)
	if !ok {
		return
	}
	b, err := h.svc.UpdateBroker(c.Request.Context(), middleware.GetViewer(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err, "update broker")
		return
	}
	c.JSON(http.StatusOK, b)
}

// DeleteBroker handles DELETE /v1/admin/brokers/:id
func (h *ContactHandler) DeleteBroker(c *gin.Context) {
	if err := h.svc.DeleteBroker(c.Request.Context(), middleware.GetViewer(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "delete broker")
		return
	}
	c.Status(http.StatusNoContent)
}

// BrokerUnits handles GET /v1/admin/brokers/:id/units
func (h *ContactHandler) BrokerUnits(c *gin.Context) {
	units, err := h.svc.BrokerUnits(c.Request.Context(), middleware.GetViewer(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "list broker units")
		return
	}
	c.JSON(http.StatusOK, units)
}
