package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/almoftah/internal/middleware"
	"github.com/lalith-99/almoftah/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	svc    *service.DashboardService
	logger *zap.Logger
}

func NewDashboardHandler(svc *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

// Get handles GET /v1/admin/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), middleware.GetViewer(c))
	if err != nil {
		respondError(c, h.logger, err, "load dashboard")
		return
	}
	c.JSON(http.StatusOK, d)
}
