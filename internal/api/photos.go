package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/almoftah/internal/service"
	"go.uber.org/zap"
)

type PhotoHandler struct {
	svc    *service.PhotoService
	logger *zap.Logger
}

func NewPhotoHandler(svc *service.PhotoService, logger *zap.Logger) *PhotoHandler {
	return &PhotoHandler{svc: svc, logger: logger}
}

// Upload handles POST /v1/admin/photos (multipart: photo, hint)
func (h *PhotoHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxPhotoBytes+1<<20)

	fh, err := c.FormFile("photo")
	if err != nil {
		badRequest(c, "photo file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, "unreadable photo")
		return
	}
	defer f.Close()

	p, err := h.svc.Upload(c.Request.Context(), f, fh.Size, c.PostForm("hint"))
	if err != nil {
		respondError(c, h.logger, err, "upload photo")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Serve handles GET /v1/photos/*key
func (h *PhotoHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	rc, info, err := h.svc.Open(c.Request.Context(), key)
	if err != nil {
		respondError(c, h.logger, err, "load photo")
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, rc, map[string]string{
		"Cache-Control":          "public, max-age=86400, immutable",
		"X-Content-Type-Options": "nosniff",
	})
}
