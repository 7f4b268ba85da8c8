package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/middleware"
	"github.com/lalith-99/almoftah/internal/service"
	"go.uber.org/zap"
)

// statusFor maps service errors to HTTP statuses. Unknown errors are 500.
func statusFor(err error) int {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrSelfAction),
		errors.Is(err, service.ErrProtected),
		errors.Is(err, service.ErrSuspended):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAlreadyShared),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrContactExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrEmptyMessage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body. Internal errors are logged with
// action and hidden from the client.
func respondError(c *gin.Context, logger *zap.Logger, err error, action string) {
	status := statusFor(err)
	body := gin.H{"request_id": middleware.GetRequestID(c)}

	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		body["error"] = ve.Error()
		body["field"] = ve.Field
	case status == http.StatusInternalServerError:
		logger.Error("failed to "+action,
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		body["error"] = "failed to " + action
	default:
		body["error"] = err.Error()
	}

	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":      msg,
		"request_id": middleware.GetRequestID(c),
	})
}

// uuidParam parses a path parameter, writing a 400 when it is malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
