package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/almoftah/internal/middleware"
	"github.com/lalith-99/almoftah/internal/service"
	"go.uber.org/zap"
)

// AuthHandler serves signup and login, the only endpoints reachable
// without a token, plus the caller's profile.
type AuthHandler struct {
	svc    *service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(svc *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup handles POST /v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "a valid email, username and password are required")
		return
	}

	sess, err := h.svc.Signup(c.Request.Context(), service.SignupInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err, "sign up")
		return
	}

	h.logger.Info("user signed up", zap.String("user_id", sess.UserID.String()))
	c.JSON(http.StatusCreated, sess)
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "a valid email and password are required")
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "log in")
		return
	}
	c.JSON(http.StatusOK, sess)
}

// Me handles GET /v1/me
func (h *AuthHandler) Me(c *gin.Context) {
	p, err := h.svc.Me(c.Request.Context(), middleware.GetUserID(c), middleware.GetRole(c))
	if err != nil {
		respondError(c, h.logger, err, "load profile")
		return
	}
	c.JSON(http.StatusOK, p)
}
