package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/auth"
	"github.com/lalith-99/almoftah/internal/models"
	"go.uber.org/zap"
)

// Context keys for the claims stored by AuthMiddleware.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyRole     = "role"
	ContextKeyUsername = "username"
	ContextKeyEmail    = "email"
)

// AuthMiddleware validates the JWT and stores its claims on the context.
//
// The token comes from "Authorization: Bearer <token>". Browsers cannot set
// headers on a WebSocket handshake (new WebSocket(url) takes no header
// argument), so a ?token= query parameter is accepted when the header is
// absent. The Logger middleware records the route, never the query string.
// A present but malformed header is rejected even when ?token= is valid.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}

		claims, err := auth.ParseToken(tokenString, secret)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, claims.Role)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyEmail, claims.Email)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if t := c.Query("token"); t != "" {
			return t, true
		}
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ActiveChecker reports whether a staff account may still act and with
// which role. Implemented by the admin store.
type ActiveChecker interface {
	ActiveRole(ctx context.Context, id uuid.UUID) (models.Role, bool, error)
}

// RequireStaff admits admins and superadmins whose account is still
// visible. The lookup runs on every request so a suspension or demotion
// takes effect before the token expires. The stored role replaces the
// token's role on the context, so later gates and handlers see it.
func RequireStaff(admins ActiveChecker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetRole(c).IsStaff() {
			abort(c, http.StatusForbidden, "admin access required")
			return
		}

		role, active, err := admins.ActiveRole(c.Request.Context(), GetUserID(c))
		if err != nil {
			logger.Error("admin activity check failed",
				zap.String("user_id", GetUserID(c).String()),
				zap.Error(err),
			)
			abort(c, http.StatusInternalServerError, "internal error")
			return
		}
		if !active {
			abort(c, http.StatusForbidden, "account is suspended")
			return
		}
		if !role.IsStaff() {
			abort(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Set(ContextKeyRole, role)

		c.Next()
	}
}

// RequireSuperadmin must run after RequireStaff, which refreshes the role
// from the database.
func RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != models.RoleSuperadmin {
			abort(c, http.StatusForbidden, "superadmin access required")
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      msg,
		"request_id": GetRequestID(c),
	})
}

func GetUserID(c *gin.Context) uuid.UUID {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func GetRole(c *gin.Context) models.Role {
	role, _ := c.Get(ContextKeyRole)
	r, _ := role.(models.Role)
	return r
}

func GetUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}

func GetEmail(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}

// GetViewer builds the access.Viewer for the authenticated caller.
func GetViewer(c *gin.Context) access.Viewer {
	return access.Viewer{
		ID:   GetUserID(c),
		Name: GetUsername(c),
		Role: GetRole(c),
	}
}
