package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/auth"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func token(t *testing.T, id uuid.UUID, role models.Role) string {
	t.Helper()
	tok, err := auth.GenerateToken(auth.Identity{UserID: id, Role: role, Username: "amr", Email: "amr@example.com"}, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

type fakeActive struct {
	role   models.Role
	active bool
	err    error
	calls  int
}

func (f *fakeActive) ActiveRole(context.Context, uuid.UUID) (models.Role, bool, error) {
	f.calls++
	return f.role, f.active, f.err
}

func TestAuthMiddleware(t *testing.T) {
	id := uuid.New()
	valid := token(t, id, models.RoleAdmin)

	r := gin.New()
	r.Use(RequestID(), AuthMiddleware(secret))
	r.GET("/me", func(c *gin.Context) {
		v := GetViewer(c)
		c.JSON(http.StatusOK, gin.H{"id": v.ID, "role": v.Role, "name": v.Name, "email": GetEmail(c)})
	})

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
	}{
		{name: "bearer header", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + valid, wantStatus: http.StatusOK},
		{name: "query token", query: "?token=" + valid, wantStatus: http.StatusOK},
		{name: "malformed header beats query token", header: "Token " + valid, query: "?token=" + valid, wantStatus: http.StatusUnauthorized},
		{name: "missing", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized},
		{name: "other secret", header: "Bearer " + mustToken(t, "other"), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, id.String(), body["id"])
				assert.Equal(t, "admin", body["role"])
				assert.Equal(t, "amr", body["name"])
				assert.Equal(t, "amr@example.com", body["email"])
			} else {
				assert.NotEmpty(t, body["error"])
				assert.Equal(t, w.Header().Get(RequestIDHeader), body["request_id"])
			}
		})
	}
}

func mustToken(t *testing.T, otherSecret string) string {
	t.Helper()
	tok, err := auth.GenerateToken(auth.Identity{UserID: uuid.New(), Role: models.RoleAdmin}, otherSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestRoleGates(t *testing.T) {
	tests := []struct {
		name       string
		role       models.Role
		checker    *fakeActive
		path       string
		wantStatus int
	}{
		{name: "buyer is not staff", role: models.RoleUser, checker: &fakeActive{role: models.RoleAdmin, active: true}, path: "/admin", wantStatus: http.StatusForbidden},
		{name: "active admin", role: models.RoleAdmin, checker: &fakeActive{role: models.RoleAdmin, active: true}, path: "/admin", wantStatus: http.StatusOK},
		{name: "suspended admin", role: models.RoleAdmin, checker: &fakeActive{role: models.RoleAdmin, active: false}, path: "/admin", wantStatus: http.StatusForbidden},
		{name: "lookup failure", role: models.RoleAdmin, checker: &fakeActive{err: errors.New("db down")}, path: "/admin", wantStatus: http.StatusInternalServerError},
		{name: "admin on superadmin route", role: models.RoleAdmin, checker: &fakeActive{role: models.RoleAdmin, active: true}, path: "/admin/users", wantStatus: http.StatusForbidden},
		{name: "superadmin on superadmin route", role: models.RoleSuperadmin, checker: &fakeActive{role: models.RoleSuperadmin, active: true}, path: "/admin/users", wantStatus: http.StatusOK},
		{name: "demoted superadmin token", role: models.RoleSuperadmin, checker: &fakeActive{role: models.RoleAdmin, active: true}, path: "/admin/users", wantStatus: http.StatusForbidden},
		{name: "demoted superadmin keeps admin routes", role: models.RoleSuperadmin, checker: &fakeActive{role: models.RoleAdmin, active: true}, path: "/admin", wantStatus: http.StatusOK},
		{name: "promoted admin token", role: models.RoleAdmin, checker: &fakeActive{role: models.RoleSuperadmin, active: true}, path: "/admin/users", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			admin := r.Group("/admin", AuthMiddleware(secret), RequireStaff(tt.checker, zap.NewNop()))
			admin.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
			admin.GET("/users", RequireSuperadmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+token(t, uuid.New(), tt.role))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.role == models.RoleUser {
				assert.Zero(t, tt.checker.calls, "non-staff never hit the database")
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/units/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/units/42?token=secret.jwt.value", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	for _, e := range entries {
		for _, f := range e.Context {
			assert.NotContains(t, f.String, "token=", "query strings stay out of access logs")
		}
	}

	first := entries[0].ContextMap()
	assert.Equal(t, "/units/:id", first["route"])
	assert.Equal(t, int64(http.StatusOK), first["status"])
	assert.NotEmpty(t, first["request_id"])

	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/units/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/units/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/units/2", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/units/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestCount), "/metrics is not counted")
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "registering twice on one registry fails")
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"), "burst exhausted")
	assert.True(t, rl.Allow("2.2.2.2"), "buckets are per client")

	clock = clock.Add(time.Second)
	assert.True(t, rl.Allow("1.1.1.1"), "refilled after a second")

	clock = clock.Add(time.Hour)
	rl.Allow("3.3.3.3")
	assert.Len(t, rl.limiters, 1, "idle buckets are swept")

	r := gin.New()
	r.Use(NewRateLimiter(0.001, 1).Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}
