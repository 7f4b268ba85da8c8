package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/auth"
	"github.com/lalith-99/almoftah/internal/chat"
	"github.com/lalith-99/almoftah/internal/models"
	repoMocks "github.com/lalith-99/almoftah/internal/repository/mocks"
	"github.com/lalith-99/almoftah/internal/service"
	storeMocks "github.com/lalith-99/almoftah/internal/storage/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "api-test-secret"

var (
	superID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	aliceID = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	bobID   = uuid.MustParse("00000000-0000-0000-0000-0000000000b0")
	buyerID = uuid.MustParse("00000000-0000-0000-0000-0000000000c0")
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	units   *repoMocks.MockUnitRepository
	leads   *repoMocks.MockLeadRepository
	clients *repoMocks.MockClientRepository
	brokers *repoMocks.MockBrokerRepository
	admins  *repoMocks.MockAdminRepository
	users   *repoMocks.MockUserRepository
	chats   *repoMocks.MockChatRepository
	store   *storeMocks.MockStorage
	hub     *chat.LocalHub

	dbErr  error
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	e := &testEnv{
		units:   new(repoMocks.MockUnitRepository),
		leads:   new(repoMocks.MockLeadRepository),
		clients: new(repoMocks.MockClientRepository),
		brokers: new(repoMocks.MockBrokerRepository),
		admins:  new(repoMocks.MockAdminRepository),
		users:   new(repoMocks.MockUserRepository),
		chats:   new(repoMocks.MockChatRepository),
		store:   new(storeMocks.MockStorage),
		hub:     chat.NewLocalHub(),
	}

	e.admins.On("IsActive", mock.Anything, superID).Return(true, nil).Maybe()
	e.admins.On("IsActive", mock.Anything, aliceID).Return(true, nil).Maybe()
	e.admins.On("IsActive", mock.Anything, bobID).Return(false, nil).Maybe()
	e.admins.On("ActiveRole", mock.Anything, superID).Return(models.RoleSuperadmin, true, nil).Maybe()
	e.admins.On("ActiveRole", mock.Anything, aliceID).Return(models.RoleAdmin, true, nil).Maybe()
	e.admins.On("ActiveRole", mock.Anything, bobID).Return(models.RoleAdmin, false, nil).Maybe()

	unitSvc := service.NewUnitService(e.units, e.clients, e.brokers, e.admins, e.store, nil, logger)
	h := Handlers{
		Auth:      NewAuthHandler(service.NewAuthService(e.admins, e.users, testSecret, time.Hour), logger),
		Units:     NewUnitHandler(unitSvc, logger),
		Leads:     NewLeadHandler(service.NewLeadService(e.leads, e.admins), logger),
		Contacts:  NewContactHandler(service.NewContactService(e.clients, e.brokers, e.units), logger),
		Admins:    NewAdminHandler(service.NewAdminService(e.admins, e.users, "root@almoftah.test", logger), logger),
		Chat:      NewChatHandler(service.NewChatService(e.chats, e.units, e.admins, e.hub, logger), nil, logger),
		Photos:    NewPhotoHandler(service.NewPhotoService(e.store), logger),
		Dashboard: NewDashboardHandler(service.NewDashboardService(e.units, e.leads, e.clients, e.brokers, e.admins), logger),
	}

	e.router = NewRouter(RouterConfig{
		JWTSecret: testSecret,
		Admins:    e.admins,
		HealthChecks: map[string]HealthCheck{
			"postgres": func(context.Context) error { return e.dbErr },
		},
		Logger: logger,
	}, h)
	return e
}

func tokenFor(t *testing.T, id uuid.UUID, role models.Role, name string) string {
	t.Helper()
	tok, err := auth.GenerateToken(auth.Identity{UserID: id, Role: role, Username: name}, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
