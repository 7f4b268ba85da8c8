package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/repository"
	"github.com/stretchr/testify/mock"
)

var (
	superID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	aliceID = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	bobID   = uuid.MustParse("00000000-0000-0000-0000-0000000000b0")
	buyerID = uuid.MustParse("00000000-0000-0000-0000-0000000000c0")

	superadmin = access.Viewer{ID: superID, Name: "root", Role: models.RoleSuperadmin}
	alice      = access.Viewer{ID: aliceID, Name: "alice", Role: models.RoleAdmin}
	bob        = access.Viewer{ID: bobID, Name: "bob", Role: models.RoleAdmin}
	buyer      = access.Viewer{ID: buyerID, Name: "buyer", Role: models.RoleUser}
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func freezeClock(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = prev })
}

type mockListingCache struct {
	mock.Mock
}

func (m *mockListingCache) Get(ctx context.Context, f repository.UnitFilter) ([]models.PublicUnit, string, bool, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Bool(2), args.Error(3)
	}
	return args.Get(0).([]models.PublicUnit), args.String(1), args.Bool(2), args.Error(3)
}

func (m *mockListingCache) Set(ctx context.Context, key string, units []models.PublicUnit) error {
	return m.Called(ctx, key, units).Error(0)
}

func (m *mockListingCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func intPtr(n int) *int { return &n }

func validUnitInput() UnitInput {
	return UnitInput{
		Title:       "Sea view flat",
		Type:        models.UnitTypeSale,
		Category:    models.CategoryApartment,
		Description: "Three rooms near the corniche",
		Price:       2500000,
		City:        "Alexandria",
		Governorate: "Alexandria",
		Photos:      []models.Photo{{ID: "units/a.jpg", URL: "/v1/photos/units/a.jpg"}},
		Bedrooms:    intPtr(3),
		ClientName:  "Omar",
		ClientPhone: "+20 100 123 4567",
	}
}

func activeAdmin(id uuid.UUID, name string) *models.AdminUser {
	return &models.AdminUser{ID: id, Username: name, Role: models.RoleAdmin, Visible: true}
}
