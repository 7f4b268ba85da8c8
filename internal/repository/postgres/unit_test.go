package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var unitColumnNames = []string{
	"id", "title", "type", "category", "description", "price", "city", "governorate",
	"photos", "bedrooms", "bathrooms", "area", "client_name", "client_phone", "from_broker",
	"created_by", "created_by_name", "shared_with", "share_history", "created_at", "updated_at",
}

func unitRows(mock pgxmock.PgxPoolIface, units ...models.Unit) *pgxmock.Rows {
	rows := mock.NewRows(unitColumnNames)
	for _, u := range units {
		rows.AddRow(
			u.ID, u.Title, u.Type, u.Category, u.Description, u.Price, u.City, u.Governorate,
			u.Photos, u.Bedrooms, u.Bathrooms, u.Area, u.ClientName, u.ClientPhone, u.FromBroker,
			u.CreatedBy, u.CreatedByName, u.SharedWith, u.ShareHistory, u.CreatedAt, u.UpdatedAt,
		)
	}
	return rows
}

func sampleUnit(title string) models.Unit {
	return models.Unit{
		ID:            uuid.New(),
		Title:         title,
		Type:          models.UnitTypeSale,
		Category:      models.CategoryApartment,
		Description:   "Sea view",
		Price:         2500000,
		City:          "Alexandria",
		Governorate:   "Alexandria",
		Photos:        []models.Photo{{ID: "units/a.jpg", URL: "/v1/photos/units/a.jpg"}},
		ClientName:    "Omar",
		ClientPhone:   "+20 100 123 4567",
		CreatedBy:     adminID,
		CreatedByName: "alice",
		SharedWith:    []uuid.UUID{},
		ShareHistory:  []models.ShareRecord{},
		CreatedAt:     fixedTime,
		UpdatedAt:     fixedTime,
	}
}

func TestUnitStore_ListVisible_Scopes(t *testing.T) {
	tests := []struct {
		name     string
		viewer   access.Viewer
		fragment string
		args     []any
	}{
		{
			name:     "superadmin sees everything",
			viewer:   superViewer,
			fragment: "FROM units ORDER BY created_at DESC",
		},
		{
			name:     "admin sees own and shared",
			viewer:   adminViewer,
			fragment: "FROM units WHERE (created_by = $1 OR $1 = ANY(shared_with)) ORDER BY created_at DESC",
			args:     []any{adminID},
		},
		{
			name:     "buyer sees nothing",
			viewer:   buyerViewer,
			fragment: "FROM units WHERE FALSE ORDER BY created_at DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockDB(t)
			u := sampleUnit("Corniche flat")
			mock.ExpectQuery(sqlPart(tt.fragment)).
				WithArgs(tt.args...).
				WillReturnRows(unitRows(mock, u))

			units, err := NewUnitStore(mock).ListVisible(context.Background(), tt.viewer)
			require.NoError(t, err)
			require.Len(t, units, 1)
			assert.Equal(t, u.ID, units[0].ID)
			assert.Equal(t, u.Photos, units[0].Photos)
		})
	}
}

func TestUnitStore_ListByContactPhone(t *testing.T) {
	t.Run("admin is limited to own units", func(t *testing.T) {
		mock := newMockDB(t)
		mock.ExpectQuery(sqlPart("FROM units WHERE client_phone = $1 AND created_by = $2 ORDER BY created_at DESC")).
			WithArgs("+20 100 123 4567", adminID).
			WillReturnRows(unitRows(mock, sampleUnit("A"), sampleUnit("B")))

		units, err := NewUnitStore(mock).ListByContactPhone(context.Background(), adminViewer, "+20 100 123 4567")
		require.NoError(t, err)
		assert.Len(t, units, 2)
	})

	t.Run("superadmin filters by phone only", func(t *testing.T) {
		mock := newMockDB(t)
		mock.ExpectQuery(sqlPart("FROM units WHERE client_phone = $1 ORDER BY created_at DESC")).
			WithArgs("0100").
			WillReturnRows(unitRows(mock))

		units, err := NewUnitStore(mock).ListByContactPhone(context.Background(), superViewer, "0100")
		require.NoError(t, err)
		assert.NotNil(t, units)
		assert.Empty(t, units)
	})
}

func TestUnitStore_Search(t *testing.T) {
	minPrice, maxPrice := 1000.0, 5000000.0

	tests := []struct {
		name     string
		filter   repository.UnitFilter
		fragment string
		args     []any
	}{
		{
			name:     "no filter",
			fragment: "FROM units ORDER BY created_at DESC",
		},
		{
			name:     "every field numbered in order",
			filter:   repository.UnitFilter{Type: "Sale", Category: "Villa", Governorate: "Giza", City: "Sheikh Zayed", MinPrice: &minPrice, MaxPrice: &maxPrice},
			fragment: "FROM units WHERE type = $1 AND category = $2 AND governorate = $3 AND city = $4 AND price >= $5 AND price <= $6 ORDER BY",
			args:     []any{"Sale", "Villa", "Giza", "Sheikh Zayed", minPrice, maxPrice},
		},
		{
			name:     "gaps do not skip placeholders",
			filter:   repository.UnitFilter{City: "Cairo", MaxPrice: &maxPrice},
			fragment: "FROM units WHERE city = $1 AND price <= $2 ORDER BY",
			args:     []any{"Cairo", maxPrice},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockDB(t)
			mock.ExpectQuery(sqlPart(tt.fragment)).
				WithArgs(tt.args...).
				WillReturnRows(unitRows(mock, sampleUnit("match")))

			units, err := NewUnitStore(mock).Search(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Len(t, units, 1)
		})
	}
}

func TestUnitStore_AddShare(t *testing.T) {
	id := uuid.New()
	rec := models.ShareRecord{FromID: adminID, FromName: "alice", ToID: otherID, ToName: "bob", At: fixedTime}

	t.Run("first share", func(t *testing.T) {
		mock := newMockDB(t)
		mock.ExpectExec(sqlPart("WHERE id = $1 AND NOT ($2 = ANY(shared_with))")).
			WithArgs(id, otherID, rec).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		added, err := NewUnitStore(mock).AddShare(context.Background(), id, rec)
		require.NoError(t, err)
		assert.True(t, added)
	})

	t.Run("already shared matches no row", func(t *testing.T) {
		mock := newMockDB(t)
		mock.ExpectExec(sqlPart("UPDATE units SET")).
			WithArgs(id, otherID, rec).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		added, err := NewUnitStore(mock).AddShare(context.Background(), id, rec)
		require.NoError(t, err)
		assert.False(t, added)
	})

	t.Run("exec error", func(t *testing.T) {
		mock := newMockDB(t)
		mock.ExpectExec(sqlPart("UPDATE units SET")).
			WithArgs(id, otherID, rec).
			WillReturnError(errors.New("conn reset"))

		_, err := NewUnitStore(mock).AddShare(context.Background(), id, rec)
		assert.EqualError(t, err, "share unit: conn reset")
	})
}

func TestUnitStore_Stats(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(sqlPart("SELECT count(*), COALESCE(sum(price), 0) FROM units WHERE (created_by = $1 OR $1 = ANY(shared_with))")).
		WithArgs(adminID).
		WillReturnRows(mock.NewRows([]string{"count", "sum"}).AddRow(3, 4500000.0))

	st, err := NewUnitStore(mock).Stats(context.Background(), adminViewer)
	require.NoError(t, err)
	assert.Equal(t, repository.UnitStats{Count: 3, TotalValue: 4500000}, st)
}

func TestUnitStore_GetByID_Missing(t *testing.T) {
	mock := newMockDB(t)
	id := uuid.New()
	mock.ExpectQuery(sqlPart("FROM units WHERE id = $1")).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	u, err := NewUnitStore(mock).GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, u)
}
