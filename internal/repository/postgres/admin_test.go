package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminStore_ActiveRole(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(mock pgxmock.PgxPoolIface)
		wantRole   models.Role
		wantActive bool
		wantErr    string
	}{
		{
			name: "visible superadmin",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(sqlPart("SELECT role FROM admin_users WHERE id = $1 AND visible")).
					WithArgs(adminID).
					WillReturnRows(mock.NewRows([]string{"role"}).AddRow(models.RoleSuperadmin))
			},
			wantRole:   models.RoleSuperadmin,
			wantActive: true,
		},
		{
			name: "suspended or deleted",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(sqlPart("SELECT role FROM admin_users")).
					WithArgs(adminID).
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "database error",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(sqlPart("SELECT role FROM admin_users")).
					WithArgs(adminID).
					WillReturnError(errors.New("pool closed"))
			},
			wantErr: "load admin role: pool closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockDB(t)
			tt.setup(mock)

			role, active, err := NewAdminStore(mock).ActiveRole(context.Background(), adminID)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, role)
			assert.Equal(t, tt.wantActive, active)
		})
	}
}

func TestAdminStore_IsActive(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(sqlPart("SELECT EXISTS(SELECT 1 FROM admin_users WHERE id = $1 AND visible)")).
		WithArgs(otherID).
		WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(false))

	active, err := NewAdminStore(mock).IsActive(context.Background(), otherID)
	require.NoError(t, err)
	assert.False(t, active)
}
