package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/almoftah/internal/models"
)

const adminColumns = `id, username, email, password_hash, role, tasks, visible, created_at`

type AdminStore struct {
	pool DB
}

func NewAdminStore(pool DB) *AdminStore {
	return &AdminStore{pool: pool}
}

func scanAdmin(row pgx.Row) (*models.AdminUser, error) {
	var a models.AdminUser
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.Tasks,
		&a.Visible,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AdminStore) Create(ctx context.Context, a *models.AdminUser) (*models.AdminUser, error) {
	query := `
		INSERT INTO admin_users (username, email, password_hash, role, tasks, visible)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + adminColumns

	created, err := scanAdmin(s.pool.QueryRow(ctx, query,
		a.Username, a.Email, a.PasswordHash, a.Role, nonNilStrings(a.Tasks), a.Visible,
	))
	if err != nil {
		return nil, fmt.Errorf("insert admin: %w", err)
	}
	return created, nil
}

func (s *AdminStore) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	a, err := scanAdmin(s.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return a, nil
}

func (s *AdminStore) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE lower(email) = lower($1)`

	a, err := scanAdmin(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin by email: %w", err)
	}
	return a, nil
}

func (s *AdminStore) List(ctx context.Context) ([]models.AdminUser, error) {
	return s.list(ctx, `SELECT `+adminColumns+` FROM admin_users ORDER BY created_at`)
}

func (s *AdminStore) ListVisible(ctx context.Context) ([]models.AdminUser, error) {
	return s.list(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE visible ORDER BY username`)
}

func (s *AdminStore) list(ctx context.Context, query string) ([]models.AdminUser, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	admins := make([]models.AdminUser, 0)
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admins: %w", err)
	}
	return admins, nil
}

func (s *AdminStore) Update(ctx context.Context, a *models.AdminUser) (*models.AdminUser, error) {
	query := `
		UPDATE admin_users SET
			username = $2, email = $3, role = $4, tasks = $5,
			password_hash = COALESCE(NULLIF($6, ''), password_hash)
		WHERE id = $1
		RETURNING ` + adminColumns

	updated, err := scanAdmin(s.pool.QueryRow(ctx, query,
		a.ID, a.Username, a.Email, a.Role, nonNilStrings(a.Tasks), a.PasswordHash,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update admin: %w", err)
	}
	return updated, nil
}

func (s *AdminStore) SetVisible(ctx context.Context, id uuid.UUID, visible bool) error {
	if _, err := s.pool.Exec(ctx, `UPDATE admin_users SET visible = $2 WHERE id = $1`, id, visible); err != nil {
		return fmt.Errorf("set admin visibility: %w", err)
	}
	return nil
}

func (s *AdminStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM admin_users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	return nil
}

func (s *AdminStore) IsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM admin_users WHERE id = $1 AND visible)`

	var active bool
	if err := s.pool.QueryRow(ctx, query, id).Scan(&active); err != nil {
		return false, fmt.Errorf("check admin active: %w", err)
	}
	return active, nil
}

// ActiveRole returns the stored role of a visible staff account. A missing
// or suspended account reports active=false.
func (s *AdminStore) ActiveRole(ctx context.Context, id uuid.UUID) (models.Role, bool, error) {
	query := `SELECT role FROM admin_users WHERE id = $1 AND visible`

	var role models.Role
	err := s.pool.QueryRow(ctx, query, id).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load admin role: %w", err)
	}
	return role, true, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
