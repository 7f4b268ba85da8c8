package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/repository"
)

const unitColumns = `id, title, type, category, description, price, city, governorate,
	photos, bedrooms, bathrooms, area, client_name, client_phone, from_broker,
	created_by, created_by_name, shared_with, share_history, created_at, updated_at`

type UnitStore struct {
	pool DB
}

func NewUnitStore(pool DB) *UnitStore {
	return &UnitStore{pool: pool}
}

func scanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit
	err := row.Scan(
		&u.ID,
		&u.Title,
		&u.Type,
		&u.Category,
		&u.Description,
		&u.Price,
		&u.City,
		&u.Governorate,
		&u.Photos,
		&u.Bedrooms,
		&u.Bathrooms,
		&u.Area,
		&u.ClientName,
		&u.ClientPhone,
		&u.FromBroker,
		&u.CreatedBy,
		&u.CreatedByName,
		&u.SharedWith,
		&u.ShareHistory,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUnits(rows pgx.Rows) ([]models.Unit, error) {
	defer rows.Close()

	units := make([]models.Unit, 0)
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate units: %w", err)
	}
	return units, nil
}

func (s *UnitStore) Create(ctx context.Context, u *models.Unit) (*models.Unit, error) {
	query := `
		INSERT INTO units (title, type, category, description, price, city, governorate,
			photos, bedrooms, bathrooms, area, client_name, client_phone, from_broker,
			created_by, created_by_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + unitColumns

	created, err := scanUnit(s.pool.QueryRow(ctx, query,
		u.Title, u.Type, u.Category, u.Description, u.Price, u.City, u.Governorate,
		nonNilPhotos(u.Photos), u.Bedrooms, u.Bathrooms, u.Area,
		u.ClientName, u.ClientPhone, u.FromBroker,
		u.CreatedBy, u.CreatedByName,
	))
	if err != nil {
		return nil, fmt.Errorf("insert unit: %w", err)
	}
	return created, nil
}

func (s *UnitStore) Update(ctx context.Context, u *models.Unit) (*models.Unit, error) {
	query := `
		UPDATE units SET
			title = $2, type = $3, category = $4, description = $5, price = $6,
			city = $7, governorate = $8, photos = $9, bedrooms = $10, bathrooms = $11,
			area = $12, client_name = $13, client_phone = $14, from_broker = $15,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + unitColumns

	updated, err := scanUnit(s.pool.QueryRow(ctx, query,
		u.ID, u.Title, u.Type, u.Category, u.Description, u.Price, u.City, u.Governorate,
		nonNilPhotos(u.Photos), u.Bedrooms, u.Bathrooms, u.Area,
		u.ClientName, u.ClientPhone, u.FromBroker,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update unit: %w", err)
	}
	return updated, nil
}

func (s *UnitStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = $1`

	u, err := scanUnit(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return u, nil
}

func (s *UnitStore) ListVisible(ctx context.Context, viewer access.Viewer) ([]models.Unit, error) {
	scope := access.SharedScope(viewer, 1)
	query := `SELECT ` + unitColumns + ` FROM units` + where(scope.Clause) + ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, scope.Args...)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return collectUnits(rows)
}

func (s *UnitStore) ListByContactPhone(ctx context.Context, viewer access.Viewer, phone string) ([]models.Unit, error) {
	scope := access.OwnedScope(viewer, 2)
	query := `SELECT ` + unitColumns + ` FROM units` +
		where("client_phone = $1", scope.Clause) + ` ORDER BY created_at DESC`

	args := append([]any{phone}, scope.Args...)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list units by phone: %w", err)
	}
	return collectUnits(rows)
}

func (s *UnitStore) Search(ctx context.Context, f repository.UnitFilter) ([]models.Unit, error) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Governorate != "" {
		add("governorate = $%d", f.Governorate)
	}
	if f.City != "" {
		add("city = $%d", f.City)
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}

	query := `SELECT ` + unitColumns + ` FROM units` + where(conds...) + ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search units: %w", err)
	}
	return collectUnits(rows)
}

func (s *UnitStore) AddShare(ctx context.Context, id uuid.UUID, rec models.ShareRecord) (bool, error) {
	query := `
		UPDATE units SET
			shared_with = array_append(shared_with, $2),
			share_history = share_history || jsonb_build_array($3::jsonb),
			updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(shared_with))`

	tag, err := s.pool.Exec(ctx, query, id, rec.ToID, rec)
	if err != nil {
		return false, fmt.Errorf("share unit: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *UnitStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM units WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	return nil
}

func (s *UnitStore) Stats(ctx context.Context, viewer access.Viewer) (repository.UnitStats, error) {
	scope := access.SharedScope(viewer, 1)
	query := `SELECT count(*), COALESCE(sum(price), 0) FROM units` + where(scope.Clause)

	var st repository.UnitStats
	if err := s.pool.QueryRow(ctx, query, scope.Args...).Scan(&st.Count, &st.TotalValue); err != nil {
		return repository.UnitStats{}, fmt.Errorf("unit stats: %w", err)
	}
	return st, nil
}

// where joins the non-empty conditions with AND and prefixes WHERE.
func where(conds ...string) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		if c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

func nonNilPhotos(p []models.Photo) []models.Photo {
	if p == nil {
		return []models.Photo{}
	}
	return p
}
