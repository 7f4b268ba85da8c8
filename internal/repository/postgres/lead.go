package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/repository"
)

const leadColumns = `id, name, email, phone, status, created_by, created_by_name,
	shared_with, share_history, created_at, updated_at`

type LeadStore struct {
	pool DB
}

func NewLeadStore(pool DB) *LeadStore {
	return &LeadStore{pool: pool}
}

func scanLead(row pgx.Row) (*models.Lead, error) {
	var l models.Lead
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Email,
		&l.Phone,
		&l.Status,
		&l.CreatedBy,
		&l.CreatedByName,
		&l.SharedWith,
		&l.ShareHistory,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *LeadStore) Create(ctx context.Context, l *models.Lead) (*models.Lead, error) {
	query := `
		INSERT INTO leads (name, email, phone, status, created_by, created_by_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + leadColumns

	created, err := scanLead(s.pool.QueryRow(ctx, query,
		l.Name, l.Email, l.Phone, l.Status, l.CreatedBy, l.CreatedByName,
	))
	if err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return created, nil
}

func (s *LeadStore) Update(ctx context.Context, l *models.Lead) (*models.Lead, error) {
	query := `
		UPDATE leads SET name = $2, email = $3, phone = $4, status = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	updated, err := scanLead(s.pool.QueryRow(ctx, query, l.ID, l.Name, l.Email, l.Phone, l.Status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return updated, nil
}

func (s *LeadStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	l, err := scanLead(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func (s *LeadStore) ListVisible(ctx context.Context, viewer access.Viewer, status models.LeadStatus) ([]models.Lead, error) {
	var args []any
	statusCond := ""
	if status != "" {
		args = append(args, status)
		statusCond = "status = $1"
	}
	scope := access.SharedScope(viewer, len(args)+1)
	args = append(args, scope.Args...)

	query := `SELECT ` + leadColumns + ` FROM leads` + where(statusCond, scope.Clause) + ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]models.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

func (s *LeadStore) AddShare(ctx context.Context, id uuid.UUID, rec models.ShareRecord) (bool, error) {
	query := `
		UPDATE leads SET
			shared_with = array_append(shared_with, $2),
			share_history = share_history || jsonb_build_array($3::jsonb),
			updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(shared_with))`

	tag, err := s.pool.Exec(ctx, query, id, rec.ToID, rec)
	if err != nil {
		return false, fmt.Errorf("share lead: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *LeadStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return nil
}

func (s *LeadStore) Stats(ctx context.Context, viewer access.Viewer) (repository.LeadStats, error) {
	scope := access.SharedScope(viewer, 1)
	query := `SELECT count(*), count(*) FILTER (WHERE status = 'New') FROM leads` + where(scope.Clause)

	var st repository.LeadStats
	if err := s.pool.QueryRow(ctx, query, scope.Args...).Scan(&st.Count, &st.NewCount); err != nil {
		return repository.LeadStats{}, fmt.Errorf("lead stats: %w", err)
	}
	return st, nil
}
