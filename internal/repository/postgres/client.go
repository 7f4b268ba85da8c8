package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/models"
)

const clientColumns = `id, name, phone, created_by, created_by_name, created_at`

type ClientStore struct {
	pool DB
}

func NewClientStore(pool DB) *ClientStore {
	return &ClientStore{pool: pool}
}

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.CreatedBy, &c.CreatedByName, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ClientStore) Upsert(ctx context.Context, c *models.Client) (*models.Client, error) {
	query := `
		INSERT INTO clients (id, name, phone, created_by, created_by_name)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, phone = EXCLUDED.phone
		RETURNING ` + clientColumns

	saved, err := scanClient(s.pool.QueryRow(ctx, query, c.ID, c.Name, c.Phone, c.CreatedBy, c.CreatedByName))
	if err != nil {
		return nil, fmt.Errorf("upsert client: %w", err)
	}
	return saved, nil
}

func (s *ClientStore) GetByID(ctx context.Context, id string) (*models.Client, error) {
	c, err := scanClient(s.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (s *ClientStore) List(ctx context.Context, viewer access.Viewer, q string) ([]models.Client, error) {
	var args []any
	searchCond := ""
	if q = strings.TrimSpace(q); q != "" {
		args = append(args, likePattern(q))
		searchCond = "(name ILIKE $1 OR phone LIKE $1)"
	}
	scope := access.OwnedScope(viewer, len(args)+1)
	args = append(args, scope.Args...)

	query := `SELECT ` + clientColumns + ` FROM clients` + where(searchCond, scope.Clause) + ` ORDER BY name`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]models.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return clients, nil
}

func (s *ClientStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

func (s *ClientStore) Count(ctx context.Context, viewer access.Viewer) (int, error) {
	scope := access.OwnedScope(viewer, 1)

	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM clients`+where(scope.Clause), scope.Args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps q for a substring LIKE/ILIKE match, escaping wildcards.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
