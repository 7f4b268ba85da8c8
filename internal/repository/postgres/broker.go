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

const brokerColumns = `id, name, company, phone, created_by, created_by_name, created_at`

type BrokerStore struct {
	pool DB
}

func NewBrokerStore(pool DB) *BrokerStore {
	return &BrokerStore{pool: pool}
}

func scanBroker(row pgx.Row) (*models.Broker, error) {
	var b models.Broker
	if err := row.Scan(&b.ID, &b.Name, &b.Company, &b.Phone, &b.CreatedBy, &b.CreatedByName, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BrokerStore) Upsert(ctx context.Context, b *models.Broker) (*models.Broker, error) {
	query := `
		INSERT INTO brokers (id, name, company, phone, created_by, created_by_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, company = EXCLUDED.company, phone = EXCLUDED.phone
		RETURNING ` + brokerColumns

	saved, err := scanBroker(s.pool.QueryRow(ctx, query,
		b.ID, b.Name, b.Company, b.Phone, b.CreatedBy, b.CreatedByName,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert broker: %w", err)
	}
	return saved, nil
}

func (s *BrokerStore) EnsureFromUnit(ctx context.Context, b *models.Broker) (*models.Broker, error) {
	query := `
		INSERT INTO brokers (id, name, company, phone, created_by, created_by_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, phone = EXCLUDED.phone
		RETURNING ` + brokerColumns

	saved, err := scanBroker(s.pool.QueryRow(ctx, query,
		b.ID, b.Name, models.DefaultBrokerCompany, b.Phone, b.CreatedBy, b.CreatedByName,
	))
	if err != nil {
		return nil, fmt.Errorf("ensure broker: %w", err)
	}
	return saved, nil
}

func (s *BrokerStore) GetByID(ctx context.Context, id string) (*models.Broker, error) {
	b, err := scanBroker(s.pool.QueryRow(ctx, `SELECT `+brokerColumns+` FROM brokers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get broker: %w", err)
	}
	return b, nil
}

func (s *BrokerStore) List(ctx context.Context, viewer access.Viewer, q string) ([]models.Broker, error) {
	var args []any
	searchCond := ""
	if q = strings.TrimSpace(q); q != "" {
		args = append(args, likePattern(q))
		searchCond = "(name ILIKE $1 OR company ILIKE $1 OR phone LIKE $1)"
	}
	scope := access.OwnedScope(viewer, len(args)+1)
	args = append(args, scope.Args...)

	query := `SELECT ` + brokerColumns + ` FROM brokers` + where(searchCond, scope.Clause) + ` ORDER BY name`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list brokers: %w", err)
	}
	defer rows.Close()

	brokers := make([]models.Broker, 0)
	for rows.Next() {
		b, err := scanBroker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan broker: %w", err)
		}
		brokers = append(brokers, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brokers: %w", err)
	}
	return brokers, nil
}

func (s *BrokerStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM brokers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete broker: %w", err)
	}
	return nil
}

func (s *BrokerStore) Count(ctx context.Context, viewer access.Viewer) (int, error) {
	scope := access.OwnedScope(viewer, 1)

	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM brokers`+where(scope.Clause), scope.Args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count brokers: %w", err)
	}
	return n, nil
}
