package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
)

var sqlOpen = sql.Open

type migrationStep struct {
	Name string
	SQL  string
}

// Every step is idempotent, so the whole list runs on each startup.
var steps = []migrationStep{
	{
		Name: "create_extension_pgcrypto",
		SQL:  `CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	},
	{
		Name: "create_table_units",
		SQL: `CREATE TABLE IF NOT EXISTS units (
  id              UUID             PRIMARY KEY DEFAULT gen_random_uuid(),
  title           TEXT             NOT NULL,
  type            TEXT             NOT NULL,
  category        TEXT             NOT NULL,
  description     TEXT             NOT NULL DEFAULT '',
  price           DOUBLE PRECISION NOT NULL CHECK (price >= 0),
  city            TEXT             NOT NULL,
  governorate     TEXT             NOT NULL,
  photos          JSONB            NOT NULL DEFAULT '[]',
  bedrooms        INT,
  bathrooms       INT,
  area            DOUBLE PRECISION,
  client_name     TEXT             NOT NULL DEFAULT '',
  client_phone    TEXT             NOT NULL DEFAULT '',
  from_broker     BOOLEAN          NOT NULL DEFAULT false,
  created_by      UUID             NOT NULL,
  created_by_name TEXT             NOT NULL DEFAULT '',
  shared_with     UUID[]           NOT NULL DEFAULT '{}',
  share_history   JSONB            NOT NULL DEFAULT '[]',
  created_at      TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_units_created_by",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_units_created_by ON units (created_by);`,
	},
	{
		Name: "create_index_units_shared_with",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_units_shared_with ON units USING GIN (shared_with);`,
	},
	{
		Name: "create_index_units_client_phone",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_units_client_phone ON units (client_phone);`,
	},
	{
		Name: "create_index_units_search",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_units_search ON units (type, category, governorate, city, price);`,
	},
	{
		Name: "create_table_leads",
		SQL: `CREATE TABLE IF NOT EXISTS leads (
  id              UUID        PRIMARY KEY DEFAULT gen_random_uuid(),
  name            TEXT        NOT NULL,
  email           TEXT        NOT NULL,
  phone           TEXT        NOT NULL,
  status          TEXT        NOT NULL DEFAULT 'New',
  created_by      UUID        NOT NULL,
  created_by_name TEXT        NOT NULL DEFAULT '',
  shared_with     UUID[]      NOT NULL DEFAULT '{}',
  share_history   JSONB       NOT NULL DEFAULT '[]',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_leads_created_by",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_leads_created_by ON leads (created_by);`,
	},
	{
		Name: "create_index_leads_shared_with",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_leads_shared_with ON leads USING GIN (shared_with);`,
	},
	{
		Name: "create_table_clients",
		SQL: `CREATE TABLE IF NOT EXISTS clients (
  id              TEXT        PRIMARY KEY,
  name            TEXT        NOT NULL,
  phone           TEXT        NOT NULL,
  created_by      UUID        NOT NULL,
  created_by_name TEXT        NOT NULL DEFAULT '',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_brokers",
		SQL: `CREATE TABLE IF NOT EXISTS brokers (
  id              TEXT        PRIMARY KEY,
  name            TEXT        NOT NULL,
  company         TEXT        NOT NULL DEFAULT 'Unknown',
  phone           TEXT        NOT NULL,
  created_by      UUID        NOT NULL,
  created_by_name TEXT        NOT NULL DEFAULT '',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_admin_users",
		SQL: `CREATE TABLE IF NOT EXISTS admin_users (
  id            UUID        PRIMARY KEY DEFAULT gen_random_uuid(),
  username      TEXT        NOT NULL,
  email         TEXT        NOT NULL,
  password_hash TEXT        NOT NULL,
  role          TEXT        NOT NULL DEFAULT 'admin',
  tasks         TEXT[]      NOT NULL DEFAULT '{}',
  visible       BOOLEAN     NOT NULL DEFAULT true,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_admin_users_email",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_admin_users_email ON admin_users (lower(email));`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY DEFAULT gen_random_uuid(),
  email         TEXT        NOT NULL,
  username      TEXT        NOT NULL,
  password_hash TEXT        NOT NULL,
  role          TEXT        NOT NULL DEFAULT 'user',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_users_email",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (lower(email));`,
	},
	{
		Name: "create_table_chats",
		SQL: `CREATE TABLE IF NOT EXISTS chats (
  id              TEXT        PRIMARY KEY,
  unit_id         UUID        NOT NULL,
  unit_title      TEXT        NOT NULL DEFAULT '',
  user_id         UUID        NOT NULL,
  user_name       TEXT        NOT NULL DEFAULT '',
  messages        JSONB       NOT NULL DEFAULT '[]',
  last_message_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  read_by_admin   BOOLEAN     NOT NULL DEFAULT false
);`,
	},
	{
		Name: "create_index_chats_last_message_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_chats_last_message_at ON chats (last_message_at DESC);`,
	},
}

// OpenSQL opens a database/sql handle through the pgx stdlib driver,
// wrapped by otelsql so migration statements show up in traces.
func OpenSQL(ctx context.Context, databaseURL string) (*sql.DB, error) {
	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	sqlDB, err := sqlOpen(driverName, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	sqlDB.SetMaxOpenConns(2)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return sqlDB, nil
}

// Migrate applies the schema steps in order and stops at the first failure.
func Migrate(ctx context.Context, sqlDB *sql.DB, logger *zap.Logger) error {
	start := time.Now()

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := sqlDB.ExecContext(ctx, step.SQL); err != nil {
			logger.Error("migration step failed",
				zap.String("step", step.Name),
				zap.Error(err),
			)
			return fmt.Errorf("migration step %s: %w", step.Name, err)
		}
		logger.Debug("migration step applied",
			zap.String("step", step.Name),
			zap.Duration("took", time.Since(stepStart)),
		)
	}

	logger.Info("schema migrated",
		zap.Int("steps", len(steps)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}
