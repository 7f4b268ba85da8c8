package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lalith-99/almoftah/internal/repository"
)

// DB is the part of *pgxpool.Pool the stores use. Tests pass a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Stores bundles one store per table over a shared pool.
type Stores struct {
	Units   *UnitStore
	Leads   *LeadStore
	Clients *ClientStore
	Brokers *BrokerStore
	Admins  *AdminStore
	Users   *UserStore
	Chats   *ChatStore
}

func NewStores(pool DB) *Stores {
	return &Stores{
		Units:   NewUnitStore(pool),
		Leads:   NewLeadStore(pool),
		Clients: NewClientStore(pool),
		Brokers: NewBrokerStore(pool),
		Admins:  NewAdminStore(pool),
		Users:   NewUserStore(pool),
		Chats:   NewChatStore(pool),
	}
}

var (
	_ repository.UnitRepository   = (*UnitStore)(nil)
	_ repository.LeadRepository   = (*LeadStore)(nil)
	_ repository.ClientRepository = (*ClientStore)(nil)
	_ repository.BrokerRepository = (*BrokerStore)(nil)
	_ repository.AdminRepository  = (*AdminStore)(nil)
	_ repository.UserRepository   = (*UserStore)(nil)
	_ repository.ChatRepository   = (*ChatStore)(nil)
)
