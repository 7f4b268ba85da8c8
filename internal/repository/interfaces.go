package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/models"
)

// Conventions shared by every store:
//   - ctx first; the request context cancels the query.
//   - single-row getters return nil, nil when the row does not exist.
//   - list methods return an empty slice, never nil, so JSON renders [].
//   - list methods that take an access.Viewer apply its scope in SQL.

// UnitFilter is the public listing search. Empty strings and nil bounds
// mean "any".
type UnitFilter struct {
	Type        string
	Category    string
	Governorate string
	City        string
	MinPrice    *float64
	MaxPrice    *float64
}

// UnitStats is the dashboard aggregate over a viewer's units.
type UnitStats struct {
	Count      int
	TotalValue float64
}

type UnitRepository interface {
	// Create inserts the unit and returns it with ID and timestamps set.
	Create(ctx context.Context, u *models.Unit) (*models.Unit, error)

	// Update overwrites the editable fields. Ownership and sharing columns
	// are never touched. Returns nil, nil if the unit is gone.
	Update(ctx context.Context, u *models.Unit) (*models.Unit, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)

	// ListVisible returns the viewer's units, newest first.
	ListVisible(ctx context.Context, viewer access.Viewer) ([]models.Unit, error)

	// ListByContactPhone returns units whose client phone matches, within
	// the viewer's owned scope.
	ListByContactPhone(ctx context.Context, viewer access.Viewer, phone string) ([]models.Unit, error)

	// Search runs the public listing filter across all units.
	Search(ctx context.Context, f UnitFilter) ([]models.Unit, error)

	// AddShare appends target to shared_with and rec to share_history in one
	// statement. It returns false when target was already in shared_with.
	AddShare(ctx context.Context, id uuid.UUID, rec models.ShareRecord) (bool, error)

	// Delete removes the unit. No-op if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	Stats(ctx context.Context, viewer access.Viewer) (UnitStats, error)
}

// LeadStats is the dashboard aggregate over a viewer's leads.
type LeadStats struct {
	Count    int
	NewCount int
}

type LeadRepository interface {
	Create(ctx context.Context, l *models.Lead) (*models.Lead, error)
	Update(ctx context.Context, l *models.Lead) (*models.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)

	// ListVisible returns the viewer's leads, newest first. An empty status
	// lists every status.
	ListVisible(ctx context.Context, viewer access.Viewer, status models.LeadStatus) ([]models.Lead, error)

	AddShare(ctx context.Context, id uuid.UUID, rec models.ShareRecord) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, viewer access.Viewer) (LeadStats, error)
}

type ClientRepository interface {
	// Upsert inserts the client or, when the phone-derived id exists,
	// updates name and phone. created_by is kept from the first insert.
	Upsert(ctx context.Context, c *models.Client) (*models.Client, error)

	GetByID(ctx context.Context, id string) (*models.Client, error)

	// List returns the viewer's clients, filtered by q on name
	// (case-insensitive) or phone substring.
	List(ctx context.Context, viewer access.Viewer, q string) ([]models.Client, error)

	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, viewer access.Viewer) (int, error)
}

type BrokerRepository interface {
	// Upsert inserts the broker or updates name, phone and company of an
	// existing one. created_by is kept from the first insert.
	Upsert(ctx context.Context, b *models.Broker) (*models.Broker, error)

	// EnsureFromUnit is Upsert for brokers discovered on a unit form: a new
	// broker gets company "Unknown", an existing one keeps its company.
	EnsureFromUnit(ctx context.Context, b *models.Broker) (*models.Broker, error)

	GetByID(ctx context.Context, id string) (*models.Broker, error)

	// List filters by q on name, company (case-insensitive) or phone.
	List(ctx context.Context, viewer access.Viewer, q string) ([]models.Broker, error)

	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, viewer access.Viewer) (int, error)
}

type AdminRepository interface {
	Create(ctx context.Context, a *models.AdminUser) (*models.AdminUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)

	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)

	// List returns every admin account, oldest first.
	List(ctx context.Context) ([]models.AdminUser, error)

	// ListVisible returns active admins, for share-target pickers.
	ListVisible(ctx context.Context) ([]models.AdminUser, error)

	// Update writes username, email, role and tasks, plus the password hash
	// when it is non-empty.
	Update(ctx context.Context, a *models.AdminUser) (*models.AdminUser, error)

	SetVisible(ctx context.Context, id uuid.UUID, visible bool) error
	Delete(ctx context.Context, id uuid.UUID) error

	// IsActive reports whether id is a visible staff account. Hot path:
	// checked on every admin request.
	IsActive(ctx context.Context, id uuid.UUID) (bool, error)

	// ActiveRole is IsActive plus the stored role, so a demotion applies
	// before the caller's token expires.
	ActiveRole(ctx context.Context, id uuid.UUID) (models.Role, bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type ChatRepository interface {
	GetByID(ctx context.Context, id string) (*models.Chat, error)

	// AppendMessage creates the chat from seed on first use, otherwise
	// appends msg to the stored array. lastMessageAt is set to the message
	// time and readByAdmin to readByAdmin. Returns the full document.
	AppendMessage(ctx context.Context, seed *models.Chat, msg models.ChatMessage, readByAdmin bool) (*models.Chat, error)

	// MarkRead sets readByAdmin. Returns nil, nil if the chat does not exist.
	MarkRead(ctx context.Context, id string) (*models.Chat, error)

	// ListInbox returns every chat, most recent activity first.
	ListInbox(ctx context.Context) ([]models.Chat, error)
}
