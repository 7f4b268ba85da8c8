// Package access holds the visibility rules for CRM records.
//
// The same predicate exists twice: as a Go function for single-record
// checks, and as a SQL fragment for list queries. Tests keep the two in
// agreement.
package access

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/models"
)

// Viewer is the caller a query runs on behalf of.
type Viewer struct {
	ID   uuid.UUID
	Name string
	Role models.Role
}

func (v Viewer) IsSuperadmin() bool { return v.Role == models.RoleSuperadmin }

// CanViewShared is the rule for units and leads: superadmins see
// everything, admins see what they created or what was shared with them.
func CanViewShared(v Viewer, createdBy uuid.UUID, sharedWith []uuid.UUID) bool {
	switch v.Role {
	case models.RoleSuperadmin:
		return true
	case models.RoleAdmin:
		return createdBy == v.ID || slices.Contains(sharedWith, v.ID)
	default:
		return false
	}
}

// CanViewOwned is the rule for clients and brokers, which are never shared.
func CanViewOwned(v Viewer, createdBy uuid.UUID) bool {
	switch v.Role {
	case models.RoleSuperadmin:
		return true
	case models.RoleAdmin:
		return createdBy == v.ID
	default:
		return false
	}
}

// Scope is a WHERE fragment plus its positional arguments. An empty Clause
// means "no restriction".
type Scope struct {
	Clause string
	Args   []any
}

// SharedScope renders CanViewShared as SQL against created_by/shared_with.
// argPos is the placeholder number the fragment's first argument takes.
func SharedScope(v Viewer, argPos int) Scope {
	switch v.Role {
	case models.RoleSuperadmin:
		return Scope{}
	case models.RoleAdmin:
		return Scope{
			Clause: fmt.Sprintf("(created_by = $%d OR $%d = ANY(shared_with))", argPos, argPos),
			Args:   []any{v.ID},
		}
	default:
		return Scope{Clause: "FALSE"}
	}
}

// OwnedScope renders CanViewOwned as SQL against created_by.
func OwnedScope(v Viewer, argPos int) Scope {
	switch v.Role {
	case models.RoleSuperadmin:
		return Scope{}
	case models.RoleAdmin:
		return Scope{
			Clause: fmt.Sprintf("created_by = $%d", argPos),
			Args:   []any{v.ID},
		}
	default:
		return Scope{Clause: "FALSE"}
	}
}

// RedactUnit strips the share audit trail for anyone but a superadmin.
func RedactUnit(v Viewer, u *models.Unit) {
	if u != nil && !v.IsSuperadmin() {
		u.ShareHistory = nil
	}
}

// RedactLead strips the share audit trail for anyone but a superadmin.
func RedactLead(v Viewer, l *models.Lead) {
	if l != nil && !v.IsSuperadmin() {
		l.ShareHistory = nil
	}
}
