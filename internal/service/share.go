package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/repository"
)

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

// shareRecord validates a share request and builds its audit entry.
//
// The target must be a visible admin other than the caller, and must not
// already be in sharedWith.
func shareRecord(ctx context.Context, admins repository.AdminRepository, v access.Viewer, sharedWith []uuid.UUID, targetID uuid.UUID) (models.ShareRecord, error) {
	if targetID == v.ID {
		return models.ShareRecord{}, ErrInvalidTarget
	}

	target, err := admins.GetByID(ctx, targetID)
	if err != nil {
		return models.ShareRecord{}, fmt.Errorf("load share target: %w", err)
	}
	if target == nil || !target.Visible || !target.Role.IsStaff() {
		return models.ShareRecord{}, ErrInvalidTarget
	}

	if slices.Contains(sharedWith, targetID) {
		return models.ShareRecord{}, ErrAlreadyShared
	}

	return models.ShareRecord{
		FromID:   v.ID,
		FromName: v.Name,
		ToID:     target.ID,
		ToName:   target.Username,
		At:       now(),
	}, nil
}

// phoneDigits derives a contact id from a phone number.
func phoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
