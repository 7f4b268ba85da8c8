package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/auth"
	"github.com/lalith-99/almoftah/internal/config"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/repository"
	"go.uber.org/zap"
)

// BootstrapTasks are assigned to the bootstrap superadmin when it is first
// created.
var BootstrapTasks = []string{"Manage Team Members", "Oversee Listings"}

const minPasswordLen = 6

// AdminInput is the superadmin form for a staff account. Password is
// required on create and optional on update.
type AdminInput struct {
	Username string      `validate:"min=3"`
	Email    string      `validate:"required,email"`
	Password string      `validate:"omitempty,min=6"`
	Role     models.Role `validate:"oneof=admin superadmin"`
	Tasks    []string
	Visible  *bool
}

func (in *AdminInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = models.RoleAdmin
	}
	tasks := make([]string, 0, len(in.Tasks))
	for _, t := range in.Tasks {
		if t = strings.TrimSpace(t); t != "" {
			tasks = append(tasks, t)
		}
	}
	in.Tasks = tasks
}

func (in AdminInput) validate(creating bool) error {
	if creating && in.Password == "" {
		return invalid("password", "is required")
	}
	return check(in)
}

type AdminService struct {
	admins         repository.AdminRepository
	users          repository.UserRepository
	bootstrapEmail string
	logger         *zap.Logger
}

func NewAdminService(admins repository.AdminRepository, users repository.UserRepository, bootstrapEmail string, logger *zap.Logger) *AdminService {
	return &AdminService{
		admins:         admins,
		users:          users,
		bootstrapEmail: strings.TrimSpace(bootstrapEmail),
		logger:         logger,
	}
}

func (s *AdminService) isBootstrap(a *models.AdminUser) bool {
	return s.bootstrapEmail != "" && strings.EqualFold(a.Email, s.bootstrapEmail)
}

// List returns every admin account.
func (s *AdminService) List(ctx context.Context) ([]models.AdminUser, error) {
	return s.admins.List(ctx)
}

// Team returns the active admins the viewer can share records with.
func (s *AdminService) Team(ctx context.Context, v access.Viewer) ([]models.AdminUser, error) {
	admins, err := s.admins.ListVisible(ctx)
	if err != nil {
		return nil, err
	}
	team := make([]models.AdminUser, 0, len(admins))
	for _, a := range admins {
		if a.ID != v.ID {
			team = append(team, a)
		}
	}
	return team, nil
}

// Profile returns the caller's own admin record.
func (s *AdminService) Profile(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	a, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *AdminService) Create(ctx context.Context, in AdminInput) (*models.AdminUser, error) {
	in.normalize()
	if err := in.validate(true); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, in.Email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	visible := true
	if in.Visible != nil {
		visible = *in.Visible
	}

	return s.admins.Create(ctx, &models.AdminUser{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Tasks:        in.Tasks,
		Visible:      visible,
	})
}

func (s *AdminService) Update(ctx context.Context, v access.Viewer, id uuid.UUID, in AdminInput) (*models.AdminUser, error) {
	in.normalize()
	if err := in.validate(false); err != nil {
		return nil, err
	}

	a, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	if s.isBootstrap(a) && (in.Role != models.RoleSuperadmin || !strings.EqualFold(in.Email, a.Email)) {
		return nil, ErrProtected
	}
	if id == v.ID && in.Role != models.RoleSuperadmin {
		return nil, ErrSelfAction
	}
	if in.Visible != nil {
		if err := s.checkVisibility(v, a, *in.Visible); err != nil {
			return nil, err
		}
	}
	if !strings.EqualFold(in.Email, a.Email) {
		if err := s.ensureEmailFree(ctx, in.Email, id); err != nil {
			return nil, err
		}
	}

	a.Username, a.Email, a.Role, a.Tasks = in.Username, in.Email, in.Role, in.Tasks
	a.PasswordHash = ""
	if in.Password != "" {
		if a.PasswordHash, err = auth.HashPassword(in.Password); err != nil {
			return nil, err
		}
	}

	updated, err := s.admins.Update(ctx, a)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	if in.Visible != nil && *in.Visible != updated.Visible {
		if err := s.admins.SetVisible(ctx, id, *in.Visible); err != nil {
			return nil, err
		}
		updated.Visible = *in.Visible
	}
	return updated, nil
}

// SetVisible suspends or restores an admin. Suspended admins cannot log in
// and are rejected by the admin gate on their next request.
func (s *AdminService) SetVisible(ctx context.Context, v access.Viewer, id uuid.UUID, visible bool) error {
	a, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrNotFound
	}
	if err := s.checkVisibility(v, a, visible); err != nil {
		return err
	}
	return s.admins.SetVisible(ctx, id, visible)
}

// checkVisibility guards suspension: nobody suspends themselves or the
// bootstrap account. Restoring is always allowed.
func (s *AdminService) checkVisibility(v access.Viewer, a *models.AdminUser, visible bool) error {
	if visible {
		return nil
	}
	if a.ID == v.ID {
		return ErrSelfAction
	}
	if s.isBootstrap(a) {
		return ErrProtected
	}
	return nil
}

func (s *AdminService) Delete(ctx context.Context, v access.Viewer, id uuid.UUID) error {
	if id == v.ID {
		return ErrSelfAction
	}

	a, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrNotFound
	}
	if s.isBootstrap(a) {
		return ErrProtected
	}
	return s.admins.Delete(ctx, id)
}

// EnsureBootstrap makes sure the configured bootstrap account exists as a
// visible superadmin. A missing account is created with cfg.Password; an
// existing one is promoted and un-suspended without touching its password.
func (s *AdminService) EnsureBootstrap(ctx context.Context, cfg config.BootstrapConfig) (*models.AdminUser, error) {
	email := strings.TrimSpace(cfg.Email)
	if email == "" {
		return nil, nil
	}

	existing, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up bootstrap admin: %w", err)
	}

	if existing == nil {
		if len(cfg.Password) < minPasswordLen {
			return nil, fmt.Errorf("bootstrap admin %s does not exist and BOOTSTRAP_ADMIN_PASSWORD is missing or too short", email)
		}
		hash, err := auth.HashPassword(cfg.Password)
		if err != nil {
			return nil, err
		}
		created, err := s.admins.Create(ctx, &models.AdminUser{
			Username:     cfg.Username,
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleSuperadmin,
			Tasks:        BootstrapTasks,
			Visible:      true,
		})
		if err != nil {
			return nil, fmt.Errorf("create bootstrap admin: %w", err)
		}
		s.logger.Info("bootstrap superadmin created", zap.String("email", email))
		return created, nil
	}

	if existing.Role != models.RoleSuperadmin {
		existing.Role = models.RoleSuperadmin
		existing.PasswordHash = ""
		promoted, err := s.admins.Update(ctx, existing)
		if err != nil {
			return nil, fmt.Errorf("promote bootstrap admin: %w", err)
		}
		if promoted != nil {
			existing = promoted
		}
	}
	if !existing.Visible {
		if err := s.admins.SetVisible(ctx, existing.ID, true); err != nil {
			return nil, fmt.Errorf("restore bootstrap admin: %w", err)
		}
		existing.Visible = true
	}
	return existing, nil
}

// ensureEmailFree checks both account tables. self is the admin being
// edited, if any.
func (s *AdminService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	return emailFree(ctx, s.admins, s.users, email, self)
}

func emailFree(ctx context.Context, admins repository.AdminRepository, users repository.UserRepository, email string, self uuid.UUID) error {
	a, err := admins.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if a != nil && a.ID != self {
		return ErrEmailTaken
	}

	u, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u != nil {
		return ErrEmailTaken
	}
	return nil
}
