package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/auth"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/repository"
)

type SignupInput struct {
	Email    string `validate:"required,email"`
	Username string `validate:"min=3"`
	Password string `validate:"min=6"`
}

// Session is returned by signup and login.
type Session struct {
	Token    string      `json:"token"`
	UserID   uuid.UUID   `json:"userId"`
	Role     models.Role `json:"role"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
}

// Profile is the caller as seen by GET /me. Tasks and Visible are only set
// for staff accounts.
type Profile struct {
	ID       uuid.UUID   `json:"id"`
	Email    string      `json:"email"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	Tasks    []string    `json:"tasks,omitempty"`
	Visible  *bool       `json:"visible,omitempty"`
}

type AuthService struct {
	admins    repository.AdminRepository
	users     repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(admins repository.AdminRepository, users repository.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		admins:    admins,
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// Signup registers a buyer account. Staff accounts are only created by a
// superadmin.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if err := check(in); err != nil {
		return nil, err
	}
	if err := emailFree(ctx, s.admins, s.users, in.Email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, &models.User{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	return s.issue(auth.Identity{UserID: u.ID, Role: u.Role, Username: u.Username, Email: u.Email})
}

// Login checks staff accounts first, then buyers. Unknown email and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	a, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if a != nil {
		if !auth.CheckPassword(a.PasswordHash, password) {
			return nil, ErrInvalidCredentials
		}
		if !a.Visible {
			return nil, ErrSuspended
		}
		return s.issue(auth.Identity{UserID: a.ID, Role: a.Role, Username: a.Username, Email: a.Email})
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(auth.Identity{UserID: u.ID, Role: u.Role, Username: u.Username, Email: u.Email})
}

// Me loads the caller's account from the table its role lives in.
func (s *AuthService) Me(ctx context.Context, id uuid.UUID, role models.Role) (*Profile, error) {
	if role.IsStaff() {
		a, err := s.admins.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, ErrNotFound
		}
		visible := a.Visible
		return &Profile{
			ID:       a.ID,
			Email:    a.Email,
			Username: a.Username,
			Role:     a.Role,
			Tasks:    a.Tasks,
			Visible:  &visible,
		}, nil
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return &Profile{ID: u.ID, Email: u.Email, Username: u.Username, Role: u.Role}, nil
}

func (s *AuthService) issue(id auth.Identity) (*Session, error) {
	token, err := auth.GenerateToken(id, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:    token,
		UserID:   id.UserID,
		Role:     id.Role,
		Username: id.Username,
		Email:    id.Email,
	}, nil
}
