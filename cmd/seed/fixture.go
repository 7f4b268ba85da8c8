package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/repository"
	"github.com/lalith-99/almoftah/internal/service"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Fixture is the demo data set. Units and leads name their owner by email;
// the owner must be the bootstrap account or one of Admins.
type Fixture struct {
	Admins []AdminFixture `yaml:"admins"`
	Units  []UnitFixture  `yaml:"units"`
	Leads  []LeadFixture  `yaml:"leads"`
}

type AdminFixture struct {
	Username string   `yaml:"username"`
	Email    string   `yaml:"email"`
	Password string   `yaml:"password"`
	Role     string   `yaml:"role"`
	Tasks    []string `yaml:"tasks"`
}

type PhotoFixture struct {
	URL  string `yaml:"url"`
	Hint string `yaml:"hint"`
}

type UnitFixture struct {
	Owner       string         `yaml:"owner"`
	Title       string         `yaml:"title"`
	Type        string         `yaml:"type"`
	Category    string         `yaml:"category"`
	Description string         `yaml:"description"`
	Price       float64        `yaml:"price"`
	City        string         `yaml:"city"`
	Governorate string         `yaml:"governorate"`
	Bedrooms    *int           `yaml:"bedrooms"`
	Bathrooms   *int           `yaml:"bathrooms"`
	Area        *float64       `yaml:"area"`
	Photos      []PhotoFixture `yaml:"photos"`
	ClientName  string         `yaml:"clientName"`
	ClientPhone string         `yaml:"clientPhone"`
	FromBroker  bool           `yaml:"fromBroker"`
}

type LeadFixture struct {
	Owner  string `yaml:"owner"`
	Name   string `yaml:"name"`
	Email  string `yaml:"email"`
	Phone  string `yaml:"phone"`
	Status string `yaml:"status"`
}

func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

func (u UnitFixture) input() service.UnitInput {
	photos := make([]models.Photo, 0, len(u.Photos))
	for _, p := range u.Photos {
		photos = append(photos, models.Photo{ID: p.URL, URL: p.URL, Hint: p.Hint})
	}
	return service.UnitInput{
		Title:       u.Title,
		Type:        models.UnitType(u.Type),
		Category:    models.UnitCategory(u.Category),
		Description: u.Description,
		Price:       u.Price,
		City:        u.City,
		Governorate: u.Governorate,
		Photos:      photos,
		Bedrooms:    u.Bedrooms,
		Bathrooms:   u.Bathrooms,
		Area:        u.Area,
		ClientName:  u.ClientName,
		ClientPhone: u.ClientPhone,
		FromBroker:  u.FromBroker,
	}
}

// Seeder writes a Fixture through the services so every domain rule
// (validation, contact upsert, cache invalidation) applies to demo data.
type Seeder struct {
	Admins   repository.AdminRepository
	AdminSvc *service.AdminService
	Units    *service.UnitService
	Leads    *service.LeadService
	Logger   *zap.Logger
}

// Result counts what Apply wrote.
type Result struct {
	Admins int
	Units  int
	Leads  int
}

// Apply creates missing admins, then units and leads. Admins that already
// exist are left alone. Units and leads are always inserted, so records
// should only be seeded once per database.
func (s *Seeder) Apply(ctx context.Context, f *Fixture, withRecords bool) (Result, error) {
	var res Result

	for _, a := range f.Admins {
		_, err := s.AdminSvc.Create(ctx, service.AdminInput{
			Username: a.Username,
			Email:    a.Email,
			Password: a.Password,
			Role:     models.Role(a.Role),
			Tasks:    a.Tasks,
		})
		if errors.Is(err, service.ErrEmailTaken) {
			s.Logger.Info("admin exists, skipping", zap.String("email", a.Email))
			continue
		}
		if err != nil {
			return res, fmt.Errorf("create admin %s: %w", a.Email, err)
		}
		res.Admins++
	}

	if !withRecords {
		return res, nil
	}

	owners := map[string]access.Viewer{}
	owner := func(email string) (access.Viewer, error) {
		if v, ok := owners[email]; ok {
			return v, nil
		}
		a, err := s.Admins.GetByEmail(ctx, email)
		if err != nil {
			return access.Viewer{}, err
		}
		if a == nil {
			return access.Viewer{}, fmt.Errorf("owner %s is not an admin", email)
		}
		v := access.Viewer{ID: a.ID, Name: a.Username, Role: a.Role}
		owners[email] = v
		return v, nil
	}

	for _, u := range f.Units {
		v, err := owner(u.Owner)
		if err != nil {
			return res, fmt.Errorf("unit %q: %w", u.Title, err)
		}
		if _, err := s.Units.Create(ctx, v, u.input()); err != nil {
			return res, fmt.Errorf("unit %q: %w", u.Title, err)
		}
		res.Units++
	}

	for _, l := range f.Leads {
		v, err := owner(l.Owner)
		if err != nil {
			return res, fmt.Errorf("lead %q: %w", l.Name, err)
		}
		if _, err := s.Leads.Create(ctx, v, service.LeadInput{
			Name:   l.Name,
			Email:  l.Email,
			Phone:  l.Phone,
			Status: models.LeadStatus(l.Status),
		}); err != nil {
			return res, fmt.Errorf("lead %q: %w", l.Name, err)
		}
		res.Leads++
	}

	return res, nil
}
