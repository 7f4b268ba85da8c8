package service

import (
	"context"
	"strings"

	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/repository"
)

// ContactInput is the form for a client or broker. Company is ignored for
// clients.
type ContactInput struct {
	Name    string `validate:"required"`
	Phone   string `validate:"phonedigits"`
	Company string
}

func (in *ContactInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
}

func (in ContactInput) validate() error {
	return check(in)
}

// ContactService manages clients and brokers. Both are keyed by the digits
// of their phone number and are visible to their creator only (superadmins
// see all).
type ContactService struct {
	clients repository.ClientRepository
	brokers repository.BrokerRepository
	units   repository.UnitRepository
}

func NewContactService(clients repository.ClientRepository, brokers repository.BrokerRepository, units repository.UnitRepository) *ContactService {
	return &ContactService{clients: clients, brokers: brokers, units: units}
}

func (s *ContactService) ListClients(ctx context.Context, v access.Viewer, q string) ([]models.Client, error) {
	return s.clients.List(ctx, v, q)
}

func (s *ContactService) GetClient(ctx context.Context, v access.Viewer, id string) (*models.Client, error) {
	c, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || !access.CanViewOwned(v, c.CreatedBy) {
		return nil, ErrNotFound
	}
	return c, nil
}

// CreateClient saves a client under its phone digits. An existing record
// the viewer owns is updated; one owned by someone else is a conflict.
func (s *ContactService) CreateClient(ctx context.Context, v access.Viewer, in ContactInput) (*models.Client, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	id := phoneDigits(in.Phone)

	existing, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil && !access.CanViewOwned(v, existing.CreatedBy) {
		return nil, ErrContactExists
	}

	return s.clients.Upsert(ctx, &models.Client{
		ID:            id,
		Name:          in.Name,
		Phone:         in.Phone,
		CreatedBy:     v.ID,
		CreatedByName: v.Name,
	})
}

// UpdateClient edits name and phone. The id stays the one the record was
// created under.
func (s *ContactService) UpdateClient(ctx context.Context, v access.Viewer, id string, in ContactInput) (*models.Client, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	c, err := s.GetClient(ctx, v, id)
	if err != nil {
		return nil, err
	}
	c.Name, c.Phone = in.Name, in.Phone
	return s.clients.Upsert(ctx, c)
}

func (s *ContactService) DeleteClient(ctx context.Context, v access.Viewer, id string) error {
	if _, err := s.GetClient(ctx, v, id); err != nil {
		return err
	}
	return s.clients.Delete(ctx, id)
}

// ClientUnits lists the viewer's units whose client phone matches.
func (s *ContactService) ClientUnits(ctx context.Context, v access.Viewer, id string) ([]models.Unit, error) {
	c, err := s.GetClient(ctx, v, id)
	if err != nil {
		return nil, err
	}
	return s.linkedUnits(ctx, v, c.Phone)
}

func (s *ContactService) ListBrokers(ctx context.Context, v access.Viewer, q string) ([]models.Broker, error) {
	return s.brokers.List(ctx, v, q)
}

func (s *ContactService) GetBroker(ctx context.Context, v access.Viewer, id string) (*models.Broker, error) {
	b, err := s.brokers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil || !access.CanViewOwned(v, b.CreatedBy) {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *ContactService) CreateBroker(ctx context.Context, v access.Viewer, in ContactInput) (*models.Broker, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	id := phoneDigits(in.Phone)

	existing, err := s.brokers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil && !access.CanViewOwned(v, existing.CreatedBy) {
		return nil, ErrContactExists
	}

	company := in.Company
	if company == "" {
		company = models.DefaultBrokerCompany
	}

	return s.brokers.Upsert(ctx, &models.Broker{
		ID:            id,
		Name:          in.Name,
		Company:       company,
		Phone:         in.Phone,
		CreatedBy:     v.ID,
		CreatedByName: v.Name,
	})
}

func (s *ContactService) UpdateBroker(ctx context.Context, v access.Viewer, id string, in ContactInput) (*models.Broker, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	b, err := s.GetBroker(ctx, v, id)
	if err != nil {
		return nil, err
	}
	b.Name, b.Phone = in.Name, in.Phone
	if in.Company != "" {
		b.Company = in.Company
	}
	return s.brokers.Upsert(ctx, b)
}

func (s *ContactService) DeleteBroker(ctx context.Context, v access.Viewer, id string) error {
	if _, err := s.GetBroker(ctx, v, id); err != nil {
		return err
	}
	return s.brokers.Delete(ctx, id)
}

func (s *ContactService) BrokerUnits(ctx context.Context, v access.Viewer, id string) ([]models.Unit, error) {
	b, err := s.GetBroker(ctx, v, id)
	if err != nil {
		return nil, err
	}
	return s.linkedUnits(ctx, v, b.Phone)
}

func (s *ContactService) linkedUnits(ctx context.Context, v access.Viewer, phone string) ([]models.Unit, error) {
	units, err := s.units.ListByContactPhone(ctx, v, phone)
	if err != nil {
		return nil, err
	}
	for i := range units {
		access.RedactUnit(v, &units[i])
	}
	return units, nil
}
