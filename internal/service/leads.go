package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/repository"
)

type LeadInput struct {
	Name   string            `validate:"required"`
	Email  string            `validate:"required,email"`
	Phone  string            `validate:"required"`
	Status models.LeadStatus `validate:"oneof=New Contacted Qualified Lost"`
}

func (in *LeadInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Status == "" {
		in.Status = models.LeadNew
	}
}

func (in LeadInput) validate() error {
	return check(in)
}

type leadFilter struct {
	Status models.LeadStatus `validate:"omitempty,oneof=New Contacted Qualified Lost"`
}

type LeadService struct {
	leads  repository.LeadRepository
	admins repository.AdminRepository
}

func NewLeadService(leads repository.LeadRepository, admins repository.AdminRepository) *LeadService {
	return &LeadService{leads: leads, admins: admins}
}

// List returns the viewer's leads. An empty status lists all.
func (s *LeadService) List(ctx context.Context, v access.Viewer, status models.LeadStatus) ([]models.Lead, error) {
	if err := check(leadFilter{Status: status}); err != nil {
		return nil, err
	}

	leads, err := s.leads.ListVisible(ctx, v, status)
	if err != nil {
		return nil, err
	}
	for i := range leads {
		access.RedactLead(v, &leads[i])
	}
	return leads, nil
}

func (s *LeadService) Get(ctx context.Context, v access.Viewer, id uuid.UUID) (*models.Lead, error) {
	l, err := s.visible(ctx, v, id)
	if err != nil {
		return nil, err
	}
	access.RedactLead(v, l)
	return l, nil
}

func (s *LeadService) visible(ctx context.Context, v access.Viewer, id uuid.UUID) (*models.Lead, error) {
	l, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil || !access.CanViewShared(v, l.CreatedBy, l.SharedWith) {
		return nil, ErrNotFound
	}
	return l, nil
}

func (s *LeadService) Create(ctx context.Context, v access.Viewer, in LeadInput) (*models.Lead, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	created, err := s.leads.Create(ctx, &models.Lead{
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Status:        in.Status,
		CreatedBy:     v.ID,
		CreatedByName: v.Name,
	})
	if err != nil {
		return nil, err
	}
	access.RedactLead(v, created)
	return created, nil
}

func (s *LeadService) Update(ctx context.Context, v access.Viewer, id uuid.UUID, in LeadInput) (*models.Lead, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	l, err := s.visible(ctx, v, id)
	if err != nil {
		return nil, err
	}
	l.Name, l.Email, l.Phone, l.Status = in.Name, in.Email, in.Phone, in.Status

	updated, err := s.leads.Update(ctx, l)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	access.RedactLead(v, updated)
	return updated, nil
}

func (s *LeadService) Delete(ctx context.Context, v access.Viewer, id uuid.UUID) error {
	if _, err := s.visible(ctx, v, id); err != nil {
		return err
	}
	return s.leads.Delete(ctx, id)
}

func (s *LeadService) Share(ctx context.Context, v access.Viewer, id, targetID uuid.UUID) (*models.Lead, error) {
	l, err := s.visible(ctx, v, id)
	if err != nil {
		return nil, err
	}

	rec, err := shareRecord(ctx, s.admins, v, l.SharedWith, targetID)
	if err != nil {
		return nil, err
	}

	added, err := s.leads.AddShare(ctx, id, rec)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, ErrAlreadyShared
	}

	l.SharedWith = append(l.SharedWith, rec.ToID)
	l.ShareHistory = append(l.ShareHistory, rec)
	access.RedactLead(v, l)
	return l, nil
}
