package service

import (
	"context"

	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/repository"
)

// Dashboard is the admin landing page summary, computed over the viewer's
// scope.
type Dashboard struct {
	Units        int      `json:"units"`
	TotalValue   float64  `json:"totalValue"`
	Leads        int      `json:"leads"`
	NewLeads     int      `json:"newLeads"`
	Brokers      int      `json:"brokers"`
	Clients      int      `json:"clients"`
	Tasks        []string `json:"tasks"`
	IsSuperadmin bool     `json:"isSuperadmin"`
}

type DashboardService struct {
	units   repository.UnitRepository
	leads   repository.LeadRepository
	clients repository.ClientRepository
	brokers repository.BrokerRepository
	admins  repository.AdminRepository
}

func NewDashboardService(
	units repository.UnitRepository,
	leads repository.LeadRepository,
	clients repository.ClientRepository,
	brokers repository.BrokerRepository,
	admins repository.AdminRepository,
) *DashboardService {
	return &DashboardService{
		units:   units,
		leads:   leads,
		clients: clients,
		brokers: brokers,
		admins:  admins,
	}
}

func (s *DashboardService) Get(ctx context.Context, v access.Viewer) (*Dashboard, error) {
	us, err := s.units.Stats(ctx, v)
	if err != nil {
		return nil, err
	}
	ls, err := s.leads.Stats(ctx, v)
	if err != nil {
		return nil, err
	}
	clients, err := s.clients.Count(ctx, v)
	if err != nil {
		return nil, err
	}
	brokers, err := s.brokers.Count(ctx, v)
	if err != nil {
		return nil, err
	}

	tasks := []string{}
	a, err := s.admins.GetByID(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	if a != nil && a.Tasks != nil {
		tasks = a.Tasks
	}

	return &Dashboard{
		Units:        us.Count,
		TotalValue:   us.TotalValue,
		Leads:        ls.Count,
		NewLeads:     ls.NewCount,
		Brokers:      brokers,
		Clients:      clients,
		Tasks:        tasks,
		IsSuperadmin: v.IsSuperadmin(),
	}, nil
}
