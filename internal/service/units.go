package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/repository"
	"github.com/lalith-99/almoftah/internal/storage"
	"go.uber.org/zap"
)

// ListingCache caches public search pages. Implemented by cache.ListingCache.
// Set takes the key Get returned, not the filter.
type ListingCache interface {
	Get(ctx context.Context, f repository.UnitFilter) (units []models.PublicUnit, key string, hit bool, err error)
	Set(ctx context.Context, key string, units []models.PublicUnit) error
	Invalidate(ctx context.Context) error
}

// UnitInput is the editable part of a unit.
type UnitInput struct {
	Title       string              `validate:"required"`
	Type        models.UnitType     `validate:"oneof=Sale Rent"`
	Category    models.UnitCategory `validate:"oneof=Apartment Villa Office Land"`
	Description string              `validate:"required"`
	Price       float64             `validate:"gte=1"`
	City        string              `validate:"required"`
	Governorate string              `validate:"required"`
	Photos      []models.Photo      `validate:"min=1"`
	Bedrooms    *int                `validate:"omitempty,gte=0"`
	Bathrooms   *int                `validate:"omitempty,gte=0"`
	Area        *float64            `validate:"omitempty,gte=0"`
	ClientName  string              `validate:"required"`
	ClientPhone string              `validate:"required"`
	FromBroker  bool
}

func (in *UnitInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.City = strings.TrimSpace(in.City)
	in.Governorate = strings.TrimSpace(in.Governorate)
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.ClientPhone = strings.TrimSpace(in.ClientPhone)
}

func (in UnitInput) validate() error {
	return check(in)
}

func (in UnitInput) apply(u *models.Unit) {
	u.Title = in.Title
	u.Type = in.Type
	u.Category = in.Category
	u.Description = in.Description
	u.Price = in.Price
	u.City = in.City
	u.Governorate = in.Governorate
	u.Photos = in.Photos
	u.Bedrooms = in.Bedrooms
	u.Bathrooms = in.Bathrooms
	u.Area = in.Area
	u.ClientName = in.ClientName
	u.ClientPhone = in.ClientPhone
	u.FromBroker = in.FromBroker
}

// SearchParams are the raw public search query values. "all" and "" mean
// no filter on that field.
type SearchParams struct {
	Type        string
	Category    string
	Governorate string
	City        string
	MinPrice    string
	MaxPrice    string
}

func anyValue(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

func parsePrice(field, s string) (*float64, error) {
	s = anyValue(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return nil, invalid(field, "must be a non-negative number")
	}
	return &f, nil
}

// Filter normalizes the params into a repository filter.
func (p SearchParams) Filter() (repository.UnitFilter, error) {
	minPrice, err := parsePrice("minPrice", p.MinPrice)
	if err != nil {
		return repository.UnitFilter{}, err
	}
	maxPrice, err := parsePrice("maxPrice", p.MaxPrice)
	if err != nil {
		return repository.UnitFilter{}, err
	}

	return repository.UnitFilter{
		Type:        anyValue(p.Type),
		Category:    anyValue(p.Category),
		Governorate: anyValue(p.Governorate),
		City:        anyValue(p.City),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
	}, nil
}

type UnitService struct {
	units   repository.UnitRepository
	clients repository.ClientRepository
	brokers repository.BrokerRepository
	admins  repository.AdminRepository
	photos  storage.Storage
	cache   ListingCache
	logger  *zap.Logger
}

// NewUnitService wires the unit use cases. photos and cache may be nil.
func NewUnitService(
	units repository.UnitRepository,
	clients repository.ClientRepository,
	brokers repository.BrokerRepository,
	admins repository.AdminRepository,
	photos storage.Storage,
	cache ListingCache,
	logger *zap.Logger,
) *UnitService {
	return &UnitService{
		units:   units,
		clients: clients,
		brokers: brokers,
		admins:  admins,
		photos:  photos,
		cache:   cache,
		logger:  logger,
	}
}

func (s *UnitService) List(ctx context.Context, v access.Viewer) ([]models.Unit, error) {
	units, err := s.units.ListVisible(ctx, v)
	if err != nil {
		return nil, err
	}
	for i := range units {
		access.RedactUnit(v, &units[i])
	}
	return units, nil
}

// Get returns ErrNotFound both for missing units and for units outside the
// viewer's scope.
func (s *UnitService) Get(ctx context.Context, v access.Viewer, id uuid.UUID) (*models.Unit, error) {
	u, err := s.visible(ctx, v, id)
	if err != nil {
		return nil, err
	}
	access.RedactUnit(v, u)
	return u, nil
}

func (s *UnitService) visible(ctx context.Context, v access.Viewer, id uuid.UUID) (*models.Unit, error) {
	u, err := s.units.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || !access.CanViewShared(v, u.CreatedBy, u.SharedWith) {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *UnitService) Create(ctx context.Context, v access.Viewer, in UnitInput) (*models.Unit, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	u := &models.Unit{CreatedBy: v.ID, CreatedByName: v.Name}
	in.apply(u)

	created, err := s.units.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, created)
	access.RedactUnit(v, created)
	return created, nil
}

// Update edits a visible unit. createdBy and the sharing fields are kept.
func (s *UnitService) Update(ctx context.Context, v access.Viewer, id uuid.UUID, in UnitInput) (*models.Unit, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.visible(ctx, v, id)
	if err != nil {
		return nil, err
	}
	oldPhotos := existing.Photos

	in.apply(existing)
	updated, err := s.units.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.removePhotos(ctx, droppedPhotos(oldPhotos, updated.Photos))
	s.afterWrite(ctx, updated)
	access.RedactUnit(v, updated)
	return updated, nil
}

func (s *UnitService) Delete(ctx context.Context, v access.Viewer, id uuid.UUID) error {
	u, err := s.visible(ctx, v, id)
	if err != nil {
		return err
	}
	if err := s.units.Delete(ctx, id); err != nil {
		return err
	}

	s.removePhotos(ctx, u.Photos)
	s.invalidateListings(ctx)
	return nil
}

// Share grants targetID visibility into the unit and records the grant.
func (s *UnitService) Share(ctx context.Context, v access.Viewer, id, targetID uuid.UUID) (*models.Unit, error) {
	u, err := s.visible(ctx, v, id)
	if err != nil {
		return nil, err
	}

	rec, err := shareRecord(ctx, s.admins, v, u.SharedWith, targetID)
	if err != nil {
		return nil, err
	}

	added, err := s.units.AddShare(ctx, id, rec)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, ErrAlreadyShared
	}

	u.SharedWith = append(u.SharedWith, rec.ToID)
	u.ShareHistory = append(u.ShareHistory, rec)
	access.RedactUnit(v, u)
	return u, nil
}

// Search is the public listing query. Results are cached per filter.
func (s *UnitService) Search(ctx context.Context, p SearchParams) ([]models.PublicUnit, error) {
	f, err := p.Filter()
	if err != nil {
		return nil, err
	}

	var cacheKey string
	if s.cache != nil {
		cached, key, ok, err := s.cache.Get(ctx, f)
		switch {
		case err != nil:
			s.logger.Warn("listing cache read failed", zap.Error(err))
		case ok:
			return cached, nil
		default:
			cacheKey = key
		}
	}

	units, err := s.units.Search(ctx, f)
	if err != nil {
		return nil, err
	}

	public := make([]models.PublicUnit, 0, len(units))
	for i := range units {
		public = append(public, units[i].Public())
	}

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, public); err != nil {
			s.logger.Warn("listing cache write failed", zap.Error(err))
		}
	}
	return public, nil
}

func (s *UnitService) GetPublic(ctx context.Context, id uuid.UUID) (*models.PublicUnit, error) {
	u, err := s.units.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	p := u.Public()
	return &p, nil
}

// afterWrite records the unit's contact and drops cached listings. Both
// are best effort: the unit itself is already saved.
func (s *UnitService) afterWrite(ctx context.Context, u *models.Unit) {
	if err := s.upsertContact(ctx, u); err != nil {
		s.logger.Warn("contact upsert from unit failed",
			zap.String("unit_id", u.ID.String()),
			zap.Error(err),
		)
	}
	s.invalidateListings(ctx)
}

func (s *UnitService) upsertContact(ctx context.Context, u *models.Unit) error {
	if u.ClientName == "" || u.ClientPhone == "" {
		return nil
	}
	id := phoneDigits(u.ClientPhone)
	if id == "" {
		return nil
	}

	if u.FromBroker {
		_, err := s.brokers.EnsureFromUnit(ctx, &models.Broker{
			ID:            id,
			Name:          u.ClientName,
			Phone:         u.ClientPhone,
			CreatedBy:     u.CreatedBy,
			CreatedByName: u.CreatedByName,
		})
		if err != nil {
			return fmt.Errorf("ensure broker: %w", err)
		}
		return nil
	}

	_, err := s.clients.Upsert(ctx, &models.Client{
		ID:            id,
		Name:          u.ClientName,
		Phone:         u.ClientPhone,
		CreatedBy:     u.CreatedBy,
		CreatedByName: u.CreatedByName,
	})
	if err != nil {
		return fmt.Errorf("upsert client: %w", err)
	}
	return nil
}

func (s *UnitService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("listing cache invalidation failed", zap.Error(err))
	}
}

func (s *UnitService) removePhotos(ctx context.Context, photos []models.Photo) {
	if s.photos == nil {
		return
	}
	for _, p := range photos {
		if !IsStoredPhotoKey(p.ID) {
			continue
		}
		if err := s.photos.Delete(ctx, p.ID); err != nil {
			s.logger.Warn("photo cleanup failed", zap.String("key", p.ID), zap.Error(err))
		}
	}
}

// droppedPhotos returns photos in before that are missing from after.
func droppedPhotos(before, after []models.Photo) []models.Photo {
	keep := make(map[string]bool, len(after))
	for _, p := range after {
		keep[p.ID] = true
	}
	var dropped []models.Photo
	for _, p := range before {
		if !keep[p.ID] {
			dropped = append(dropped, p)
		}
	}
	return dropped
}
