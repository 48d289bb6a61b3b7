package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/monochrome/services-api/internal/core/domain"
	"github.com/monochrome/services-api/internal/core/ports"
)

const (
	maxServiceNameLength        = 100
	maxServiceDescriptionLength = 500
)

type CatalogService struct {
	repo ports.ServiceRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewCatalogService(repo ports.ServiceRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// List returns active services only; inactive entries remain reachable by id
// and slug.
func (s *CatalogService) List(ctx context.Context, filter ports.ServiceFilter) ([]*domain.Service, error) {
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, categoryError()
	}
	filter.ActiveOnly = true
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Service, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CatalogService) GetBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *CatalogService) Create(ctx context.Context, in ports.ServiceInput) (*domain.Service, error) {
	now := s.now()
	svc := &domain.Service{
		Name:            strings.TrimSpace(in.Name),
		Description:     strings.TrimSpace(in.Description),
		FullDescription: in.FullDescription,
		Price:           in.Price,
		Category:        in.Category,
		DeliveryTime:    strings.TrimSpace(in.DeliveryTime),
		Features:        nonNil(in.Features),
		Tags:            nonNil(in.Tags),
		Image:           in.Image,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	svc.Slug = domain.Slugify(svc.Name)
	if svc.Image == "" {
		svc.Image = domain.DefaultServiceImage
	}
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}
	if err := validateService(svc); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, svc)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("service_id", created.ID).Str("slug", created.Slug).Msg("service created")
	return created, nil
}

// Update applies patch to the stored service. The slug follows the name.
func (s *CatalogService) Update(ctx context.Context, id string, patch ports.ServicePatch) (*domain.Service, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		svc.Rename(*patch.Name)
	}
	if patch.Description != nil {
		svc.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.FullDescription != nil {
		svc.FullDescription = *patch.FullDescription
	}
	if patch.Price != nil {
		svc.Price = *patch.Price
	}
	if patch.Category != nil {
		svc.Category = *patch.Category
	}
	if patch.DeliveryTime != nil {
		svc.DeliveryTime = strings.TrimSpace(*patch.DeliveryTime)
	}
	if patch.Features != nil {
		svc.Features = nonNil(*patch.Features)
	}
	if patch.Tags != nil {
		svc.Tags = nonNil(*patch.Tags)
	}
	if patch.Image != nil {
		svc.Image = *patch.Image
	}
	if patch.IsActive != nil {
		svc.IsActive = *patch.IsActive
	}
	svc.UpdatedAt = s.now()

	if err := validateService(svc); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, err
	}
	s.log.Info().Str("service_id", svc.ID).Msg("service updated")
	return svc, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("service_id", id).Msg("service deleted")
	return nil
}

func validateService(svc *domain.Service) error {
	switch {
	case svc.Name == "":
		return domain.NewValidationError("name", "please add a service name")
	case utf8.RuneCountInString(svc.Name) > maxServiceNameLength:
		return domain.NewValidationError("name", "cannot be more than %d characters", maxServiceNameLength)
	case svc.Slug == "":
		return domain.NewValidationError("name", "must contain at least one letter or digit")
	case svc.Description == "":
		return domain.NewValidationError("description", "please add a description")
	case utf8.RuneCountInString(svc.Description) > maxServiceDescriptionLength:
		return domain.NewValidationError("description", "cannot be more than %d characters", maxServiceDescriptionLength)
	case strings.TrimSpace(svc.FullDescription) == "":
		return domain.NewValidationError("fullDescription", "please add a full description")
	case svc.Price < 0:
		return domain.NewValidationError("price", "cannot be negative")
	case !svc.Category.IsValid():
		return categoryError()
	case svc.DeliveryTime == "":
		return domain.NewValidationError("deliveryTime", "please add a delivery time")
	}
	return nil
}

func categoryError() error {
	return domain.NewValidationError("category", "must be one of: %s", domain.JoinValues(domain.Categories))
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
