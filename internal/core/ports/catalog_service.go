package ports

import (
	"context"

	"github.com/monochrome/services-api/internal/core/domain"
)

// ServiceInput carries every field of a catalog entry on creation.
type ServiceInput struct {
	Name            string
	Description     string
	FullDescription string
	Price           float64
	Category        domain.Category
	DeliveryTime    string
	Features        []string
	Tags            []string
	Image           string
	IsActive        *bool
}

// ServicePatch is a partial update; nil fields are left untouched.
type ServicePatch struct {
	Name            *string
	Description     *string
	FullDescription *string
	Price           *float64
	Category        *domain.Category
	DeliveryTime    *string
	Features        *[]string
	Tags            *[]string
	Image           *string
	IsActive        *bool
}

type CatalogService interface {
	List(ctx context.Context, filter ServiceFilter) ([]*domain.Service, error)
	Get(ctx context.Context, id string) (*domain.Service, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Service, error)
	Create(ctx context.Context, input ServiceInput) (*domain.Service, error)
	Update(ctx context.Context, id string, patch ServicePatch) (*domain.Service, error)
	Delete(ctx context.Context, id string) error
}
