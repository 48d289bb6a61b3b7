package ports

import (
	"context"

	"github.com/monochrome/services-api/internal/core/domain"
)

// ServiceSort selects the ordering of a catalog listing.
type ServiceSort string

const (
	SortNewest    ServiceSort = ""
	SortPriceAsc  ServiceSort = "price-asc"
	SortPriceDesc ServiceSort = "price-desc"
	SortName      ServiceSort = "name"
)

// ParseServiceSort maps unknown values to SortNewest.
func ParseServiceSort(raw string) ServiceSort {
	switch s := ServiceSort(raw); s {
	case SortPriceAsc, SortPriceDesc, SortName:
		return s
	default:
		return SortNewest
	}
}

// ServiceFilter carries the query parameters of the catalog listing.
type ServiceFilter struct {
	ActiveOnly bool
	Category   domain.Category // empty = any
	Search     string          // full-text over name, description and tags
	Sort       ServiceSort
}

// ServiceRepository persists the catalog. Create and Update return
// domain.ErrSlugTaken when the derived slug collides.
type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.Service) (*domain.Service, error)
	FindByID(ctx context.Context, id string) (*domain.Service, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Service, error)
	// FindByIDs returns the services that still exist, keyed by id. Unknown
	// and malformed ids are skipped.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Service, error)
	List(ctx context.Context, filter ServiceFilter) ([]*domain.Service, error)
	Update(ctx context.Context, svc *domain.Service) error
	Delete(ctx context.Context, id string) error
}
