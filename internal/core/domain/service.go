package domain

import (
	"strings"
	"time"
)

// Category is the fixed enumeration of catalog categories.
type Category string

const (
	CategoryDevelopment  Category = "development"
	CategoryDesign       Category = "design"
	CategorySecurity     Category = "security"
	CategoryOptimization Category = "optimization"
	CategoryConsulting   Category = "consulting"
	CategoryMaintenance  Category = "maintenance"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryDevelopment,
	CategoryDesign,
	CategorySecurity,
	CategoryOptimization,
	CategoryConsulting,
	CategoryMaintenance,
}

// IsValid reports whether c belongs to the catalog enumeration.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

const DefaultServiceImage = "/images/default-service.jpg"

// Service is a purchasable catalog entry.
type Service struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	FullDescription string    `json:"fullDescription"`
	Price           float64   `json:"price"`
	Category        Category  `json:"category"`
	DeliveryTime    string    `json:"deliveryTime"`
	Features        []string  `json:"features"`
	Tags            []string  `json:"tags"`
	Image           string    `json:"image"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Rename sets a new display name and re-derives the slug when the name
// actually changed. It reports whether the slug was regenerated.
func (s *Service) Rename(name string) bool {
	name = strings.TrimSpace(name)
	if name == s.Name {
		return false
	}
	s.Name = name
	s.Slug = Slugify(name)
	return true
}

// Slugify derives a URL-safe identifier from free text: it lowercases the
// input, collapses every run of characters outside [a-z0-9] into a single
// '-', and strips a leading or trailing '-'. Slugify(Slugify(x)) == Slugify(x).
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingSep := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
