package ports

import (
	"context"

	"github.com/monochrome/services-api/internal/core/domain"
)

// CreateBookingInput is the DTO passed from the transport layer to
// BookingService. Owner is nil for anonymous bookings.
type CreateBookingInput struct {
	ServiceID      string
	Contact        domain.BookingContact
	Owner          *domain.Identity
	IdempotencyKey string
}

// CreateBookingResult reports whether the booking was replayed from an
// earlier request with the same idempotency key.
type CreateBookingResult struct {
	Booking        *domain.Booking
	AlreadyExisted bool
}

// BookingPage is one page of the admin listing.
type BookingPage struct {
	Items      []*BookingDetail
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// BookingStats is the admin dashboard summary: one counter per status and
// the latest bookings.
type BookingStats struct {
	Total      int64            `json:"total"`
	Pending    int64            `json:"pending"`
	Contacted  int64            `json:"contacted"`
	InProgress int64            `json:"inProgress"`
	Completed  int64            `json:"completed"`
	Cancelled  int64            `json:"cancelled"`
	Recent     []*BookingDetail `json:"recent"`
}

// OwnerSummary is the public projection of a booking's owner.
type OwnerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BookingDetail is a booking with its live service attached and, on the
// single-booking view, its owner. Service is nil once the service is gone.
type BookingDetail struct {
	*domain.Booking
	Service *domain.Service `json:"service,omitempty"`
	Owner   *OwnerSummary   `json:"user,omitempty"`
}

type BookingService interface {
	Create(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error)
	List(ctx context.Context, filter ListBookingsFilter) (*BookingPage, error)
	Stats(ctx context.Context) (*BookingStats, error)
	ListMine(ctx context.Context, identity *domain.Identity) ([]*BookingDetail, error)
	Get(ctx context.Context, id string) (*BookingDetail, error)
	Update(ctx context.Context, id string, update domain.BookingUpdate, actor *domain.Identity) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
}
