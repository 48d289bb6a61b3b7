package ports

import (
	"context"

	"github.com/monochrome/services-api/internal/core/domain"
)

// ListBookingsFilter carries the admin listing parameters.
type ListBookingsFilter struct {
	Status domain.BookingStatus // empty = any
	Page   int                  // 1-based
	Limit  int                  // capped at 100 by the service
}

// BookingRepository persists bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	// List returns a page of bookings, newest first, and the total match count.
	List(ctx context.Context, filter ListBookingsFilter) ([]*domain.Booking, int64, error)
	// ListForCustomer returns bookings owned by userID or placed with email.
	ListForCustomer(ctx context.Context, userID, email string) ([]*domain.Booking, error)
	// Update writes status, adminNotes and updatedAt, and appends history
	// entries newer than the stored ones.
	Update(ctx context.Context, b *domain.Booking, appended []domain.StatusChange) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error)
	Recent(ctx context.Context, limit int) ([]*domain.Booking, error)
}

// IdempotencyStore remembers which booking a client-supplied key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (bookingID string, found bool, err error)
	Remember(ctx context.Context, key, bookingID string) error
}
