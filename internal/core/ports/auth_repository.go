package ports

import (
	"context"

	"github.com/monochrome/services-api/internal/core/domain"
)

// UserRepository is the credential store. Emails are stored normalised and
// are unique; Create returns domain.ErrEmailTaken on collision.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
