package ports

import (
	"context"

	"github.com/monochrome/services-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.
// Role is deliberately absent: every self-registered account is a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult pairs the account with a freshly issued bearer token.
type AuthResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, identity *domain.Identity) (*domain.User, error)
}
