package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/monochrome/services-api/internal/core/domain"
)

const identityKey = "identity"

var (
	errMalformedHeader = fmt.Errorf("%w: malformed authorization header", domain.ErrUnauthorized)
	errBadToken        = fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	errUnknownUser     = fmt.Errorf("%w: user not found", domain.ErrUnauthorized)
	errUnknownRole     = fmt.Errorf("%w: unknown role", domain.ErrUnauthorized)
)

// TokenVerifier is satisfied by *token.Manager.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserFinder is satisfied by the user repository.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Authenticator resolves bearer tokens into identities. It is shared by the
// mandatory and optional middleware so both verify tokens the same way.
type Authenticator struct {
	tokens TokenVerifier
	users  UserFinder
	log    zerolog.Logger
}

func NewAuthenticator(tokens TokenVerifier, users UserFinder, log zerolog.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, log: log}
}

// Resolve returns (nil, nil) when the request carries no Authorization
// header. Every other failure wraps domain.ErrUnauthorized.
func (a *Authenticator) Resolve(r *http.Request) (*domain.Identity, error) {
	header := r.Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return nil, nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, errMalformedHeader
	}

	userID, err := a.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, errBadToken
	}

	user, err := a.users.FindByID(r.Context(), userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, errUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if !user.Role.IsValid() {
		a.log.Warn().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("account has unknown role")
		return nil, errUnknownRole
	}
	return user.Identity(), nil
}

// RequireIdentity rejects the request with 401 unless a valid bearer token
// for an existing user is present.
func (a *Authenticator) RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := a.Resolve(c.Request())
			switch {
			case errors.Is(err, errUnknownUser):
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
			case errors.Is(err, domain.ErrUnauthorized), err == nil && id == nil:
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized to access this route")
			case err != nil:
				return err
			}
			SetIdentity(c, id)
			return next(c)
		}
	}
}

// AttachIdentityIfPresent never rejects. A valid token attaches its identity;
// a missing, malformed or stale one leaves the request anonymous.
func (a *Authenticator) AttachIdentityIfPresent() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := a.Resolve(c.Request())
			if err != nil {
				a.log.Debug().Err(err).Str("path", c.Path()).Msg("optional auth ignored")
			}
			if id != nil {
				SetIdentity(c, id)
			}
			return next(c)
		}
	}
}

// SetIdentity attaches id to the request context.
func SetIdentity(c echo.Context, id *domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity attached by either middleware, or nil.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(identityKey).(*domain.Identity)
	return id
}
