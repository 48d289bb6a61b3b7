package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/monochrome/services-api/internal/api/handler"
	"github.com/monochrome/services-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors and hides their detail when production is set.
//   - Renders the failure envelope {"success": false, "message": ...}.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c, production)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, production bool) (int, handler.ErrorResponse) {
	fail := func(code int, msg string) (int, handler.ErrorResponse) {
		return code, handler.ErrorResponse{Success: false, Message: msg}
	}

	// Echo's own errors (404 from router, 429 from the limiter, middleware 401/403).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("http error")
		}
		return fail(he.Code, fmt.Sprintf("%v", he.Message))
	}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return fail(http.StatusBadRequest, ve.Error())
	case errors.Is(err, domain.ErrServiceNotFound):
		return fail(http.StatusNotFound, "Service not found")
	case errors.Is(err, domain.ErrBookingNotFound):
		return fail(http.StatusNotFound, "Booking not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return fail(http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fail(http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(http.StatusUnauthorized, "Not authorized to access this route")
	case errors.Is(err, domain.ErrForbidden):
		return fail(http.StatusForbidden, "Access forbidden")
	case errors.Is(err, domain.ErrEmailTaken):
		return fail(http.StatusConflict, "User already exists")
	case errors.Is(err, domain.ErrSlugTaken):
		return fail(http.StatusConflict, "A service with this name already exists")
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	code, body := fail(http.StatusInternalServerError, "Server Error")
	if !production {
		body.Error = err.Error()
	}
	return code, body
}
