package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/monochrome/services-api/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field names in messages follow the json tags, and the closed enumerations
// of the domain are available as the category, budget, timeline and
// bookingstatus tags.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	enums := map[string]func(string) bool{
		"category":      func(s string) bool { return domain.Category(s).IsValid() },
		"budget":        func(s string) bool { return domain.Budget(s).IsValid() },
		"timeline":      func(s string) bool { return domain.Timeline(s).IsValid() },
		// Empty means "leave the status as is" on updates.
		"bookingstatus": func(s string) bool { return s == "" || domain.BookingStatus(s).IsValid() },
	}
	for tag, valid := range enums {
		valid := valid
		// Registration only fails for empty tags or nil funcs.
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		})
	}

	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Failures are reported as a
// single domain.ValidationError so they render as 400.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return &domain.ValidationError{Message: strings.Join(msgs, "; ")}
		}
		return err
	}
	return nil
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot be more than %s characters", field, fe.Param())
	case "category":
		return fmt.Sprintf("%s must be one of: %s", field, domain.JoinValues(domain.Categories))
	case "budget":
		return fmt.Sprintf("%s must be one of: %s", field, domain.JoinValues(domain.Budgets))
	case "timeline":
		return fmt.Sprintf("%s must be one of: %s", field, domain.JoinValues(domain.Timelines))
	case "bookingstatus":
		return fmt.Sprintf("%s must be one of: %s", field, domain.JoinValues(domain.BookingStatuses))
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
