package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/monochrome/services-api/internal/core/domain"
	"github.com/monochrome/services-api/internal/core/ports"
)

const (
	defaultBookingPageSize = 10
	maxBookingPageSize     = 100
	maxBookingPage         = 100_000
	recentBookingsLimit    = 5
)

type BookingService struct {
	bookings    ports.BookingRepository
	services    ports.ServiceRepository
	users       ports.UserRepository
	idempotency ports.IdempotencyStore
	log         zerolog.Logger
	now         func() time.Time
}

// NewBookingService wires the booking use cases. idempotency may be nil, in
// which case Idempotency-Key headers are ignored.
func NewBookingService(
	bookings ports.BookingRepository,
	services ports.ServiceRepository,
	users ports.UserRepository,
	idempotency ports.IdempotencyStore,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings:    bookings,
		services:    services,
		users:       users,
		idempotency: idempotency,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create records a pending booking against an existing service. The service
// name and price are copied so later catalog edits leave the booking alone.
func (s *BookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*ports.CreateBookingResult, error) {
	if err := validateBooking(in); err != nil {
		return nil, err
	}

	idemKey := idempotencyKey(in)
	if existing := s.replay(ctx, idemKey, in); existing != nil {
		return &ports.CreateBookingResult{Booking: existing, AlreadyExisted: true}, nil
	}

	svc, err := s.services.FindByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	booking := domain.NewBooking(svc, in.Owner, in.Contact, s.now())
	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		s.log.Error().Err(err).Str("service_id", svc.ID).Msg("failed to create booking")
		return nil, err
	}

	if idemKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, idemKey, created.ID); err != nil {
			s.log.Warn().Err(err).Str("booking_id", created.ID).Msg("failed to remember idempotency key")
		}
	}

	ev := s.log.Info().Str("booking_id", created.ID).Str("service_id", svc.ID)
	if created.UserID != nil {
		ev = ev.Str("user_id", *created.UserID)
	}
	ev.Msg("booking created")
	return &ports.CreateBookingResult{Booking: created}, nil
}

// replay returns the booking an earlier identical request produced, if any.
// Store failures are logged and treated as a miss.
func (s *BookingService) replay(ctx context.Context, key string, in ports.CreateBookingInput) *domain.Booking {
	if key == "" || s.idempotency == nil {
		return nil
	}
	id, found, err := s.idempotency.Lookup(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}
	existing, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		s.log.Debug().Err(err).Str("booking_id", id).Msg("remembered booking is gone")
		return nil
	}
	if !sameRequester(existing, in) {
		s.log.Warn().Str("booking_id", id).Msg("idempotency key resolved to a foreign booking")
		return nil
	}
	s.log.Info().Str("booking_id", existing.ID).Msg("idempotent replay")
	return existing
}

// sameRequester reports whether b could have been produced by in.
func sameRequester(b *domain.Booking, in ports.CreateBookingInput) bool {
	if b.ServiceID != strings.TrimSpace(in.ServiceID) {
		return false
	}
	if in.Owner != nil {
		return b.IsOwnedBy(in.Owner)
	}
	return b.UserID == nil && b.Email == domain.NormalizeEmail(in.Contact.Email)
}

// idempotencyKey scopes the client's Idempotency-Key to the caller and the
// request body, so a key only ever replays a booking the same caller made
// with the same payload. Empty when the client sent no key.
func idempotencyKey(in ports.CreateBookingInput) string {
	if in.IdempotencyKey == "" {
		return ""
	}
	var owner string
	if in.Owner != nil {
		owner = in.Owner.ID
	}
	c := in.Contact
	h := sha256.New()
	for _, part := range []string{
		owner,
		strings.TrimSpace(in.ServiceID),
		domain.NormalizeEmail(c.Email),
		strings.TrimSpace(c.Name),
		strings.TrimSpace(c.Phone),
		strings.TrimSpace(c.Company),
		c.ProjectDescription,
		string(c.Budget),
		string(c.Timeline),
		in.IdempotencyKey,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func validateBooking(in ports.CreateBookingInput) error {
	c := in.Contact
	switch {
	case strings.TrimSpace(in.ServiceID) == "":
		return domain.NewValidationError("serviceId", "please select a service")
	case strings.TrimSpace(c.Name) == "":
		return domain.NewValidationError("name", "please add your name")
	case strings.TrimSpace(c.Email) == "":
		return domain.NewValidationError("email", "please add your email")
	case strings.TrimSpace(c.Phone) == "":
		return domain.NewValidationError("phone", "please add your phone number")
	case strings.TrimSpace(c.ProjectDescription) == "":
		return domain.NewValidationError("projectDescription", "please describe your project")
	case !c.Budget.IsValid():
		return domain.NewValidationError("budget", "must be one of: %s", domain.JoinValues(domain.Budgets))
	case !c.Timeline.IsValid():
		return domain.NewValidationError("timeline", "must be one of: %s", domain.JoinValues(domain.Timelines))
	}
	return nil
}

// List returns one page of bookings, newest first.
func (s *BookingService) List(ctx context.Context, filter ports.ListBookingsFilter) (*ports.BookingPage, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.NewValidationError("status", "must be one of: %s", domain.JoinValues(domain.BookingStatuses))
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultBookingPageSize
	}
	if filter.Limit > maxBookingPageSize {
		filter.Limit = maxBookingPageSize
	}
	if filter.Page > maxBookingPage {
		filter.Page = maxBookingPage
	}

	bookings, total, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	items, err := s.withServices(ctx, bookings)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return &ports.BookingPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
	}, nil
}

// Stats reports a count for every status, zeroes included.
func (s *BookingService) Stats(ctx context.Context) (*ports.BookingStats, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	stats := &ports.BookingStats{
		Pending:    counts[domain.BookingPending],
		Contacted:  counts[domain.BookingContacted],
		InProgress: counts[domain.BookingInProgress],
		Completed:  counts[domain.BookingCompleted],
		Cancelled:  counts[domain.BookingCancelled],
	}
	for _, st := range domain.BookingStatuses {
		stats.Total += counts[st]
	}

	recent, err := s.bookings.Recent(ctx, recentBookingsLimit)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	if stats.Recent, err = s.withServices(ctx, recent); err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	return stats, nil
}

// ListMine returns the caller's bookings, including anonymous ones placed
// with the caller's email.
func (s *BookingService) ListMine(ctx context.Context, identity *domain.Identity) ([]*ports.BookingDetail, error) {
	if identity == nil {
		return nil, domain.ErrUnauthorized
	}
	bookings, err := s.bookings.ListForCustomer(ctx, identity.ID, domain.NormalizeEmail(identity.Email))
	if err != nil {
		return nil, err
	}
	return s.withServices(ctx, bookings)
}

// withServices attaches the live service to each booking with one lookup.
func (s *BookingService) withServices(ctx context.Context, bookings []*domain.Booking) ([]*ports.BookingDetail, error) {
	ids := make([]string, 0, len(bookings))
	seen := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if !seen[b.ServiceID] {
			seen[b.ServiceID] = true
			ids = append(ids, b.ServiceID)
		}
	}

	services, err := s.services.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*ports.BookingDetail, len(bookings))
	for i, b := range bookings {
		out[i] = &ports.BookingDetail{Booking: b, Service: services[b.ServiceID]}
	}
	return out, nil
}

// Get attaches the live service and the owner. Either may have been deleted
// since the booking was placed; the booking is returned regardless.
func (s *BookingService) Get(ctx context.Context, id string) (*ports.BookingDetail, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &ports.BookingDetail{Booking: b}

	svc, err := s.services.FindByID(ctx, b.ServiceID)
	switch {
	case err == nil:
		detail.Service = svc
	case !errors.Is(err, domain.ErrServiceNotFound):
		return nil, fmt.Errorf("get booking: %w", err)
	}

	if b.UserID != nil {
		u, err := s.users.FindByID(ctx, *b.UserID)
		switch {
		case err == nil:
			detail.Owner = &ports.OwnerSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		case !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("get booking: %w", err)
		}
	}
	return detail, nil
}

// Update applies an admin edit. Any status may follow any other.
func (s *BookingService) Update(ctx context.Context, id string, update domain.BookingUpdate, actor *domain.Identity) (*domain.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var actorID string
	if actor != nil {
		actorID = actor.ID
	}
	previous := b.Status
	before := len(b.StatusHistory)
	if err := b.Apply(update, actorID, s.now()); err != nil {
		return nil, err
	}
	appended := b.StatusHistory[before:]

	if err := s.bookings.Update(ctx, b, appended); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("booking_id", b.ID).
		Str("from", string(previous)).
		Str("to", string(b.Status)).
		Str("actor", actorID).
		Msg("booking updated")
	return b, nil
}

func (s *BookingService) Delete(ctx context.Context, id string) error {
	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("booking_id", id).Msg("booking deleted")
	return nil
}
