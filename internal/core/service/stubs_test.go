package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/monochrome/services-api/internal/core/domain"
	"github.com/monochrome/services-api/internal/core/ports"
)

var errStoreDown = errors.New("store unavailable")

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

type stubServiceRepo struct {
	mu           sync.Mutex
	services     map[string]*domain.Service
	seq          int
	batchLookups int
}

func newStubServiceRepo() *stubServiceRepo {
	return &stubServiceRepo{services: make(map[string]*domain.Service)}
}

func cloneService(s *domain.Service) *domain.Service {
	clone := *s
	return &clone
}

func (r *stubServiceRepo) slugTaken(slug, exceptID string) bool {
	for id, s := range r.services {
		if s.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func (r *stubServiceRepo) Create(_ context.Context, svc *domain.Service) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slugTaken(svc.Slug, "") {
		return nil, domain.ErrSlugTaken
	}
	r.seq++
	copy := cloneService(svc)
	copy.ID = fmt.Sprintf("svc-%d", r.seq)
	r.services[copy.ID] = cloneService(copy)
	return copy, nil
}

func (r *stubServiceRepo) FindByID(_ context.Context, id string) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.services[id]; ok {
		return cloneService(s), nil
	}
	return nil, domain.ErrServiceNotFound
}

func (r *stubServiceRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchLookups++
	out := make(map[string]*domain.Service, len(ids))
	for _, id := range ids {
		if s, ok := r.services[id]; ok {
			out[id] = cloneService(s)
		}
	}
	return out, nil
}

func (r *stubServiceRepo) FindBySlug(_ context.Context, slug string) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.services {
		if s.Slug == slug {
			return cloneService(s), nil
		}
	}
	return nil, domain.ErrServiceNotFound
}

func (r *stubServiceRepo) List(_ context.Context, filter ports.ServiceFilter) ([]*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Service{}
	for _, s := range r.services {
		if filter.ActiveOnly && !s.IsActive {
			continue
		}
		if filter.Category != "" && s.Category != filter.Category {
			continue
		}
		out = append(out, cloneService(s))
	}
	switch filter.Sort {
	case ports.SortPriceAsc:
		sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case ports.SortPriceDesc:
		sort.Slice(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case ports.SortName:
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

func (r *stubServiceRepo) Update(_ context.Context, svc *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[svc.ID]; !ok {
		return domain.ErrServiceNotFound
	}
	if r.slugTaken(svc.Slug, svc.ID) {
		return domain.ErrSlugTaken
	}
	r.services[svc.ID] = cloneService(svc)
	return nil
}

func (r *stubServiceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[id]; !ok {
		return domain.ErrServiceNotFound
	}
	delete(r.services, id)
	return nil
}

type stubBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking
	order    []string
	seq      int
	appended [][]domain.StatusChange
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{bookings: make(map[string]*domain.Booking)}
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	clone := *b
	clone.StatusHistory = append([]domain.StatusChange(nil), b.StatusHistory...)
	return &clone
}

func (r *stubBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	copy := cloneBooking(b)
	copy.ID = fmt.Sprintf("bk-%d", r.seq)
	r.bookings[copy.ID] = cloneBooking(copy)
	r.order = append(r.order, copy.ID)
	return copy, nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		return cloneBooking(b), nil
	}
	return nil, domain.ErrBookingNotFound
}

// newestFirst walks insertion order backwards, skipping deleted ids.
func (r *stubBookingRepo) newestFirst() []*domain.Booking {
	out := []*domain.Booking{}
	for i := len(r.order) - 1; i >= 0; i-- {
		if b, ok := r.bookings[r.order[i]]; ok {
			out = append(out, cloneBooking(b))
		}
	}
	return out
}

func (r *stubBookingRepo) List(_ context.Context, filter ports.ListBookingsFilter) ([]*domain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := []*domain.Booking{}
	for _, b := range r.newestFirst() {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		matched = append(matched, b)
	}
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

func (r *stubBookingRepo) ListForCustomer(_ context.Context, userID, email string) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Booking{}
	for _, b := range r.newestFirst() {
		if (b.UserID != nil && *b.UserID == userID) || b.Email == email {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubBookingRepo) Update(_ context.Context, b *domain.Booking, appended []domain.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[b.ID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	stored.Status = b.Status
	stored.AdminNotes = b.AdminNotes
	stored.UpdatedAt = b.UpdatedAt
	stored.StatusHistory = append(stored.StatusHistory, appended...)
	r.appended = append(r.appended, appended)
	return nil
}

func (r *stubBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *stubBookingRepo) CountByStatus(_ context.Context) (map[domain.BookingStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[domain.BookingStatus]int64{}
	for _, b := range r.bookings {
		counts[b.Status]++
	}
	return counts, nil
}

func (r *stubBookingRepo) Recent(_ context.Context, limit int) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.newestFirst()
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type stubIdempotency struct {
	keys map[string]string
	err  error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Lookup(_ context.Context, key string) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	id, ok := s.keys[key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, key, bookingID string) error {
	if s.err != nil {
		return s.err
	}
	s.keys[key] = bookingID
	return nil
}
