package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/monochrome/services-api/internal/core/domain"
	"github.com/monochrome/services-api/internal/core/ports"
)

// memStore backs every repository port with plain maps so the router can be
// exercised end to end without MongoDB or Redis.
type memStore struct {
	mu       sync.Mutex
	seq      int
	users    map[string]domain.User
	services map[string]domain.Service
	bookings []*domain.Booking
	keys     map[string]string
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]domain.User{},
		services: map[string]domain.Service{},
		keys:     map[string]string{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	stored := *u
	stored.ID = r.nextID("user")
	r.users[stored.ID] = stored
	return &stored, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

type memServices struct{ *memStore }

func (r memServices) Create(_ context.Context, s *domain.Service) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.services {
		if existing.Slug == s.Slug {
			return nil, domain.ErrSlugTaken
		}
	}
	stored := *s
	stored.ID = r.nextID("svc")
	r.services[stored.ID] = stored
	return &stored, nil
}

func (r memServices) FindByID(_ context.Context, id string) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return &s, nil
}

func (r memServices) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*domain.Service, len(ids))
	for _, id := range ids {
		if s, ok := r.services[id]; ok {
			out[id] = &s
		}
	}
	return out, nil
}

func (r memServices) FindBySlug(_ context.Context, slug string) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.services {
		if s.Slug == slug {
			return &s, nil
		}
	}
	return nil, domain.ErrServiceNotFound
}

func (r memServices) List(_ context.Context, f ports.ServiceFilter) ([]*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Service
	for _, s := range r.services {
		s := s
		if f.ActiveOnly && !s.IsActive {
			continue
		}
		if f.Category != "" && s.Category != f.Category {
			continue
		}
		out = append(out, &s)
	}
	return out, nil
}

func (r memServices) Update(_ context.Context, s *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[s.ID]; !ok {
		return domain.ErrServiceNotFound
	}
	r.services[s.ID] = *s
	return nil
}

func (r memServices) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[id]; !ok {
		return domain.ErrServiceNotFound
	}
	delete(r.services, id)
	return nil
}

type memBookings struct{ *memStore }

func (r memBookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *b
	stored.ID = r.nextID("bk")
	r.bookings = append(r.bookings, &stored)
	out := stored
	return &out, nil
}

func (r memBookings) find(id string) (int, bool) {
	for i, b := range r.bookings {
		if b.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (r memBookings) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.find(id)
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	out := *r.bookings[i]
	out.StatusHistory = append([]domain.StatusChange(nil), out.StatusHistory...)
	return &out, nil
}

func (r memBookings) List(_ context.Context, f ports.ListBookingsFilter) ([]*domain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Booking
	for i := len(r.bookings) - 1; i >= 0; i-- {
		if f.Status == "" || r.bookings[i].Status == f.Status {
			matched = append(matched, r.bookings[i])
		}
	}
	total := int64(len(matched))
	start := min((f.Page-1)*f.Limit, len(matched))
	end := min(start+f.Limit, len(matched))
	return matched[start:end], total, nil
}

func (r memBookings) ListForCustomer(_ context.Context, userID, email string) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Booking
	for _, b := range r.bookings {
		if (b.UserID != nil && *b.UserID == userID) || b.Email == email {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r memBookings) Update(_ context.Context, b *domain.Booking, appended []domain.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.find(b.ID)
	if !ok {
		return domain.ErrBookingNotFound
	}
	stored := r.bookings[i]
	stored.Status = b.Status
	stored.AdminNotes = b.AdminNotes
	stored.UpdatedAt = b.UpdatedAt
	stored.StatusHistory = append(stored.StatusHistory, appended...)
	return nil
}

func (r memBookings) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.find(id)
	if !ok {
		return domain.ErrBookingNotFound
	}
	r.bookings = append(r.bookings[:i], r.bookings[i+1:]...)
	return nil
}

func (r memBookings) CountByStatus(_ context.Context) (map[domain.BookingStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[domain.BookingStatus]int64{}
	for _, b := range r.bookings {
		counts[b.Status]++
	}
	return counts, nil
}

func (r memBookings) Recent(_ context.Context, limit int) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Booking
	for i := len(r.bookings) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.bookings[i])
	}
	return out, nil
}

type memKeys struct{ *memStore }

func (r memKeys) Lookup(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.keys[key]
	return id, ok, nil
}

func (r memKeys) Remember(_ context.Context, key, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.keys[key]; !ok {
		r.keys[key] = bookingID
	}
	return nil
}
