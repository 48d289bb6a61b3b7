package domain

import (
	"strings"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingContacted  BookingStatus = "contacted"
	BookingInProgress BookingStatus = "in-progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// BookingStatuses lists the closed set of statuses in lifecycle order.
var BookingStatuses = []BookingStatus{
	BookingPending,
	BookingContacted,
	BookingInProgress,
	BookingCompleted,
	BookingCancelled,
}

// IsValid reports whether s is a member of the closed status set.
func (s BookingStatus) IsValid() bool {
	for _, known := range BookingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseBookingStatus validates raw against the closed status set.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := BookingStatus(strings.TrimSpace(raw))
	if !s.IsValid() {
		return "", NewValidationError("status", "must be one of: %s", JoinValues(BookingStatuses))
	}
	return s, nil
}

// Budget is the customer's self-reported budget bracket.
type Budget string

var Budgets = []Budget{
	"< $5,000",
	"$5,000 - $10,000",
	"$10,000 - $25,000",
	"$25,000 - $50,000",
	"$50,000+",
	"Not sure",
}

func (b Budget) IsValid() bool {
	for _, known := range Budgets {
		if b == known {
			return true
		}
	}
	return false
}

// Timeline is the customer's desired delivery bracket.
type Timeline string

var Timelines = []Timeline{
	"ASAP",
	"1-2 weeks",
	"2-4 weeks",
	"1-2 months",
	"3+ months",
	"Flexible",
}

func (t Timeline) IsValid() bool {
	for _, known := range Timelines {
		if t == known {
			return true
		}
	}
	return false
}

// StatusChange records one admin-driven status write.
type StatusChange struct {
	Status    BookingStatus `json:"status"`
	ChangedAt time.Time     `json:"changedAt"`
	ChangedBy string        `json:"changedBy,omitempty"`
}

// Booking is a customer's request for a catalog service. ServiceName and
// ServicePrice are captured at creation and never follow later catalog edits.
type Booking struct {
	ID                 string         `json:"id"`
	UserID             *string        `json:"userId"`
	ServiceID          string         `json:"serviceId"`
	ServiceName        string         `json:"serviceName"`
	ServicePrice       float64        `json:"servicePrice"`
	Name               string         `json:"name"`
	Email              string         `json:"email"`
	Phone              string         `json:"phone"`
	Company            string         `json:"company,omitempty"`
	ProjectDescription string         `json:"projectDescription"`
	Budget             Budget         `json:"budget"`
	Timeline           Timeline       `json:"timeline"`
	Status             BookingStatus  `json:"status"`
	AdminNotes         *string        `json:"adminNotes,omitempty"`
	StatusHistory      []StatusChange `json:"statusHistory"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// BookingUpdate carries the admin-editable fields. Nil means "leave as is".
type BookingUpdate struct {
	Status     *BookingStatus
	AdminNotes *string
}

// NewBooking snapshots svc into a fresh pending booking. Any status the
// caller may have wanted is irrelevant: bookings always start pending.
func NewBooking(svc *Service, owner *Identity, contact BookingContact, now time.Time) *Booking {
	b := &Booking{
		ServiceID:          svc.ID,
		ServiceName:        svc.Name,
		ServicePrice:       svc.Price,
		Name:               strings.TrimSpace(contact.Name),
		Email:              NormalizeEmail(contact.Email),
		Phone:              strings.TrimSpace(contact.Phone),
		Company:            strings.TrimSpace(contact.Company),
		ProjectDescription: contact.ProjectDescription,
		Budget:             contact.Budget,
		Timeline:           contact.Timeline,
		Status:             BookingPending,
		StatusHistory:      []StatusChange{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if owner != nil {
		id := owner.ID
		b.UserID = &id
	}
	return b
}

// BookingContact is the customer-supplied part of a booking.
type BookingContact struct {
	Name               string
	Email              string
	Phone              string
	Company            string
	ProjectDescription string
	Budget             Budget
	Timeline           Timeline
}

// Apply writes u onto b. Transitions are unrestricted: any member of the
// closed set may follow any other. A history entry is appended only when the
// status value changes; UpdatedAt always advances.
func (b *Booking) Apply(u BookingUpdate, actorID string, now time.Time) error {
	if u.Status != nil {
		if !u.Status.IsValid() {
			return NewValidationError("status", "must be one of: %s", JoinValues(BookingStatuses))
		}
		if *u.Status != b.Status {
			b.StatusHistory = append(b.StatusHistory, StatusChange{
				Status:    *u.Status,
				ChangedAt: now,
				ChangedBy: actorID,
			})
		}
		b.Status = *u.Status
	}
	if u.AdminNotes != nil {
		notes := *u.AdminNotes
		b.AdminNotes = &notes
	}
	b.UpdatedAt = now
	return nil
}

// IsOwnedBy reports whether id placed the booking, or the booking was placed
// anonymously with the identity's email.
func (b *Booking) IsOwnedBy(id *Identity) bool {
	if id == nil {
		return false
	}
	if b.UserID != nil && *b.UserID == id.ID {
		return true
	}
	return b.Email == NormalizeEmail(id.Email)
}

// JoinValues renders an enumeration as a comma-separated list for error
// messages.
func JoinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
