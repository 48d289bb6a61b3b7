package handler

import (
	"github.com/monochrome/services-api/internal/core/domain"
	"github.com/monochrome/services-api/internal/core/ports"
)

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// authPayload is the data returned by register and login.
type authPayload struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	Token string      `json:"token"`
}

func newAuthPayload(res *ports.AuthResult) authPayload {
	return authPayload{
		ID:    res.User.ID,
		Name:  res.User.Name,
		Email: res.User.Email,
		Role:  res.User.Role,
		Token: res.Token,
	}
}

// --- Services ---

type createServiceRequest struct {
	Name            string   `json:"name"            validate:"required,max=100"`
	Description     string   `json:"description"     validate:"required,max=500"`
	FullDescription string   `json:"fullDescription" validate:"required"`
	Price           *float64 `json:"price"           validate:"required,gte=0"`
	Category        string   `json:"category"        validate:"required,category"`
	DeliveryTime    string   `json:"deliveryTime"    validate:"required"`
	Features        []string `json:"features"`
	Tags            []string `json:"tags"`
	Image           string   `json:"image"`
	IsActive        *bool    `json:"isActive"`
}

func (r createServiceRequest) toInput() ports.ServiceInput {
	return ports.ServiceInput{
		Name:            r.Name,
		Description:     r.Description,
		FullDescription: r.FullDescription,
		Price:           *r.Price,
		Category:        domain.Category(r.Category),
		DeliveryTime:    r.DeliveryTime,
		Features:        r.Features,
		Tags:            r.Tags,
		Image:           r.Image,
		IsActive:        r.IsActive,
	}
}

// updateServiceRequest mirrors createServiceRequest with every field optional.
type updateServiceRequest struct {
	Name            *string   `json:"name"            validate:"omitnil,min=1,max=100"`
	Description     *string   `json:"description"     validate:"omitnil,min=1,max=500"`
	FullDescription *string   `json:"fullDescription" validate:"omitnil,min=1"`
	Price           *float64  `json:"price"           validate:"omitnil,gte=0"`
	Category        *string   `json:"category"        validate:"omitnil,category"`
	DeliveryTime    *string   `json:"deliveryTime"    validate:"omitnil,min=1"`
	Features        *[]string `json:"features"`
	Tags            *[]string `json:"tags"`
	Image           *string   `json:"image"`
	IsActive        *bool     `json:"isActive"`
}

func (r updateServiceRequest) toPatch() ports.ServicePatch {
	p := ports.ServicePatch{
		Name:            r.Name,
		Description:     r.Description,
		FullDescription: r.FullDescription,
		Price:           r.Price,
		DeliveryTime:    r.DeliveryTime,
		Features:        r.Features,
		Tags:            r.Tags,
		Image:           r.Image,
		IsActive:        r.IsActive,
	}
	if r.Category != nil {
		c := domain.Category(*r.Category)
		p.Category = &c
	}
	return p
}

// --- Bookings ---

// createBookingRequest has no status field: new bookings are always pending
// and any status sent by the client is dropped at bind time.
type createBookingRequest struct {
	ServiceID          string `json:"serviceId"          validate:"required"`
	Name               string `json:"name"               validate:"required"`
	Email              string `json:"email"              validate:"required,email"`
	Phone              string `json:"phone"              validate:"required"`
	Company            string `json:"company"`
	ProjectDescription string `json:"projectDescription" validate:"required"`
	Budget             string `json:"budget"             validate:"required,budget"`
	Timeline           string `json:"timeline"           validate:"required,timeline"`
}

func (r createBookingRequest) toContact() domain.BookingContact {
	return domain.BookingContact{
		Name:               r.Name,
		Email:              r.Email,
		Phone:              r.Phone,
		Company:            r.Company,
		ProjectDescription: r.ProjectDescription,
		Budget:             domain.Budget(r.Budget),
		Timeline:           domain.Timeline(r.Timeline),
	}
}

// updateBookingRequest: an empty status leaves the status unchanged.
type updateBookingRequest struct {
	Status     *string `json:"status"     validate:"omitnil,bookingstatus"`
	AdminNotes *string `json:"adminNotes"`
}

func (r updateBookingRequest) toUpdate() domain.BookingUpdate {
	u := domain.BookingUpdate{AdminNotes: r.AdminNotes}
	if r.Status != nil && *r.Status != "" {
		s := domain.BookingStatus(*r.Status)
		u.Status = &s
	}
	return u
}

type listBookingsQuery struct {
	Status string `query:"status"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

type listServicesQuery struct {
	Category string `query:"category"`
	Search   string `query:"search"`
	Sort     string `query:"sort"`
}
