package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/monochrome/services-api/internal/api/metrics"
	"github.com/monochrome/services-api/internal/api/middleware"
	"github.com/monochrome/services-api/internal/core/domain"
	"github.com/monochrome/services-api/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	bookings ports.BookingService
}

func NewBookingHandler(bookings ports.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create handles POST /api/bookings. Authentication is optional: a valid
// bearer token makes the caller the owner, anything else books anonymously.
//
// @Summary      Create a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                false  "Replays the original booking when repeated"
// @Param        body             body      createBookingRequest  true   "Booking"
// @Success      201              {object}  Response{data=domain.Booking}
// @Success      200              {object}  Response{data=domain.Booking}  "Idempotent replay"
// @Failure      400              {object}  ErrorResponse
// @Failure      404              {object}  ErrorResponse
// @Router       /api/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	owner := middleware.IdentityFrom(c)
	res, err := h.bookings.Create(c.Request().Context(), ports.CreateBookingInput{
		ServiceID:      req.ServiceID,
		Contact:        req.toContact(),
		Owner:          owner,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	ownerLabel := "anonymous"
	if owner != nil {
		ownerLabel = "user"
	}
	metrics.BookingsCreatedTotal.WithLabelValues(ownerLabel, strconv.FormatBool(res.AlreadyExisted)).Inc()

	if res.AlreadyExisted {
		return respond(c, http.StatusOK, res.Booking)
	}
	return c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: "Booking request submitted successfully",
		Data:    res.Booking,
	})
}

// List handles GET /api/bookings.
//
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Status filter"
// @Param        page    query     int     false  "Page (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Success      200     {object}  Response{data=[]ports.BookingDetail}
// @Failure      400     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Router       /api/bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	var q listBookingsQuery
	err := c.Bind(&q)
	if err != nil {
		return domain.NewValidationError("", "invalid query")
	}

	filter := ports.ListBookingsFilter{Page: q.Page, Limit: q.Limit}
	if q.Status != "" {
		if filter.Status, err = domain.ParseBookingStatus(q.Status); err != nil {
			return err
		}
	}

	page, err := h.bookings.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	items := page.Items
	if items == nil {
		items = []*ports.BookingDetail{}
	}
	n := len(items)
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Count:   &n,
		Data:    items,
		Pagination: &Pagination{
			Total:       page.Total,
			TotalPages:  page.TotalPages,
			CurrentPage: page.Page,
		},
	})
}

// Stats handles GET /api/bookings/stats.
//
// @Summary      Booking statistics
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=ports.BookingStats}
// @Failure      403  {object}  ErrorResponse
// @Router       /api/bookings/stats [get]
func (h *BookingHandler) Stats(c echo.Context) error {
	stats, err := h.bookings.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}

// Mine handles GET /api/bookings/my-bookings.
//
// @Summary      The caller's bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=[]ports.BookingDetail}
// @Failure      401  {object}  ErrorResponse
// @Router       /api/bookings/my-bookings [get]
func (h *BookingHandler) Mine(c echo.Context) error {
	bookings, err := h.bookings.ListMine(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, bookings)
}

// Get handles GET /api/bookings/:id.
//
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  Response{data=ports.BookingDetail}
// @Failure      404  {object}  ErrorResponse
// @Router       /api/bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	detail, err := h.bookings.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, detail)
}

// Update handles PUT /api/bookings/:id.
//
// @Summary      Update booking status or notes
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Booking id"
// @Param        body  body      updateBookingRequest  true  "Fields to change"
// @Success      200   {object}  Response{data=domain.Booking}
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/bookings/{id} [put]
func (h *BookingHandler) Update(c echo.Context) error {
	var req updateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	update := req.toUpdate()
	b, err := h.bookings.Update(c.Request().Context(), c.Param("id"), update, middleware.IdentityFrom(c))
	if err != nil {
		return err
	}
	if update.Status != nil {
		metrics.BookingStatusChangesTotal.WithLabelValues(string(*update.Status)).Inc()
	}
	return respond(c, http.StatusOK, b)
}

// Delete handles DELETE /api/bookings/:id.
//
// @Summary      Delete a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /api/bookings/{id} [delete]
func (h *BookingHandler) Delete(c echo.Context) error {
	if err := h.bookings.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, emptyObject{})
}
