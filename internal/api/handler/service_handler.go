package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/monochrome/services-api/internal/api/metrics"
	"github.com/monochrome/services-api/internal/core/domain"
	"github.com/monochrome/services-api/internal/core/ports"
)

// ServiceHandler serves the public catalog and its admin mutations.
type ServiceHandler struct {
	catalog ports.CatalogService
}

func NewServiceHandler(catalog ports.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// List handles GET /api/services.
//
// @Summary      List active services
// @Tags         services
// @Produce      json
// @Param        category  query     string  false  "Category filter"
// @Param        search    query     string  false  "Full-text search"
// @Param        sort      query     string  false  "price-asc | price-desc | name (default newest)"
// @Success      200       {object}  Response{data=[]domain.Service}
// @Failure      400       {object}  ErrorResponse
// @Router       /api/services [get]
func (h *ServiceHandler) List(c echo.Context) error {
	var q listServicesQuery
	if err := c.Bind(&q); err != nil {
		return domain.NewValidationError("", "invalid query")
	}

	services, err := h.catalog.List(c.Request().Context(), ports.ServiceFilter{
		Category: domain.Category(q.Category),
		Search:   q.Search,
		Sort:     ports.ParseServiceSort(q.Sort),
	})
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, services)
}

// Get handles GET /api/services/:id.
//
// @Summary      Get a service by id
// @Tags         services
// @Produce      json
// @Param        id   path      string  true  "Service id"
// @Success      200  {object}  Response{data=domain.Service}
// @Failure      404  {object}  ErrorResponse
// @Router       /api/services/{id} [get]
func (h *ServiceHandler) Get(c echo.Context) error {
	svc, err := h.catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, svc)
}

// GetBySlug handles GET /api/services/slug/:slug.
//
// @Summary      Get a service by slug
// @Tags         services
// @Produce      json
// @Param        slug  path      string  true  "Service slug"
// @Success      200   {object}  Response{data=domain.Service}
// @Failure      404   {object}  ErrorResponse
// @Router       /api/services/slug/{slug} [get]
func (h *ServiceHandler) GetBySlug(c echo.Context) error {
	svc, err := h.catalog.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, svc)
}

// Create handles POST /api/services.
//
// @Summary      Create a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createServiceRequest  true  "Service"
// @Success      201   {object}  Response{data=domain.Service}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /api/services [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	var req createServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	svc, err := h.catalog.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	metrics.ServiceMutationsTotal.WithLabelValues("create").Inc()
	return respond(c, http.StatusCreated, svc)
}

// Update handles PUT /api/services/:id. Only the fields present are changed.
//
// @Summary      Update a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Service id"
// @Param        body  body      updateServiceRequest  true  "Fields to change"
// @Success      200   {object}  Response{data=domain.Service}
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /api/services/{id} [put]
func (h *ServiceHandler) Update(c echo.Context) error {
	var req updateServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	svc, err := h.catalog.Update(c.Request().Context(), c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	metrics.ServiceMutationsTotal.WithLabelValues("update").Inc()
	return respond(c, http.StatusOK, svc)
}

// Delete handles DELETE /api/services/:id.
//
// @Summary      Delete a service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service id"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /api/services/{id} [delete]
func (h *ServiceHandler) Delete(c echo.Context) error {
	if err := h.catalog.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.ServiceMutationsTotal.WithLabelValues("delete").Inc()
	return respond(c, http.StatusOK, emptyObject{})
}
