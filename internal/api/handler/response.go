package handler

import (
	"github.com/labstack/echo/v4"
)

// Response is the success envelope shared by every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data"`
	*Pagination
}

// Pagination is inlined into Response for paged listings.
type Pagination struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

// ErrorResponse is the failure envelope. Error carries internal detail and is
// only populated outside production.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, Response{Success: true, Data: data})
}

func respondList[T any](c echo.Context, status int, items []T) error {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return c.JSON(status, Response{Success: true, Count: &n, Data: items})
}

// emptyObject renders as {} so delete responses keep a data field.
type emptyObject struct{}
