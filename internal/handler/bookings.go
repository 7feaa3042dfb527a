package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/service-marketplace/internal/model"
	"github.com/iliyamo/service-marketplace/internal/store"
)

type BookingHandler struct {
	Store *store.Store
}

func NewBookingHandler(s *store.Store) *BookingHandler { return &BookingHandler{Store: s} }

// Create handles POST /v1/bookings. Price, duration and provider default
// to the booked service's values when omitted.
func (h *BookingHandler) Create(c echo.Context) error {
	var req model.NewBooking
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.UserID == "" || req.ServiceID == "" {
		return badRequest(c, "user_id/service_id required")
	}
	if req.Date != "" && !validDate(req.Date) {
		return badRequest(c, "date must be YYYY-MM-DD")
	}
	return c.JSON(http.StatusCreated, h.Store.CreateBooking(req))
}

func (h *BookingHandler) Get(c echo.Context) error {
	b, ok := h.Store.GetBookingByID(c.Param("id"))
	if !ok {
		return notFound(c, "booking")
	}
	return c.JSON(http.StatusOK, b)
}

// Update handles PATCH /v1/bookings/:id. Any status may follow any other.
func (h *BookingHandler) Update(c echo.Context) error {
	var p model.BookingPatch
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "invalid body")
	}
	if p.Date != nil && !validDate(*p.Date) {
		return badRequest(c, "date must be YYYY-MM-DD")
	}
	if p.Status != nil && !validStatus(*p.Status) {
		return badRequest(c, "unknown status")
	}
	b, ok := h.Store.UpdateBooking(c.Param("id"), p)
	if !ok {
		return notFound(c, "booking")
	}
	return c.JSON(http.StatusOK, b)
}

// ByDate handles GET /v1/bookings?date=YYYY-MM-DD.
func (h *BookingHandler) ByDate(c echo.Context) error {
	date := c.QueryParam("date")
	if !validDate(date) {
		return badRequest(c, "date must be YYYY-MM-DD")
	}
	return c.JSON(http.StatusOK, h.Store.GetBookingsByDate(date))
}

// ByUser handles GET /v1/users/:id/bookings.
func (h *BookingHandler) ByUser(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.GetBookingsByUser(c.Param("id")))
}

// ByProvider handles GET /v1/providers/:id/bookings.
func (h *BookingHandler) ByProvider(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.GetBookingsByProvider(c.Param("id")))
}

func validDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

func validStatus(s model.BookingStatus) bool {
	switch s {
	case model.BookingUpcoming, model.BookingInProgress, model.BookingCompleted, model.BookingCancelled:
		return true
	}
	return false
}
