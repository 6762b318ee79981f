package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/mounti/trip-booking/internal/model"
    "github.com/mounti/trip-booking/internal/repository"
    "github.com/mounti/trip-booking/internal/service"
)

// BookingHandler exposes the reservation flow over HTTP.  All business
// rules live in the service; this layer only binds requests and maps
// sentinel errors onto status codes.
type BookingHandler struct {
    Svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
    if svc == nil {
        panic("nil service passed to NewBookingHandler")
    }
    return &BookingHandler{Svc: svc}
}

// bookingError maps repository sentinels onto HTTP responses.  Conflicts
// (insufficient capacity, finalized booking) are 409 so clients can retry
// with fresh state; authorization failures are 403.
func bookingError(c echo.Context, err error) error {
    switch err {
    case repository.ErrTripNotFound:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
    case repository.ErrBookingNotFound:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case repository.ErrInsufficientCapacity:
        return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient capacity"})
    case repository.ErrTripNotActive:
        return c.JSON(http.StatusConflict, echo.Map{"error": "trip is not active"})
    case repository.ErrInvalidTransition:
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking already finalized"})
    case repository.ErrForbidden:
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case repository.ErrInvalidQuantity:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be at least 1"})
    case repository.ErrInvalidBookingType:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking type must be SEAT or PARCEL"})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// CreateBooking handles POST /v1/bookings.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req service.CreateBookingRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    req.BookingType = strings.ToUpper(strings.TrimSpace(req.BookingType))

    b, err := h.Svc.CreateBooking(c.Request().Context(), uid, req)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusCreated, b)
}

// MyBookings handles GET /v1/bookings/mine: the caller's bookings, newest
// first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Svc.ListMyBookings(c.Request().Context(), uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// GetBooking handles GET /v1/bookings/:id.  Only the booking's client or
// the trip's transporter may read it.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    b, err := h.Svc.GetBooking(c.Request().Context(), id)
    if err != nil {
        return bookingError(c, err)
    }
    if b.ClientID != uid {
        trip, err := h.Svc.Trips.GetByID(c.Request().Context(), b.TripID)
        if err != nil || trip.TransporterID != uid {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
    }
    return c.JSON(http.StatusOK, b)
}

// TripBookings handles GET /v1/trips/:id/bookings for the trip's
// transporter.
func (h *BookingHandler) TripBookings(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    tripID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    items, err := h.Svc.ListTripBookings(c.Request().Context(), tripID, uid)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, map[string]any{"items": items})
}

type statusReq struct {
    Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/bookings/:id/status.  The transporter
// confirms or cancels; the client may cancel their own booking when the
// self-cancel policy is enabled.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req statusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    status := strings.ToUpper(strings.TrimSpace(req.Status))
    if status != model.BookingConfirmed && status != model.BookingCancelled {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be CONFIRMED or CANCELLED"})
    }

    b, err := h.Svc.UpdateBookingStatus(c.Request().Context(), id, status, uid)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, b)
}
