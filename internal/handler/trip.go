package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/mounti/trip-booking/internal/model"
    "github.com/mounti/trip-booking/internal/repository"
)

// Offered capacity bounds.  A trip can never offer more than a full
// vehicle: 8 seats and 100 kilograms of cargo.
const (
    minTripSeats  = 1
    maxTripSeats  = 8
    minTripWeight = 0.5
    maxTripWeight = 100.0
)

// TripHandler bundles repositories for transporters to manage their trips.
type TripHandler struct {
    Trips *repository.TripRepo
    Users *repository.UserRepo
}

func NewTripHandler(trips *repository.TripRepo, users *repository.UserRepo) *TripHandler {
    if trips == nil || users == nil {
        panic("nil repository passed to NewTripHandler")
    }
    return &TripHandler{Trips: trips, Users: users}
}

type tripReq struct {
    FromLocation      string  `json:"from_location"`
    ToLocation        string  `json:"to_location"`
    DepartureDate     string  `json:"departure_date"`
    AvailableSeats    int32   `json:"available_seats"`
    AvailableWeightKg float64 `json:"available_weight_kg"`
    PricePerSeatCents uint32  `json:"price_per_seat_cents"`
    PricePerKgCents   uint32  `json:"price_per_kg_cents"`
    Notes             string  `json:"notes"`
}

// parseDeparture accepts RFC3339 or a bare date; bare dates depart at
// midnight UTC.
func parseDeparture(raw string) (time.Time, bool) {
    raw = strings.TrimSpace(raw)
    if t, err := time.Parse(time.RFC3339, raw); err == nil {
        return t.UTC(), true
    }
    if t, err := time.Parse("2006-01-02", raw); err == nil {
        return t.UTC(), true
    }
    return time.Time{}, false
}

// CreateTrip handles POST /v1/trips.  Only transporter accounts reach
// this handler; the route is gated by RequireTransporter.
func (h *TripHandler) CreateTrip(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body tripReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    from := strings.TrimSpace(body.FromLocation)
    to := strings.TrimSpace(body.ToLocation)
    if from == "" || to == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "from_location and to_location are required"})
    }
    dep, ok := parseDeparture(body.DepartureDate)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure_date must be RFC3339 or YYYY-MM-DD"})
    }
    if body.AvailableSeats < minTripSeats || body.AvailableSeats > maxTripSeats {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "available_seats must be between 1 and 8"})
    }
    if body.AvailableWeightKg < minTripWeight || body.AvailableWeightKg > maxTripWeight {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "available_weight_kg must be between 0.5 and 100"})
    }

    u, err := h.Users.GetByID(c.Request().Context(), uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
    }

    trip := &model.Trip{
        TransporterID:     uid,
        TransporterName:   u.Name,
        FromLocation:      from,
        ToLocation:        to,
        DepartureDate:     dep,
        AvailableSeats:    body.AvailableSeats,
        AvailableWeightKg: body.AvailableWeightKg,
        PricePerSeatCents: body.PricePerSeatCents,
        PricePerKgCents:   body.PricePerKgCents,
        Notes:             strings.TrimSpace(body.Notes),
    }
    if err := h.Trips.Create(c.Request().Context(), trip); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create trip"})
    }
    return c.JSON(http.StatusCreated, trip)
}

// UpdateTrip handles PATCH /v1/trips/:id and rewrites descriptive fields.
// Capacity counters are not updatable here; only bookings move them.
func (h *TripHandler) UpdateTrip(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body tripReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    cur, err := h.Trips.GetByID(c.Request().Context(), id)
    if err != nil {
        if err == repository.ErrTripNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    // Absent fields keep their current value.
    if s := strings.TrimSpace(body.FromLocation); s != "" {
        cur.FromLocation = s
    }
    if s := strings.TrimSpace(body.ToLocation); s != "" {
        cur.ToLocation = s
    }
    if strings.TrimSpace(body.DepartureDate) != "" {
        dep, ok := parseDeparture(body.DepartureDate)
        if !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure_date must be RFC3339 or YYYY-MM-DD"})
        }
        cur.DepartureDate = dep
    }
    if body.PricePerSeatCents > 0 {
        cur.PricePerSeatCents = body.PricePerSeatCents
    }
    if body.PricePerKgCents > 0 {
        cur.PricePerKgCents = body.PricePerKgCents
    }
    if s := strings.TrimSpace(body.Notes); s != "" {
        cur.Notes = s
    }

    if err := h.Trips.UpdateDescriptive(c.Request().Context(), cur, uid); err != nil {
        switch err {
        case repository.ErrTripNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
        case repository.ErrForbidden:
            return c.JSON(http.StatusForbidden, echo.Map{"error": "not your trip"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    updated, _ := h.Trips.GetByID(c.Request().Context(), id)
    return c.JSON(http.StatusOK, updated)
}

// DeleteTrip handles DELETE /v1/trips/:id.  A trip that already has
// bookings is cancelled instead of removed, so booking rows keep a valid
// back-reference.
func (h *TripHandler) DeleteTrip(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    booked, err := h.Trips.HasBookings(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if booked {
        err = h.Trips.SetStatus(c.Request().Context(), id, uid, model.TripCancelled)
    } else {
        err = h.Trips.Delete(c.Request().Context(), id, uid)
    }
    if err != nil {
        switch err {
        case repository.ErrTripNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
        case repository.ErrForbidden:
            return c.JSON(http.StatusForbidden, echo.Map{"error": "not your trip"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    if booked {
        return c.JSON(http.StatusOK, echo.Map{"status": model.TripCancelled})
    }
    return c.NoContent(http.StatusNoContent)
}

// CompleteTrip handles POST /v1/trips/:id/complete and retires an active
// trip after the journey happened.
func (h *TripHandler) CompleteTrip(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Trips.SetStatus(c.Request().Context(), id, uid, model.TripCompleted); err != nil {
        switch err {
        case repository.ErrTripNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
        case repository.ErrForbidden:
            return c.JSON(http.StatusForbidden, echo.Map{"error": "not your trip"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": model.TripCompleted})
}

// MyTrips handles GET /v1/trips/mine and returns all trips owned by the
// authenticated transporter, any status.
func (h *TripHandler) MyTrips(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Trips.ListByTransporter(c.Request().Context(), uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// GetTrip handles GET /v1/trips/:id.
func (h *TripHandler) GetTrip(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    trip, err := h.Trips.GetByID(c.Request().Context(), id)
    if err != nil {
        if err == repository.ErrTripNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, trip)
}
