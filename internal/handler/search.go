package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/mounti/trip-booking/internal/repository"
)

// SearchHandler serves the public trip search.
type SearchHandler struct {
    Trips *repository.TripRepo
}

func NewSearchHandler(trips *repository.TripRepo) *SearchHandler {
    if trips == nil {
        panic("nil repository passed to NewSearchHandler")
    }
    return &SearchHandler{Trips: trips}
}

// SearchTrips handles GET /v1/trips/search.  All filters are optional and
// combine with AND; location filters are case-insensitive substring
// matches, date matches the calendar day.  Only ACTIVE trips are returned.
func (h *SearchHandler) SearchTrips(c echo.Context) error {
    q := repository.TripSearchQuery{
        FromLocation: strings.TrimSpace(c.QueryParam("from")),
        ToLocation:   strings.TrimSpace(c.QueryParam("to")),
    }
    if raw := strings.TrimSpace(c.QueryParam("date")); raw != "" {
        d, err := time.Parse("2006-01-02", raw)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
        }
        q.DepartureDate = &d
    }

    items, err := h.Trips.SearchActive(c.Request().Context(), q)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{
            "error":   "database_error",
            "message": err.Error(),
        })
    }

    return c.JSON(http.StatusOK, echo.Map{
        "data":  items,
        "total": len(items),
    })
}
