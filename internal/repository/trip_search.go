package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/mounti/trip-booking/internal/model"
)

// TripSearchQuery defines the optional filters for the public trip search.
// Zero values mean "no filter".  DepartureDate matches the calendar date,
// not the exact timestamp.
type TripSearchQuery struct {
    FromLocation  string
    ToLocation    string
    DepartureDate *time.Time
}

// SearchActive returns ACTIVE trips matching the query, ordered by
// departure ascending.  Location filters are case-insensitive substring
// matches.  The result set is finite and unpaginated; for large trip
// volumes a keyset cursor on departure_date would be the next step.
func (r *TripRepo) SearchActive(ctx context.Context, q TripSearchQuery) ([]model.Trip, error) {
    where := []string{"status = ?"}
    args := []any{model.TripActive}

    if q.FromLocation != "" {
        where = append(where, "LOWER(from_location) LIKE ?")
        args = append(args, "%"+strings.ToLower(q.FromLocation)+"%")
    }
    if q.ToLocation != "" {
        where = append(where, "LOWER(to_location) LIKE ?")
        args = append(args, "%"+strings.ToLower(q.ToLocation)+"%")
    }
    if q.DepartureDate != nil {
        where = append(where, "DATE(departure_date) = DATE(?)")
        args = append(args, q.DepartureDate.UTC())
    }

    query := `SELECT ` + tripColumns + ` FROM trips WHERE ` +
        strings.Join(where, " AND ") + ` ORDER BY departure_date ASC`

    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Trip, 0)
    for rows.Next() {
        var t model.Trip
        var notes sql.NullString
        if err := rows.Scan(
            &t.ID, &t.TransporterID, &t.TransporterName, &t.FromLocation, &t.ToLocation,
            &t.DepartureDate, &t.AvailableSeats, &t.AvailableWeightKg,
            &t.PricePerSeatCents, &t.PricePerKgCents, &notes, &t.Status, &t.CreatedAt,
        ); err != nil {
            return nil, err
        }
        t.Notes = notes.String
        out = append(out, t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
