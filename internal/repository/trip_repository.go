package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/mounti/trip-booking/internal/model"
)

// TripRepo manages persistence for trips and owns the trip capacity
// ledger.  The capacity counters (available_seats, available_weight_kg)
// are only ever mutated through ReserveCapacityTx and ReleaseCapacityTx
// so that every change happens as a single conditional UPDATE under the
// row lock of the enclosing transaction.  Plain read-then-write against
// the counters is forbidden: it oversells under concurrent load.
type TripRepo struct {
    db *sql.DB
}

// NewTripRepo constructs a TripRepo bound to the given database.
func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *TripRepo) DB() *sql.DB { return r.db }

const tripColumns = `id, transporter_id, transporter_name, from_location, to_location,
    departure_date, available_seats, available_weight_kg,
    price_per_seat_cents, price_per_kg_cents, notes, status, created_at`

func scanTrip(row *sql.Row) (*model.Trip, error) {
    var t model.Trip
    var notes sql.NullString
    err := row.Scan(
        &t.ID, &t.TransporterID, &t.TransporterName, &t.FromLocation, &t.ToLocation,
        &t.DepartureDate, &t.AvailableSeats, &t.AvailableWeightKg,
        &t.PricePerSeatCents, &t.PricePerKgCents, &notes, &t.Status, &t.CreatedAt,
    )
    if err != nil {
        return nil, err
    }
    t.Notes = notes.String
    return &t, nil
}

// Create inserts a new trip and assigns the generated ID, default status
// and creation timestamp back to the struct.  The caller supplies the
// offered capacity and per-unit prices; validation of their ranges is the
// caller's job.
func (r *TripRepo) Create(ctx context.Context, t *model.Trip) error {
    const q = `INSERT INTO trips (transporter_id, transporter_name, from_location, to_location,
               departure_date, available_seats, available_weight_kg,
               price_per_seat_cents, price_per_kg_cents, notes)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        t.TransporterID, t.TransporterName, t.FromLocation, t.ToLocation,
        t.DepartureDate, t.AvailableSeats, t.AvailableWeightKg,
        t.PricePerSeatCents, t.PricePerKgCents, t.Notes)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    // Query back the row to populate DB defaults (status, created_at).
    sel := `SELECT ` + tripColumns + ` FROM trips WHERE id = ?`
    got, err := scanTrip(r.db.QueryRowContext(ctx, sel, t.ID))
    if err != nil {
        return err
    }
    *t = *got
    return nil
}

// GetByID retrieves a trip by its ID.  It returns ErrTripNotFound if
// there is no matching row.
func (r *TripRepo) GetByID(ctx context.Context, id uint64) (*model.Trip, error) {
    q := `SELECT ` + tripColumns + ` FROM trips WHERE id = ?`
    t, err := scanTrip(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrTripNotFound
        }
        return nil, err
    }
    return t, nil
}

// GetByIDTx is GetByID within the scope of an existing transaction, used
// by the booking coordinator so that the price read and the capacity
// reservation see the same row state.
func (r *TripRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Trip, error) {
    q := `SELECT ` + tripColumns + ` FROM trips WHERE id = ?`
    t, err := scanTrip(tx.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrTripNotFound
        }
        return nil, err
    }
    return t, nil
}

// ListByTransporter returns all trips offered by the given transporter,
// newest departure first.  An empty slice is returned when none exist.
func (r *TripRepo) ListByTransporter(ctx context.Context, transporterID uint64) ([]model.Trip, error) {
    q := `SELECT ` + tripColumns + ` FROM trips WHERE transporter_id = ? ORDER BY departure_date DESC`
    rows, err := r.db.QueryContext(ctx, q, transporterID)
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

// UpdateDescriptive rewrites the descriptive fields of a trip owned by the
// given transporter.  Capacity counters are deliberately excluded; they
// belong to the ledger.  Returns ErrTripNotFound when the trip does not
// exist and ErrForbidden when it belongs to a different transporter.
func (r *TripRepo) UpdateDescriptive(ctx context.Context, t *model.Trip, transporterID uint64) error {
    ownerID, err := r.ownerOf(ctx, t.ID)
    if err != nil {
        return err
    }
    if ownerID != transporterID {
        return ErrForbidden
    }
    const q = `UPDATE trips SET from_location = ?, to_location = ?, departure_date = ?,
               price_per_seat_cents = ?, price_per_kg_cents = ?, notes = ?
               WHERE id = ?`
    _, err = r.db.ExecContext(ctx, q,
        t.FromLocation, t.ToLocation, t.DepartureDate,
        t.PricePerSeatCents, t.PricePerKgCents, t.Notes, t.ID)
    return err
}

// SetStatus moves a trip into a new lifecycle status on behalf of its
// transporter.  This is the soft-retire path: trips with bookings are
// never hard-deleted, they are cancelled or completed instead.
func (r *TripRepo) SetStatus(ctx context.Context, tripID, transporterID uint64, status string) error {
    ownerID, err := r.ownerOf(ctx, tripID)
    if err != nil {
        return err
    }
    if ownerID != transporterID {
        return ErrForbidden
    }
    _, err = r.db.ExecContext(ctx, `UPDATE trips SET status = ? WHERE id = ?`, status, tripID)
    return err
}

// HasBookings reports whether any booking rows reference the trip,
// regardless of status.
func (r *TripRepo) HasBookings(ctx context.Context, tripID uint64) (bool, error) {
    var n int64
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM bookings WHERE trip_id = ?`, tripID).Scan(&n)
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// Delete removes a trip row owned by the transporter.  Callers must check
// HasBookings first; the service layer downgrades delete to a status
// change when bookings exist.
func (r *TripRepo) Delete(ctx context.Context, tripID, transporterID uint64) error {
    ownerID, err := r.ownerOf(ctx, tripID)
    if err != nil {
        return err
    }
    if ownerID != transporterID {
        return ErrForbidden
    }
    _, err = r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, tripID)
    return err
}

func (r *TripRepo) ownerOf(ctx context.Context, tripID uint64) (uint64, error) {
    var ownerID uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT transporter_id FROM trips WHERE id = ?`, tripID).Scan(&ownerID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return 0, ErrTripNotFound
        }
        return 0, err
    }
    return ownerID, nil
}

// capacityColumn maps a booking type onto the capacity counter it draws
// from.  The set of types is closed; anything else is a programming error
// surfaced as ErrInvalidQuantity by the caller's validation.
func capacityColumn(bookingType string) string {
    if bookingType == model.BookingParcel {
        return "available_weight_kg"
    }
    return "available_seats"
}

// ReserveCapacityTx atomically decrements the trip's remaining capacity
// for the requested booking type by quantity.  The decrement and the
// availability check are a single conditional UPDATE, so no two
// transactions can both pass the predicate for capacity that only one of
// them can have: either the row is updated (reserved) or nothing changes.
// When no row is updated a follow-up read classifies the failure into
// ErrTripNotFound, ErrTripNotActive or ErrInsufficientCapacity.
func (r *TripRepo) ReserveCapacityTx(ctx context.Context, tx *sql.Tx, tripID uint64, bookingType string, quantity uint32) error {
    col := capacityColumn(bookingType)
    q := `UPDATE trips SET ` + col + ` = ` + col + ` - ?
          WHERE id = ? AND status = ? AND ` + col + ` >= ?`
    res, err := tx.ExecContext(ctx, q, quantity, tripID, model.TripActive, quantity)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 1 {
        return nil
    }
    // Nothing was reserved; find out why.
    var status string
    var seats int32
    var weight float64
    err = tx.QueryRowContext(ctx,
        `SELECT status, available_seats, available_weight_kg FROM trips WHERE id = ?`,
        tripID).Scan(&status, &seats, &weight)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return ErrTripNotFound
        }
        return err
    }
    if status != model.TripActive {
        return ErrTripNotActive
    }
    return ErrInsufficientCapacity
}

// ReleaseCapacityTx adds quantity back to the trip's capacity counter for
// the given booking type.  It is the inverse of ReserveCapacityTx and is
// called at most once per booking, on cancellation; the booking state
// machine's terminal-state guard enforces the at-most-once property.
// Returns ErrTripNotFound when the trip row no longer exists, which the
// coordinator tolerates as a no-op.
func (r *TripRepo) ReleaseCapacityTx(ctx context.Context, tx *sql.Tx, tripID uint64, bookingType string, quantity uint32) error {
    col := capacityColumn(bookingType)
    q := `UPDATE trips SET ` + col + ` = ` + col + ` + ? WHERE id = ?`
    res, err := tx.ExecContext(ctx, q, quantity, tripID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrTripNotFound
    }
    return nil
}
