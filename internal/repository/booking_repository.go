package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/mounti/trip-booking/internal/model"
)

// BookingRepo provides persistence for bookings.  Bookings are created
// only through the coordinator's transaction (CreateTx) and their status
// column is written only through UpdateStatusTx, keeping every mutation
// inside the same transaction boundary as the capacity ledger writes it
// pairs with.  total_price_cents is written once on insert and never
// touched again.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, trip_id, client_id, client_name, booking_type,
    quantity, total_price_cents, status, created_at`

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID, default status and
// creation timestamp on the provided struct.  The caller must commit or
// roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings (trip_id, client_id, client_name, booking_type, quantity, total_price_cents)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q,
        b.TripID, b.ClientID, b.ClientName, b.BookingType, b.Quantity, b.TotalPriceCents)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    sel := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    return tx.QueryRowContext(ctx, sel, b.ID).Scan(
        &b.ID, &b.TripID, &b.ClientID, &b.ClientName, &b.BookingType,
        &b.Quantity, &b.TotalPriceCents, &b.Status, &b.CreatedAt,
    )
}

// GetByID retrieves a booking by its ID, returning ErrBookingNotFound
// when no row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
    return r.get(ctx, r.db.QueryRowContext, id)
}

// GetByIDTx is GetByID inside an existing transaction, used by the status
// update path so the terminal-state check and the status write cannot
// race with a concurrent transition on the same booking.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
    return r.get(ctx, tx.QueryRowContext, id)
}

func (r *BookingRepo) get(ctx context.Context, queryRow func(context.Context, string, ...any) *sql.Row, id uint64) (*model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    var b model.Booking
    err := queryRow(ctx, q, id).Scan(
        &b.ID, &b.TripID, &b.ClientID, &b.ClientName, &b.BookingType,
        &b.Quantity, &b.TotalPriceCents, &b.Status, &b.CreatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    return &b, nil
}

// UpdateStatusTx writes a new status for the booking within the given
// transaction.  The write is conditional on the booking still being
// PENDING, the same discipline as the capacity reserve: two racing
// transitions may both read PENDING, but only one can match the
// predicate, so the paired capacity release commits at most once.  The
// loser gets ErrInvalidTransition and rolls back.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64, status string) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
        status, bookingID, model.BookingPending)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrInvalidTransition
    }
    return nil
}

// ListByClient returns all bookings placed by the given client, newest
// first.  An empty slice is returned when none exist.
func (r *BookingRepo) ListByClient(ctx context.Context, clientID uint64) ([]model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings WHERE client_id = ? ORDER BY created_at DESC`
    return r.list(ctx, q, clientID)
}

// ListByTrip returns all bookings against the given trip, oldest first so
// transporters review requests in arrival order.
func (r *BookingRepo) ListByTrip(ctx context.Context, tripID uint64) ([]model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings WHERE trip_id = ? ORDER BY created_at ASC`
    return r.list(ctx, q, tripID)
}

func (r *BookingRepo) list(ctx context.Context, query string, arg any) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx, query, arg)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Booking, 0)
    for rows.Next() {
        var b model.Booking
        if err := rows.Scan(
            &b.ID, &b.TripID, &b.ClientID, &b.ClientName, &b.BookingType,
            &b.Quantity, &b.TotalPriceCents, &b.Status, &b.CreatedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
