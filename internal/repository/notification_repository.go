package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/mounti/trip-booking/internal/model"
)

// NotificationRepo provides persistence for per-user notification
// records.  Rows are append-only from the service's perspective except
// for the is_read flag, which only the recipient may flip.
type NotificationRepo struct {
    db *sql.DB
}

// NewNotificationRepo returns a NotificationRepo bound to the given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

const notificationColumns = `id, user_id, title, message, type, is_read, created_at`

// Create inserts a notification row and populates the generated ID and
// DB defaults (is_read=false, created_at) on the struct.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
    const q = `INSERT INTO notifications (user_id, title, message, type) VALUES (?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, n.UserID, n.Title, n.Message, n.Type)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    n.ID = uint64(id)
    sel := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, n.ID).Scan(
        &n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt,
    )
}

// GetByID retrieves a single notification, returning
// ErrNotificationNotFound when no row exists.
func (r *NotificationRepo) GetByID(ctx context.Context, id uint64) (*model.Notification, error) {
    q := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`
    var n model.Notification
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotificationNotFound
        }
        return nil, err
    }
    return &n, nil
}

// MarkRead sets is_read on the notification.  The statement is
// unconditional on the current flag value, which makes re-marking an
// already-read notification a harmless no-op.
func (r *NotificationRepo) MarkRead(ctx context.Context, id uint64) error {
    _, err := r.db.ExecContext(ctx,
        `UPDATE notifications SET is_read = TRUE WHERE id = ?`, id)
    return err
}

// ListByUser returns the user's notifications, newest first.  An empty
// slice is returned when none exist.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Notification, error) {
    q := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ? ORDER BY created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Notification, 0)
    for rows.Next() {
        var n model.Notification
        if err := rows.Scan(
            &n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, n)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// CountUnread returns how many of the user's notifications still have
// is_read=false.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID uint64) (int64, error) {
    var n int64
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE`,
        userID).Scan(&n)
    return n, err
}
