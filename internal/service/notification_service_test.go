package service

import (
    "context"
    "database/sql"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"

    "github.com/mounti/trip-booking/internal/model"
    "github.com/mounti/trip-booking/internal/repository"
)

func newNotifService(t *testing.T) (*NotificationService, sqlmock.Sqlmock, *sql.DB) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock init error: %v", err)
    }
    return NewNotificationService(repository.NewNotificationRepo(db)), mock, db
}

func notifRow(id, userID uint64, isRead bool) *sqlmock.Rows {
    return sqlmock.NewRows([]string{
        "id", "user_id", "title", "message", "type", "is_read", "created_at",
    }).AddRow(id, userID, "New Booking Request", "msg", model.NotifBookingRequest, isRead,
        time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC))
}

func TestEmitRejectsEmptyTitleAndMessage(t *testing.T) {
    svc, _, db := newNotifService(t)
    defer db.Close()

    if _, err := svc.Emit(context.Background(), 1, model.NotifBookingRequest, "", "msg"); err == nil {
        t.Fatal("empty title must be rejected")
    }
    if _, err := svc.Emit(context.Background(), 1, model.NotifBookingRequest, "title", "  "); err == nil {
        t.Fatal("blank message must be rejected")
    }
}

func TestEmitRejectsUnknownType(t *testing.T) {
    svc, _, db := newNotifService(t)
    defer db.Close()

    if _, err := svc.Emit(context.Background(), 1, "CARRIER_PIGEON", "title", "msg"); err == nil {
        t.Fatal("unknown type must be rejected")
    }
}

func TestMarkReadOnlyByRecipient(t *testing.T) {
    svc, mock, db := newNotifService(t)
    defer db.Close()

    mock.ExpectQuery("SELECT id, user_id").
        WithArgs(21).
        WillReturnRows(notifRow(21, 9, false))

    err := svc.MarkRead(context.Background(), 21, 7)
    if !errors.Is(err, repository.ErrForbidden) {
        t.Fatalf("want ErrForbidden, got %v", err)
    }
}

func TestMarkReadIdempotent(t *testing.T) {
    svc, mock, db := newNotifService(t)
    defer db.Close()

    // First call flips the flag.
    mock.ExpectQuery("SELECT id, user_id").
        WithArgs(21).
        WillReturnRows(notifRow(21, 7, false))
    mock.ExpectExec("UPDATE notifications SET is_read").
        WithArgs(21).
        WillReturnResult(sqlmock.NewResult(0, 1))

    // Second call sees it already read and skips the write.
    mock.ExpectQuery("SELECT id, user_id").
        WithArgs(21).
        WillReturnRows(notifRow(21, 7, true))

    if err := svc.MarkRead(context.Background(), 21, 7); err != nil {
        t.Fatalf("first mark-read failed: %v", err)
    }
    if err := svc.MarkRead(context.Background(), 21, 7); err != nil {
        t.Fatalf("second mark-read must be a no-op, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestMarkReadMissingNotification(t *testing.T) {
    svc, mock, db := newNotifService(t)
    defer db.Close()

    mock.ExpectQuery("SELECT id, user_id").
        WithArgs(99).
        WillReturnError(sql.ErrNoRows)

    err := svc.MarkRead(context.Background(), 99, 7)
    if !errors.Is(err, repository.ErrNotificationNotFound) {
        t.Fatalf("want ErrNotificationNotFound, got %v", err)
    }
}

func TestUnreadCount(t *testing.T) {
    svc, mock, db := newNotifService(t)
    defer db.Close()

    mock.ExpectQuery("SELECT COUNT").
        WithArgs(7).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

    n, err := svc.UnreadCount(context.Background(), 7)
    if err != nil {
        t.Fatalf("unread count failed: %v", err)
    }
    if n != 3 {
        t.Fatalf("want 3, got %d", n)
    }
}
