package service

import (
    "context"
    "errors"
    "strings"

    "github.com/mounti/trip-booking/internal/model"
    "github.com/mounti/trip-booking/internal/repository"
)

// NotificationService creates and manages per-user notification records.
// Emission is pure creation with no business validation beyond non-empty
// title/message and a known type tag; the emitters decide what is worth
// saying.
type NotificationService struct {
    Notifs *repository.NotificationRepo
}

// NewNotificationService wires a NotificationService.
func NewNotificationService(notifs *repository.NotificationRepo) *NotificationService {
    if notifs == nil {
        panic("nil repository passed to NewNotificationService")
    }
    return &NotificationService{Notifs: notifs}
}

var errEmptyNotification = errors.New("notification title and message are required")

// Emit persists a notification for the recipient and returns it with its
// assigned ID and creation timestamp.
func (s *NotificationService) Emit(ctx context.Context, recipientID uint64, ntype, title, message string) (*model.Notification, error) {
    if strings.TrimSpace(title) == "" || strings.TrimSpace(message) == "" {
        return nil, errEmptyNotification
    }
    if !model.KnownNotifType(ntype) {
        return nil, errors.New("unknown notification type: " + ntype)
    }
    n := &model.Notification{
        UserID:  recipientID,
        Title:   title,
        Message: message,
        Type:    ntype,
    }
    if err := s.Notifs.Create(ctx, n); err != nil {
        return nil, err
    }
    return n, nil
}

// MarkRead flips the is_read flag on a notification owned by actorID.
// Re-marking an already-read notification succeeds without effect.  Only
// the recipient may mark their own notification read.
func (s *NotificationService) MarkRead(ctx context.Context, id, actorID uint64) error {
    n, err := s.Notifs.GetByID(ctx, id)
    if err != nil {
        return err
    }
    if n.UserID != actorID {
        return repository.ErrForbidden
    }
    if n.IsRead {
        return nil
    }
    return s.Notifs.MarkRead(ctx, id)
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint64) ([]model.Notification, error) {
    return s.Notifs.ListByUser(ctx, userID)
}

// UnreadCount returns how many notifications the user has not yet read.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
    return s.Notifs.CountUnread(ctx, userID)
}
