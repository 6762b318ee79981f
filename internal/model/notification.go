package model

import "time"

// Notification types form a closed set; message logic switches on the tag
// explicitly rather than on subtypes.
const (
    NotifBookingRequest   = "BOOKING_REQUEST"
    NotifBookingConfirmed = "BOOKING_CONFIRMED"
    NotifTripReminder     = "TRIP_REMINDER"
    NotifPaymentReceived  = "PAYMENT_RECEIVED"
    NotifTripAvailable    = "TRIP_AVAILABLE"
)

// Notification is a delivery record for one user.  It is created by the
// notification service, mutated only by its recipient (mark-as-read) and
// never deleted.  It carries no reference back to the event that caused it
// beyond its type tag.
type Notification struct {
    ID        uint64    `json:"id"`
    UserID    uint64    `json:"user_id"`
    Title     string    `json:"title"`
    Message   string    `json:"message"`
    Type      string    `json:"type"`
    IsRead    bool      `json:"is_read"`
    CreatedAt time.Time `json:"created_at"`
}

// KnownNotifType reports whether t is one of the closed set of
// notification type tags.
func KnownNotifType(t string) bool {
    switch t {
    case NotifBookingRequest, NotifBookingConfirmed, NotifTripReminder,
        NotifPaymentReceived, NotifTripAvailable:
        return true
    }
    return false
}
