package model

import "time"

// Booking types.  SEAT quantities count seats; PARCEL quantities count
// whole kilograms of cargo weight.
const (
    BookingSeat   = "SEAT"
    BookingParcel = "PARCEL"
)

// Booking statuses.  PENDING is the only non-terminal state; CONFIRMED and
// CANCELLED admit no further transitions.
const (
    BookingPending   = "PENDING"
    BookingConfirmed = "CONFIRMED"
    BookingCancelled = "CANCELLED"
)

// Booking is a client's reservation against one trip.  It back-references
// the trip by identifier only and never holds live trip state, so later
// price or capacity changes on the trip cannot leak into the booking.
// TotalPriceCents is computed once at creation and is immutable.
//
// Fields:
//  ID              – primary key identifier.
//  TripID          – trip being booked.
//  ClientID        – user who placed the booking.
//  ClientName      – display name captured at creation time.
//  BookingType     – SEAT or PARCEL.
//  Quantity        – seats or whole kilograms, always >= 1.
//  TotalPriceCents – quantity x matching per-unit price, fixed at creation.
//  Status          – PENDING, CONFIRMED or CANCELLED.
//  CreatedAt       – creation timestamp.
type Booking struct {
    ID              uint64    `json:"id"`
    TripID          uint64    `json:"trip_id"`
    ClientID        uint64    `json:"client_id"`
    ClientName      string    `json:"client_name"`
    BookingType     string    `json:"booking_type"`
    Quantity        uint32    `json:"quantity"`
    TotalPriceCents uint64    `json:"total_price_cents"`
    Status          string    `json:"status"`
    CreatedAt       time.Time `json:"created_at"`
}

// Terminal reports whether the booking status admits no further
// transitions.
func (b *Booking) Terminal() bool {
    return b.Status == BookingConfirmed || b.Status == BookingCancelled
}
