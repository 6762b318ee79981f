// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingEvent is published when a booking is requested or when its
// status changes.  It carries enough information for downstream consumers
// to log or trigger follow-up work without querying the primary database.
// Timestamps are RFC3339 strings in UTC.
type BookingEvent struct {
    BookingID       uint64 `json:"booking_id"`
    TripID          uint64 `json:"trip_id"`
    ClientID        uint64 `json:"client_id"`
    ClientName      string `json:"client_name"`
    TransporterID   uint64 `json:"transporter_id"`
    BookingType     string `json:"booking_type"`
    Quantity        uint32 `json:"quantity"`
    TotalPriceCents uint64 `json:"total_price_cents"`
    Status          string `json:"status"`
    FromLocation    string `json:"from_location"`
    ToLocation      string `json:"to_location"`
    OccurredAt      string `json:"occurred_at"`
}
