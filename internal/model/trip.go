package model

import "time"

// Trip statuses.  A trip is soft-retired by moving it to COMPLETED or
// CANCELLED; rows are never hard-deleted while bookings reference them.
const (
    TripActive    = "ACTIVE"
    TripCompleted = "COMPLETED"
    TripCancelled = "CANCELLED"
)

// Trip is a transporter's offered capacity between two locations on a
// given departure.  The capacity counters are mutated only by the
// reservation ledger (TripRepo.ReserveCapacityTx / ReleaseCapacityTx);
// descriptive fields are mutated only by the owning transporter.
//
// Fields:
//  ID                – primary key identifier.
//  TransporterID     – user offering the trip.
//  TransporterName   – display name captured at creation time.
//  FromLocation      – free-text origin.
//  ToLocation        – free-text destination.
//  DepartureDate     – scheduled departure (UTC).
//  AvailableSeats    – remaining bookable seats (offered 1–8, never negative).
//  AvailableWeightKg – remaining bookable cargo weight (offered 0.5–100.0).
//  PricePerSeatCents – seat price in cents, fixed per trip.
//  PricePerKgCents   – parcel price per kilogram in cents.
//  Notes             – optional free text for riders.
//  Status            – ACTIVE, COMPLETED or CANCELLED.
//  CreatedAt         – creation timestamp.
type Trip struct {
    ID                uint64    `json:"id"`
    TransporterID     uint64    `json:"transporter_id"`
    TransporterName   string    `json:"transporter_name"`
    FromLocation      string    `json:"from_location"`
    ToLocation        string    `json:"to_location"`
    DepartureDate     time.Time `json:"departure_date"`
    AvailableSeats    int32     `json:"available_seats"`
    AvailableWeightKg float64   `json:"available_weight_kg"`
    PricePerSeatCents uint32    `json:"price_per_seat_cents"`
    PricePerKgCents   uint32    `json:"price_per_kg_cents"`
    Notes             string    `json:"notes,omitempty"`
    Status            string    `json:"status"`
    CreatedAt         time.Time `json:"created_at"`
}
