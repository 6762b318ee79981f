// Package repository defines sentinel error values that are reused across
// repositories and the service layer. These values let handlers map each
// failure scenario onto a stable, specific HTTP response instead of a
// generic error: insufficient capacity must stay distinguishable from an
// authorization failure, since only the former is retryable after a change.
package repository

import "errors"

// ErrTripNotFound indicates no trip row exists for the given identifier.
var ErrTripNotFound = errors.New("trip not found")

// ErrBookingNotFound indicates no booking row exists for the given identifier.
var ErrBookingNotFound = errors.New("booking not found")

// ErrNotificationNotFound indicates no notification row exists for the
// given identifier.
var ErrNotificationNotFound = errors.New("notification not found")

// ErrInsufficientCapacity is returned by the capacity ledger when the
// requested quantity exceeds the trip's remaining seats or weight. No
// change is made to the counters. Handlers translate this into 409.
var ErrInsufficientCapacity = errors.New("insufficient capacity")

// ErrTripNotActive is returned when a reservation targets a trip whose
// status is not ACTIVE. Completed and cancelled trips accept no bookings.
var ErrTripNotActive = errors.New("trip not active")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they are not authorized to mutate, such as confirming a booking
// on someone else's trip. Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidTransition is returned when a booking status change targets a
// booking that is already in a terminal state (CONFIRMED or CANCELLED).
var ErrInvalidTransition = errors.New("booking already finalized")

// ErrInvalidQuantity is returned when a booking request carries a
// non-positive quantity.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// ErrInvalidBookingType is returned when a booking request carries a type
// outside the closed SEAT/PARCEL set.
var ErrInvalidBookingType = errors.New("booking type must be SEAT or PARCEL")

// ErrEmailExists is returned on registration when the email is taken.
var ErrEmailExists = errors.New("email already exists")
