package service

import (
    "github.com/mounti/trip-booking/internal/model"
    "github.com/mounti/trip-booking/internal/repository"
)

// TransitionPolicy configures who may move a booking between states.
// The transporter owning the booking's trip can always confirm or cancel
// a pending booking.  ClientCancel additionally lets the client cancel
// their own pending booking; the original system only allowed the
// transporter side, so the symmetric right is a deployment choice rather
// than a hardcoded rule.
type TransitionPolicy struct {
    ClientCancel bool
}

// authorizeTransition decides whether actorID may move the booking into
// newStatus.  It is pure: the coordinator applies the decision inside the
// same transaction as the capacity release and the status write.
//
// Returns ErrInvalidTransition when the booking is already terminal or
// the target state is not CONFIRMED/CANCELLED, and ErrForbidden when the
// actor lacks the right to perform an otherwise valid transition.
func authorizeTransition(b *model.Booking, tripTransporterID uint64, newStatus string, actorID uint64, pol TransitionPolicy) error {
    if newStatus != model.BookingConfirmed && newStatus != model.BookingCancelled {
        return repository.ErrInvalidTransition
    }
    if b.Terminal() {
        return repository.ErrInvalidTransition
    }
    if actorID == tripTransporterID && tripTransporterID != 0 {
        return nil
    }
    if pol.ClientCancel && actorID == b.ClientID && newStatus == model.BookingCancelled {
        return nil
    }
    return repository.ErrForbidden
}
