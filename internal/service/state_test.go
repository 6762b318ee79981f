package service

import (
    "testing"

    "github.com/mounti/trip-booking/internal/model"
    "github.com/mounti/trip-booking/internal/repository"
)

func pendingBooking(clientID uint64) *model.Booking {
    return &model.Booking{ID: 11, TripID: 3, ClientID: clientID, Status: model.BookingPending}
}

func TestTransporterConfirmsPendingBooking(t *testing.T) {
    b := pendingBooking(7)
    if err := authorizeTransition(b, 9, model.BookingConfirmed, 9, TransitionPolicy{}); err != nil {
        t.Fatalf("transporter confirm should be allowed, got %v", err)
    }
    if err := authorizeTransition(b, 9, model.BookingCancelled, 9, TransitionPolicy{}); err != nil {
        t.Fatalf("transporter cancel should be allowed, got %v", err)
    }
}

func TestClientCancelFollowsPolicy(t *testing.T) {
    b := pendingBooking(7)
    if err := authorizeTransition(b, 9, model.BookingCancelled, 7, TransitionPolicy{ClientCancel: true}); err != nil {
        t.Fatalf("client cancel should be allowed under the policy, got %v", err)
    }
    if err := authorizeTransition(b, 9, model.BookingCancelled, 7, TransitionPolicy{ClientCancel: false}); err != repository.ErrForbidden {
        t.Fatalf("client cancel with policy off should be forbidden, got %v", err)
    }
}

func TestClientMayNeverConfirm(t *testing.T) {
    b := pendingBooking(7)
    err := authorizeTransition(b, 9, model.BookingConfirmed, 7, TransitionPolicy{ClientCancel: true})
    if err != repository.ErrForbidden {
        t.Fatalf("client confirm should be forbidden, got %v", err)
    }
}

func TestStrangerForbidden(t *testing.T) {
    b := pendingBooking(7)
    err := authorizeTransition(b, 9, model.BookingCancelled, 5, TransitionPolicy{ClientCancel: true})
    if err != repository.ErrForbidden {
        t.Fatalf("unrelated actor should be forbidden, got %v", err)
    }
}

func TestTerminalBookingRejectsAnyTransition(t *testing.T) {
    for _, status := range []string{model.BookingConfirmed, model.BookingCancelled} {
        b := pendingBooking(7)
        b.Status = status
        err := authorizeTransition(b, 9, model.BookingCancelled, 9, TransitionPolicy{ClientCancel: true})
        if err != repository.ErrInvalidTransition {
            t.Fatalf("%s booking should be final, got %v", status, err)
        }
    }
}

func TestUnknownTargetStatusRejected(t *testing.T) {
    b := pendingBooking(7)
    err := authorizeTransition(b, 9, "SHIPPED", 9, TransitionPolicy{})
    if err != repository.ErrInvalidTransition {
        t.Fatalf("unknown target status should be rejected, got %v", err)
    }
}

// A booking whose trip row is gone has no transporter; zero must not let
// an anonymous actor slip through, while the client keeps the cancel
// right.
func TestOrphanedBookingOnlyClientCancels(t *testing.T) {
    b := pendingBooking(7)
    if err := authorizeTransition(b, 0, model.BookingCancelled, 7, TransitionPolicy{ClientCancel: true}); err != nil {
        t.Fatalf("client cancel on orphaned booking should be allowed, got %v", err)
    }
    if err := authorizeTransition(b, 0, model.BookingConfirmed, 0, TransitionPolicy{ClientCancel: true}); err != repository.ErrForbidden {
        t.Fatalf("zero actor must not match the missing transporter, got %v", err)
    }
}
