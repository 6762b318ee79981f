package service

import (
    "context"
    "errors"
    "fmt"
    "log"
    "strings"
    "time"

    "github.com/mounti/trip-booking/internal/model"
    "github.com/mounti/trip-booking/internal/queue"
    "github.com/mounti/trip-booking/internal/repository"
)

// BookingService coordinates the reservation flow: it validates a booking
// request, reserves trip capacity through the ledger, persists the
// booking, and triggers notification and event emission.  The capacity
// reservation and the booking insert always share one transaction, so a
// failed insert rolls the reservation back and capacity never leaks.
// Notification and queue emission happen after commit and are best-effort:
// their failure is logged, never propagated.
type BookingService struct {
    Trips    *repository.TripRepo
    Bookings *repository.BookingRepo
    Users    *repository.UserRepo
    Notifs   *NotificationService
    Policy   TransitionPolicy

    // PublishEvent is swappable for tests; it defaults to the RabbitMQ
    // publisher.
    PublishEvent func(context.Context, queue.BookingEvent) error
}

// NewBookingService wires a BookingService.  All repository dependencies
// must be non-nil.
func NewBookingService(trips *repository.TripRepo, bookings *repository.BookingRepo, users *repository.UserRepo, notifs *NotificationService, pol TransitionPolicy) *BookingService {
    if trips == nil || bookings == nil || users == nil || notifs == nil {
        panic("nil dependency passed to NewBookingService")
    }
    return &BookingService{
        Trips:        trips,
        Bookings:     bookings,
        Users:        users,
        Notifs:       notifs,
        Policy:       pol,
        PublishEvent: PublishBookingEvent,
    }
}

// CreateBookingRequest carries the client's reservation intent.  Quantity
// counts seats for SEAT bookings and whole kilograms for PARCEL bookings.
type CreateBookingRequest struct {
    TripID      uint64 `json:"trip_id"`
    BookingType string `json:"booking_type"`
    Quantity    uint32 `json:"quantity"`
}

// CreateBooking validates the request, reserves capacity and persists a
// PENDING booking in a single transaction.  The total price is fixed here
// from the trip's current per-unit price and never recomputed; later price
// changes on the trip cannot reach existing bookings.
func (s *BookingService) CreateBooking(ctx context.Context, clientID uint64, req CreateBookingRequest) (*model.Booking, error) {
    if req.Quantity < 1 {
        return nil, repository.ErrInvalidQuantity
    }
    bookingType := strings.ToUpper(strings.TrimSpace(req.BookingType))
    if bookingType != model.BookingSeat && bookingType != model.BookingParcel {
        return nil, repository.ErrInvalidBookingType
    }

    client, err := s.Users.GetByID(ctx, clientID)
    if err != nil {
        return nil, err
    }

    tx, err := s.Trips.DB().BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    trip, err := s.Trips.GetByIDTx(ctx, tx, req.TripID)
    if err != nil {
        return nil, err
    }
    if err := s.Trips.ReserveCapacityTx(ctx, tx, trip.ID, bookingType, req.Quantity); err != nil {
        return nil, err
    }

    perUnit := trip.PricePerSeatCents
    if bookingType == model.BookingParcel {
        perUnit = trip.PricePerKgCents
    }
    booking := &model.Booking{
        TripID:          trip.ID,
        ClientID:        client.ID,
        ClientName:      client.Name,
        BookingType:     bookingType,
        Quantity:        req.Quantity,
        TotalPriceCents: uint64(req.Quantity) * uint64(perUnit),
    }
    if err := s.Bookings.CreateTx(ctx, tx, booking); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true

    s.notifyTransporter(ctx, client.Name, booking, trip)
    s.publish(ctx, booking, trip)
    return booking, nil
}

// UpdateBookingStatus moves a booking into CONFIRMED or CANCELLED on
// behalf of actorID.  Authorization and the terminal-state guard come
// from the state machine, re-enforced at the write: the status UPDATE is
// conditional on PENDING, so a transition racing this one fails with
// ErrInvalidTransition instead of committing a duplicate.  On
// cancellation the reserved capacity is released in the same transaction
// as the status write, so neither a crash mid-transition nor a lost race
// can leave capacity and status out of sync or release twice.  A trip
// row that has since disappeared makes the release a tolerated no-op
// rather than a failure.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID uint64, newStatus string, actorID uint64) (*model.Booking, error) {
    newStatus = strings.ToUpper(strings.TrimSpace(newStatus))

    tx, err := s.Trips.DB().BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    booking, err := s.Bookings.GetByIDTx(ctx, tx, bookingID)
    if err != nil {
        return nil, err
    }

    var transporterID uint64
    trip, err := s.Trips.GetByIDTx(ctx, tx, booking.TripID)
    switch {
    case err == nil:
        transporterID = trip.TransporterID
    case errors.Is(err, repository.ErrTripNotFound):
        // Orphaned booking: only the client-cancel path can still apply.
    default:
        return nil, err
    }

    if err := authorizeTransition(booking, transporterID, newStatus, actorID, s.Policy); err != nil {
        return nil, err
    }

    if newStatus == model.BookingCancelled {
        err := s.Trips.ReleaseCapacityTx(ctx, tx, booking.TripID, booking.BookingType, booking.Quantity)
        if err != nil && !errors.Is(err, repository.ErrTripNotFound) {
            return nil, err
        }
    }
    if err := s.Bookings.UpdateStatusTx(ctx, tx, booking.ID, newStatus); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    booking.Status = newStatus

    s.notifyClient(ctx, booking)
    s.publish(ctx, booking, trip)
    return booking, nil
}

// GetBooking returns a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
    return s.Bookings.GetByID(ctx, id)
}

// ListMyBookings returns the client's own bookings, newest first.
func (s *BookingService) ListMyBookings(ctx context.Context, clientID uint64) ([]model.Booking, error) {
    return s.Bookings.ListByClient(ctx, clientID)
}

// ListTripBookings returns the bookings against a trip for its
// transporter.  Anyone else gets ErrForbidden.
func (s *BookingService) ListTripBookings(ctx context.Context, tripID, actorID uint64) ([]model.Booking, error) {
    trip, err := s.Trips.GetByID(ctx, tripID)
    if err != nil {
        return nil, err
    }
    if trip.TransporterID != actorID {
        return nil, repository.ErrForbidden
    }
    return s.Bookings.ListByTrip(ctx, tripID)
}

func (s *BookingService) notifyTransporter(ctx context.Context, clientName string, b *model.Booking, t *model.Trip) {
    unit := "seat"
    if b.BookingType == model.BookingParcel {
        unit = "parcel"
    }
    msg := fmt.Sprintf("%s wants to book %d %s(s) for your trip from %s to %s",
        clientName, b.Quantity, unit, t.FromLocation, t.ToLocation)
    if _, err := s.Notifs.Emit(ctx, t.TransporterID, model.NotifBookingRequest, "New Booking Request", msg); err != nil {
        log.Printf("booking %d: notify transporter failed: %v", b.ID, err)
    }
}

func (s *BookingService) notifyClient(ctx context.Context, b *model.Booking) {
    msg := fmt.Sprintf("Your booking has been %s", strings.ToLower(b.Status))
    if _, err := s.Notifs.Emit(ctx, b.ClientID, model.NotifBookingConfirmed, "Booking Status Updated", msg); err != nil {
        log.Printf("booking %d: notify client failed: %v", b.ID, err)
    }
}

func (s *BookingService) publish(ctx context.Context, b *model.Booking, t *model.Trip) {
    if s.PublishEvent == nil {
        return
    }
    ev := queue.BookingEvent{
        BookingID:       b.ID,
        TripID:          b.TripID,
        ClientID:        b.ClientID,
        ClientName:      b.ClientName,
        BookingType:     b.BookingType,
        Quantity:        b.Quantity,
        TotalPriceCents: b.TotalPriceCents,
        Status:          b.Status,
        OccurredAt:      time.Now().UTC().Format(time.RFC3339),
    }
    if t != nil {
        ev.TransporterID = t.TransporterID
        ev.FromLocation = t.FromLocation
        ev.ToLocation = t.ToLocation
    }
    if err := s.PublishEvent(ctx, ev); err != nil {
        log.Printf("booking %d: publish event failed: %v", b.ID, err)
    }
}
