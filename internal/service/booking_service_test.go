package service

import (
    "context"
    "database/sql"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"

    "github.com/mounti/trip-booking/internal/model"
    "github.com/mounti/trip-booking/internal/queue"
    "github.com/mounti/trip-booking/internal/repository"
)

func newTestService(t *testing.T) (*BookingService, sqlmock.Sqlmock, *sql.DB, *[]queue.BookingEvent) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock init error: %v", err)
    }
    svc := NewBookingService(
        repository.NewTripRepo(db),
        repository.NewBookingRepo(db),
        repository.NewUserRepo(db),
        NewNotificationService(repository.NewNotificationRepo(db)),
        TransitionPolicy{ClientCancel: true},
    )
    events := &[]queue.BookingEvent{}
    svc.PublishEvent = func(_ context.Context, ev queue.BookingEvent) error {
        *events = append(*events, ev)
        return nil
    }
    return svc, mock, db, events
}

var testDeparture = time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)

func expectUserRow(mock sqlmock.Sqlmock, id uint64, name string) {
    mock.ExpectQuery("SELECT id,email,password_hash").
        WithArgs(id).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "email", "password_hash", "name", "phone", "is_transporter", "created_at",
        }).AddRow(id, "user@example.com", "x", name, "", false, testDeparture))
}

func expectTripRow(mock sqlmock.Sqlmock, seats int32) {
    mock.ExpectQuery("SELECT id, transporter_id").
        WithArgs(3).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "transporter_id", "transporter_name", "from_location", "to_location",
            "departure_date", "available_seats", "available_weight_kg",
            "price_per_seat_cents", "price_per_kg_cents", "notes", "status", "created_at",
        }).AddRow(3, 9, "Sami", "Tunis", "Sfax", testDeparture, seats, 50.0, 4000, 150, nil, model.TripActive, testDeparture))
}

func expectBookingRow(mock sqlmock.Sqlmock, id uint64, status string) {
    mock.ExpectQuery("SELECT id, trip_id").
        WithArgs(id).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "trip_id", "client_id", "client_name", "booking_type",
            "quantity", "total_price_cents", "status", "created_at",
        }).AddRow(id, 3, 7, "Amine", model.BookingSeat, 2, 8000, status, testDeparture))
}

func expectNotification(mock sqlmock.Sqlmock, userID uint64, title, message, ntype string) {
    mock.ExpectExec("INSERT INTO notifications").
        WithArgs(userID, title, message, ntype).
        WillReturnResult(sqlmock.NewResult(21, 1))
    mock.ExpectQuery("SELECT id, user_id").
        WithArgs(21).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "user_id", "title", "message", "type", "is_read", "created_at",
        }).AddRow(21, userID, title, message, ntype, false, testDeparture))
}

func TestCreateBookingReservesCapacityAndFixesPrice(t *testing.T) {
    svc, mock, db, events := newTestService(t)
    defer db.Close()

    expectUserRow(mock, 7, "Amine")
    mock.ExpectBegin()
    expectTripRow(mock, 2)
    mock.ExpectExec("UPDATE trips SET available_seats").
        WithArgs(2, 3, model.TripActive, 2).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("INSERT INTO bookings").
        WithArgs(3, 7, "Amine", model.BookingSeat, 2, 8000).
        WillReturnResult(sqlmock.NewResult(11, 1))
    expectBookingRow(mock, 11, model.BookingPending)
    mock.ExpectCommit()
    expectNotification(mock, 9, "New Booking Request",
        "Amine wants to book 2 seat(s) for your trip from Tunis to Sfax",
        model.NotifBookingRequest)

    b, err := svc.CreateBooking(context.Background(), 7, CreateBookingRequest{
        TripID: 3, BookingType: "seat", Quantity: 2,
    })
    if err != nil {
        t.Fatalf("create booking failed: %v", err)
    }
    if b.Status != model.BookingPending {
        t.Fatalf("new booking must be PENDING, got %s", b.Status)
    }
    if b.TotalPriceCents != 8000 {
        t.Fatalf("price must be 2 x 4000 cents, got %d", b.TotalPriceCents)
    }
    if len(*events) != 1 || (*events)[0].BookingID != 11 {
        t.Fatalf("expected one published event for booking 11, got %+v", *events)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

// Full life of a two-seat trip: the first request takes both seats, a
// follow-up request finds nothing to reserve and fails without touching
// the ledger, and the transporter's cancel puts both seats back and
// notifies the client.
func TestTwoSeatBookingLifecycle(t *testing.T) {
    svc, mock, db, events := newTestService(t)
    defer db.Close()

    expectUserRow(mock, 7, "Amine")
    mock.ExpectBegin()
    expectTripRow(mock, 2)
    mock.ExpectExec("UPDATE trips SET available_seats").
        WithArgs(2, 3, model.TripActive, 2).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("INSERT INTO bookings").
        WillReturnResult(sqlmock.NewResult(11, 1))
    expectBookingRow(mock, 11, model.BookingPending)
    mock.ExpectCommit()
    expectNotification(mock, 9, "New Booking Request",
        "Amine wants to book 2 seat(s) for your trip from Tunis to Sfax",
        model.NotifBookingRequest)

    if _, err := svc.CreateBooking(context.Background(), 7, CreateBookingRequest{
        TripID: 3, BookingType: model.BookingSeat, Quantity: 2,
    }); err != nil {
        t.Fatalf("first booking failed: %v", err)
    }

    expectUserRow(mock, 8, "Lina")
    mock.ExpectBegin()
    expectTripRow(mock, 0)
    mock.ExpectExec("UPDATE trips SET available_seats").
        WithArgs(1, 3, model.TripActive, 1).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery("SELECT status, available_seats, available_weight_kg").
        WithArgs(3).
        WillReturnRows(sqlmock.NewRows([]string{"status", "available_seats", "available_weight_kg"}).
            AddRow(model.TripActive, 0, 50.0))
    mock.ExpectRollback()

    _, err := svc.CreateBooking(context.Background(), 8, CreateBookingRequest{
        TripID: 3, BookingType: model.BookingSeat, Quantity: 1,
    })
    if !errors.Is(err, repository.ErrInsufficientCapacity) {
        t.Fatalf("want ErrInsufficientCapacity, got %v", err)
    }
    if len(*events) != 1 {
        t.Fatalf("failed booking must not publish an event, got %d", len(*events))
    }

    mock.ExpectBegin()
    expectBookingRow(mock, 11, model.BookingPending)
    expectTripRow(mock, 0)
    mock.ExpectExec("UPDATE trips SET available_seats").
        WithArgs(2, 3).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("UPDATE bookings SET status").
        WithArgs(model.BookingCancelled, 11, model.BookingPending).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()
    expectNotification(mock, 7, "Booking Status Updated",
        "Your booking has been cancelled", model.NotifBookingConfirmed)

    b, err := svc.UpdateBookingStatus(context.Background(), 11, model.BookingCancelled, 9)
    if err != nil {
        t.Fatalf("transporter cancel failed: %v", err)
    }
    if b.Status != model.BookingCancelled {
        t.Fatalf("want CANCELLED, got %s", b.Status)
    }
    if len(*events) != 2 || (*events)[1].Status != model.BookingCancelled {
        t.Fatalf("expected a second event for the cancellation, got %+v", *events)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestCreateBookingInsertFailureRollsBack(t *testing.T) {
    svc, mock, db, events := newTestService(t)
    defer db.Close()

    expectUserRow(mock, 7, "Amine")
    mock.ExpectBegin()
    expectTripRow(mock, 2)
    mock.ExpectExec("UPDATE trips SET available_seats").
        WillReturnResult(sqlmock.NewResult(0, 1))
    insertErr := errors.New("insert blew up")
    mock.ExpectExec("INSERT INTO bookings").WillReturnError(insertErr)
    mock.ExpectRollback()

    _, err := svc.CreateBooking(context.Background(), 7, CreateBookingRequest{
        TripID: 3, BookingType: model.BookingSeat, Quantity: 2,
    })
    if !errors.Is(err, insertErr) {
        t.Fatalf("want insert error, got %v", err)
    }
    if len(*events) != 0 {
        t.Fatalf("no event may be published on rollback")
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestCreateBookingRejectsBadInput(t *testing.T) {
    svc, _, db, _ := newTestService(t)
    defer db.Close()

    if _, err := svc.CreateBooking(context.Background(), 7, CreateBookingRequest{
        TripID: 3, BookingType: model.BookingSeat, Quantity: 0,
    }); !errors.Is(err, repository.ErrInvalidQuantity) {
        t.Fatalf("want ErrInvalidQuantity, got %v", err)
    }
    if _, err := svc.CreateBooking(context.Background(), 7, CreateBookingRequest{
        TripID: 3, BookingType: "CRATE", Quantity: 1,
    }); !errors.Is(err, repository.ErrInvalidBookingType) {
        t.Fatalf("want ErrInvalidBookingType, got %v", err)
    }
}

func TestCancelReleasesCapacity(t *testing.T) {
    svc, mock, db, events := newTestService(t)
    defer db.Close()

    mock.ExpectBegin()
    expectBookingRow(mock, 11, model.BookingPending)
    expectTripRow(mock, 0)
    mock.ExpectExec("UPDATE trips SET available_seats").
        WithArgs(2, 3).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("UPDATE bookings SET status").
        WithArgs(model.BookingCancelled, 11, model.BookingPending).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()
    expectNotification(mock, 7, "Booking Status Updated",
        "Your booking has been cancelled", model.NotifBookingConfirmed)

    b, err := svc.UpdateBookingStatus(context.Background(), 11, model.BookingCancelled, 7)
    if err != nil {
        t.Fatalf("cancel failed: %v", err)
    }
    if b.Status != model.BookingCancelled {
        t.Fatalf("want CANCELLED, got %s", b.Status)
    }
    if len(*events) != 1 || (*events)[0].Status != model.BookingCancelled {
        t.Fatalf("expected one cancellation event, got %+v", *events)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestConfirmDoesNotTouchCapacity(t *testing.T) {
    svc, mock, db, _ := newTestService(t)
    defer db.Close()

    mock.ExpectBegin()
    expectBookingRow(mock, 11, model.BookingPending)
    expectTripRow(mock, 0)
    mock.ExpectExec("UPDATE bookings SET status").
        WithArgs(model.BookingConfirmed, 11, model.BookingPending).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()
    expectNotification(mock, 7, "Booking Status Updated",
        "Your booking has been confirmed", model.NotifBookingConfirmed)

    b, err := svc.UpdateBookingStatus(context.Background(), 11, model.BookingConfirmed, 9)
    if err != nil {
        t.Fatalf("confirm failed: %v", err)
    }
    if b.Status != model.BookingConfirmed {
        t.Fatalf("want CONFIRMED, got %s", b.Status)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestFinalizedBookingStaysFinal(t *testing.T) {
    svc, mock, db, _ := newTestService(t)
    defer db.Close()

    mock.ExpectBegin()
    expectBookingRow(mock, 11, model.BookingConfirmed)
    expectTripRow(mock, 0)
    mock.ExpectRollback()

    _, err := svc.UpdateBookingStatus(context.Background(), 11, model.BookingCancelled, 9)
    if !errors.Is(err, repository.ErrInvalidTransition) {
        t.Fatalf("want ErrInvalidTransition, got %v", err)
    }
}

func TestStatusUpdateByStrangerForbidden(t *testing.T) {
    svc, mock, db, _ := newTestService(t)
    defer db.Close()

    mock.ExpectBegin()
    expectBookingRow(mock, 11, model.BookingPending)
    expectTripRow(mock, 0)
    mock.ExpectRollback()

    _, err := svc.UpdateBookingStatus(context.Background(), 11, model.BookingConfirmed, 5)
    if !errors.Is(err, repository.ErrForbidden) {
        t.Fatalf("want ErrForbidden, got %v", err)
    }
}

// The trip row may be gone while bookings still reference it; cancelling
// must still work and treat the capacity release as a no-op.
func TestCancelToleratesMissingTrip(t *testing.T) {
    svc, mock, db, _ := newTestService(t)
    defer db.Close()

    mock.ExpectBegin()
    expectBookingRow(mock, 11, model.BookingPending)
    mock.ExpectQuery("SELECT id, transporter_id").
        WithArgs(3).
        WillReturnError(sql.ErrNoRows)
    mock.ExpectExec("UPDATE trips SET available_seats").
        WithArgs(2, 3).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectExec("UPDATE bookings SET status").
        WithArgs(model.BookingCancelled, 11, model.BookingPending).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()
    expectNotification(mock, 7, "Booking Status Updated",
        "Your booking has been cancelled", model.NotifBookingConfirmed)

    b, err := svc.UpdateBookingStatus(context.Background(), 11, model.BookingCancelled, 7)
    if err != nil {
        t.Fatalf("cancel on orphaned booking failed: %v", err)
    }
    if b.Status != model.BookingCancelled {
        t.Fatalf("want CANCELLED, got %s", b.Status)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

// Two transitions racing the same booking can both read PENDING before
// either commits.  The status write is conditional on PENDING, so the
// loser matches zero rows and its whole transaction, capacity release
// included, rolls back instead of committing a second release.
func TestRacingTransitionRollsBackCapacityRelease(t *testing.T) {
    svc, mock, db, events := newTestService(t)
    defer db.Close()

    mock.ExpectBegin()
    expectBookingRow(mock, 11, model.BookingPending)
    expectTripRow(mock, 0)
    mock.ExpectExec("UPDATE trips SET available_seats").
        WithArgs(2, 3).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("UPDATE bookings SET status").
        WithArgs(model.BookingCancelled, 11, model.BookingPending).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    _, err := svc.UpdateBookingStatus(context.Background(), 11, model.BookingCancelled, 7)
    if !errors.Is(err, repository.ErrInvalidTransition) {
        t.Fatalf("want ErrInvalidTransition, got %v", err)
    }
    if len(*events) != 0 {
        t.Fatalf("losing transition must not publish an event, got %+v", *events)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

// A price edit on the trip must never reach bookings priced earlier: the
// edit statement is pinned end to end so it can only touch trip columns,
// the expectation order leaves no room for a bookings write, and the
// stored total re-reads unchanged.
func TestTripPriceEditLeavesBookingPriceAlone(t *testing.T) {
    svc, mock, db, _ := newTestService(t)
    defer db.Close()

    expectUserRow(mock, 7, "Amine")
    mock.ExpectBegin()
    expectTripRow(mock, 2)
    mock.ExpectExec("UPDATE trips SET available_seats").
        WithArgs(2, 3, model.TripActive, 2).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("INSERT INTO bookings").
        WithArgs(3, 7, "Amine", model.BookingSeat, 2, 8000).
        WillReturnResult(sqlmock.NewResult(11, 1))
    expectBookingRow(mock, 11, model.BookingPending)
    mock.ExpectCommit()
    expectNotification(mock, 9, "New Booking Request",
        "Amine wants to book 2 seat(s) for your trip from Tunis to Sfax",
        model.NotifBookingRequest)

    if _, err := svc.CreateBooking(context.Background(), 7, CreateBookingRequest{
        TripID: 3, BookingType: model.BookingSeat, Quantity: 2,
    }); err != nil {
        t.Fatalf("booking failed: %v", err)
    }

    mock.ExpectQuery("SELECT transporter_id FROM trips").
        WithArgs(uint64(3)).
        WillReturnRows(sqlmock.NewRows([]string{"transporter_id"}).AddRow(9))
    mock.ExpectExec(`^UPDATE trips SET from_location = \?, to_location = \?, departure_date = \?, price_per_seat_cents = \?, price_per_kg_cents = \?, notes = \? WHERE id = \?$`).
        WithArgs("Tunis", "Sfax", testDeparture, uint32(9000), uint32(150), "", uint64(3)).
        WillReturnResult(sqlmock.NewResult(0, 1))

    err := svc.Trips.UpdateDescriptive(context.Background(), &model.Trip{
        ID:                3,
        FromLocation:      "Tunis",
        ToLocation:        "Sfax",
        DepartureDate:     testDeparture,
        PricePerSeatCents: 9000,
        PricePerKgCents:   150,
    }, 9)
    if err != nil {
        t.Fatalf("trip price edit failed: %v", err)
    }

    expectBookingRow(mock, 11, model.BookingPending)
    b, err := svc.GetBooking(context.Background(), 11)
    if err != nil {
        t.Fatalf("re-read failed: %v", err)
    }
    if b.TotalPriceCents != 8000 {
        t.Fatalf("booked total must stay at 8000 cents, got %d", b.TotalPriceCents)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}
