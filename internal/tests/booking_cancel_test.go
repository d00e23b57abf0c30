package tests

import (
	"context"
	"testing"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// ──────────────────────────────────────────────
// 3. PASSENGER CANCELLATION
// ──────────────────────────────────────────────

func TestCancelBooking_PendingReleasesSeats(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.RideRepo.AddRide(activeRide("ride-1", "owner-1", 3))
	store.BookingRepo.AddBooking(&domain.Booking{
		ID:             "booking-1",
		RideID:         "ride-1",
		PassengerID:    "passenger-1",
		SeatsRequested: 2,
		Status:         domain.BookingStatusPending,
	})

	svc := newBookingService(store, NewMockUserRepository(), NewMockLockStore(), NewMockCacheStore())

	booking, err := svc.CancelBooking(context.Background(), "passenger-1", "booking-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != domain.BookingStatusCancelled {
		t.Errorf("expected status %s, got %s", domain.BookingStatusCancelled, booking.Status)
	}

	counts, _ := store.BookingRepo.SeatCounts(context.Background(), "ride-1")
	if counts.Available(3) != 3 {
		t.Errorf("expected all seats released, got %d available", counts.Available(3))
	}
}

func TestCancelBooking_ConfirmedReleasesSeats(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.RideRepo.AddRide(activeRide("ride-1", "owner-1", 3))
	store.BookingRepo.AddBooking(&domain.Booking{
		ID:             "booking-1",
		RideID:         "ride-1",
		PassengerID:    "passenger-1",
		SeatsRequested: 3,
		Status:         domain.BookingStatusConfirmed,
	})

	svc := newBookingService(store, NewMockUserRepository(), NewMockLockStore(), NewMockCacheStore())

	_, err := svc.CancelBooking(context.Background(), "passenger-1", "booking-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts, _ := store.BookingRepo.SeatCounts(context.Background(), "ride-1")
	if counts.Confirmed != 0 {
		t.Errorf("expected 0 confirmed seats, got %d", counts.Confirmed)
	}
	if counts.Available(3) != 3 {
		t.Errorf("expected 3 available seats, got %d", counts.Available(3))
	}
}

func TestCancelBooking_DoubleCancelIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.RideRepo.AddRide(activeRide("ride-1", "owner-1", 3))
	store.BookingRepo.AddBooking(&domain.Booking{
		ID:             "booking-1",
		RideID:         "ride-1",
		PassengerID:    "passenger-1",
		SeatsRequested: 2,
		Status:         domain.BookingStatusPending,
	})

	svc := newBookingService(store, NewMockUserRepository(), NewMockLockStore(), NewMockCacheStore())

	ctx := context.Background()
	if _, err := svc.CancelBooking(ctx, "passenger-1", "booking-1"); err != nil {
		t.Fatalf("unexpected error on first cancel: %v", err)
	}

	// Retrying the cancel is a no-op, not an error.
	booking, err := svc.CancelBooking(ctx, "passenger-1", "booking-1")
	if err != nil {
		t.Fatalf("unexpected error on second cancel: %v", err)
	}
	if booking.Status != domain.BookingStatusCancelled {
		t.Errorf("expected status %s, got %s", domain.BookingStatusCancelled, booking.Status)
	}

	// The ledger must not double-release.
	counts, _ := store.BookingRepo.SeatCounts(ctx, "ride-1")
	if counts.Available(3) != 3 {
		t.Errorf("expected 3 available seats, got %d", counts.Available(3))
	}
}

func TestCancelBooking_RejectedCannotBeCancelled(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.RideRepo.AddRide(activeRide("ride-1", "owner-1", 3))
	store.BookingRepo.AddBooking(&domain.Booking{
		ID:          "booking-1",
		RideID:      "ride-1",
		PassengerID: "passenger-1",
		Status:      domain.BookingStatusRejected,
	})

	svc := newBookingService(store, NewMockUserRepository(), NewMockLockStore(), NewMockCacheStore())

	_, err := svc.CancelBooking(context.Background(), "passenger-1", "booking-1")
	if err != service.ErrBookingNotCancellable {
		t.Errorf("expected ErrBookingNotCancellable, got %v", err)
	}
}

func TestCancelBooking_RequiresBookingPassenger(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.RideRepo.AddRide(activeRide("ride-1", "owner-1", 3))
	store.BookingRepo.AddBooking(&domain.Booking{
		ID:          "booking-1",
		RideID:      "ride-1",
		PassengerID: "passenger-1",
		Status:      domain.BookingStatusPending,
	})

	svc := newBookingService(store, NewMockUserRepository(), NewMockLockStore(), NewMockCacheStore())

	_, err := svc.CancelBooking(context.Background(), "passenger-2", "booking-1")
	if err != service.ErrNotBookingPassenger {
		t.Errorf("expected ErrNotBookingPassenger, got %v", err)
	}

	stored := store.BookingRepo.GetBooking("booking-1")
	if stored.Status != domain.BookingStatusPending {
		t.Errorf("booking should stay PENDING, got %s", stored.Status)
	}
}

func TestCancelBooking_ConcurrentCancelIsStillSuccess(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.RideRepo.AddRide(activeRide("ride-1", "owner-1", 3))
	store.BookingRepo.AddBooking(&domain.Booking{
		ID:             "booking-1",
		RideID:         "ride-1",
		PassengerID:    "passenger-1",
		SeatsRequested: 2,
		Status:         domain.BookingStatusPending,
	})

	// Another cancel of the same booking lands between this call's read
	// and write. The re-read sees CANCELLED and reports success.
	store.BookingRepo.BeforeUpdateStatus = func() {
		store.BookingRepo.GetBooking("booking-1").Status = domain.BookingStatusCancelled
		store.BookingRepo.BeforeUpdateStatus = nil
	}

	svc := newBookingService(store, NewMockUserRepository(), NewMockLockStore(), NewMockCacheStore())

	booking, err := svc.CancelBooking(context.Background(), "passenger-1", "booking-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != domain.BookingStatusCancelled {
		t.Errorf("expected status %s, got %s", domain.BookingStatusCancelled, booking.Status)
	}
}

func TestCancelBooking_ConcurrentRejectIsConflict(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.RideRepo.AddRide(activeRide("ride-1", "owner-1", 3))
	store.BookingRepo.AddBooking(&domain.Booking{
		ID:             "booking-1",
		RideID:         "ride-1",
		PassengerID:    "passenger-1",
		SeatsRequested: 2,
		Status:         domain.BookingStatusPending,
	})

	// The owner rejects between this call's read and write; the re-read
	// lands in a state the passenger did not ask for.
	store.BookingRepo.BeforeUpdateStatus = func() {
		store.BookingRepo.GetBooking("booking-1").Status = domain.BookingStatusRejected
		store.BookingRepo.BeforeUpdateStatus = nil
	}

	svc := newBookingService(store, NewMockUserRepository(), NewMockLockStore(), NewMockCacheStore())

	_, err := svc.CancelBooking(context.Background(), "passenger-1", "booking-1")
	if err != service.ErrBookingConflict {
		t.Errorf("expected ErrBookingConflict, got %v", err)
	}
	if got := store.BookingRepo.GetBooking("booking-1").Status; got != domain.BookingStatusRejected {
		t.Errorf("expected booking to stay REJECTED, got %s", got)
	}
}

// ──────────────────────────────────────────────
// 4. BOOKING LISTINGS
// ──────────────────────────────────────────────

func TestBooking_ListForRideRestrictedToOwner(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.RideRepo.AddRide(activeRide("ride-1", "owner-1", 3))

	svc := newBookingService(store, NewMockUserRepository(), NewMockLockStore(), NewMockCacheStore())

	_, err := svc.ListForRide(context.Background(), "someone-else", "ride-1")
	if err != service.ErrNotRideOwner {
		t.Errorf("expected ErrNotRideOwner, got %v", err)
	}
}

func TestBooking_ListForPassengerDenormalizes(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "owner-1", Name: "Omar", Role: domain.RoleCarOwner})
	userRepo.AddUser(&domain.User{ID: "passenger-1", Name: "Nadia", Role: domain.RolePassenger})

	store.RideRepo.AddRide(activeRide("ride-1", "owner-1", 3))
	store.BookingRepo.AddBooking(&domain.Booking{
		ID:             "booking-1",
		RideID:         "ride-1",
		PassengerID:    "passenger-1",
		SeatsRequested: 1,
		PassengerPhone: "+201001234567",
		Status:         domain.BookingStatusPending,
	})

	svc := newBookingService(store, userRepo, NewMockLockStore(), NewMockCacheStore())

	details, err := svc.ListForPassenger(context.Background(), "passenger-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(details))
	}

	d := details[0]
	if d.Ride == nil || d.Ride.ID != "ride-1" {
		t.Fatal("expected the ride to be attached")
	}
	if d.DriverName != "Omar" {
		t.Errorf("expected driver name Omar, got %q", d.DriverName)
	}
	if d.PassengerName != "Nadia" {
		t.Errorf("expected passenger name Nadia, got %q", d.PassengerName)
	}
	if d.PassengerPhone != "+201001234567" {
		t.Errorf("expected passenger phone to carry through, got %q", d.PassengerPhone)
	}
}

func TestBooking_ListForOwnerCoversAllRides(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "owner-1", Name: "Omar", Role: domain.RoleCarOwner})

	store.RideRepo.AddRide(activeRide("ride-1", "owner-1", 3))
	store.RideRepo.AddRide(activeRide("ride-2", "owner-1", 2))
	store.RideRepo.AddRide(activeRide("ride-3", "other-owner", 2))

	store.BookingRepo.AddBooking(&domain.Booking{
		ID: "booking-1", RideID: "ride-1", PassengerID: "p-1", SeatsRequested: 1, Status: domain.BookingStatusPending,
	})
	store.BookingRepo.AddBooking(&domain.Booking{
		ID: "booking-2", RideID: "ride-2", PassengerID: "p-2", SeatsRequested: 1, Status: domain.BookingStatusConfirmed,
	})
	store.BookingRepo.AddBooking(&domain.Booking{
		ID: "booking-3", RideID: "ride-3", PassengerID: "p-3", SeatsRequested: 1, Status: domain.BookingStatusPending,
	})

	svc := newBookingService(store, userRepo, NewMockLockStore(), NewMockCacheStore())

	details, err := svc.ListForOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 bookings on the owner's rides, got %d", len(details))
	}
	for _, d := range details {
		if d.Ride.OwnerID != "owner-1" {
			t.Errorf("booking %s belongs to a foreign ride", d.Booking.ID)
		}
	}
}
