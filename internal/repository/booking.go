package repository

import (
	"context"

	"carpool/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetByRideID retrieves all bookings on a ride, newest first.
	GetByRideID(ctx context.Context, rideID string) ([]*domain.Booking, error)

	// GetByPassengerID retrieves all bookings made by a passenger, newest first.
	GetByPassengerID(ctx context.Context, passengerID string) ([]*domain.Booking, error)

	// GetByRideOwnerID retrieves all bookings across every ride owned by
	// the given owner, newest first.
	GetByRideOwnerID(ctx context.Context, ownerID string) ([]*domain.Booking, error)

	// UpdateStatus transitions a booking from one status to another.
	// The update is conditional on the booking still being in the from
	// status; it reports whether a row was changed.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error)

	// UpdateStatusByRide transitions every booking on a ride that is in
	// the from status to the to status. Returns the number of bookings changed.
	UpdateStatusByRide(ctx context.Context, rideID string, from, to domain.BookingStatus) (int64, error)

	// SeatCounts aggregates the seat ledger for a ride.
	SeatCounts(ctx context.Context, rideID string) (domain.SeatCounts, error)

	// SeatCountsForRides aggregates seat ledgers for many rides at once,
	// keyed by ride ID. Rides with no bookings are absent from the result.
	SeatCountsForRides(ctx context.Context, rideIDs []string) (map[string]domain.SeatCounts, error)
}
