package repository

import "context"

// Store bundles ride and booking persistence and provides transactional
// execution. InTx runs fn against repositories bound to a single database
// transaction; the transaction commits when fn returns nil and rolls back
// otherwise. The Booking Arbiter relies on this so a ledger read and the
// write that depends on it can never be split across transactions.
type Store interface {
	Rides() RideRepository
	Bookings() BookingRepository

	InTx(ctx context.Context, fn func(rides RideRepository, bookings BookingRepository) error) error
}
