package postgres

import (
	"context"
	"database/sql"

	"carpool/internal/repository"
)

// Store is the PostgreSQL implementation of repository.Store.
type Store struct {
	db       *sql.DB
	rides    *RideRepository
	bookings *BookingRepository
}

// NewStore creates a new Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		rides:    NewRideRepository(db),
		bookings: NewBookingRepository(db),
	}
}

// Rides returns the non-transactional ride repository.
func (s *Store) Rides() repository.RideRepository { return s.rides }

// Bookings returns the non-transactional booking repository.
func (s *Store) Bookings() repository.BookingRepository { return s.bookings }

// InTx runs fn inside a single database transaction.
func (s *Store) InTx(ctx context.Context, fn func(rides repository.RideRepository, bookings repository.BookingRepository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(NewRideRepositoryWithTx(tx), NewBookingRepositoryWithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

var _ repository.Store = (*Store)(nil)
