package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, ride_id, passenger_id, seats_requested, passenger_phone, status, created_at, updated_at`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.RideID,
		booking.PassengerID,
		booking.SeatsRequested,
		booking.PassengerPhone,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// GetByRideID retrieves all bookings on a ride, newest first.
func (r *BookingRepository) GetByRideID(ctx context.Context, rideID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ride_id = $1 ORDER BY created_at DESC`
	return r.queryBookings(ctx, query, rideID)
}

// GetByPassengerID retrieves all bookings made by a passenger, newest first.
func (r *BookingRepository) GetByPassengerID(ctx context.Context, passengerID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE passenger_id = $1 ORDER BY created_at DESC`
	return r.queryBookings(ctx, query, passengerID)
}

// GetByRideOwnerID retrieves all bookings across every ride owned by an owner.
func (r *BookingRepository) GetByRideOwnerID(ctx context.Context, ownerID string) ([]*domain.Booking, error) {
	query := `
		SELECT b.id, b.ride_id, b.passenger_id, b.seats_requested, b.passenger_phone, b.status, b.created_at, b.updated_at
		FROM bookings b
		JOIN rides r ON r.id = b.ride_id
		WHERE r.owner_id = $1
		ORDER BY b.created_at DESC
	`
	return r.queryBookings(ctx, query, ownerID)
}

// UpdateStatus transitions a booking conditionally on its current status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	result, err := r.q.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// UpdateStatusByRide transitions every booking on a ride in the from status.
func (r *BookingRepository) UpdateStatusByRide(ctx context.Context, rideID string, from, to domain.BookingStatus) (int64, error) {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE ride_id = $3 AND status = $4`

	result, err := r.q.ExecContext(ctx, query, to, time.Now(), rideID, from)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// SeatCounts aggregates the seat ledger for a ride.
func (r *BookingRepository) SeatCounts(ctx context.Context, rideID string) (domain.SeatCounts, error) {
	query := `
		SELECT
			COALESCE(SUM(seats_requested) FILTER (WHERE status = $2), 0),
			COALESCE(SUM(seats_requested) FILTER (WHERE status = $3), 0)
		FROM bookings
		WHERE ride_id = $1
	`

	var counts domain.SeatCounts
	err := r.q.QueryRowContext(ctx, query, rideID,
		domain.BookingStatusConfirmed,
		domain.BookingStatusPending,
	).Scan(&counts.Confirmed, &counts.Pending)
	return counts, err
}

// SeatCountsForRides aggregates seat ledgers for many rides at once.
func (r *BookingRepository) SeatCountsForRides(ctx context.Context, rideIDs []string) (map[string]domain.SeatCounts, error) {
	if len(rideIDs) == 0 {
		return map[string]domain.SeatCounts{}, nil
	}

	query := `
		SELECT
			ride_id,
			COALESCE(SUM(seats_requested) FILTER (WHERE status = $2), 0),
			COALESCE(SUM(seats_requested) FILTER (WHERE status = $3), 0)
		FROM bookings
		WHERE ride_id = ANY($1)
		GROUP BY ride_id
	`

	rows, err := r.q.QueryContext(ctx, query, pq.Array(rideIDs),
		domain.BookingStatusConfirmed,
		domain.BookingStatusPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]domain.SeatCounts)
	for rows.Next() {
		var rideID string
		var c domain.SeatCounts
		if err := rows.Scan(&rideID, &c.Confirmed, &c.Pending); err != nil {
			return nil, err
		}
		counts[rideID] = c
	}
	return counts, rows.Err()
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	if err := row.Scan(
		&booking.ID,
		&booking.RideID,
		&booking.PassengerID,
		&booking.SeatsRequested,
		&booking.PassengerPhone,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &booking, nil
}
