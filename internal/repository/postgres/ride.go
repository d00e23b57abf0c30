package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, owner_id, source, destination, departure_at, total_seats, price_per_km, distance_km, status, created_at, cancelled_at`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var cancelledAt sql.NullTime
	if !ride.CancelledAt.IsZero() {
		cancelledAt = sql.NullTime{Time: ride.CancelledAt, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.OwnerID,
		ride.Source,
		ride.Destination,
		ride.DepartureAt,
		ride.TotalSeats,
		ride.PricePerKm,
		ride.DistanceKm,
		ride.Status,
		ride.CreatedAt,
		cancelledAt,
	)
	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// GetByOwnerID retrieves all rides posted by an owner, newest first.
func (r *RideRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.queryRides(ctx, query, ownerID)
}

// GetAll retrieves all rides, newest first.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY created_at DESC`
	return r.queryRides(ctx, query)
}

// Update updates an existing ride.
func (r *RideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	query := `
		UPDATE rides
		SET source = $1, destination = $2, departure_at = $3, total_seats = $4,
		    price_per_km = $5, distance_km = $6, status = $7, cancelled_at = $8
		WHERE id = $9
	`

	var cancelledAt sql.NullTime
	if !ride.CancelledAt.IsZero() {
		cancelledAt = sql.NullTime{Time: ride.CancelledAt, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		ride.Source,
		ride.Destination,
		ride.DepartureAt,
		ride.TotalSeats,
		ride.PricePerKm,
		ride.DistanceKm,
		ride.Status,
		cancelledAt,
		ride.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountActiveByOwner counts the owner's ACTIVE rides.
func (r *RideRepository) CountActiveByOwner(ctx context.Context, ownerID string) (int, error) {
	query := `SELECT COUNT(*) FROM rides WHERE owner_id = $1 AND status = $2`

	var count int
	err := r.q.QueryRowContext(ctx, query, ownerID, domain.RideStatusActive).Scan(&count)
	return count, err
}

func (r *RideRepository) queryRides(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var cancelledAt sql.NullTime

	if err := row.Scan(
		&ride.ID,
		&ride.OwnerID,
		&ride.Source,
		&ride.Destination,
		&ride.DepartureAt,
		&ride.TotalSeats,
		&ride.PricePerKm,
		&ride.DistanceKm,
		&ride.Status,
		&ride.CreatedAt,
		&cancelledAt,
	); err != nil {
		return nil, err
	}

	if cancelledAt.Valid {
		ride.CancelledAt = cancelledAt.Time
	}
	return &ride, nil
}
