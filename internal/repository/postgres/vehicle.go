package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// VehicleRepository implements repository.VehicleRepository using PostgreSQL.
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository creates a new VehicleRepository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Upsert creates the owner's vehicle or replaces the existing one.
// owner_id carries a unique constraint so each owner keeps one vehicle.
func (r *VehicleRepository) Upsert(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, owner_id, make, model, plate_number, color, capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (owner_id) DO UPDATE
		SET make = EXCLUDED.make,
		    model = EXCLUDED.model,
		    plate_number = EXCLUDED.plate_number,
		    color = EXCLUDED.color,
		    capacity = EXCLUDED.capacity,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.OwnerID,
		vehicle.Make,
		vehicle.Model,
		vehicle.PlateNumber,
		vehicle.Color,
		vehicle.Capacity,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)
	return err
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT id, owner_id, make, model, plate_number, color, capacity, created_at, updated_at FROM vehicles WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByOwnerID retrieves the vehicle registered to an owner.
func (r *VehicleRepository) GetByOwnerID(ctx context.Context, ownerID string) (*domain.Vehicle, error) {
	query := `SELECT id, owner_id, make, model, plate_number, color, capacity, created_at, updated_at FROM vehicles WHERE owner_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, ownerID))
}

// Delete removes a vehicle.
func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
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

func (r *VehicleRepository) scanOne(row *sql.Row) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	err := row.Scan(
		&vehicle.ID,
		&vehicle.OwnerID,
		&vehicle.Make,
		&vehicle.Model,
		&vehicle.PlateNumber,
		&vehicle.Color,
		&vehicle.Capacity,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}
