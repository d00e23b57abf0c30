package repository

import (
	"context"

	"carpool/internal/domain"
)

// VehicleRepository defines the persistence operations for vehicles.
// Each owner has at most one vehicle, enforced by Upsert.
type VehicleRepository interface {
	// Upsert creates the owner's vehicle or replaces the existing one.
	Upsert(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID retrieves a vehicle by ID.
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)

	// GetByOwnerID retrieves the vehicle registered to an owner.
	GetByOwnerID(ctx context.Context, ownerID string) (*domain.Vehicle, error)

	// Delete removes a vehicle.
	Delete(ctx context.Context, id string) error
}
