package repository

import (
	"context"

	"carpool/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetByOwnerID retrieves all rides posted by an owner, newest first.
	GetByOwnerID(ctx context.Context, ownerID string) ([]*domain.Ride, error)

	// GetAll retrieves all rides, newest first.
	GetAll(ctx context.Context) ([]*domain.Ride, error)

	// Update updates an existing ride.
	Update(ctx context.Context, ride *domain.Ride) error

	// CountActiveByOwner counts the owner's ACTIVE rides.
	CountActiveByOwner(ctx context.Context, ownerID string) (int, error)
}
