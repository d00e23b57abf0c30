package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// VehicleService handles the vehicle registry. Each car owner keeps one
// vehicle; its capacity gates how many seats a ride may offer.
type VehicleService struct {
	vehicleRepo repository.VehicleRepository
	rideRepo    repository.RideRepository
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(vehicleRepo repository.VehicleRepository, rideRepo repository.RideRepository) *VehicleService {
	return &VehicleService{vehicleRepo: vehicleRepo, rideRepo: rideRepo}
}

// UpsertVehicleRequest contains the parameters for registering a vehicle.
type UpsertVehicleRequest struct {
	OwnerID     string
	Make        string
	Model       string
	PlateNumber string
	Color       string
	Capacity    int
}

// Upsert registers the owner's vehicle, replacing any existing one.
func (s *VehicleService) Upsert(ctx context.Context, req UpsertVehicleRequest) (*domain.Vehicle, error) {
	if req.OwnerID == "" {
		return nil, ErrInvalidUserID
	}
	if req.Make == "" || req.Model == "" || req.PlateNumber == "" {
		return nil, ErrMissingVehicleDetails
	}
	if req.Capacity < 1 {
		return nil, ErrInvalidSeatCount
	}

	now := time.Now()
	vehicle := &domain.Vehicle{
		ID:          uuid.New().String(),
		OwnerID:     req.OwnerID,
		Make:        req.Make,
		Model:       req.Model,
		PlateNumber: req.PlateNumber,
		Color:       req.Color,
		Capacity:    req.Capacity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.vehicleRepo.Upsert(ctx, vehicle); err != nil {
		return nil, err
	}

	// The upsert keeps the existing row's id and created_at when the
	// owner already had a vehicle; re-read for the authoritative record.
	return s.vehicleRepo.GetByOwnerID(ctx, req.OwnerID)
}

// GetMine retrieves the caller's vehicle.
func (s *VehicleService) GetMine(ctx context.Context, ownerID string) (*domain.Vehicle, error) {
	if ownerID == "" {
		return nil, ErrInvalidUserID
	}
	return s.vehicleRepo.GetByOwnerID(ctx, ownerID)
}

// Get retrieves a vehicle by ID.
func (s *VehicleService) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	if id == "" {
		return nil, ErrInvalidVehicleID
	}
	return s.vehicleRepo.GetByID(ctx, id)
}

// Delete removes the caller's vehicle. Refused while the owner still has
// ACTIVE rides, since those rides were gated on the vehicle's capacity.
func (s *VehicleService) Delete(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return ErrInvalidVehicleID
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if vehicle.OwnerID != ownerID {
		return ErrNotVehicleOwner
	}

	active, err := s.rideRepo.CountActiveByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrVehicleInUse
	}

	return s.vehicleRepo.Delete(ctx, id)
}
