package tests

import (
	"context"
	"testing"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// ──────────────────────────────────────────────
// 11. VEHICLE REGISTRY
// ──────────────────────────────────────────────

func TestVehicle_UpsertCreates(t *testing.T) {
	t.Parallel()

	vehicleRepo := NewMockVehicleRepository()
	svc := service.NewVehicleService(vehicleRepo, NewMockRideRepository())

	vehicle, err := svc.Upsert(context.Background(), service.UpsertVehicleRequest{
		OwnerID:     "owner-1",
		Make:        "Toyota",
		Model:       "Corolla",
		PlateNumber: "ABC 123",
		Color:       "white",
		Capacity:    4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vehicle.Capacity != 4 {
		t.Errorf("expected capacity 4, got %d", vehicle.Capacity)
	}
	if vehicleRepo.CountVehicles() != 1 {
		t.Errorf("expected 1 vehicle, got %d", vehicleRepo.CountVehicles())
	}
}

func TestVehicle_UpsertReplacesKeepingIdentity(t *testing.T) {
	t.Parallel()

	vehicleRepo := NewMockVehicleRepository()
	svc := service.NewVehicleService(vehicleRepo, NewMockRideRepository())

	ctx := context.Background()
	first, err := svc.Upsert(ctx, service.UpsertVehicleRequest{
		OwnerID:     "owner-1",
		Make:        "Toyota",
		Model:       "Corolla",
		PlateNumber: "ABC 123",
		Capacity:    4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.Upsert(ctx, service.UpsertVehicleRequest{
		OwnerID:     "owner-1",
		Make:        "Honda",
		Model:       "Civic",
		PlateNumber: "XYZ 789",
		Capacity:    3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One vehicle per owner: the row is replaced, not duplicated.
	if vehicleRepo.CountVehicles() != 1 {
		t.Errorf("expected 1 vehicle, got %d", vehicleRepo.CountVehicles())
	}
	if second.ID != first.ID {
		t.Errorf("expected the vehicle ID to be stable across upserts, got %s then %s", first.ID, second.ID)
	}
	if second.Make != "Honda" || second.Capacity != 3 {
		t.Errorf("expected updated details, got make=%s capacity=%d", second.Make, second.Capacity)
	}
}

func TestVehicle_UpsertValidation(t *testing.T) {
	t.Parallel()

	svc := service.NewVehicleService(NewMockVehicleRepository(), NewMockRideRepository())

	tests := []struct {
		name    string
		req     service.UpsertVehicleRequest
		wantErr error
	}{
		{
			name:    "missing owner",
			req:     service.UpsertVehicleRequest{Make: "Toyota", Model: "Corolla", PlateNumber: "ABC", Capacity: 4},
			wantErr: service.ErrInvalidUserID,
		},
		{
			name:    "missing make",
			req:     service.UpsertVehicleRequest{OwnerID: "owner-1", Model: "Corolla", PlateNumber: "ABC", Capacity: 4},
			wantErr: service.ErrMissingVehicleDetails,
		},
		{
			name:    "missing plate",
			req:     service.UpsertVehicleRequest{OwnerID: "owner-1", Make: "Toyota", Model: "Corolla", Capacity: 4},
			wantErr: service.ErrMissingVehicleDetails,
		},
		{
			name:    "zero capacity",
			req:     service.UpsertVehicleRequest{OwnerID: "owner-1", Make: "Toyota", Model: "Corolla", PlateNumber: "ABC"},
			wantErr: service.ErrInvalidSeatCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(context.Background(), tt.req)
			if err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestVehicle_DeleteRequiresOwner(t *testing.T) {
	t.Parallel()

	vehicleRepo := NewMockVehicleRepository()
	vehicleRepo.AddVehicle(&domain.Vehicle{ID: "vehicle-1", OwnerID: "owner-1", Capacity: 4})
	svc := service.NewVehicleService(vehicleRepo, NewMockRideRepository())

	err := svc.Delete(context.Background(), "someone-else", "vehicle-1")
	if err != service.ErrNotVehicleOwner {
		t.Errorf("expected ErrNotVehicleOwner, got %v", err)
	}
	if vehicleRepo.CountVehicles() != 1 {
		t.Error("vehicle must not be deleted by a non-owner")
	}
}

func TestVehicle_DeleteRefusedWhileRidesActive(t *testing.T) {
	t.Parallel()

	vehicleRepo := NewMockVehicleRepository()
	vehicleRepo.AddVehicle(&domain.Vehicle{ID: "vehicle-1", OwnerID: "owner-1", Capacity: 4})

	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(activeRide("ride-1", "owner-1", 3))

	svc := service.NewVehicleService(vehicleRepo, rideRepo)

	err := svc.Delete(context.Background(), "owner-1", "vehicle-1")
	if err != service.ErrVehicleInUse {
		t.Errorf("expected ErrVehicleInUse, got %v", err)
	}
}

func TestVehicle_DeleteSucceedsOnceRidesAreDone(t *testing.T) {
	t.Parallel()

	vehicleRepo := NewMockVehicleRepository()
	vehicleRepo.AddVehicle(&domain.Vehicle{ID: "vehicle-1", OwnerID: "owner-1", Capacity: 4})

	rideRepo := NewMockRideRepository()
	cancelled := activeRide("ride-1", "owner-1", 3)
	cancelled.Status = domain.RideStatusCancelled
	rideRepo.AddRide(cancelled)

	svc := service.NewVehicleService(vehicleRepo, rideRepo)

	if err := svc.Delete(context.Background(), "owner-1", "vehicle-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vehicleRepo.CountVehicles() != 0 {
		t.Errorf("expected the vehicle to be removed, %d left", vehicleRepo.CountVehicles())
	}
}
