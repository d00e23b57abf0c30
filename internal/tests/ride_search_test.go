package tests

import (
	"context"
	"testing"
	"time"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// ──────────────────────────────────────────────
// 9. RIDE SEARCH
// ──────────────────────────────────────────────

func searchFixture() (*service.RideService, *MockStore) {
	store := NewMockStore()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "owner-1", Name: "Omar", Role: domain.RoleCarOwner})

	r1 := activeRide("ride-1", "owner-1", 4)
	r1.Source = "Cairo"
	r1.Destination = "Alexandria"
	r1.DepartureAt = time.Now().Add(24 * time.Hour)
	store.RideRepo.AddRide(r1)

	r2 := activeRide("ride-2", "owner-1", 4)
	r2.Source = "New Cairo"
	r2.Destination = "Luxor"
	r2.DepartureAt = time.Now().Add(48 * time.Hour)
	store.RideRepo.AddRide(r2)

	r3 := activeRide("ride-3", "owner-1", 4)
	r3.Source = "Giza"
	r3.Destination = "Alexandria"
	r3.DepartureAt = time.Now().Add(24 * time.Hour)
	r3.Status = domain.RideStatusCancelled
	store.RideRepo.AddRide(r3)

	svc := newRideService(store, NewMockVehicleRepository(), userRepo, NewMockLockStore(), NewMockCacheStore())
	return svc, store
}

func TestSearch_SubstringMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	svc, _ := searchFixture()

	details, err := svc.Search(context.Background(), service.SearchRequest{Source: "cairo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// "cairo" matches both "Cairo" and "New Cairo".
	if len(details) != 2 {
		t.Fatalf("expected 2 rides, got %d", len(details))
	}
}

func TestSearch_FiltersAreConjunctive(t *testing.T) {
	t.Parallel()

	svc, _ := searchFixture()

	details, err := svc.Search(context.Background(), service.SearchRequest{
		Source:      "cairo",
		Destination: "alex",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 ride, got %d", len(details))
	}
	if details[0].Ride.ID != "ride-1" {
		t.Errorf("expected ride-1, got %s", details[0].Ride.ID)
	}
}

func TestSearch_ByDepartureDay(t *testing.T) {
	t.Parallel()

	svc, _ := searchFixture()

	day := time.Now().Add(48 * time.Hour).Format("2006-01-02")
	details, err := svc.Search(context.Background(), service.SearchRequest{RideDate: day})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 ride on %s, got %d", day, len(details))
	}
	if details[0].Ride.ID != "ride-2" {
		t.Errorf("expected ride-2, got %s", details[0].Ride.ID)
	}
}

func TestSearch_ExcludesCancelledRides(t *testing.T) {
	t.Parallel()

	svc, _ := searchFixture()

	// ride-3 matches the route but is cancelled.
	details, err := svc.Search(context.Background(), service.SearchRequest{Source: "giza"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details) != 0 {
		t.Errorf("expected no rides, got %d", len(details))
	}
}

func TestSearch_ExpiredRidesNeedIncludeCompleted(t *testing.T) {
	t.Parallel()

	svc, store := searchFixture()

	departed := activeRide("ride-departed", "owner-1", 4)
	departed.Source = "Aswan"
	departed.DepartureAt = time.Now().Add(-2 * time.Hour)
	store.RideRepo.AddRide(departed)

	ctx := context.Background()

	details, err := svc.Search(ctx, service.SearchRequest{Source: "aswan"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details) != 0 {
		t.Errorf("expected departed ride to be hidden, got %d rides", len(details))
	}

	details, err = svc.Search(ctx, service.SearchRequest{Source: "aswan", IncludeCompleted: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 ride with IncludeCompleted, got %d", len(details))
	}
	if got := details[0].Ride.EffectiveStatus(time.Now()); got != domain.RideStatusCompleted {
		t.Errorf("expected effective status COMPLETED, got %s", got)
	}
}

func TestSearch_EmptyFiltersReturnAllActive(t *testing.T) {
	t.Parallel()

	svc, _ := searchFixture()

	details, err := svc.Search(context.Background(), service.SearchRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ride-1 and ride-2; the cancelled ride-3 is never listed.
	if len(details) != 2 {
		t.Errorf("expected 2 rides, got %d", len(details))
	}
}
