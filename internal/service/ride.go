package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// RideService handles the ride catalog: posting, updating, cancelling
// and querying ride offers.
type RideService struct {
	store               repository.Store
	vehicleRepo         repository.VehicleRepository
	userRepo            repository.UserRepository
	lockStore           redis.LockStoreInterface
	cacheStore          redis.CacheStoreInterface
	notificationService *NotificationService
}

// NewRideService creates a new RideService.
func NewRideService(
	store repository.Store,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	notificationService *NotificationService,
) *RideService {
	return &RideService{
		store:               store,
		vehicleRepo:         vehicleRepo,
		userRepo:            userRepo,
		lockStore:           lockStore,
		cacheStore:          cacheStore,
		notificationService: notificationService,
	}
}

// RideDetail is the read model for one ride: the ride itself, its live
// seat ledger and the owner's display name.
type RideDetail struct {
	Ride      *domain.Ride
	Seats     domain.SeatCounts
	OwnerName string
}

// PostRideRequest contains the parameters for posting a ride.
type PostRideRequest struct {
	OwnerID     string
	Source      string
	Destination string
	DepartureAt time.Time
	TotalSeats  int
	PricePerKm  float64
	DistanceKm  float64
}

// PostRide creates a new ACTIVE ride offer. The owner must have a
// registered vehicle whose capacity covers the offered seats.
func (s *RideService) PostRide(ctx context.Context, req PostRideRequest) (*domain.Ride, error) {
	if err := s.validateRideDetails(req.Source, req.Destination, req.DepartureAt, req.TotalSeats, req.PricePerKm, req.DistanceKm); err != nil {
		return nil, err
	}
	if req.OwnerID == "" {
		return nil, ErrInvalidUserID
	}

	vehicle, err := s.vehicleRepo.GetByOwnerID(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVehicleRequired
		}
		return nil, err
	}

	if req.TotalSeats > vehicle.Capacity {
		return nil, ErrVehicleCapacityExceeded
	}

	ride := &domain.Ride{
		ID:          uuid.New().String(),
		OwnerID:     req.OwnerID,
		Source:      strings.TrimSpace(req.Source),
		Destination: strings.TrimSpace(req.Destination),
		DepartureAt: req.DepartureAt,
		TotalSeats:  req.TotalSeats,
		PricePerKm:  req.PricePerKm,
		DistanceKm:  req.DistanceKm,
		Status:      domain.RideStatusActive,
		CreatedAt:   time.Now(),
	}

	if err := s.store.Rides().Create(ctx, ride); err != nil {
		return nil, err
	}

	s.invalidateActiveRides(ctx)

	return ride, nil
}

// UpdateRideRequest contains the parameters for editing a ride.
type UpdateRideRequest struct {
	OwnerID     string
	RideID      string
	Source      string
	Destination string
	DepartureAt time.Time
	TotalSeats  int
	PricePerKm  float64
	DistanceKm  float64
}

// UpdateRide edits an ACTIVE ride. Total seats may not drop below the
// seats already held by pending or confirmed bookings.
func (s *RideService) UpdateRide(ctx context.Context, req UpdateRideRequest) (*domain.Ride, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if err := s.validateRideDetails(req.Source, req.Destination, req.DepartureAt, req.TotalSeats, req.PricePerKm, req.DistanceKm); err != nil {
		return nil, err
	}

	release, err := s.lockRide(ctx, req.RideID)
	if err != nil {
		return nil, err
	}
	defer release()

	var updated *domain.Ride
	err = s.store.InTx(ctx, func(rides repository.RideRepository, bookings repository.BookingRepository) error {
		ride, err := rides.GetByID(ctx, req.RideID)
		if err != nil {
			return err
		}

		// Ownership first, so a non-owner gets a forbidden answer rather
		// than one about their own vehicle.
		if ride.OwnerID != req.OwnerID {
			return ErrNotRideOwner
		}
		if ride.Status != domain.RideStatusActive {
			return ErrRideNotActive
		}

		vehicle, err := s.vehicleRepo.GetByOwnerID(ctx, req.OwnerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrVehicleRequired
			}
			return err
		}
		if req.TotalSeats > vehicle.Capacity {
			return ErrVehicleCapacityExceeded
		}

		counts, err := bookings.SeatCounts(ctx, ride.ID)
		if err != nil {
			return err
		}
		if req.TotalSeats < counts.Confirmed+counts.Pending {
			return ErrSeatsAlreadyReserved
		}

		ride.Source = strings.TrimSpace(req.Source)
		ride.Destination = strings.TrimSpace(req.Destination)
		ride.DepartureAt = req.DepartureAt
		ride.TotalSeats = req.TotalSeats
		ride.PricePerKm = req.PricePerKm
		ride.DistanceKm = req.DistanceKm

		if err := rides.Update(ctx, ride); err != nil {
			return err
		}

		updated = ride
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateActiveRides(ctx)

	return updated, nil
}

// CancelRideResult reports the cascade applied by a ride cancellation.
type CancelRideResult struct {
	Ride               *domain.Ride
	RejectedPending    int64
	CancelledConfirmed int64
}

// CancelRide transitions an ACTIVE ride to CANCELLED and cascades to its
// bookings in the same transaction: PENDING bookings become REJECTED and
// CONFIRMED bookings become CANCELLED.
func (s *RideService) CancelRide(ctx context.Context, ownerID, rideID string) (*CancelRideResult, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	release, err := s.lockRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	defer release()

	result := &CancelRideResult{}
	err = s.store.InTx(ctx, func(rides repository.RideRepository, bookings repository.BookingRepository) error {
		ride, err := rides.GetByID(ctx, rideID)
		if err != nil {
			return err
		}

		if ride.OwnerID != ownerID {
			return ErrNotRideOwner
		}
		if ride.Status != domain.RideStatusActive {
			return ErrRideNotActive
		}
		if ride.Expired(time.Now()) {
			return ErrRideExpired
		}

		rejected, err := bookings.UpdateStatusByRide(ctx, rideID, domain.BookingStatusPending, domain.BookingStatusRejected)
		if err != nil {
			return err
		}

		cancelled, err := bookings.UpdateStatusByRide(ctx, rideID, domain.BookingStatusConfirmed, domain.BookingStatusCancelled)
		if err != nil {
			return err
		}

		ride.Status = domain.RideStatusCancelled
		ride.CancelledAt = time.Now()
		if err := rides.Update(ctx, ride); err != nil {
			return err
		}

		result.Ride = ride
		result.RejectedPending = rejected
		result.CancelledConfirmed = cancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateActiveRides(ctx)

	if s.notificationService != nil {
		if affected, err := s.store.Bookings().GetByRideID(ctx, rideID); err == nil {
			passengerIDs := make([]string, 0, len(affected))
			seen := make(map[string]bool)
			for _, b := range affected {
				if !seen[b.PassengerID] {
					seen[b.PassengerID] = true
					passengerIDs = append(passengerIDs, b.PassengerID)
				}
			}
			_ = s.notificationService.NotifyRideCancelled(ctx, result.Ride, passengerIDs)
		}
	}

	return result, nil
}

// GetRide retrieves one ride with its seat ledger and owner name.
func (s *RideService) GetRide(ctx context.Context, rideID string) (*RideDetail, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.store.Rides().GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	details, err := s.annotate(ctx, []*domain.Ride{ride})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// ListByOwner retrieves the owner's rides with ledgers.
func (s *RideService) ListByOwner(ctx context.Context, ownerID string) ([]*RideDetail, error) {
	if ownerID == "" {
		return nil, ErrInvalidUserID
	}

	rides, err := s.store.Rides().GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, rides)
}

// ListActive retrieves all ACTIVE, non-expired rides with ledgers.
// Served from the Redis cache when fresh.
func (s *RideService) ListActive(ctx context.Context) ([]*RideDetail, error) {
	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetActiveRides(ctx); err == nil && cached != nil {
			if details, ok := s.fromCache(cached); ok {
				return details, nil
			}
			// A malformed entry would silently shrink the listing; drop
			// the cache and rebuild from the database instead.
			_ = s.cacheStore.InvalidateActiveRides(ctx)
		}
	}

	rides, err := s.store.Rides().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var active []*domain.Ride
	for _, r := range rides {
		if r.Status == domain.RideStatusActive && !r.Expired(now) {
			active = append(active, r)
		}
	}

	details, err := s.annotate(ctx, active)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetActiveRides(ctx, toCache(details))
	}

	return details, nil
}

// ListAll retrieves every ride regardless of status. Admin only.
func (s *RideService) ListAll(ctx context.Context, callerRole domain.Role) ([]*RideDetail, error) {
	if callerRole != domain.RoleAdmin {
		return nil, ErrAdminOnly
	}

	rides, err := s.store.Rides().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, rides)
}

// SearchRequest contains the search filters. Empty fields are no-ops,
// not empty-string matches.
type SearchRequest struct {
	Source           string
	Destination      string
	RideDate         string // 2006-01-02, matches the departure day
	IncludeCompleted bool
}

// Search filters the catalog by route and departure day. Matching is a
// case-insensitive substring conjunction over ACTIVE, non-expired rides
// unless IncludeCompleted is set.
func (s *RideService) Search(ctx context.Context, req SearchRequest) ([]*RideDetail, error) {
	rides, err := s.store.Rides().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	source := strings.ToLower(strings.TrimSpace(req.Source))
	destination := strings.ToLower(strings.TrimSpace(req.Destination))

	var matched []*domain.Ride
	for _, r := range rides {
		if r.Status != domain.RideStatusActive {
			continue
		}
		if !req.IncludeCompleted && r.Expired(now) {
			continue
		}
		if source != "" && !strings.Contains(strings.ToLower(r.Source), source) {
			continue
		}
		if destination != "" && !strings.Contains(strings.ToLower(r.Destination), destination) {
			continue
		}
		if req.RideDate != "" && r.DepartureAt.Format("2006-01-02") != req.RideDate {
			continue
		}
		matched = append(matched, r)
	}

	return s.annotate(ctx, matched)
}

// validateRideDetails validates the route, departure and seat/price fields.
func (s *RideService) validateRideDetails(source, destination string, departureAt time.Time, totalSeats int, pricePerKm, distanceKm float64) error {
	if strings.TrimSpace(source) == "" || strings.TrimSpace(destination) == "" {
		return ErrMissingRoute
	}
	if departureAt.IsZero() {
		return ErrInvalidDeparture
	}
	if departureAt.Before(time.Now()) {
		return ErrDepartureInPast
	}
	if totalSeats < 1 {
		return ErrInvalidSeatCount
	}
	if pricePerKm < 0 || distanceKm < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// annotate attaches seat ledgers and owner names to rides.
func (s *RideService) annotate(ctx context.Context, rides []*domain.Ride) ([]*RideDetail, error) {
	if len(rides) == 0 {
		return []*RideDetail{}, nil
	}

	rideIDs := make([]string, len(rides))
	ownerIDs := make([]string, 0, len(rides))
	seenOwner := make(map[string]bool)
	for i, r := range rides {
		rideIDs[i] = r.ID
		if !seenOwner[r.OwnerID] {
			seenOwner[r.OwnerID] = true
			ownerIDs = append(ownerIDs, r.OwnerID)
		}
	}

	counts, err := s.store.Bookings().SeatCountsForRides(ctx, rideIDs)
	if err != nil {
		return nil, err
	}

	owners, err := s.userRepo.GetByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	details := make([]*RideDetail, len(rides))
	for i, r := range rides {
		detail := &RideDetail{Ride: r, Seats: counts[r.ID]}
		if owner, ok := owners[r.OwnerID]; ok {
			detail.OwnerName = owner.Name
		}
		details[i] = detail
	}
	return details, nil
}

// lockRide takes the per-ride lock shared with the booking arbiter so
// catalog mutations and booking mutations never interleave on one ride.
func (s *RideService) lockRide(ctx context.Context, rideID string) (func(), error) {
	if s.lockStore == nil {
		return func() {}, nil
	}
	return acquireRideLock(ctx, s.lockStore, rideID)
}

func (s *RideService) invalidateActiveRides(ctx context.Context) {
	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateActiveRides(ctx)
	}
}

func toCache(details []*RideDetail) []redis.CachedRideSummary {
	cached := make([]redis.CachedRideSummary, len(details))
	for i, d := range details {
		cached[i] = redis.CachedRideSummary{
			ID:             d.Ride.ID,
			OwnerID:        d.Ride.OwnerID,
			OwnerName:      d.OwnerName,
			Source:         d.Ride.Source,
			Destination:    d.Ride.Destination,
			DepartureAt:    d.Ride.DepartureAt.Format(time.RFC3339),
			TotalSeats:     d.Ride.TotalSeats,
			PricePerKm:     d.Ride.PricePerKm,
			DistanceKm:     d.Ride.DistanceKm,
			ConfirmedSeats: d.Seats.Confirmed,
			PendingSeats:   d.Seats.Pending,
			AvailableSeats: d.Seats.Available(d.Ride.TotalSeats),
		}
	}
	return cached
}

// fromCache rebuilds ride details from the cached projection. The false
// return marks a corrupt entry; callers discard the cache rather than
// serve a partial listing.
func (s *RideService) fromCache(cached []redis.CachedRideSummary) ([]*RideDetail, bool) {
	details := make([]*RideDetail, 0, len(cached))
	for _, c := range cached {
		departureAt, err := time.Parse(time.RFC3339, c.DepartureAt)
		if err != nil {
			return nil, false
		}
		details = append(details, &RideDetail{
			Ride: &domain.Ride{
				ID:          c.ID,
				OwnerID:     c.OwnerID,
				Source:      c.Source,
				Destination: c.Destination,
				DepartureAt: departureAt,
				TotalSeats:  c.TotalSeats,
				PricePerKm:  c.PricePerKm,
				DistanceKm:  c.DistanceKm,
				Status:      domain.RideStatusActive,
			},
			Seats:     domain.SeatCounts{Confirmed: c.ConfirmedSeats, Pending: c.PendingSeats},
			OwnerName: c.OwnerName,
		})
	}
	return details, true
}
