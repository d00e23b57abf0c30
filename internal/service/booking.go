package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

const (
	rideLockTTL        = 10 * time.Second
	rideLockRetries    = 3
	rideLockRetryDelay = 50 * time.Millisecond
)

// BookingService is the arbiter for the booking state machine. Every
// seat-affecting operation runs under the per-ride lock and inside one
// database transaction, so the ledger can never go negative and the
// loser of a capacity race gets a capacity error rather than corrupting
// the counts.
type BookingService struct {
	store               repository.Store
	userRepo            repository.UserRepository
	lockStore           redis.LockStoreInterface
	cacheStore          redis.CacheStoreInterface
	notificationService *NotificationService
	maxSeatsPerRequest  int
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	store repository.Store,
	userRepo repository.UserRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	notificationService *NotificationService,
	maxSeatsPerRequest int,
) *BookingService {
	return &BookingService{
		store:               store,
		userRepo:            userRepo,
		lockStore:           lockStore,
		cacheStore:          cacheStore,
		notificationService: notificationService,
		maxSeatsPerRequest:  maxSeatsPerRequest,
	}
}

// RequestBookingRequest contains the parameters for requesting seats.
type RequestBookingRequest struct {
	PassengerID    string
	RideID         string
	SeatsRequested int
	PassengerPhone string
}

// RequestBooking creates a PENDING booking, reserving its seats. The
// availability check and the insert happen in one transaction under the
// per-ride lock, so two requests that fit individually but not together
// can never both commit.
func (s *BookingService) RequestBooking(ctx context.Context, req RequestBookingRequest) (*domain.Booking, error) {
	if req.PassengerID == "" {
		return nil, ErrInvalidUserID
	}
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.SeatsRequested < 1 {
		return nil, ErrInvalidSeatCount
	}
	if s.maxSeatsPerRequest > 0 && req.SeatsRequested > s.maxSeatsPerRequest {
		return nil, ErrSeatLimitExceeded
	}
	if req.PassengerPhone == "" {
		return nil, ErrMissingContactPhone
	}

	release, err := s.lockRide(ctx, req.RideID)
	if err != nil {
		return nil, err
	}
	defer release()

	var booking *domain.Booking
	var ride *domain.Ride
	err = s.store.InTx(ctx, func(rides repository.RideRepository, bookings repository.BookingRepository) error {
		r, err := rides.GetByID(ctx, req.RideID)
		if err != nil {
			return err
		}
		ride = r

		if ride.Status != domain.RideStatusActive {
			return ErrRideNotActive
		}
		if ride.Expired(time.Now()) {
			return ErrRideExpired
		}
		if ride.OwnerID == req.PassengerID {
			return ErrOwnRideBooking
		}

		counts, err := bookings.SeatCounts(ctx, ride.ID)
		if err != nil {
			return err
		}
		if req.SeatsRequested > counts.Available(ride.TotalSeats) {
			return ErrInsufficientSeats
		}

		now := time.Now()
		booking = &domain.Booking{
			ID:             uuid.New().String(),
			RideID:         ride.ID,
			PassengerID:    req.PassengerID,
			SeatsRequested: req.SeatsRequested,
			PassengerPhone: req.PassengerPhone,
			Status:         domain.BookingStatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return bookings.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateActiveRides(ctx)

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingRequested(ctx, booking, ride)
	}

	return booking, nil
}

// ApproveBooking transitions a PENDING booking to CONFIRMED. Seats stay
// reserved; only the pending/confirmed split moves.
func (s *BookingService) ApproveBooking(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error) {
	return s.decide(ctx, ownerID, bookingID, domain.BookingStatusConfirmed)
}

// RejectBooking transitions a PENDING booking to REJECTED, releasing its
// reserved seats back to availability.
func (s *BookingService) RejectBooking(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error) {
	return s.decide(ctx, ownerID, bookingID, domain.BookingStatusRejected)
}

// decide applies an owner's approve or reject to a PENDING booking.
func (s *BookingService) decide(ctx context.Context, ownerID, bookingID string, to domain.BookingStatus) (*domain.Booking, error) {
	if ownerID == "" {
		return nil, ErrInvalidUserID
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	ride, err := s.store.Rides().GetByID(ctx, booking.RideID)
	if err != nil {
		return nil, err
	}
	if ride.OwnerID != ownerID {
		return nil, ErrNotRideOwner
	}

	if booking.Status != domain.BookingStatusPending {
		return nil, ErrBookingNotPending
	}

	release, err := s.lockRide(ctx, booking.RideID)
	if err != nil {
		return nil, err
	}
	defer release()

	updated, err := s.store.Bookings().UpdateStatus(ctx, bookingID, domain.BookingStatusPending, to)
	if err != nil {
		return nil, err
	}
	if !updated {
		// The booking moved out of PENDING between our read and write.
		return nil, ErrBookingConflict
	}

	booking.Status = to
	booking.UpdatedAt = time.Now()

	s.invalidateActiveRides(ctx)

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingDecision(ctx, booking)
	}

	return booking, nil
}

// CancelBooking transitions the passenger's booking to CANCELLED from
// either PENDING or CONFIRMED, releasing its seats. Cancelling an
// already-CANCELLED booking is an idempotent no-op so client retries are
// safe; cancelling a REJECTED booking is an error.
func (s *BookingService) CancelBooking(ctx context.Context, passengerID, bookingID string) (*domain.Booking, error) {
	if passengerID == "" {
		return nil, ErrInvalidUserID
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PassengerID != passengerID {
		return nil, ErrNotBookingPassenger
	}

	switch booking.Status {
	case domain.BookingStatusCancelled:
		// Idempotent: the desired terminal state already holds.
		return booking, nil
	case domain.BookingStatusRejected:
		return nil, ErrBookingNotCancellable
	}

	release, err := s.lockRide(ctx, booking.RideID)
	if err != nil {
		return nil, err
	}
	defer release()

	updated, err := s.store.Bookings().UpdateStatus(ctx, bookingID, booking.Status, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Re-read: a concurrent cancel is still a success for the caller.
		fresh, err := s.store.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if fresh.Status == domain.BookingStatusCancelled {
			return fresh, nil
		}
		return nil, ErrBookingConflict
	}

	booking.Status = domain.BookingStatusCancelled
	booking.UpdatedAt = time.Now()

	s.invalidateActiveRides(ctx)

	if s.notificationService != nil {
		if ride, err := s.store.Rides().GetByID(ctx, booking.RideID); err == nil {
			_ = s.notificationService.NotifyBookingCancelled(ctx, booking, ride)
		}
	}

	return booking, nil
}

// BookingDetail is the denormalized read model for one booking: the
// booking plus the ride's route and the counterpart identities.
type BookingDetail struct {
	Booking        *domain.Booking
	Ride           *domain.Ride
	PassengerName  string
	PassengerPhone string
	DriverName     string
}

// ListForPassenger retrieves the passenger's bookings across all rides.
func (s *BookingService) ListForPassenger(ctx context.Context, passengerID string) ([]*BookingDetail, error) {
	if passengerID == "" {
		return nil, ErrInvalidUserID
	}

	bookings, err := s.store.Bookings().GetByPassengerID(ctx, passengerID)
	if err != nil {
		return nil, err
	}
	return s.denormalize(ctx, bookings)
}

// ListForOwner retrieves all bookings on every ride the owner posted.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID string) ([]*BookingDetail, error) {
	if ownerID == "" {
		return nil, ErrInvalidUserID
	}

	bookings, err := s.store.Bookings().GetByRideOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.denormalize(ctx, bookings)
}

// ListForRide retrieves the bookings on one ride, restricted to its owner.
func (s *BookingService) ListForRide(ctx context.Context, ownerID, rideID string) ([]*BookingDetail, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.store.Rides().GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.OwnerID != ownerID {
		return nil, ErrNotRideOwner
	}

	bookings, err := s.store.Bookings().GetByRideID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	return s.denormalize(ctx, bookings)
}

// denormalize joins bookings with their rides and the involved users.
func (s *BookingService) denormalize(ctx context.Context, bookings []*domain.Booking) ([]*BookingDetail, error) {
	if len(bookings) == 0 {
		return []*BookingDetail{}, nil
	}

	rideIDs := make([]string, 0, len(bookings))
	seenRide := make(map[string]bool)
	for _, b := range bookings {
		if !seenRide[b.RideID] {
			seenRide[b.RideID] = true
			rideIDs = append(rideIDs, b.RideID)
		}
	}

	rides := make(map[string]*domain.Ride, len(rideIDs))
	for _, id := range rideIDs {
		ride, err := s.store.Rides().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		rides[id] = ride
	}

	userIDs := make([]string, 0, len(bookings))
	seenUser := make(map[string]bool)
	addUser := func(id string) {
		if id != "" && !seenUser[id] {
			seenUser[id] = true
			userIDs = append(userIDs, id)
		}
	}
	for _, b := range bookings {
		addUser(b.PassengerID)
		if ride, ok := rides[b.RideID]; ok {
			addUser(ride.OwnerID)
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	details := make([]*BookingDetail, len(bookings))
	for i, b := range bookings {
		detail := &BookingDetail{Booking: b, PassengerPhone: b.PassengerPhone}
		if passenger, ok := users[b.PassengerID]; ok {
			detail.PassengerName = passenger.Name
		}
		if ride, ok := rides[b.RideID]; ok {
			detail.Ride = ride
			if owner, ok := users[ride.OwnerID]; ok {
				detail.DriverName = owner.Name
			}
		}
		details[i] = detail
	}
	return details, nil
}

// lockRide serializes seat-affecting operations for one ride.
func (s *BookingService) lockRide(ctx context.Context, rideID string) (func(), error) {
	if s.lockStore == nil {
		return func() {}, nil
	}
	return acquireRideLock(ctx, s.lockStore, rideID)
}

func (s *BookingService) invalidateActiveRides(ctx context.Context) {
	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateActiveRides(ctx)
	}
}

// acquireRideLock takes the per-ride Redis lock, retrying briefly before
// giving up with ErrRideBusy. The returned func releases the lock.
func acquireRideLock(ctx context.Context, lockStore redis.LockStoreInterface, rideID string) (func(), error) {
	for attempt := 0; attempt < rideLockRetries; attempt++ {
		locked, err := lockStore.AcquireRideLock(ctx, rideID, rideLockTTL)
		if err != nil {
			return nil, err
		}
		if locked {
			return func() { _ = lockStore.ReleaseRideLock(ctx, rideID) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(rideLockRetryDelay):
		}
	}
	return nil, ErrRideBusy
}
