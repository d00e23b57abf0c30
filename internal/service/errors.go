package service

import "errors"

// Validation errors.
var (
	// ErrInvalidUserID is returned when a user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidRideID is returned when a ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidBookingID is returned when a booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidVehicleID is returned when a vehicle ID is empty.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrMissingVehicleDetails is returned when make, model or plate is empty.
	ErrMissingVehicleDetails = errors.New("make, model and plate number are required")

	// ErrMissingRoute is returned when source or destination is empty.
	ErrMissingRoute = errors.New("source and destination are required")

	// ErrInvalidDeparture is returned when the departure date/time is malformed.
	ErrInvalidDeparture = errors.New("invalid departure date or time")

	// ErrDepartureInPast is returned when a ride is posted with an elapsed departure.
	ErrDepartureInPast = errors.New("departure time is in the past")

	// ErrInvalidSeatCount is returned when a seat count is below one.
	ErrInvalidSeatCount = errors.New("seat count must be at least 1")

	// ErrSeatLimitExceeded is returned when a booking asks for more seats
	// than the configured per-request cap.
	ErrSeatLimitExceeded = errors.New("seat count exceeds per-booking limit")

	// ErrInvalidPrice is returned when price per km or distance is negative.
	ErrInvalidPrice = errors.New("price and distance must not be negative")

	// ErrMissingContactPhone is returned when a booking has no passenger phone.
	ErrMissingContactPhone = errors.New("contact phone is required")

	// ErrVehicleRequired is returned when an owner posts a ride without a
	// registered vehicle.
	ErrVehicleRequired = errors.New("a registered vehicle is required to post rides")

	// ErrVehicleCapacityExceeded is returned when a ride offers more seats
	// than the owner's vehicle holds.
	ErrVehicleCapacityExceeded = errors.New("total seats exceed vehicle capacity")

	// ErrOwnRideBooking is returned when an owner tries to book their own ride.
	ErrOwnRideBooking = errors.New("cannot book a seat on your own ride")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidRole is returned when an unknown role is supplied.
	ErrInvalidRole = errors.New("invalid role")

	// ErrMissingCredentials is returned when registration fields are missing.
	ErrMissingCredentials = errors.New("name, email and password are required")
)

// Forbidden errors.
var (
	// ErrNotRideOwner is returned when a caller acts on a ride they do not own.
	ErrNotRideOwner = errors.New("not the owner of this ride")

	// ErrNotBookingPassenger is returned when a caller acts on another
	// passenger's booking.
	ErrNotBookingPassenger = errors.New("not the passenger of this booking")

	// ErrNotVehicleOwner is returned when a caller acts on another owner's vehicle.
	ErrNotVehicleOwner = errors.New("not the owner of this vehicle")

	// ErrAdminOnly is returned when a non-admin calls an admin operation.
	ErrAdminOnly = errors.New("admin role required")
)

// Invalid-state errors.
var (
	// ErrRideNotActive is returned when an operation requires an ACTIVE ride.
	ErrRideNotActive = errors.New("ride is not active")

	// ErrRideExpired is returned when a ride's departure has already passed.
	ErrRideExpired = errors.New("ride departure has passed")

	// ErrBookingNotPending is returned when approving or rejecting a
	// booking that is not PENDING.
	ErrBookingNotPending = errors.New("booking is not pending")

	// ErrBookingNotCancellable is returned when cancelling a REJECTED booking.
	ErrBookingNotCancellable = errors.New("booking cannot be cancelled in current state")

	// ErrVehicleInUse is returned when deleting a vehicle while its owner
	// still has active rides.
	ErrVehicleInUse = errors.New("vehicle has active rides")
)

// Capacity errors.
var (
	// ErrInsufficientSeats is returned when a booking would drive
	// availability below zero.
	ErrInsufficientSeats = errors.New("not enough seats available")

	// ErrSeatsAlreadyReserved is returned when shrinking a ride below the
	// seats already held by bookings.
	ErrSeatsAlreadyReserved = errors.New("total seats below seats already reserved")
)

// Conflict errors.
var (
	// ErrBookingConflict is returned when a booking's state changed
	// between read and write.
	ErrBookingConflict = errors.New("booking was modified concurrently")

	// ErrRideBusy is returned when the per-ride lock could not be
	// acquired after retrying.
	ErrRideBusy = errors.New("ride is busy, retry the request")
)
