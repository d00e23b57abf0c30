package domain

import "time"

// RideStatus represents the stored status of a ride offer.
type RideStatus string

const (
	RideStatusActive    RideStatus = "ACTIVE"
	RideStatusCancelled RideStatus = "CANCELLED"

	// RideStatusCompleted is never stored. It is derived from an ACTIVE
	// ride whose departure time has passed.
	RideStatusCompleted RideStatus = "COMPLETED"
)

// Ride represents a trip offered by a car owner.
type Ride struct {
	ID          string
	OwnerID     string
	Source      string
	Destination string
	DepartureAt time.Time
	TotalSeats  int
	PricePerKm  float64
	DistanceKm  float64
	Status      RideStatus
	CreatedAt   time.Time
	CancelledAt time.Time
}

// Expired reports whether the ride's departure time has passed.
func (r *Ride) Expired(now time.Time) bool {
	return r.DepartureAt.Before(now)
}

// EffectiveStatus returns the status as seen by callers: an ACTIVE ride
// whose departure has elapsed reads as COMPLETED.
func (r *Ride) EffectiveStatus(now time.Time) RideStatus {
	if r.Status == RideStatusActive && r.Expired(now) {
		return RideStatusCompleted
	}
	return r.Status
}

// TotalPrice returns the full price for one seat over the ride's distance.
func (r *Ride) TotalPrice() float64 {
	return r.PricePerKm * r.DistanceKm
}
