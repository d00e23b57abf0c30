package domain

import "time"

// BookingStatus represents the current state of a booking request.
//
// Transitions: PENDING -> CONFIRMED or REJECTED (owner decision),
// PENDING|CONFIRMED -> CANCELLED (passenger or ride-cancel cascade).
// REJECTED and CANCELLED are terminal.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking represents a passenger's request for seats on a ride.
// Bookings are never deleted; terminal states are kept for history.
type Booking struct {
	ID             string
	RideID         string
	PassengerID    string
	SeatsRequested int
	PassengerPhone string
	Status         BookingStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SeatCounts is the derived seat ledger for one ride.
// A PENDING booking holds its seats just like a CONFIRMED one, so
// availability is totalSeats minus both.
type SeatCounts struct {
	Confirmed int
	Pending   int
}

// Available returns the number of seats still open for booking.
func (c SeatCounts) Available(totalSeats int) int {
	return totalSeats - c.Confirmed - c.Pending
}
