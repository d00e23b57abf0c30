package domain

import "time"

// Vehicle represents a car-owner's registered vehicle.
// Each owner has at most one vehicle; its capacity gates how many
// seats the owner may offer on a ride.
type Vehicle struct {
	ID          string
	OwnerID     string
	Make        string
	Model       string
	PlateNumber string
	Color       string
	Capacity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
