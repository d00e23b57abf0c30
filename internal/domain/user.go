package domain

import "time"

// Role represents the authorization role of a user.
type Role string

const (
	RolePassenger Role = "PASSENGER"
	RoleCarOwner  Role = "CAR_OWNER"
	RoleAdmin     Role = "ADMIN"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RolePassenger, RoleCarOwner, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered account in the system.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         Role
	CreatedAt    time.Time
}
