package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/repository"
	"carpool/internal/service"
)

// ErrorResponse represents an error response. The front-end reads the
// message field for presentation.
type ErrorResponse struct {
	Message string `json:"message"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Message: "internal error"})
		return
	}
	c.JSON(code, ErrorResponse{Message: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidVehicleID),
		errors.Is(err, service.ErrMissingRoute),
		errors.Is(err, service.ErrInvalidDeparture),
		errors.Is(err, service.ErrDepartureInPast),
		errors.Is(err, service.ErrInvalidSeatCount),
		errors.Is(err, service.ErrSeatLimitExceeded),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrMissingContactPhone),
		errors.Is(err, service.ErrMissingVehicleDetails),
		errors.Is(err, service.ErrVehicleRequired),
		errors.Is(err, service.ErrVehicleCapacityExceeded),
		errors.Is(err, service.ErrOwnRideBooking),
		errors.Is(err, service.ErrMissingCredentials),
		errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest

	// Authentication failures
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Forbidden errors
	case errors.Is(err, service.ErrNotRideOwner),
		errors.Is(err, service.ErrNotBookingPassenger),
		errors.Is(err, service.ErrNotVehicleOwner),
		errors.Is(err, service.ErrAdminOnly):
		return http.StatusForbidden

	// Invalid-state, capacity and concurrency conflicts
	case errors.Is(err, service.ErrRideNotActive),
		errors.Is(err, service.ErrRideExpired),
		errors.Is(err, service.ErrBookingNotPending),
		errors.Is(err, service.ErrBookingNotCancellable),
		errors.Is(err, service.ErrVehicleInUse),
		errors.Is(err, service.ErrInsufficientSeats),
		errors.Is(err, service.ErrSeatsAlreadyReserved),
		errors.Is(err, service.ErrBookingConflict),
		errors.Is(err, service.ErrRideBusy),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
