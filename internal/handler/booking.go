package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/middleware"
	"carpool/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for requesting seats.
type CreateBookingRequest struct {
	RideID         string `json:"rideId"`
	SeatsRequested int    `json:"seatsRequested"`
	PassengerPhone string `json:"passengerPhone"`
}

// BookingResponse is the HTTP response for a booking, denormalized with
// ride and counterpart fields for display.
type BookingResponse struct {
	ID             string `json:"id"`
	RideID         string `json:"rideId"`
	PassengerID    string `json:"passengerId"`
	SeatsRequested int    `json:"seatsRequested"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`
	PassengerName  string `json:"passengerName,omitempty"`
	PassengerPhone string `json:"passengerPhone,omitempty"`
	DriverName     string `json:"driverName,omitempty"`
	Source         string `json:"source,omitempty"`
	Destination    string `json:"destination,omitempty"`
	RideDate       string `json:"rideDate,omitempty"`
	RideTime       string `json:"rideTime,omitempty"`
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	booking, err := h.bookingService.RequestBooking(c.Request.Context(), service.RequestBookingRequest{
		PassengerID:    middleware.UserID(c),
		RideID:         req.RideID,
		SeatsRequested: req.SeatsRequested,
		PassengerPhone: req.PassengerPhone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, BookingResponse{
		ID:             booking.ID,
		RideID:         booking.RideID,
		PassengerID:    booking.PassengerID,
		SeatsRequested: booking.SeatsRequested,
		Status:         string(booking.Status),
		CreatedAt:      booking.CreatedAt.Format(time.RFC3339),
		PassengerPhone: booking.PassengerPhone,
	})
}

// MyBookings handles GET /api/bookings/my-bookings
func (h *BookingHandler) MyBookings(c *gin.Context) {
	details, err := h.bookingService.ListForPassenger(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponses(details))
}

// DriverBookings handles GET /api/bookings/driver-bookings
func (h *BookingHandler) DriverBookings(c *gin.Context) {
	details, err := h.bookingService.ListForOwner(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponses(details))
}

// RideBookings handles GET /api/bookings/ride/:rideId
func (h *BookingHandler) RideBookings(c *gin.Context) {
	details, err := h.bookingService.ListForRide(c.Request.Context(), middleware.UserID(c), c.Param("rideId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponses(details))
}

// Approve handles PUT /api/bookings/:id/approve
func (h *BookingHandler) Approve(c *gin.Context) {
	booking, err := h.bookingService.ApproveBooking(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BookingResponse{
		ID:             booking.ID,
		RideID:         booking.RideID,
		PassengerID:    booking.PassengerID,
		SeatsRequested: booking.SeatsRequested,
		Status:         string(booking.Status),
		CreatedAt:      booking.CreatedAt.Format(time.RFC3339),
	})
}

// Reject handles PUT /api/bookings/:id/reject
func (h *BookingHandler) Reject(c *gin.Context) {
	booking, err := h.bookingService.RejectBooking(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BookingResponse{
		ID:             booking.ID,
		RideID:         booking.RideID,
		PassengerID:    booking.PassengerID,
		SeatsRequested: booking.SeatsRequested,
		Status:         string(booking.Status),
		CreatedAt:      booking.CreatedAt.Format(time.RFC3339),
	})
}

// Cancel handles DELETE /api/bookings/:id
func (h *BookingHandler) Cancel(c *gin.Context) {
	_, err := h.bookingService.CancelBooking(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func bookingResponses(details []*service.BookingDetail) []BookingResponse {
	responses := make([]BookingResponse, len(details))
	for i, d := range details {
		resp := BookingResponse{
			ID:             d.Booking.ID,
			RideID:         d.Booking.RideID,
			PassengerID:    d.Booking.PassengerID,
			SeatsRequested: d.Booking.SeatsRequested,
			Status:         string(d.Booking.Status),
			CreatedAt:      d.Booking.CreatedAt.Format(time.RFC3339),
			PassengerName:  d.PassengerName,
			PassengerPhone: d.PassengerPhone,
			DriverName:     d.DriverName,
		}
		if d.Ride != nil {
			resp.Source = d.Ride.Source
			resp.Destination = d.Ride.Destination
			resp.RideDate = d.Ride.DepartureAt.Format("2006-01-02")
			resp.RideTime = d.Ride.DepartureAt.Format("15:04")
		}
		responses[i] = resp
	}
	return responses
}
