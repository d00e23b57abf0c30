package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/middleware"
	"carpool/internal/service"
)

// RideHandler handles HTTP requests for the ride catalog.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// RideRequest is the HTTP request body for posting or updating a ride.
// rideDate and rideTime are kept as separate fields for front-end
// compatibility and combined into one departure timestamp at this edge.
type RideRequest struct {
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	RideDate    string  `json:"rideDate"` // 2006-01-02
	RideTime    string  `json:"rideTime"` // 15:04
	TotalSeats  int     `json:"totalSeats"`
	PricePerKm  float64 `json:"pricePerKm"`
	DistanceKm  float64 `json:"distanceKm"`
}

// RideResponse is the HTTP response for a ride with its seat ledger.
type RideResponse struct {
	ID             string  `json:"id"`
	OwnerID        string  `json:"ownerId"`
	DriverName     string  `json:"driverName,omitempty"`
	Source         string  `json:"source"`
	Destination    string  `json:"destination"`
	RideDate       string  `json:"rideDate"`
	RideTime       string  `json:"rideTime"`
	TotalSeats     int     `json:"totalSeats"`
	PricePerKm     float64 `json:"pricePerKm"`
	DistanceKm     float64 `json:"distanceKm"`
	TotalPrice     float64 `json:"totalPrice"`
	Status         string  `json:"status"`
	ConfirmedSeats int     `json:"confirmedSeats"`
	PendingSeats   int     `json:"pendingSeats"`
	AvailableSeats int     `json:"availableSeats"`
	CancelledAt    string  `json:"cancelledAt,omitempty"`
}

// Create handles POST /api/rides
func (h *RideHandler) Create(c *gin.Context) {
	var req RideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	departureAt, err := parseDeparture(req.RideDate, req.RideTime)
	if err != nil {
		respondError(c, err)
		return
	}

	ride, err := h.rideService.PostRide(c.Request.Context(), service.PostRideRequest{
		OwnerID:     middleware.UserID(c),
		Source:      req.Source,
		Destination: req.Destination,
		DepartureAt: departureAt,
		TotalSeats:  req.TotalSeats,
		PricePerKm:  req.PricePerKm,
		DistanceKm:  req.DistanceKm,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, rideResponse(&service.RideDetail{Ride: ride}))
}

// Update handles PUT /api/rides/:id
func (h *RideHandler) Update(c *gin.Context) {
	var req RideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	departureAt, err := parseDeparture(req.RideDate, req.RideTime)
	if err != nil {
		respondError(c, err)
		return
	}

	ride, err := h.rideService.UpdateRide(c.Request.Context(), service.UpdateRideRequest{
		OwnerID:     middleware.UserID(c),
		RideID:      c.Param("id"),
		Source:      req.Source,
		Destination: req.Destination,
		DepartureAt: departureAt,
		TotalSeats:  req.TotalSeats,
		PricePerKm:  req.PricePerKm,
		DistanceKm:  req.DistanceKm,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := h.rideService.GetRide(c.Request.Context(), ride.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, rideResponse(detail))
}

// Get handles GET /api/rides/:id
func (h *RideHandler) Get(c *gin.Context) {
	detail, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, rideResponse(detail))
}

// MyRides handles GET /api/rides/my-rides
func (h *RideHandler) MyRides(c *gin.Context) {
	details, err := h.rideService.ListByOwner(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, rideResponses(details))
}

// Active handles GET /api/rides/active
func (h *RideHandler) Active(c *gin.Context) {
	details, err := h.rideService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, rideResponses(details))
}

// All handles GET /api/rides/all
func (h *RideHandler) All(c *gin.Context) {
	details, err := h.rideService.ListAll(c.Request.Context(), middleware.UserRole(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, rideResponses(details))
}

// Search handles GET /api/rides/search
func (h *RideHandler) Search(c *gin.Context) {
	rideDate := c.Query("rideDate")
	if rideDate != "" {
		if _, err := time.Parse("2006-01-02", rideDate); err != nil {
			respondError(c, service.ErrInvalidDeparture)
			return
		}
	}

	details, err := h.rideService.Search(c.Request.Context(), service.SearchRequest{
		Source:           c.Query("source"),
		Destination:      c.Query("destination"),
		RideDate:         rideDate,
		IncludeCompleted: c.Query("includeCompleted") == "true",
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, rideResponses(details))
}

// Cancel handles DELETE /api/rides/:id
func (h *RideHandler) Cancel(c *gin.Context) {
	_, err := h.rideService.CancelRide(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseDeparture combines the wire-format date and time fields into a
// single timestamp. Only the unambiguous forms are accepted.
func parseDeparture(rideDate, rideTime string) (time.Time, error) {
	if rideDate == "" || rideTime == "" {
		return time.Time{}, service.ErrInvalidDeparture
	}

	departureAt, err := time.ParseInLocation("2006-01-02 15:04", rideDate+" "+rideTime, time.Local)
	if err != nil {
		return time.Time{}, service.ErrInvalidDeparture
	}
	return departureAt, nil
}

func rideResponse(detail *service.RideDetail) RideResponse {
	ride := detail.Ride
	resp := RideResponse{
		ID:             ride.ID,
		OwnerID:        ride.OwnerID,
		DriverName:     detail.OwnerName,
		Source:         ride.Source,
		Destination:    ride.Destination,
		RideDate:       ride.DepartureAt.Format("2006-01-02"),
		RideTime:       ride.DepartureAt.Format("15:04"),
		TotalSeats:     ride.TotalSeats,
		PricePerKm:     ride.PricePerKm,
		DistanceKm:     ride.DistanceKm,
		TotalPrice:     ride.TotalPrice(),
		Status:         string(ride.EffectiveStatus(time.Now())),
		ConfirmedSeats: detail.Seats.Confirmed,
		PendingSeats:   detail.Seats.Pending,
		AvailableSeats: detail.Seats.Available(ride.TotalSeats),
	}

	if !ride.CancelledAt.IsZero() {
		resp.CancelledAt = ride.CancelledAt.Format(time.RFC3339)
	}
	return resp
}

func rideResponses(details []*service.RideDetail) []RideResponse {
	responses := make([]RideResponse, len(details))
	for i, d := range details {
		responses[i] = rideResponse(d)
	}
	return responses
}
