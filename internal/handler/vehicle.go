package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/middleware"
	"carpool/internal/service"
)

// VehicleHandler handles HTTP requests for the vehicle registry.
type VehicleHandler struct {
	vehicleService *service.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicleService *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// VehicleRequest is the HTTP request body for registering a vehicle.
type VehicleRequest struct {
	Make        string `json:"make"`
	Model       string `json:"model"`
	PlateNumber string `json:"plateNumber"`
	Color       string `json:"color,omitempty"`
	Capacity    int    `json:"capacity"`
}

// VehicleResponse is the HTTP response for a vehicle.
type VehicleResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	PlateNumber string `json:"plateNumber"`
	Color       string `json:"color,omitempty"`
	Capacity    int    `json:"capacity"`
}

// Upsert handles POST /api/vehicles
func (h *VehicleHandler) Upsert(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	vehicle, err := h.vehicleService.Upsert(c.Request.Context(), service.UpsertVehicleRequest{
		OwnerID:     middleware.UserID(c),
		Make:        req.Make,
		Model:       req.Model,
		PlateNumber: req.PlateNumber,
		Color:       req.Color,
		Capacity:    req.Capacity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, vehicleResponse(vehicle))
}

// Mine handles GET /api/vehicles/my-vehicle
func (h *VehicleHandler) Mine(c *gin.Context) {
	vehicle, err := h.vehicleService.GetMine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, vehicleResponse(vehicle))
}

// Get handles GET /api/vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	vehicle, err := h.vehicleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, vehicleResponse(vehicle))
}

// Delete handles DELETE /api/vehicles/:id
func (h *VehicleHandler) Delete(c *gin.Context) {
	if err := h.vehicleService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func vehicleResponse(vehicle *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:          vehicle.ID,
		OwnerID:     vehicle.OwnerID,
		Make:        vehicle.Make,
		Model:       vehicle.Model,
		PlateNumber: vehicle.PlateNumber,
		Color:       vehicle.Color,
		Capacity:    vehicle.Capacity,
	}
}
