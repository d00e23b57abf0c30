package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carpool/internal/auth"
	"carpool/internal/domain"
	"carpool/internal/handler"
	"carpool/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler    *handler.AuthHandler
	RideHandler    *handler.RideHandler
	BookingHandler *handler.BookingHandler
	VehicleHandler *handler.VehicleHandler
	TokenManager   *auth.TokenManager
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Auth routes (no bearer token).
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", deps.AuthHandler.Register)
		authGroup.POST("/login", deps.AuthHandler.Login)
	}

	// Everything below requires a session.
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(deps.TokenManager))

	ownerOnly := middleware.RequireRole(domain.RoleCarOwner, domain.RoleAdmin)

	// Ride routes.
	rides := authed.Group("/rides")
	{
		rides.POST("", ownerOnly, deps.RideHandler.Create)
		rides.GET("/my-rides", deps.RideHandler.MyRides)
		rides.GET("/search", deps.RideHandler.Search)
		rides.GET("/active", deps.RideHandler.Active)
		rides.GET("/all", deps.RideHandler.All)
		rides.GET("/:id", deps.RideHandler.Get)
		rides.PUT("/:id", ownerOnly, deps.RideHandler.Update)
		rides.DELETE("/:id", ownerOnly, deps.RideHandler.Cancel)
	}

	// Booking routes.
	bookings := authed.Group("/bookings")
	{
		bookings.POST("", deps.BookingHandler.Create)
		bookings.GET("/my-bookings", deps.BookingHandler.MyBookings)
		bookings.GET("/driver-bookings", ownerOnly, deps.BookingHandler.DriverBookings)
		bookings.GET("/ride/:rideId", ownerOnly, deps.BookingHandler.RideBookings)
		bookings.PUT("/:id/approve", ownerOnly, deps.BookingHandler.Approve)
		bookings.PUT("/:id/reject", ownerOnly, deps.BookingHandler.Reject)
		bookings.DELETE("/:id", deps.BookingHandler.Cancel)
	}

	// Vehicle routes.
	vehicles := authed.Group("/vehicles")
	{
		vehicles.POST("", ownerOnly, deps.VehicleHandler.Upsert)
		vehicles.GET("/my-vehicle", ownerOnly, deps.VehicleHandler.Mine)
		vehicles.GET("/:id", deps.VehicleHandler.Get)
		vehicles.DELETE("/:id", ownerOnly, deps.VehicleHandler.Delete)
	}

	return router
}
