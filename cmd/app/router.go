package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripmate/internal/api/controllers"
	"tripmate/internal/config"
	"tripmate/pkg/middleware"
	"tripmate/pkg/utils"
)

func ProvideRouter(
	cfg *config.Config,
	log *zap.Logger,
	verifier utils.IdentityVerifier,
	tripController *controllers.TripController,
	accountController *controllers.AccountController,
	paymentController *controllers.PaymentController,
	systemController *controllers.SystemController) *gin.Engine {

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.AccessLogMiddleware(log))
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	RegisterRoutes(r, verifier, tripController, accountController, paymentController, systemController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	verifier utils.IdentityVerifier,
	tripController *controllers.TripController,
	accountController *controllers.AccountController,
	paymentController *controllers.PaymentController,
	systemController *controllers.SystemController) {

	r.GET("/health", systemController.Health)

	api := r.Group("/api")
	api.GET("/hello", systemController.Hello)
	api.GET("/status", systemController.Status)

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", accountController.Register)
	authGroup.POST("/login", accountController.Login)
	authGroup.POST("/verify-token", accountController.VerifyToken)

	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware(verifier))

	protected.GET("/auth/user", accountController.GetProfile)
	protected.PUT("/auth/user", accountController.UpdateProfile)

	tripsGroup := protected.Group("/trips")
	tripsGroup.POST("", tripController.CreateTrip)
	tripsGroup.GET("", tripController.ListTrips)
	tripsGroup.GET("/:id", tripController.GetTrip)
	tripsGroup.PUT("/:id", tripController.UpdateTrip)
	tripsGroup.DELETE("/:id", tripController.DeleteTrip)
	tripsGroup.POST("/:id/generate-itinerary", tripController.GenerateItinerary)
	tripsGroup.POST("/:id/regenerate-itinerary", tripController.RegenerateItinerary)
	tripsGroup.POST("/:id/book", paymentController.BookTrip)

	bookingsGroup := protected.Group("/bookings")
	bookingsGroup.GET("", paymentController.ListBookings)
	bookingsGroup.POST("/:id/pay", paymentController.PayBooking)
}
