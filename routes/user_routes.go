package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/servify/servify_backend/controllers"
	"github.com/servify/servify_backend/middleware"
	"github.com/servify/servify_backend/models"
	"github.com/servify/servify_backend/websocket"
)

// RegisterUserRoutes sets up authenticated profile, booking and support routes
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub, userController *controllers.UserController, bookingController *controllers.BookingController, ratingController *controllers.RatingController, supportController *controllers.SupportController) {
	// WebSocket endpoint authenticates via query token
	e.GET("/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(c, hub)
	})

	api := e.Group("/api", middleware.JWTMiddleware(), middleware.ActivityTracker(db))

	// Profile
	api.GET("/profile", userController.GetProfile)
	api.PUT("/profile", userController.UpdateProfile)
	api.POST("/profile/picture", userController.UploadProfilePic)

	// Vendor profile
	api.PUT("/vendor/info", userController.UpdateVendorInfo, middleware.RequireRole(models.RoleVendor))
	api.POST("/vendor/gallery", userController.AddGalleryImage, middleware.RequireRole(models.RoleVendor))
	api.GET("/vendor/bookings", bookingController.GetVendorBookings, middleware.RequireRole(models.RoleVendor))

	// Booking lifecycle
	api.POST("/bookings", bookingController.CreateBooking, middleware.RequireRole(models.RoleUser))
	api.GET("/bookings", bookingController.GetMyBookings)
	api.PUT("/bookings/:id/accept", bookingController.AcceptBooking, middleware.RequireRole(models.RoleVendor))
	api.PUT("/bookings/:id/complete", bookingController.CompleteBooking, middleware.RequireRole(models.RoleVendor))
	api.PUT("/bookings/:id/cancel", bookingController.CancelBooking)
	api.POST("/bookings/:id/rating", ratingController.RateBooking, middleware.RequireRole(models.RoleUser))

	// Customer support
	api.POST("/support", supportController.SubmitQuery)
	api.GET("/support", supportController.GetMyQueries)
}
