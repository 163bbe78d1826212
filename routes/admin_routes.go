package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/servify/servify_backend/controllers"
	"github.com/servify/servify_backend/middleware"
	"github.com/servify/servify_backend/models"
)

// RegisterAdminRoutes sets up the admin-only moderation and catalog routes
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, adminController *controllers.AdminController, serviceController *controllers.ServiceController, supportController *controllers.SupportController, bookingController *controllers.BookingController) {
	admin := e.Group("/api/admin", middleware.JWTMiddleware(), middleware.RequireRole(models.RoleAdmin))

	// User moderation
	admin.GET("/users", adminController.GetAllUsers)
	admin.PUT("/users/:id/active", adminController.SetUserActive)
	admin.DELETE("/users/:id", adminController.DeleteUser)

	// Service catalog management
	admin.POST("/services", serviceController.CreateService)
	admin.PUT("/services/:id", serviceController.UpdateService)
	admin.DELETE("/services/:id", serviceController.DeleteService)

	// Support queue
	admin.GET("/support", supportController.GetAllQueries)
	admin.PUT("/support/:id/resolve", supportController.ResolveQuery)

	// Booking oversight
	admin.GET("/bookings", bookingController.GetAllBookings)
}
