package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/servify/servify_backend/controllers"
	"github.com/servify/servify_backend/middleware"
	"github.com/servify/servify_backend/services"
	"github.com/servify/servify_backend/websocket"
)

// SetupRoutes wires up every controller and registers all route groups
func SetupRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub, otpService *services.OTPService) {
	bookingService := services.NewBookingService(db)
	ratingService := services.NewRatingService(db)

	authController := controllers.NewAuthController(db, otpService)
	otpController := controllers.NewOTPController(db, otpService)
	userController := controllers.NewUserController(db)
	bookingController := controllers.NewBookingController(db, hub, bookingService, otpService)
	ratingController := controllers.NewRatingController(db, hub, ratingService)
	serviceController := controllers.NewServiceController(db)
	supportController := controllers.NewSupportController(db)
	adminController := controllers.NewAdminController(db)
	notificationController := controllers.NewNotificationController(db)

	RegisterAuthRoutes(e, db, authController, otpController, userController, serviceController, ratingController)
	RegisterUserRoutes(e, db, hub, userController, bookingController, ratingController, supportController)
	RegisterAdminRoutes(e, db, adminController, serviceController, supportController, bookingController)

	// Notifications
	api := e.Group("/api", middleware.JWTMiddleware())
	api.GET("/notifications", notificationController.GetNotifications)
	api.PUT("/notifications/:id/read", notificationController.MarkNotificationRead)
}
