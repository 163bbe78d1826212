package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/servify/servify_backend/controllers"
	"github.com/servify/servify_backend/middleware"
)

// RegisterAuthRoutes sets up authentication and public routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client, authController *controllers.AuthController, otpController *controllers.OTPController, userController *controllers.UserController, serviceController *controllers.ServiceController, ratingController *controllers.RatingController) {
	// Public authentication routes
	e.POST("/api/auth/signup", authController.Signup)
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/forgot-password", authController.ForgotPassword)
	e.POST("/api/auth/reset-password", authController.ResetPassword)

	// Public email and OTP routes
	e.POST("/api/send-email", otpController.SendEmail)
	e.POST("/api/send-otp", otpController.SendOTP)
	e.POST("/api/verify-otp", otpController.VerifyOTP)

	// Public discovery routes
	e.GET("/api/vendors", userController.GetVendors)
	e.GET("/api/vendors/:id/ratings", ratingController.GetVendorRatings)
	e.GET("/api/services", serviceController.GetServices)

	// Authenticated session routes
	auth := e.Group("/api/auth", middleware.JWTMiddleware())
	auth.POST("/logout", authController.Logout)
	auth.POST("/refresh-token", authController.RefreshToken)
}
