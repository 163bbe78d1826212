package main

import (
	"context"
	"log"
	"mime"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/servify/servify_backend/config"
	"github.com/servify/servify_backend/middleware"
	"github.com/servify/servify_backend/repositories"
	"github.com/servify/servify_backend/routes"
	"github.com/servify/servify_backend/services"
	"github.com/servify/servify_backend/utils"
	"github.com/servify/servify_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Ensure correct MIME type for SVG files
	_ = mime.AddExtensionType(".svg", "image/svg+xml")

	// Connect to Redis (optional, OTP throttling degrades without it)
	rdb := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	// Create WebSocket hub and wire presence updates to the users collection
	userRepo := repositories.NewUserRepository(client)
	wsHub := websocket.NewHub()
	wsHub.OnConnect = func(userID primitive.ObjectID) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := userRepo.SetOnline(ctx, userID); err != nil {
			log.Printf("Failed to mark user %s online: %v", userID.Hex(), err)
		}
	}
	wsHub.OnDisconnect = func(userID primitive.ObjectID) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := userRepo.SetOffline(ctx, userID); err != nil {
			log.Printf("Failed to mark user %s offline: %v", userID.Hex(), err)
		}
	}
	go wsHub.Run()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Servify Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Setup routes
	otpService := services.NewOTPService(client, rdb)
	routes.SetupRoutes(e, client, wsHub, otpService)

	// Sweep idle users offline in the background
	go func() {
		for {
			middleware.MarkOfflineUsers(client, 10*time.Minute)
			time.Sleep(2 * time.Minute)
		}
	}()

	// Clean up expired blacklisted tokens
	go middleware.CleanupBlacklist()

	// Ensure uploads directories exist
	if err := utils.InitializeStorage(); err != nil {
		log.Printf("Warning: failed to initialize upload storage: %v", err)
	}
	e.Static("/uploads", "uploads")

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
