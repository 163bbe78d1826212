package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/servify/servify_backend/models"
	"github.com/servify/servify_backend/services"
	"github.com/servify/servify_backend/websocket"
)

// RatingController handles booking ratings and vendor rating listings
type RatingController struct {
	db      *mongo.Client
	hub     *websocket.Hub
	ratings *services.RatingService
}

// NewRatingController creates a new rating controller
func NewRatingController(db *mongo.Client, hub *websocket.Hub, ratings *services.RatingService) *RatingController {
	return &RatingController{db: db, hub: hub, ratings: ratings}
}

// RateBooking records a one-time rating on a completed booking
func (c *RatingController) RateBooking(ctx echo.Context) error {
	customerID, err := requireUserID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	bookingID, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}

	var request models.RatingRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := c.ratings.RateBooking(reqCtx, bookingID, customerID, request.Rating, request.Review)
	if err != nil {
		return bookingErrorResponse(ctx, err)
	}

	if err := c.hub.NotifyRatingReceived(booking.VendorID, booking); err != nil {
		log.Printf("Vendor %s not reachable over WebSocket: %v", booking.VendorID.Hex(), err)
	}

	return ctx.JSON(http.StatusOK, models.BookingResponse{
		Status:  http.StatusOK,
		Message: "Rating submitted successfully",
		Data:    booking,
	})
}

// GetVendorRatings lists a vendor's rated bookings for profile pages
func (c *RatingController) GetVendorRatings(ctx echo.Context) error {
	vendorID, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid vendor ID",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ratings, err := c.ratings.ListVendorRatings(reqCtx, vendorID)
	if err != nil {
		log.Printf("Failed to list ratings for vendor %s: %v", vendorID.Hex(), err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve ratings",
		})
	}

	return ctx.JSON(http.StatusOK, models.BookingsResponse{
		Status:  http.StatusOK,
		Message: "Ratings retrieved successfully",
		Data:    ratings,
	})
}
