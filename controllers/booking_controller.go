package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/servify/servify_backend/config"
	"github.com/servify/servify_backend/middleware"
	"github.com/servify/servify_backend/models"
	"github.com/servify/servify_backend/services"
	"github.com/servify/servify_backend/utils"
	"github.com/servify/servify_backend/websocket"
)

// BookingController handles booking lifecycle API endpoints
type BookingController struct {
	db       *mongo.Client
	hub      *websocket.Hub
	bookings *services.BookingService
	otps     *services.OTPService
}

// NewBookingController creates a new booking controller
func NewBookingController(db *mongo.Client, hub *websocket.Hub, bookings *services.BookingService, otps *services.OTPService) *BookingController {
	return &BookingController{
		db:       db,
		hub:      hub,
		bookings: bookings,
		otps:     otps,
	}
}

// bookingErrorResponse maps service errors to HTTP responses
func bookingErrorResponse(ctx echo.Context, err error) error {
	var transitionErr *services.TransitionError

	switch {
	case errors.Is(err, services.ErrBookingNotFound), errors.Is(err, services.ErrVendorNotFound):
		return ctx.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotBookingParty):
		return ctx.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrActiveBookingExists),
		errors.Is(err, services.ErrAlreadyRated),
		errors.Is(err, services.ErrBookingNotRateable):
		return ctx.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: err.Error(),
		})
	case errors.As(err, &transitionErr):
		return ctx.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: transitionErr.Error(),
		})
	case errors.Is(err, services.ErrEmptyCancelReason),
		errors.Is(err, services.ErrRatingOutOfRange),
		errors.Is(err, services.ErrSelfBooking):
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	log.Printf("Booking operation failed: %v", err)
	return ctx.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong, please try again",
	})
}

// requireUserID extracts the authenticated user's ObjectID from the token
func requireUserID(ctx echo.Context) (primitive.ObjectID, error) {
	claims := middleware.GetUserFromToken(ctx)
	if claims == nil {
		return primitive.NilObjectID, errors.New("unauthorized")
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

// CreateBooking creates a new booking for the authenticated customer
func (c *BookingController) CreateBooking(ctx echo.Context) error {
	customerID, err := requireUserID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var request models.BookingRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if request.VendorID == "" {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Vendor ID is required",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := c.bookings.Create(reqCtx, customerID, request.VendorID)
	if err != nil {
		return bookingErrorResponse(ctx, err)
	}

	// Push a notification to the vendor, best effort
	if err := c.hub.NotifyBookingRequest(booking.VendorID, booking); err != nil {
		log.Printf("Vendor %s not reachable over WebSocket: %v", booking.VendorID.Hex(), err)
	}
	if err := utils.SaveNotification(c.db, booking.VendorID, "New booking",
		"You have a new booking request", websocket.NotificationTypeBookingRequest, booking); err != nil {
		log.Printf("Failed to save booking notification: %v", err)
	}

	return ctx.JSON(http.StatusCreated, models.BookingResponse{
		Status:  http.StatusCreated,
		Message: "Booking created successfully",
		Data:    booking,
	})
}

// GetMyBookings returns the authenticated customer's bookings
func (c *BookingController) GetMyBookings(ctx echo.Context) error {
	customerID, err := requireUserID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bookings, err := c.bookings.ListForCustomer(reqCtx, customerID)
	if err != nil {
		return bookingErrorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, models.BookingsResponse{
		Status:  http.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// GetVendorBookings returns the authenticated vendor's bookings
func (c *BookingController) GetVendorBookings(ctx echo.Context) error {
	vendorID, err := requireUserID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	status := ctx.QueryParam("status")
	if status != "" && !models.IsValidStatus(status) {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown booking status",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bookings, err := c.bookings.ListForVendor(reqCtx, vendorID, status)
	if err != nil {
		return bookingErrorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, models.BookingsResponse{
		Status:  http.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// AcceptBooking moves a booking to "accepted" and notifies the customer
func (c *BookingController) AcceptBooking(ctx echo.Context) error {
	vendorID, err := requireUserID(ctx)
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

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := c.bookings.Accept(reqCtx, bookingID, vendorID)
	if err != nil {
		return bookingErrorResponse(ctx, err)
	}

	c.notifyCustomer(booking, "Booking accepted", "Your booking has been accepted")

	// Email the customer, best effort
	go func(b models.Booking) {
		emailCtx, emailCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer emailCancel()

		var customer models.User
		err := config.GetCollection(c.db, "users").
			FindOne(emailCtx, bson.M{"_id": b.CustomerID}).Decode(&customer)
		if err != nil {
			log.Printf("Failed to load customer for acceptance email: %v", err)
			return
		}

		body := utils.BookingAcceptedEmailBody(customer.FullName, b.VendorName, b.VendorCategory)
		if err := utils.SendEmail(customer.Email, "Your booking was accepted", body); err != nil {
			log.Printf("Failed to send acceptance email to %s: %v", customer.Email, err)
		}
	}(*booking)

	return ctx.JSON(http.StatusOK, models.BookingResponse{
		Status:  http.StatusOK,
		Message: "Booking accepted successfully",
		Data:    booking,
	})
}

// CompleteBooking verifies the customer's OTP then moves the booking to
// "completed". The vendor submits the code the customer received by email.
func (c *BookingController) CompleteBooking(ctx echo.Context) error {
	vendorID, err := requireUserID(ctx)
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

	var request models.CompleteBookingRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if request.OTP == "" {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "OTP is required",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := c.bookings.GetByID(reqCtx, bookingID)
	if err != nil {
		return bookingErrorResponse(ctx, err)
	}
	if err := completionGuard(booking, vendorID); err != nil {
		return bookingErrorResponse(ctx, err)
	}

	var customer models.User
	err = config.GetCollection(c.db, "users").
		FindOne(reqCtx, bson.M{"_id": booking.CustomerID}).Decode(&customer)
	if err != nil {
		return bookingErrorResponse(ctx, err)
	}

	if err := c.otps.Verify(reqCtx, customer.Email, request.OTP); err != nil {
		return otpErrorResponse(ctx, err)
	}

	booking, err = c.bookings.Complete(reqCtx, bookingID, vendorID)
	if err != nil {
		return bookingErrorResponse(ctx, err)
	}

	c.notifyCustomer(booking, "Booking completed", "Your booking has been completed")

	return ctx.JSON(http.StatusOK, models.BookingResponse{
		Status:  http.StatusOK,
		Message: "Booking completed successfully",
		Data:    booking,
	})
}

// completionGuard rejects a completion before the OTP is checked, so a code
// is never consumed on a booking that cannot complete anyway.
func completionGuard(booking *models.Booking, vendorID primitive.ObjectID) error {
	if booking.VendorID != vendorID {
		return services.ErrNotBookingParty
	}
	if !models.CanTransition(booking.Status, models.StatusCompleted) {
		return &services.TransitionError{From: booking.Status, To: models.StatusCompleted}
	}
	return nil
}

// CancelBooking cancels an active booking with a mandatory reason
func (c *BookingController) CancelBooking(ctx echo.Context) error {
	actorID, err := requireUserID(ctx)
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

	var request models.CancelBookingRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := c.bookings.Cancel(reqCtx, bookingID, actorID, request.Reason)
	if err != nil {
		return bookingErrorResponse(ctx, err)
	}

	// Tell the other party
	if booking.CustomerID == actorID {
		if err := c.hub.NotifyBookingStatus(booking.VendorID, booking); err != nil {
			log.Printf("Vendor %s not reachable over WebSocket: %v", booking.VendorID.Hex(), err)
		}
	} else {
		c.notifyCustomer(booking, "Booking cancelled", "Your booking has been cancelled")
	}

	return ctx.JSON(http.StatusOK, models.BookingResponse{
		Status:  http.StatusOK,
		Message: "Booking cancelled successfully",
		Data:    booking,
	})
}

// GetAllBookings returns every booking for admin review, optionally filtered
// by status via query parameter
func (c *BookingController) GetAllBookings(ctx echo.Context) error {
	status := ctx.QueryParam("status")
	if status != "" && !models.IsValidStatus(status) {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown booking status",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bookings, err := c.bookings.ListAll(reqCtx, status)
	if err != nil {
		return bookingErrorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, models.BookingsResponse{
		Status:  http.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

func (c *BookingController) notifyCustomer(booking *models.Booking, title, message string) {
	if err := c.hub.NotifyBookingStatus(booking.CustomerID, booking); err != nil {
		log.Printf("Customer %s not reachable over WebSocket: %v", booking.CustomerID.Hex(), err)
	}
	if err := utils.SaveNotification(c.db, booking.CustomerID, title, message,
		websocket.NotificationTypeBookingStatus, booking); err != nil {
		log.Printf("Failed to save booking notification: %v", err)
	}
}
