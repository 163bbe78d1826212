package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/servify/servify_backend/models"
	"github.com/servify/servify_backend/services"
)

func TestBookingErrorResponseCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"booking not found", services.ErrBookingNotFound, http.StatusNotFound},
		{"vendor not found", services.ErrVendorNotFound, http.StatusNotFound},
		{"not a party", services.ErrNotBookingParty, http.StatusForbidden},
		{"duplicate active booking", services.ErrActiveBookingExists, http.StatusConflict},
		{"already rated", services.ErrAlreadyRated, http.StatusConflict},
		{"not rateable", services.ErrBookingNotRateable, http.StatusConflict},
		{"forbidden transition", &services.TransitionError{From: "completed", To: "accepted"}, http.StatusConflict},
		{"empty cancel reason", services.ErrEmptyCancelReason, http.StatusBadRequest},
		{"rating out of range", services.ErrRatingOutOfRange, http.StatusBadRequest},
		{"self booking", services.ErrSelfBooking, http.StatusBadRequest},
		{"unexpected error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, rec := newJSONContext(http.MethodPost, "/api/bookings", "")
			err := bookingErrorResponse(ctx, tt.err)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestCompletionGuard(t *testing.T) {
	vendorID := primitive.NewObjectID()

	tests := []struct {
		name     string
		booking  models.Booking
		vendorID primitive.ObjectID
		expected error
	}{
		{
			name:     "accepted booking by its vendor",
			booking:  models.Booking{VendorID: vendorID, Status: models.StatusAccepted},
			vendorID: vendorID,
			expected: nil,
		},
		{
			name:     "another vendor's booking",
			booking:  models.Booking{VendorID: primitive.NewObjectID(), Status: models.StatusAccepted},
			vendorID: vendorID,
			expected: services.ErrNotBookingParty,
		},
		{
			name:     "not yet accepted",
			booking:  models.Booking{VendorID: vendorID, Status: models.StatusBooked},
			vendorID: vendorID,
			expected: &services.TransitionError{From: models.StatusBooked, To: models.StatusCompleted},
		},
		{
			name:     "already cancelled",
			booking:  models.Booking{VendorID: vendorID, Status: models.StatusCancelled},
			vendorID: vendorID,
			expected: &services.TransitionError{From: models.StatusCancelled, To: models.StatusCompleted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := completionGuard(&tt.booking, tt.vendorID)
			assert.Equal(t, tt.expected, err)
		})
	}
}

func TestCreateBookingRequiresAuth(t *testing.T) {
	controller := &BookingController{}

	ctx, rec := newJSONContext(http.MethodPost, "/api/bookings", `{"vendorId":"507f1f77bcf86cd799439011"}`)
	err := controller.CreateBooking(ctx)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
