// models/booking.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses
const (
	StatusBooked    = "booked"
	StatusAccepted  = "accepted"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// allowedTransitions is the closed transition table for booking statuses.
// "completed" and "cancelled" are terminal.
var allowedTransitions = map[string][]string{
	StatusBooked:   {StatusAccepted, StatusCancelled},
	StatusAccepted: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// IsActiveStatus reports whether a status counts toward the one-active-booking-per-pair rule.
func IsActiveStatus(status string) bool {
	return status == StatusBooked || status == StatusAccepted
}

// ActiveStatuses returns the non-terminal statuses.
func ActiveStatuses() []string {
	return []string{StatusBooked, StatusAccepted}
}

// IsValidStatus reports whether the given string is a known booking status.
func IsValidStatus(status string) bool {
	switch status {
	case StatusBooked, StatusAccepted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Booking model
type Booking struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CustomerID primitive.ObjectID `json:"customerId" bson:"customerId"`
	VendorID   primitive.ObjectID `json:"vendorId" bson:"vendorId"`

	// Vendor display fields denormalized at creation time
	VendorName     string `json:"vendorName" bson:"vendorName"`
	VendorCategory string `json:"vendorCategory" bson:"vendorCategory"`
	VendorAddress  string `json:"vendorAddress,omitempty" bson:"vendorAddress,omitempty"`
	VendorMobile   string `json:"vendorMobile,omitempty" bson:"vendorMobile,omitempty"`

	Status             string     `json:"status" bson:"status"` // "booked", "accepted", "completed", "cancelled"
	CancellationReason string     `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`

	// Rating is set at most once, after completion
	Rating  int        `json:"rating,omitempty" bson:"rating,omitempty"`
	Review  string     `json:"review,omitempty" bson:"review,omitempty"`
	RatedAt *time.Time `json:"ratedAt,omitempty" bson:"ratedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// BookingRequest model
type BookingRequest struct {
	VendorID string `json:"vendorId"`
}

// CancelBookingRequest model
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CompleteBookingRequest carries the OTP that gates completion
type CompleteBookingRequest struct {
	OTP string `json:"otp"`
}

// RatingRequest model for rating a completed booking
type RatingRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review,omitempty"`
}

// BookingResponse model
type BookingResponse struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Data    *Booking `json:"data,omitempty"`
}

// BookingsResponse model for multiple bookings
type BookingsResponse struct {
	Status  int       `json:"status"`
	Message string    `json:"message"`
	Data    []Booking `json:"data,omitempty"`
}
