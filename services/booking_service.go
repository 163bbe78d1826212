// services/booking_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/servify/servify_backend/config"
	"github.com/servify/servify_backend/models"
)

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrVendorNotFound      = errors.New("vendor not found")
	ErrActiveBookingExists = errors.New("an active booking with this vendor already exists")
	ErrNotBookingParty     = errors.New("you are not a party to this booking")
	ErrEmptyCancelReason   = errors.New("cancellation reason is required")
	ErrSelfBooking         = errors.New("vendors cannot book themselves")
)

// TransitionError reports a status change the lifecycle does not allow
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move booking from %q to %q", e.From, e.To)
}

// BookingService owns the booking lifecycle. Every status change goes through
// a conditional update filtered on the expected current status, so concurrent
// writers cannot push a booking through a transition the table forbids.
type BookingService struct {
	db *mongo.Client
}

func NewBookingService(db *mongo.Client) *BookingService {
	return &BookingService{db: db}
}

func (s *BookingService) collection() *mongo.Collection {
	return config.GetCollection(s.db, "bookings")
}

// Create inserts a new booking in the "booked" status with the vendor's
// display fields denormalized onto it. The partial unique index on
// (customerId, vendorId) over active statuses rejects a second active booking
// for the same pair.
func (s *BookingService) Create(ctx context.Context, customerID primitive.ObjectID, vendorIDHex string) (*models.Booking, error) {
	vendorID, err := primitive.ObjectIDFromHex(vendorIDHex)
	if err != nil {
		return nil, ErrVendorNotFound
	}
	if vendorID == customerID {
		return nil, ErrSelfBooking
	}

	usersCollection := config.GetCollection(s.db, "users")
	var vendor models.User
	err = usersCollection.FindOne(ctx, bson.M{
		"_id":      vendorID,
		"role":     models.RoleVendor,
		"isActive": true,
	}).Decode(&vendor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}

	now := time.Now()
	booking := models.Booking{
		ID:         primitive.NewObjectID(),
		CustomerID: customerID,
		VendorID:   vendorID,
		VendorName: vendor.FullName,
		Status:     models.StatusBooked,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if vendor.VendorInfo != nil {
		booking.VendorCategory = vendor.VendorInfo.ServiceCategory
		booking.VendorAddress = vendor.VendorInfo.OrgAddress
	}
	booking.VendorMobile = vendor.Mobile

	if _, err := s.collection().InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrActiveBookingExists
		}
		return nil, err
	}

	return &booking, nil
}

// Accept moves a booking from "booked" to "accepted". Only the booked vendor
// may accept.
func (s *BookingService) Accept(ctx context.Context, bookingID, vendorID primitive.ObjectID) (*models.Booking, error) {
	return s.transition(ctx, bookingID, models.StatusBooked, models.StatusAccepted,
		bson.M{"vendorId": vendorID}, nil)
}

// Complete moves a booking from "accepted" to "completed" and stamps
// completedAt. The controller verifies the customer's OTP before calling this.
func (s *BookingService) Complete(ctx context.Context, bookingID, vendorID primitive.ObjectID) (*models.Booking, error) {
	now := time.Now()
	return s.transition(ctx, bookingID, models.StatusAccepted, models.StatusCompleted,
		bson.M{"vendorId": vendorID}, bson.M{"completedAt": now})
}

// Cancel moves an active booking to "cancelled" with a mandatory reason.
// Either party may cancel while the booking is active.
func (s *BookingService) Cancel(ctx context.Context, bookingID, actorID primitive.ObjectID, reason string) (*models.Booking, error) {
	if reason == "" {
		return nil, ErrEmptyCancelReason
	}

	filter := bson.M{
		"_id":    bookingID,
		"status": bson.M{"$in": models.ActiveStatuses()},
		"$or": []bson.M{
			{"customerId": actorID},
			{"vendorId": actorID},
		},
	}
	update := bson.M{"$set": bson.M{
		"status":             models.StatusCancelled,
		"cancellationReason": reason,
		"updatedAt":          time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	err := s.collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, s.diagnose(ctx, bookingID, actorID, models.StatusCancelled)
		}
		return nil, err
	}

	return &booking, nil
}

// transition performs a conditional status update filtered on the expected
// current status. When nothing matched it diagnoses why so callers can return
// a precise error.
func (s *BookingService) transition(ctx context.Context, bookingID primitive.ObjectID, from, to string, partyFilter, extraSet bson.M) (*models.Booking, error) {
	filter := bson.M{
		"_id":    bookingID,
		"status": from,
	}
	for k, v := range partyFilter {
		filter[k] = v
	}

	set := bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}
	for k, v := range extraSet {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	err := s.collection().FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			var actorID primitive.ObjectID
			if id, ok := partyFilter["vendorId"].(primitive.ObjectID); ok {
				actorID = id
			}
			return nil, s.diagnose(ctx, bookingID, actorID, to)
		}
		return nil, err
	}

	return &booking, nil
}

// diagnose figures out why a conditional update matched nothing
func (s *BookingService) diagnose(ctx context.Context, bookingID, actorID primitive.ObjectID, target string) error {
	var booking models.Booking
	err := s.collection().FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrBookingNotFound
		}
		return err
	}

	if actorID != primitive.NilObjectID && booking.CustomerID != actorID && booking.VendorID != actorID {
		return ErrNotBookingParty
	}

	return &TransitionError{From: booking.Status, To: target}
}

// GetByID fetches a single booking
func (s *BookingService) GetByID(ctx context.Context, bookingID primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := s.collection().FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// ListForCustomer returns the customer's bookings, newest first
func (s *BookingService) ListForCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Booking, error) {
	return s.list(ctx, bson.M{"customerId": customerID})
}

// ListForVendor returns the vendor's bookings, newest first, optionally
// filtered by status
func (s *BookingService) ListForVendor(ctx context.Context, vendorID primitive.ObjectID, status string) ([]models.Booking, error) {
	filter := bson.M{"vendorId": vendorID}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter)
}

// ListAll returns every booking, optionally filtered by status
func (s *BookingService) ListAll(ctx context.Context, status string) ([]models.Booking, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter)
}

func (s *BookingService) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
