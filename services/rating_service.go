// services/rating_service.go
package services

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/servify/servify_backend/config"
	"github.com/servify/servify_backend/models"
)

var (
	ErrRatingOutOfRange   = errors.New("rating must be between 1 and 5")
	ErrAlreadyRated       = errors.New("this booking has already been rated")
	ErrBookingNotRateable = errors.New("only completed bookings can be rated")
)

// RatingService records ratings on completed bookings and keeps the vendor's
// aggregate up to date
type RatingService struct {
	db *mongo.Client
}

func NewRatingService(db *mongo.Client) *RatingService {
	return &RatingService{db: db}
}

// RoundRating derives the displayed average from the running sum and count,
// rounded to one decimal place
func RoundRating(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*10) / 10
}

// RateBooking stamps a rating onto a completed booking, once, then folds it
// into the vendor's running aggregate. The booking update is conditional on
// no rating existing yet, so a double submit cannot count twice.
func (s *RatingService) RateBooking(ctx context.Context, bookingID, customerID primitive.ObjectID, rating int, review string) (*models.Booking, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrRatingOutOfRange
	}

	bookings := config.GetCollection(s.db, "bookings")

	now := time.Now()
	filter := bson.M{
		"_id":        bookingID,
		"customerId": customerID,
		"status":     models.StatusCompleted,
		"rating":     bson.M{"$exists": false},
	}
	set := bson.M{
		"rating":    rating,
		"updatedAt": now,
		"ratedAt":   now,
	}
	if review != "" {
		set["review"] = review
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	err := bookings.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, s.diagnose(ctx, bookingID, customerID)
		}
		return nil, err
	}

	if err := s.applyToVendor(ctx, booking.VendorID, rating); err != nil {
		return nil, err
	}

	return &booking, nil
}

// diagnose figures out why the conditional rating update matched nothing
func (s *RatingService) diagnose(ctx context.Context, bookingID, customerID primitive.ObjectID) error {
	bookings := config.GetCollection(s.db, "bookings")

	var booking models.Booking
	err := bookings.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrBookingNotFound
		}
		return err
	}

	if booking.CustomerID != customerID {
		return ErrNotBookingParty
	}
	if booking.Status != models.StatusCompleted {
		return ErrBookingNotRateable
	}
	return ErrAlreadyRated
}

// ListVendorRatings returns the vendor's rated bookings, newest first
func (s *RatingService) ListVendorRatings(ctx context.Context, vendorID primitive.ObjectID) ([]models.Booking, error) {
	bookings := config.GetCollection(s.db, "bookings")

	filter := bson.M{
		"vendorId": vendorID,
		"rating":   bson.M{"$exists": true},
	}
	opts := options.Find().SetSort(bson.M{"ratedAt": -1})

	cursor, err := bookings.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rated := []models.Booking{}
	if err := cursor.All(ctx, &rated); err != nil {
		return nil, err
	}
	return rated, nil
}

// applyToVendor increments the vendor's running sum and count atomically,
// then derives the displayed average from the returned document. Concurrent
// ratings each land their $inc, so none are lost.
func (s *RatingService) applyToVendor(ctx context.Context, vendorID primitive.ObjectID, rating int) error {
	users := config.GetCollection(s.db, "users")

	update := bson.M{"$inc": bson.M{
		"vendorInfo.ratingSum":    rating,
		"vendorInfo.totalRatings": 1,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var vendor models.User
	err := users.FindOneAndUpdate(ctx, bson.M{"_id": vendorID}, update, opts).Decode(&vendor)
	if err != nil {
		return err
	}

	if vendor.VendorInfo == nil {
		return nil
	}

	average := RoundRating(vendor.VendorInfo.RatingSum, vendor.VendorInfo.TotalRatings)
	_, err = users.UpdateOne(ctx, bson.M{"_id": vendorID}, bson.M{
		"$set": bson.M{"vendorInfo.averageRating": average},
	})
	return err
}
