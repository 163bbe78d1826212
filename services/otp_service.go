// services/otp_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/servify/servify_backend/config"
	"github.com/servify/servify_backend/models"
	"github.com/servify/servify_backend/utils"
)

var (
	ErrOTPNotFound     = errors.New("no verification code found for this email")
	ErrOTPExpired      = errors.New("verification code has expired")
	ErrOTPMismatch     = errors.New("invalid verification code")
	ErrTooManyAttempts = errors.New("too many verification attempts, try again later")
)

// OTPService issues and verifies one-time codes keyed by email
type OTPService struct {
	db    *mongo.Client
	redis *redis.Client
	now   func() time.Time
}

func NewOTPService(db *mongo.Client, rdb *redis.Client) *OTPService {
	return &OTPService{
		db:    db,
		redis: rdb,
		now:   time.Now,
	}
}

// Issue generates a fresh code and upserts it for the email, replacing any
// previous code. The caller is responsible for delivering it.
func (s *OTPService) Issue(ctx context.Context, email string) (string, error) {
	if err := utils.ValidateOTPAttempts("otp_issue:"+email, s.redis); err != nil {
		if errors.Is(err, utils.ErrTooManyOTPAttempts) {
			return "", ErrTooManyAttempts
		}
		return "", err
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return "", err
	}

	collection := config.GetCollection(s.db, "otps")
	filter := bson.M{"email": email}
	update := bson.M{"$set": bson.M{
		"email":     email,
		"code":      code,
		"createdAt": s.now(),
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return "", err
	}

	return code, nil
}

// Verify checks the submitted code against the stored record. The record is
// deleted on success and on expiry, but kept on a plain mismatch so the user
// can retry within the validity window.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	if err := utils.ValidateOTPAttempts("otp_verify:"+email, s.redis); err != nil {
		if errors.Is(err, utils.ErrTooManyOTPAttempts) {
			return ErrTooManyAttempts
		}
		return err
	}

	collection := config.GetCollection(s.db, "otps")

	var record models.OTP
	err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrOTPNotFound
		}
		return err
	}

	if err := checkOTP(&record, code, s.now()); err != nil {
		if err == ErrOTPExpired {
			collection.DeleteOne(ctx, bson.M{"email": email})
		}
		return err
	}

	if _, err := collection.DeleteOne(ctx, bson.M{"email": email}); err != nil {
		return err
	}
	utils.ClearOTPAttempts("otp_verify:"+email, s.redis)

	return nil
}

// checkOTP validates a stored record against a submitted code
func checkOTP(record *models.OTP, code string, now time.Time) error {
	if record.Expired(now) {
		return ErrOTPExpired
	}
	if record.Code != code {
		return ErrOTPMismatch
	}
	return nil
}
