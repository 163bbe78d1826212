package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/servify/servify_backend/models"
)

func TestCheckOTP(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		record   models.OTP
		code     string
		expected error
	}{
		{
			name:     "correct code within window",
			record:   models.OTP{Code: "123456", CreatedAt: now.Add(-1 * time.Minute)},
			code:     "123456",
			expected: nil,
		},
		{
			name:     "wrong code",
			record:   models.OTP{Code: "123456", CreatedAt: now.Add(-1 * time.Minute)},
			code:     "654321",
			expected: ErrOTPMismatch,
		},
		{
			name:     "expired code",
			record:   models.OTP{Code: "123456", CreatedAt: now.Add(-models.OTPValidity - time.Second)},
			code:     "123456",
			expected: ErrOTPExpired,
		},
		{
			name:     "expired code with wrong digits still reports expiry",
			record:   models.OTP{Code: "123456", CreatedAt: now.Add(-10 * time.Minute)},
			code:     "000000",
			expected: ErrOTPExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkOTP(&tt.record, tt.code, now)
			assert.Equal(t, tt.expected, err)
		})
	}
}

func TestVerifyPersistence(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	now := time.Now()
	storedRecord := func(code string, age time.Duration) bson.D {
		return bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "user@example.com"},
			{Key: "code", Value: code},
			{Key: "createdAt", Value: primitive.NewDateTimeFromTime(now.Add(-age))},
		}
	}
	issuedCommands := func(mt *mtest.T) []string {
		var names []string
		for evt := mt.GetStartedEvent(); evt != nil; evt = mt.GetStartedEvent() {
			names = append(names, evt.CommandName)
		}
		return names
	}

	mt.Run("correct code deletes the record", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "servify.otps", mtest.FirstBatch,
				storedRecord("123456", time.Minute)),
			mtest.CreateSuccessResponse(),
		)

		service := NewOTPService(mt.Client, nil)
		service.now = func() time.Time { return now }

		err := service.Verify(context.Background(), "user@example.com", "123456")
		assert.NoError(mt, err)
		assert.Equal(mt, []string{"find", "delete"}, issuedCommands(mt))
	})

	mt.Run("expired code is deleted", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "servify.otps", mtest.FirstBatch,
				storedRecord("123456", models.OTPValidity+time.Second)),
			mtest.CreateSuccessResponse(),
		)

		service := NewOTPService(mt.Client, nil)
		service.now = func() time.Time { return now }

		err := service.Verify(context.Background(), "user@example.com", "123456")
		assert.ErrorIs(mt, err, ErrOTPExpired)
		assert.Equal(mt, []string{"find", "delete"}, issuedCommands(mt))
	})

	mt.Run("wrong code keeps the record", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "servify.otps", mtest.FirstBatch,
				storedRecord("123456", time.Minute)),
		)

		service := NewOTPService(mt.Client, nil)
		service.now = func() time.Time { return now }

		err := service.Verify(context.Background(), "user@example.com", "654321")
		assert.ErrorIs(mt, err, ErrOTPMismatch)
		assert.Equal(mt, []string{"find"}, issuedCommands(mt))
	})

	mt.Run("unknown email reports not found", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "servify.otps", mtest.FirstBatch),
		)

		service := NewOTPService(mt.Client, nil)
		service.now = func() time.Time { return now }

		err := service.Verify(context.Background(), "user@example.com", "123456")
		assert.ErrorIs(mt, err, ErrOTPNotFound)
		assert.Equal(mt, []string{"find"}, issuedCommands(mt))
	})
}

func TestVerifySurfacesThrottleBackendFailure(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	rdb.Close()

	service := NewOTPService(nil, rdb)
	err := service.Verify(context.Background(), "user@example.com", "123456")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTooManyAttempts)
}
