// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrTooManyOTPAttempts marks an attempt rejected by the hourly budget, as
// opposed to a Redis failure.
var ErrTooManyOTPAttempts = errors.New("too many OTP attempts")

// GenerateOTP generates a uniformly random 6-digit decimal code.
func GenerateOTP() (string, error) {
	const digits = "0123456789"
	result := make([]byte, 6)
	for i := range result {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		result[i] = digits[num.Int64()]
	}
	return string(result), nil
}

// ValidateOTPAttempts counts OTP requests/attempts per key and rejects once
// the hourly budget is spent. A nil client disables the check.
func ValidateOTPAttempts(key string, rdb *redis.Client) error {
	if rdb == nil {
		return nil
	}

	attempts, err := rdb.Incr(context.Background(), "otp_attempts:"+key).Result()
	if err != nil {
		return err
	}

	// Set expiry if first attempt
	if attempts == 1 {
		rdb.Expire(context.Background(), "otp_attempts:"+key, 1*time.Hour)
	}

	// Limit to 5 attempts per hour
	if attempts > 5 {
		return ErrTooManyOTPAttempts
	}

	return nil
}

// ClearOTPAttempts resets the attempt counter, used after a successful verify.
func ClearOTPAttempts(key string, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	rdb.Del(context.Background(), "otp_attempts:"+key)
}
