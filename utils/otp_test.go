package utils

import (
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP()
	assert.NoError(t, err)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9', "OTP must contain only digits")
	}
}

func TestGenerateOTPVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP()
		assert.NoError(t, err)
		seen[code] = true
	}
	// 20 identical 6-digit codes would mean the generator is broken
	assert.Greater(t, len(seen), 1)
}

func TestValidateOTPAttemptsNilClient(t *testing.T) {
	assert.NoError(t, ValidateOTPAttempts("test@example.com", nil))
}

func TestValidateOTPAttemptsBackendFailureIsNotThrottle(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	rdb.Close()

	err := ValidateOTPAttempts("test@example.com", rdb)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTooManyOTPAttempts)
}
