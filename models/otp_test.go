package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOTPExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		createdAt time.Time
		expired   bool
	}{
		{"fresh code", now, false},
		{"one minute old", now.Add(-1 * time.Minute), false},
		{"just inside the window", now.Add(-OTPValidity + time.Second), false},
		{"exactly at the boundary", now.Add(-OTPValidity), false},
		{"just past the window", now.Add(-OTPValidity - time.Second), true},
		{"hours old", now.Add(-3 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			otp := OTP{Email: "test@example.com", Code: "123456", CreatedAt: tt.createdAt}
			assert.Equal(t, tt.expired, otp.Expired(now))
		})
	}
}
