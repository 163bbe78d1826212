package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRoundRating(t *testing.T) {
	tests := []struct {
		name     string
		sum      int
		count    int
		expected float64
	}{
		{"no ratings yet", 0, 0, 0},
		{"single five star", 5, 1, 5.0},
		{"single one star", 1, 1, 1.0},
		{"thirteen over three rounds down", 13, 3, 4.3},
		{"two over three rounds up", 2, 3, 0.7},
		{"half rounds up", 7, 2, 3.5},
		{"exact average", 12, 3, 4.0},
		{"large counts", 437, 100, 4.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, RoundRating(tt.sum, tt.count), 1e-9)
		})
	}
}

func TestRateBookingRejectsOutOfRange(t *testing.T) {
	s := &RatingService{}

	for _, rating := range []int{-1, 0, 6, 100} {
		_, err := s.RateBooking(context.Background(), primitive.NilObjectID, primitive.NilObjectID, rating, "")
		assert.Equal(t, ErrRatingOutOfRange, err)
	}
}
