package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCancelRequiresReason(t *testing.T) {
	s := &BookingService{}

	_, err := s.Cancel(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), "")
	assert.Equal(t, ErrEmptyCancelReason, err)
}

func TestTransitionErrorMessage(t *testing.T) {
	err := &TransitionError{From: "completed", To: "cancelled"}
	assert.Equal(t, `cannot move booking from "completed" to "cancelled"`, err.Error())
}

func TestCreateRejectsMalformedVendorID(t *testing.T) {
	s := &BookingService{}

	_, err := s.Create(context.Background(), primitive.NewObjectID(), "not-a-hex-id")
	assert.Equal(t, ErrVendorNotFound, err)
}
