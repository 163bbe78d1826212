package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"booked to accepted", StatusBooked, StatusAccepted, true},
		{"booked to cancelled", StatusBooked, StatusCancelled, true},
		{"booked to completed skips acceptance", StatusBooked, StatusCompleted, false},
		{"accepted to completed", StatusAccepted, StatusCompleted, true},
		{"accepted to cancelled", StatusAccepted, StatusCancelled, true},
		{"accepted back to booked", StatusAccepted, StatusBooked, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"completed cannot reopen", StatusCompleted, StatusAccepted, false},
		{"cancelled is terminal", StatusCancelled, StatusBooked, false},
		{"cancelled cannot complete", StatusCancelled, StatusCompleted, false},
		{"no self transition", StatusBooked, StatusBooked, false},
		{"unknown source status", "pending", StatusAccepted, false},
		{"unknown target status", StatusBooked, "archived", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsActiveStatus(t *testing.T) {
	assert.True(t, IsActiveStatus(StatusBooked))
	assert.True(t, IsActiveStatus(StatusAccepted))
	assert.False(t, IsActiveStatus(StatusCompleted))
	assert.False(t, IsActiveStatus(StatusCancelled))
	assert.False(t, IsActiveStatus(""))
}

func TestActiveStatuses(t *testing.T) {
	statuses := ActiveStatuses()
	assert.Len(t, statuses, 2)
	assert.Contains(t, statuses, StatusBooked)
	assert.Contains(t, statuses, StatusAccepted)
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusBooked, StatusAccepted, StatusCompleted, StatusCancelled} {
		assert.True(t, IsValidStatus(s), s)
	}
	assert.False(t, IsValidStatus("pending"))
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("Booked"))
}
