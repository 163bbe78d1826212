package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"plain email", "user@example.com", "user@example.com", false},
		{"uppercase folded", "User@Example.COM", "user@example.com", false},
		{"surrounding whitespace", "  user@example.com  ", "user@example.com", false},
		{"missing at sign", "userexample.com", "", true},
		{"missing domain", "user@", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeEmail(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeMobile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"empty is allowed", "", "", false},
		{"plain digits get a plus", "96170123456", "+96170123456", false},
		{"already prefixed", "+96170123456", "+96170123456", false},
		{"spaces and dashes stripped", "+961 70-123-456", "+96170123456", false},
		{"too short", "+123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeMobile(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
