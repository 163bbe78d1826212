// utils/valid.go
package utils

import (
	"errors"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SanitizeEmail sanitizes and validates an email address
func SanitizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	if !emailRegex.MatchString(email) {
		return "", errors.New("invalid email format")
	}

	return email, nil
}

// SanitizeMobile sanitizes and validates a mobile number
func SanitizeMobile(mobile string) (string, error) {
	// Mobile is optional
	if strings.TrimSpace(mobile) == "" {
		return "", nil
	}

	mobile = regexp.MustCompile(`[^\d+]`).ReplaceAllString(mobile, "")

	if !strings.HasPrefix(mobile, "+") {
		mobile = "+" + mobile
	}

	if len(mobile) < 8 || len(mobile) > 15 {
		return "", errors.New("invalid mobile number length")
	}

	return mobile, nil
}
