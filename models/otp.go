// models/otp.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTPValidity is the window within which an issued code can be verified.
const OTPValidity = 5 * time.Minute

// OTP is a one-time code keyed by the customer's email. At most one live
// record exists per email; issuing a new code overwrites the old one.
type OTP struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Code      string             `json:"code" bson:"code"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Expired reports whether the code is older than the validity window.
func (o *OTP) Expired(now time.Time) bool {
	return now.Sub(o.CreatedAt) > OTPValidity
}
