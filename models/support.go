// models/support.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Support query statuses
const (
	SupportPending  = "pending"
	SupportResolved = "resolved"
)

// SupportQuery is a free-text customer support request.
type SupportQuery struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Query     string             `json:"query" bson:"query"`
	Status    string             `json:"status" bson:"status"` // "pending", "resolved"
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SupportQueryRequest model
type SupportQueryRequest struct {
	Query string `json:"query"`
}
