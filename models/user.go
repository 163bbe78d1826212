// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser   = "user"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// User model
type User struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email      string             `json:"email" bson:"email"`
	Password   string             `json:"password,omitempty" bson:"password"`
	FullName   string             `json:"fullName" bson:"fullName"`
	Role       string             `json:"role" bson:"role"` // "user", "vendor", "admin"
	Address    string             `json:"address,omitempty" bson:"address,omitempty"`
	Mobile     string             `json:"mobile,omitempty" bson:"mobile,omitempty"`
	ProfilePic string             `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
	IsOnline   bool               `json:"isOnline" bson:"isOnline"`
	LastSeen   time.Time          `json:"lastSeen" bson:"lastSeen"`
	IsActive   bool               `json:"isActive" bson:"isActive"`
	VendorInfo *VendorInfo        `json:"vendorInfo,omitempty" bson:"vendorInfo,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// VendorInfo holds the vendor-only profile fields
type VendorInfo struct {
	ServiceCategory string   `json:"serviceCategory" bson:"serviceCategory"`
	Organization    string   `json:"organization,omitempty" bson:"organization,omitempty"`
	OrgAddress      string   `json:"orgAddress,omitempty" bson:"orgAddress,omitempty"`
	AvailableTime   string   `json:"availableTime,omitempty" bson:"availableTime,omitempty"`
	Description     string   `json:"description,omitempty" bson:"description,omitempty"`
	Gallery         []string `json:"gallery,omitempty" bson:"gallery,omitempty"`
	RatingSum       int      `json:"ratingSum" bson:"ratingSum"`
	TotalRatings    int      `json:"totalRatings" bson:"totalRatings"`
	AverageRating   float64  `json:"averageRating" bson:"averageRating"`
}

// SignupRequest is the payload for account creation
type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	FullName        string `json:"fullName" validate:"required"`
	Role            string `json:"role" validate:"required,oneof=user vendor"`
	Mobile          string `json:"mobile,omitempty"`
	Address         string `json:"address,omitempty"`
	ServiceCategory string `json:"serviceCategory,omitempty"`
	Organization    string `json:"organization,omitempty"`
}

// LoginRequest is the payload for email/password login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries the mutable profile fields
type UpdateProfileRequest struct {
	FullName string `json:"fullName,omitempty"`
	Address  string `json:"address,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
}

// UpdateVendorInfoRequest carries the vendor-only mutable fields
type UpdateVendorInfoRequest struct {
	ServiceCategory string `json:"serviceCategory,omitempty"`
	Organization    string `json:"organization,omitempty"`
	OrgAddress      string `json:"orgAddress,omitempty"`
	AvailableTime   string `json:"availableTime,omitempty"`
	Description     string `json:"description,omitempty"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
