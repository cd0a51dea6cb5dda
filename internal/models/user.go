package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account document in the users collection.
type User struct {
	ID        primitive.ObjectID `json:"id"                  bson:"_id,omitempty"`
	FirstName string             `json:"firstName"           bson:"firstName"`
	LastName  string             `json:"lastName"            bson:"lastName"`
	Username  string             `json:"username"            bson:"username"`
	Email     string             `json:"email"               bson:"email"`
	Password  string             `json:"-"                   bson:"password"` // never serialize
	CreatedAt time.Time          `json:"createdAt"           bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Profile is the public view of a user returned by GET /api/auth/me.
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

// RegisterRequest is the JSON body for POST /api/auth/register.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/auth/login. Identifier may be
// either the account email or the username.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// UpdateProfileRequest is the JSON body for PUT /api/auth/me.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

// ChangePasswordRequest is the JSON body for PUT /api/auth/me/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
