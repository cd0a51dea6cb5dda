package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application is a job application tracked by a user. Applications are
// private: every query is scoped to the owner's email.
type Application struct {
	ID            primitive.ObjectID `json:"id,omitempty"            bson:"_id,omitempty"`
	Company       string             `json:"company"                 bson:"company"`
	JobTitle      string             `json:"jobTitle"                bson:"jobTitle"`
	Status        string             `json:"status,omitempty"        bson:"status,omitempty"`
	Location      string             `json:"location,omitempty"      bson:"location,omitempty"`
	JobPostingURL string             `json:"jobPostingUrl,omitempty" bson:"jobPostingUrl,omitempty"`
	Notes         string             `json:"notes,omitempty"         bson:"notes,omitempty"`
	UserEmail     string             `json:"userEmail"               bson:"userEmail"`
	CreatedAt     time.Time          `json:"createdAt"               bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt,omitempty"     bson:"updatedAt,omitempty"`
}

// CreateApplicationRequest is the JSON body for POST /api/applications.
type CreateApplicationRequest struct {
	Company       string `json:"company"`
	JobTitle      string `json:"jobTitle"`
	Status        string `json:"status"`
	Location      string `json:"location"`
	JobPostingURL string `json:"jobPostingUrl"`
	Notes         string `json:"notes"`
}
