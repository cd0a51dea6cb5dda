package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question is a single reported interview question stored in the questions
// collection. UserEmail records the submitter and is set by the server, never
// from client input.
type Question struct {
	ID                  primitive.ObjectID `json:"id,omitempty"                  bson:"_id,omitempty"`
	Company             string             `json:"company"                       bson:"company"`
	Role                string             `json:"role,omitempty"                bson:"role,omitempty"`
	QuestionTitle       string             `json:"questionTitle"                 bson:"questionTitle"`
	QuestionDescription string             `json:"questionDescription,omitempty" bson:"questionDescription,omitempty"`
	Difficulty          string             `json:"difficulty,omitempty"          bson:"difficulty,omitempty"`
	Tips                string             `json:"tips,omitempty"                bson:"tips,omitempty"`
	Tags                []string           `json:"tags,omitempty"                bson:"tags,omitempty"`
	UserEmail           string             `json:"userEmail"                     bson:"userEmail"`
	CreatedAt           time.Time          `json:"createdAt"                     bson:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt,omitempty"           bson:"updatedAt,omitempty"`
}

// CreateQuestionRequest is the JSON body for POST /api/questions. Only these
// fields are copied into the stored document; anything else the client sends
// is dropped.
type CreateQuestionRequest struct {
	Company             string   `json:"company"`
	Role                string   `json:"role"`
	QuestionTitle       string   `json:"questionTitle"`
	QuestionDescription string   `json:"questionDescription"`
	Difficulty          string   `json:"difficulty"`
	Tips                string   `json:"tips"`
	Tags                []string `json:"tags"`
}

// CompanySummary is a per-company projection over the questions collection.
// It is computed on demand and never persisted.
type CompanySummary struct {
	Name           string `json:"name"           bson:"name"`
	ResourcesCount int64  `json:"resourcesCount" bson:"resourcesCount"`
	Logo           string `json:"logo"           bson:"-"`
}
