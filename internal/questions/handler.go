package questions

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/jobtrackr/jobtrack-backend/internal/middleware"
	"github.com/jobtrackr/jobtrack-backend/internal/models"
	"github.com/jobtrackr/jobtrack-backend/internal/store"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Store defines the interface for question persistence.
type Store interface {
	Insert(ctx context.Context, q *models.Question) (string, error)
	ListByCompany(ctx context.Context, company, role string) ([]models.Question, error)
	GetByID(ctx context.Context, id string) (*models.Question, error)
	Update(ctx context.Context, id string, fields bson.M) (matched, modified int64, err error)
	Delete(ctx context.Context, id string) (int64, error)
}

// Handler holds interview question HTTP handlers.
type Handler struct {
	questions Store
}

func NewHandler(questions Store) *Handler {
	return &Handler{questions: questions}
}

// Create stores a new question. Only whitelisted payload fields are
// persisted; userEmail always comes from the caller's token so it cannot be
// spoofed.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok || ident.Email == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
		return
	}

	var req models.CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Company == "" || req.QuestionTitle == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "company and questionTitle required"})
		return
	}

	question := &models.Question{
		Company:             req.Company,
		Role:                req.Role,
		QuestionTitle:       req.QuestionTitle,
		QuestionDescription: req.QuestionDescription,
		Difficulty:          req.Difficulty,
		Tips:                req.Tips,
		Tags:                req.Tags,
		UserEmail:           ident.Email,
	}
	id, err := h.questions.Insert(r.Context(), question)
	if err != nil {
		log.Printf("Failed to create question: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to add a question"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"insertedId": id})
}

// List returns questions for a company, matched case-insensitively as a
// whole string, optionally narrowed by role. Public.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	company := r.URL.Query().Get("company")
	role := r.URL.Query().Get("role")

	if company == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Company name is required."})
		return
	}

	questions, err := h.questions.ListByCompany(r.Context(), company, role)
	if err != nil {
		log.Printf("Failed to fetch questions: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch questions"})
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	writeJSON(w, http.StatusOK, questions)
}

// Get returns a single question by id. Public.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	question, err := h.questions.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Question not found"})
		return
	}
	if err != nil {
		log.Printf("Failed to fetch question by ID: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch question by ID"})
		return
	}
	writeJSON(w, http.StatusOK, question)
}

// Update applies a partial edit to a question the caller owns. Ownership and
// creation fields in the patch are discarded before the merge.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.questions.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Question not found"})
		return
	}
	if err != nil {
		log.Printf("Failed to update question: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update question"})
		return
	}

	ident, _ := middleware.IdentityFromContext(r.Context())
	if ident.Email == "" || existing.UserEmail != ident.Email {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Not authorized to edit this question"})
		return
	}

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if patch == nil {
		// a JSON null body decodes without error and leaves the map nil
		patch = map[string]interface{}{}
	}
	// the client cannot change ownership, identity, or creation time
	delete(patch, "userEmail")
	delete(patch, "createdAt")
	delete(patch, "_id")
	delete(patch, "id")

	matched, modified, err := h.questions.Update(r.Context(), id, bson.M(patch))
	if err != nil {
		log.Printf("Failed to update question: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update question"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"matchedCount":  matched,
		"modifiedCount": modified,
	})
}

// Delete removes a question the caller owns.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.questions.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Question not found"})
		return
	}
	if err != nil {
		log.Printf("Failed to delete question: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete question"})
		return
	}

	ident, _ := middleware.IdentityFromContext(r.Context())
	if ident.Email == "" || existing.UserEmail != ident.Email {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Not authorized to delete this question"})
		return
	}

	deleted, err := h.questions.Delete(r.Context(), id)
	if err != nil {
		log.Printf("Failed to delete question: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete question"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}
