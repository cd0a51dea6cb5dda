package applications

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

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Store defines the interface for application persistence. All lookups are
// scoped to the owner's email, so records belonging to other users behave as
// if they do not exist.
type Store interface {
	Insert(ctx context.Context, a *models.Application) (string, error)
	ListByOwner(ctx context.Context, email string) ([]models.Application, error)
	GetByID(ctx context.Context, id, email string) (*models.Application, error)
	Update(ctx context.Context, id, email string, fields bson.M) (int64, error)
	Delete(ctx context.Context, id, email string) (int64, error)
}

// Handler holds job application HTTP handlers. Every route is behind the
// bearer guard.
type Handler struct {
	apps Store
}

func NewHandler(apps Store) *Handler {
	return &Handler{apps: apps}
}

// Create records a new application for the caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok || ident.Email == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
		return
	}

	var req models.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Company == "" || req.JobTitle == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "company and jobTitle required"})
		return
	}

	app := &models.Application{
		Company:       req.Company,
		JobTitle:      req.JobTitle,
		Status:        req.Status,
		Location:      req.Location,
		JobPostingURL: req.JobPostingURL,
		Notes:         req.Notes,
		UserEmail:     ident.Email,
	}
	id, err := h.apps.Insert(r.Context(), app)
	if err != nil {
		log.Printf("Failed to create application: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to add application"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"insertedId": id})
}

// List returns all of the caller's applications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok || ident.Email == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
		return
	}

	apps, err := h.apps.ListByOwner(r.Context(), ident.Email)
	if err != nil {
		log.Printf("Failed to fetch applications: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch applications"})
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	writeJSON(w, http.StatusOK, apps)
}

// Get returns one of the caller's applications by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	app, err := h.apps.GetByID(r.Context(), id, ident.Email)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Application not found"})
		return
	}
	if err != nil {
		log.Printf("Failed to fetch application: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch application"})
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// Update applies a partial edit to one of the caller's applications.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if patch == nil {
		// a JSON null body decodes without error and leaves the map nil
		patch = map[string]interface{}{}
	}
	delete(patch, "userEmail")
	delete(patch, "createdAt")
	delete(patch, "_id")
	delete(patch, "id")

	matched, err := h.apps.Update(r.Context(), id, ident.Email, bson.M(patch))
	if errors.Is(err, store.ErrNotFound) || (err == nil && matched == 0) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Application not found"})
		return
	}
	if err != nil {
		log.Printf("Failed to update application: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update application"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"matchedCount": matched})
}

// Delete removes one of the caller's applications.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	deleted, err := h.apps.Delete(r.Context(), id, ident.Email)
	if errors.Is(err, store.ErrNotFound) || (err == nil && deleted == 0) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Application not found"})
		return
	}
	if err != nil {
		log.Printf("Failed to delete application: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete application"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}
