package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/jobtrackr/jobtrack-backend/internal/middleware"
	"github.com/jobtrackr/jobtrack-backend/internal/models"
	"github.com/jobtrackr/jobtrack-backend/internal/store"
	"github.com/jobtrackr/jobtrack-backend/internal/token"
)

const bcryptCost = 12

// UserStore defines the interface for account persistence.
type UserStore interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	FindConflicting(ctx context.Context, email, username string) (*models.User, error)
	FindConflictingExcept(ctx context.Context, id, email, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
	UpdateProfile(ctx context.Context, id string, req models.UpdateProfileRequest) (int64, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// Handler holds account-related HTTP handlers.
type Handler struct {
	users  UserStore
	secret string
}

func NewHandler(users UserStore, secret string) *Handler {
	return &Handler{users: users, secret: secret}
}

// Register creates a new account. The email/username pre-check is a single
// combined lookup so an email collision is reported ahead of a username one;
// the unique indexes on the users collection are the actual guarantee.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		http.Error(w, `{"message":"firstName, lastName, username, email and password are required"}`, http.StatusBadRequest)
		return
	}

	existing, err := h.users.FindConflicting(r.Context(), req.Email, req.Username)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	if existing != nil {
		if existing.Email == req.Email {
			http.Error(w, `{"message":"Account with email already exists"}`, http.StatusBadRequest)
			return
		}
		http.Error(w, `{"message":"Account with username already exists"}`, http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
	}
	if err := h.users.Insert(r.Context(), user); err != nil {
		if store.IsDuplicateKey(err) {
			http.Error(w, `{"message":"Account with email or username already exists"}`, http.StatusBadRequest)
			return
		}
		log.Printf("Error registering user: %v", err)
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully!"})
}

// Login verifies credentials by email or username and issues a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.FindByIdentifier(r.Context(), req.Identifier)
	if err != nil {
		log.Printf("Error logging in user: %v", err)
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"message":"User with this identifier does not exist!"}`, http.StatusBadRequest)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		http.Error(w, `{"message":"The password is incorrect!"}`, http.StatusBadRequest)
		return
	}

	tok, err := token.Mint(user.ID.Hex(), user.Email, h.secret)
	if err != nil {
		log.Printf("Error signing token: %v", err)
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "User logged in successfully!",
		"token":   tok,
	})
}

// Me returns the authenticated caller's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFromContext(r.Context())

	user, err := h.users.FindByID(r.Context(), ident.UserID)
	if err != nil {
		log.Printf("Error fetching user: %v", err)
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"message":"User not found!"}`, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, models.Profile{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Email:     user.Email,
	})
}

// UpdateProfile changes name, username, and email for the caller.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFromContext(r.Context())

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	existing, err := h.users.FindConflictingExcept(r.Context(), ident.UserID, req.Email, req.Username)
	if err != nil {
		log.Printf("Error updating user: %v", err)
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	if existing != nil {
		if existing.Email == req.Email {
			http.Error(w, `{"message":"Email already taken by another user"}`, http.StatusBadRequest)
			return
		}
		http.Error(w, `{"message":"Username already taken by another user"}`, http.StatusBadRequest)
		return
	}

	matched, err := h.users.UpdateProfile(r.Context(), ident.UserID, req)
	if err != nil {
		log.Printf("Error updating user: %v", err)
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	if matched == 0 {
		http.Error(w, `{"message":"User not found!"}`, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully!",
		"user": models.Profile{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Username:  req.Username,
			Email:     req.Email,
		},
	})
}

// UpdatePassword re-hashes and stores a new password after checking the
// current one. Validation runs before any store write.
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFromContext(r.Context())

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		http.Error(w, `{"message":"Current password and new password are required"}`, http.StatusBadRequest)
		return
	}
	if len(req.NewPassword) < 6 {
		http.Error(w, `{"message":"New password must be at least 6 characters"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.FindByID(r.Context(), ident.UserID)
	if err != nil {
		log.Printf("Error updating password: %v", err)
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"message":"User not found!"}`, http.StatusNotFound)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		http.Error(w, `{"message":"Current password is incorrect"}`, http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), ident.UserID, string(hashed)); err != nil {
		log.Printf("Error updating password: %v", err)
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully!"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
