package company

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jobtrackr/jobtrack-backend/internal/models"
)

// Aggregator defines the interface for the company projection over the
// questions collection.
type Aggregator interface {
	Companies(ctx context.Context) ([]models.CompanySummary, error)
}

// Handler serves the derived company list.
type Handler struct {
	questions Aggregator
}

func NewHandler(questions Aggregator) *Handler {
	return &Handler{questions: questions}
}

// List returns every company that has at least one question, with its
// question count and a logo URL derived from the lowercased name.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.questions.Companies(r.Context())
	if err != nil {
		log.Printf("Error fetching companies: %v", err)
		http.Error(w, `{"message":"Server error while fetching companies"}`, http.StatusInternalServerError)
		return
	}
	if companies == nil {
		companies = []models.CompanySummary{}
	}

	for i := range companies {
		companies[i].Logo = fmt.Sprintf("https://logo.clearbit.com/%s.com", strings.ToLower(companies[i].Name))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(companies)
}
