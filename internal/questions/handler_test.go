package questions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jobtrackr/jobtrack-backend/internal/middleware"
	"github.com/jobtrackr/jobtrack-backend/internal/models"
	"github.com/jobtrackr/jobtrack-backend/internal/store"
)

type fakeQuestionStore struct {
	byID        map[string]*models.Question
	lastPatch   bson.M
	lastCompany string
	lastRole    string
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{byID: make(map[string]*models.Question)}
}

func (f *fakeQuestionStore) Insert(_ context.Context, q *models.Question) (string, error) {
	q.ID = primitive.NewObjectID()
	id := q.ID.Hex()
	f.byID[id] = q
	return id, nil
}

func (f *fakeQuestionStore) ListByCompany(_ context.Context, company, role string) ([]models.Question, error) {
	f.lastCompany, f.lastRole = company, role
	var out []models.Question
	for _, q := range f.byID {
		if !strings.EqualFold(q.Company, company) {
			continue
		}
		if role != "" && q.Role != role {
			continue
		}
		out = append(out, *q)
	}
	return out, nil
}

func (f *fakeQuestionStore) GetByID(_ context.Context, id string) (*models.Question, error) {
	q, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return q, nil
}

func (f *fakeQuestionStore) Update(_ context.Context, id string, fields bson.M) (int64, int64, error) {
	if _, ok := f.byID[id]; !ok {
		return 0, 0, store.ErrNotFound
	}
	// mirrors the real store's stamp, so a nil patch fails loudly here too
	fields["updatedAt"] = time.Now()
	f.lastPatch = fields
	return 1, 1, nil
}

func (f *fakeQuestionStore) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := f.byID[id]; !ok {
		return 0, store.ErrNotFound
	}
	delete(f.byID, id)
	return 1, nil
}

func seedQuestion(f *fakeQuestionStore, company, title, ownerEmail string) *models.Question {
	q := &models.Question{
		ID:            primitive.NewObjectID(),
		Company:       company,
		QuestionTitle: title,
		UserEmail:     ownerEmail,
	}
	f.byID[q.ID.Hex()] = q
	return q
}

func doRequest(h http.HandlerFunc, method, target, body string, ident *middleware.Identity, urlParams map[string]string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := req.Context()
	if ident != nil {
		ctx = middleware.WithIdentity(ctx, *ident)
	}
	if len(urlParams) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range urlParams {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	h(rec, req.WithContext(ctx))
	return rec
}

func TestCreateRequiresEmailIdentity(t *testing.T) {
	h := NewHandler(newFakeQuestionStore())

	rec := doRequest(h.Create, http.MethodPost, "/api/questions",
		`{"company":"Google","questionTitle":"Reverse a string"}`, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// a token without an email claim cannot establish ownership
	rec = doRequest(h.Create, http.MethodPost, "/api/questions",
		`{"company":"Google","questionTitle":"Reverse a string"}`,
		&middleware.Identity{UserID: "64a1f0c2e9b3d8a7c6b5e4f3"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateRequiresCompanyAndTitle(t *testing.T) {
	h := NewHandler(newFakeQuestionStore())
	ident := &middleware.Identity{UserID: "64a1f0c2e9b3d8a7c6b5e4f3", Email: "alice@example.com"}

	rec := doRequest(h.Create, http.MethodPost, "/api/questions",
		`{"questionTitle":"Reverse a string"}`, ident, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(h.Create, http.MethodPost, "/api/questions",
		`{"company":"Google"}`, ident, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateForcesOwnerEmail(t *testing.T) {
	fs := newFakeQuestionStore()
	h := NewHandler(fs)
	ident := &middleware.Identity{UserID: "64a1f0c2e9b3d8a7c6b5e4f3", Email: "alice@example.com"}

	// the body tries to claim somebody else's ownership and a creation time
	rec := doRequest(h.Create, http.MethodPost, "/api/questions",
		`{"company":"Google","questionTitle":"Reverse a string","userEmail":"mallory@example.com","createdAt":"1970-01-01T00:00:00Z"}`,
		ident, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, fs.byID, 1)
	for _, q := range fs.byID {
		assert.Equal(t, "alice@example.com", q.UserEmail)
	}
	assert.Contains(t, rec.Body.String(), "insertedId")
}

func TestListRequiresCompany(t *testing.T) {
	h := NewHandler(newFakeQuestionStore())

	rec := doRequest(h.List, http.MethodGet, "/api/questions", "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListMatchesCompanyCaseInsensitively(t *testing.T) {
	fs := newFakeQuestionStore()
	seedQuestion(fs, "Google", "Reverse a string", "alice@example.com")
	seedQuestion(fs, "Google LLC", "Design a URL shortener", "alice@example.com")
	h := NewHandler(fs)

	rec := doRequest(h.List, http.MethodGet, "/api/questions?company=google", "", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Reverse a string")
	assert.NotContains(t, rec.Body.String(), "URL shortener")
}

func TestListFiltersByRole(t *testing.T) {
	fs := newFakeQuestionStore()
	h := NewHandler(fs)

	rec := doRequest(h.List, http.MethodGet, "/api/questions?company=Google&role=SWE", "", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Google", fs.lastCompany)
	assert.Equal(t, "SWE", fs.lastRole)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestGetNotFound(t *testing.T) {
	h := NewHandler(newFakeQuestionStore())

	rec := doRequest(h.Get, http.MethodGet, "/api/questions/000000000000000000000000", "", nil,
		map[string]string{"id": "000000000000000000000000"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateNonOwnerForbidden(t *testing.T) {
	fs := newFakeQuestionStore()
	q := seedQuestion(fs, "Google", "Reverse a string", "alice@example.com")
	h := NewHandler(fs)

	rec := doRequest(h.Update, http.MethodPut, "/api/questions/"+q.ID.Hex(),
		`{"tips":"stolen"}`,
		&middleware.Identity{UserID: "64a1f0c2e9b3d8a7c6b5e4f3", Email: "mallory@example.com"},
		map[string]string{"id": q.ID.Hex()})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, fs.lastPatch)
}

func TestUpdateNotFoundBeforeOwnership(t *testing.T) {
	h := NewHandler(newFakeQuestionStore())

	rec := doRequest(h.Update, http.MethodPut, "/api/questions/000000000000000000000000",
		`{"tips":"x"}`,
		&middleware.Identity{UserID: "64a1f0c2e9b3d8a7c6b5e4f3", Email: "alice@example.com"},
		map[string]string{"id": "000000000000000000000000"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStripsProtectedFields(t *testing.T) {
	fs := newFakeQuestionStore()
	q := seedQuestion(fs, "Google", "Reverse a string", "alice@example.com")
	h := NewHandler(fs)

	rec := doRequest(h.Update, http.MethodPut, "/api/questions/"+q.ID.Hex(),
		`{"tips":"use two pointers","userEmail":"mallory@example.com","createdAt":0}`,
		&middleware.Identity{UserID: "64a1f0c2e9b3d8a7c6b5e4f3", Email: "alice@example.com"},
		map[string]string{"id": q.ID.Hex()})

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fs.lastPatch)
	assert.Equal(t, "use two pointers", fs.lastPatch["tips"])
	assert.NotContains(t, fs.lastPatch, "userEmail")
	assert.NotContains(t, fs.lastPatch, "createdAt")
	assert.Contains(t, rec.Body.String(), "matchedCount")
}

func TestUpdateNullBody(t *testing.T) {
	fs := newFakeQuestionStore()
	q := seedQuestion(fs, "Google", "Reverse a string", "alice@example.com")
	h := NewHandler(fs)

	rec := doRequest(h.Update, http.MethodPut, "/api/questions/"+q.ID.Hex(),
		`null`,
		&middleware.Identity{UserID: "64a1f0c2e9b3d8a7c6b5e4f3", Email: "alice@example.com"},
		map[string]string{"id": q.ID.Hex()})

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fs.lastPatch)
	assert.Contains(t, fs.lastPatch, "updatedAt")
	assert.Contains(t, rec.Body.String(), "matchedCount")
}

func TestDeleteNonOwnerForbidden(t *testing.T) {
	fs := newFakeQuestionStore()
	q := seedQuestion(fs, "Google", "Reverse a string", "alice@example.com")
	h := NewHandler(fs)

	rec := doRequest(h.Delete, http.MethodDelete, "/api/questions/"+q.ID.Hex(), "",
		&middleware.Identity{UserID: "64a1f0c2e9b3d8a7c6b5e4f3", Email: "mallory@example.com"},
		map[string]string{"id": q.ID.Hex()})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, fs.byID, 1, "record must survive a non-owner delete")
}

func TestDeleteByOwner(t *testing.T) {
	fs := newFakeQuestionStore()
	q := seedQuestion(fs, "Google", "Reverse a string", "alice@example.com")
	h := NewHandler(fs)

	rec := doRequest(h.Delete, http.MethodDelete, "/api/questions/"+q.ID.Hex(), "",
		&middleware.Identity{UserID: "64a1f0c2e9b3d8a7c6b5e4f3", Email: "alice@example.com"},
		map[string]string{"id": q.ID.Hex()})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deletedCount":1`)
	assert.Empty(t, fs.byID)
}
