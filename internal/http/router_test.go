package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/job-tracker/internal/application"
	"github.com/redmonkez12/job-tracker/internal/auth"
	"github.com/redmonkez12/job-tracker/internal/config"
	"github.com/redmonkez12/job-tracker/internal/httputil"
	"github.com/redmonkez12/job-tracker/internal/logging"
	"github.com/redmonkez12/job-tracker/internal/user"
)

// memUserRepo is an in-memory user.Repository for end-to-end router tests
type memUserRepo struct {
	byEmail map[string]*user.User
}

func (m *memUserRepo) Create(_ context.Context, email, passwordHash string) (*user.User, error) {
	if _, ok := m.byEmail[email]; ok {
		return nil, user.ErrDuplicateEmail
	}
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.byEmail[email] = u
	return u, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

// noopLimiter never throttles
type noopLimiter struct{}

func (noopLimiter) CheckIPRateLimit(context.Context, string, string) (bool, error) { return false, nil }
func (noopLimiter) RecordIPRequest(context.Context, string, string) error          { return nil }

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	tokens, err := auth.NewPasetoService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	userRepo := &memUserRepo{byEmail: make(map[string]*user.User)}
	authService := auth.NewService(userRepo, tokens, time.Hour)
	authHandler := auth.NewHandler(authService, noopLimiter{})
	authMiddleware := auth.NewMiddleware(tokens)

	appService := application.NewService(application.NewMemoryRepository(nil))
	appHandler := application.NewHandler(appService)

	cfg := &config.Config{
		Server: config.ServerConfig{Env: "prod"},
	}

	return NewRouter(cfg, authHandler, authMiddleware, appHandler, logging.NewLogger(false))
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func registerUser(t *testing.T, router http.Handler, email, password string) auth.AuthResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[auth.AuthResponse](t, rec)
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "api is running", body["status"])
}

func TestRouter_RegisterLoginFlow(t *testing.T) {
	router := newTestRouter(t)

	// Login before any account exists
	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "pw1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeInvalidCredentials, decode[httputil.ErrorResponse](t, rec).Code)

	// Register, then the same pair logs in
	registered := registerUser(t, router, "a@x.com", "pw1")
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "a@x.com", registered.User.Email)

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	loggedIn := decode[auth.AuthResponse](t, rec)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
	assert.NotEmpty(t, loggedIn.Token)
}

func TestRouter_RegisterDuplicateEmail(t *testing.T) {
	router := newTestRouter(t)

	registerUser(t, router, "a@x.com", "pw1")

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "a@x.com", "password": "different",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeEmailAlreadyExists, decode[httputil.ErrorResponse](t, rec).Code)
}

func TestRouter_Me(t *testing.T) {
	router := newTestRouter(t)
	registered := registerUser(t, router, "a@x.com", "pw1")

	rec := doJSON(t, router, http.MethodGet, "/auth/me", registered.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[auth.MeResponse](t, rec)
	assert.Equal(t, registered.User.ID, me.ID)
	assert.Equal(t, "a@x.com", me.Email)

	// No token
	rec = doJSON(t, router, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeMissingAuth, decode[httputil.ErrorResponse](t, rec).Code)
}

func TestRouter_ApplicationCRUD(t *testing.T) {
	router := newTestRouter(t)
	registered := registerUser(t, router, "a@x.com", "pw1")
	token := registered.Token

	// Create
	rec := doJSON(t, router, http.MethodPost, "/applications/", token, map[string]string{
		"company": "Acme", "role": "Engineer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[application.Application](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, application.StatusApplied, created.Status)

	// List shows it
	rec = doJSON(t, router, http.MethodGet, "/applications/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	apps := decode[[]application.Application](t, rec)
	require.Len(t, apps, 1)
	assert.Equal(t, "Acme", apps[0].Company)

	// Partial update
	rec = doJSON(t, router, http.MethodPut, "/applications/"+created.ID, token, map[string]string{
		"status": "interviewing",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[application.Application](t, rec)
	assert.Equal(t, application.StatusInterviewing, updated.Status)
	assert.Equal(t, "Acme", updated.Company)

	// Delete
	rec = doJSON(t, router, http.MethodDelete, "/applications/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application deleted", decode[application.DeleteResponse](t, rec).Message)

	// Gone now
	rec = doJSON(t, router, http.MethodDelete, "/applications/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/applications/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]application.Application](t, rec))
}

func TestRouter_AnonymousList(t *testing.T) {
	router := newTestRouter(t)

	// A logged-in user has records, but anonymous readers see an empty list
	registered := registerUser(t, router, "a@x.com", "pw1")
	rec := doJSON(t, router, http.MethodPost, "/applications/", registered.Token, map[string]string{
		"company": "Acme", "role": "Engineer",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/applications/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]application.Application](t, rec))

	// A stale token downgrades to anonymous on reads instead of failing
	rec = doJSON(t, router, http.MethodGet, "/applications/", "stale-garbage", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]application.Application](t, rec))
}

func TestRouter_WritesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/applications/", "", map[string]string{
		"company": "Acme", "role": "Engineer",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/applications/"+uuid.NewString(), "", map[string]string{
		"company": "Acme",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/applications/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_OwnershipEnforced(t *testing.T) {
	router := newTestRouter(t)

	alice := registerUser(t, router, "alice@x.com", "pw-alice")
	bob := registerUser(t, router, "bob@x.com", "pw-bob")

	rec := doJSON(t, router, http.MethodPost, "/applications/", alice.Token, map[string]string{
		"company": "Acme", "role": "Engineer",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[application.Application](t, rec)

	// Bob can neither update nor delete Alice's record
	rec = doJSON(t, router, http.MethodPut, "/applications/"+created.ID, bob.Token, map[string]string{
		"company": "Hijacked",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, httputil.CodeForbidden, decode[httputil.ErrorResponse](t, rec).Code)

	rec = doJSON(t, router, http.MethodDelete, "/applications/"+created.ID, bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Bob's list does not include it either
	rec = doJSON(t, router, http.MethodGet, "/applications/", bob.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]application.Application](t, rec))

	// And it is still intact for Alice
	rec = doJSON(t, router, http.MethodGet, "/applications/", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	apps := decode[[]application.Application](t, rec)
	require.Len(t, apps, 1)
	assert.Equal(t, "Acme", apps[0].Company)
}

func TestRouter_ListFilterAndSort(t *testing.T) {
	router := newTestRouter(t)
	registered := registerUser(t, router, "a@x.com", "pw1")
	token := registered.Token

	for _, in := range []map[string]string{
		{"company": "First", "role": "A"},
		{"company": "Second", "role": "B", "status": "interviewing"},
		{"company": "Third", "role": "C"},
	} {
		rec := doJSON(t, router, http.MethodPost, "/applications/", token, in)
		require.Equal(t, http.StatusCreated, rec.Code)
		// Distinct created_at timestamps keep the ordering deterministic
		time.Sleep(5 * time.Millisecond)
	}

	rec := doJSON(t, router, http.MethodGet, "/applications/?sort=oldest", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	apps := decode[[]application.Application](t, rec)
	require.Len(t, apps, 3)
	assert.Equal(t, "First", apps[0].Company)
	assert.Equal(t, "Third", apps[2].Company)

	rec = doJSON(t, router, http.MethodGet, "/applications/?status=interviewing", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	apps = decode[[]application.Application](t, rec)
	require.Len(t, apps, 1)
	assert.Equal(t, "Second", apps[0].Company)

	rec = doJSON(t, router, http.MethodGet, "/applications/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	apps = decode[[]application.Application](t, rec)
	require.Len(t, apps, 3)
	assert.Equal(t, "Third", apps[0].Company)
}

func TestRouter_InvalidStatusRejected(t *testing.T) {
	router := newTestRouter(t)
	registered := registerUser(t, router, "a@x.com", "pw1")

	rec := doJSON(t, router, http.MethodPost, "/applications/", registered.Token, map[string]string{
		"company": "Acme", "role": "Engineer", "status": "rejected",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeInvalidStatus, decode[httputil.ErrorResponse](t, rec).Code)
}
