package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/job-tracker/internal/application"
	"github.com/redmonkez12/job-tracker/internal/auth"
	"github.com/redmonkez12/job-tracker/internal/config"
	httpserver "github.com/redmonkez12/job-tracker/internal/http"
	"github.com/redmonkez12/job-tracker/internal/logging"
	"github.com/redmonkez12/job-tracker/internal/user"
)

// TestStoreContract runs one suite against both Store implementations: the
// in-process guest shadow and the remote client backed by a real router.
// Guests and authenticated users get the same CRUD behavior by construction.
func TestStoreContract(t *testing.T) {
	t.Run("guest", func(t *testing.T) {
		runStoreContract(t, NewGuest())
	})

	t.Run("remote", func(t *testing.T) {
		runStoreContract(t, newAuthenticatedRemote(t))
	})
}

func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	before, err := store.List(ctx, application.ListFilter{})
	require.NoError(t, err)

	// Create defaults status and assigns an id
	created, err := store.Create(ctx, application.CreateInput{Company: "Acme", Role: "Engineer"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, application.StatusApplied, created.Status)

	apps, err := store.List(ctx, application.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, apps, len(before)+1)

	// Validation sentinels are identical on both sides
	_, err = store.Create(ctx, application.CreateInput{Role: "Engineer"})
	assert.ErrorIs(t, err, application.ErrCompanyRequired)

	_, err = store.Create(ctx, application.CreateInput{Company: "Acme"})
	assert.ErrorIs(t, err, application.ErrRoleRequired)

	_, err = store.Create(ctx, application.CreateInput{Company: "Acme", Role: "X", Status: application.Status("rejected")})
	assert.ErrorIs(t, err, application.ErrInvalidStatus)

	// Partial update touches only the fields supplied
	status := application.StatusInterviewing
	updated, err := store.Update(ctx, created.ID, application.UpdateFields{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, application.StatusInterviewing, updated.Status)
	assert.Equal(t, "Acme", updated.Company)
	assert.Equal(t, "Engineer", updated.Role)

	// Status filter sees the updated record
	apps, err = store.List(ctx, application.ListFilter{Status: application.StatusInterviewing})
	require.NoError(t, err)
	found := false
	for _, app := range apps {
		if app.ID == created.ID {
			found = true
		}
	}
	assert.True(t, found)

	// Unknown ids are NotFound for update and delete alike
	_, err = store.Update(ctx, "no-such-id", application.UpdateFields{Status: &status})
	assert.ErrorIs(t, err, application.ErrNotFound)

	err = store.Delete(ctx, "no-such-id")
	assert.ErrorIs(t, err, application.ErrNotFound)

	// Delete removes permanently; a second delete is NotFound, not a success
	require.NoError(t, store.Delete(ctx, created.ID))

	err = store.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, application.ErrNotFound)

	apps, err = store.List(ctx, application.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, apps, len(before))
}

// newAuthenticatedRemote stands up the real router over in-memory stores,
// registers a user through the API, and returns a Remote holding its session.
func newAuthenticatedRemote(t *testing.T) *Remote {
	t.Helper()

	tokens, err := auth.NewPasetoService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	userRepo := &contractUserRepo{byEmail: make(map[string]*user.User)}
	authService := auth.NewService(userRepo, tokens, time.Hour)
	authHandler := auth.NewHandler(authService, contractLimiter{})
	authMiddleware := auth.NewMiddleware(tokens)

	appService := application.NewService(application.NewMemoryRepository(nil))
	appHandler := application.NewHandler(appService)

	cfg := &config.Config{Server: config.ServerConfig{Env: "prod"}}
	router := httpserver.NewRouter(cfg, authHandler, authMiddleware, appHandler, logging.NewLogger(false))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	session := NewSession(filepath.Join(t.TempDir(), "session.json"))
	remote := NewRemote(server.URL, session)
	require.NoError(t, remote.Register(context.Background(), "contract@x.com", "pw1"))

	return remote
}

type contractUserRepo struct {
	byEmail map[string]*user.User
}

func (r *contractUserRepo) Create(_ context.Context, email, passwordHash string) (*user.User, error) {
	if _, ok := r.byEmail[email]; ok {
		return nil, user.ErrDuplicateEmail
	}
	u := &user.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.byEmail[email] = u
	return u, nil
}

func (r *contractUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (r *contractUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

type contractLimiter struct{}

func (contractLimiter) CheckIPRateLimit(context.Context, string, string) (bool, error) {
	return false, nil
}

func (contractLimiter) RecordIPRequest(context.Context, string, string) error { return nil }
