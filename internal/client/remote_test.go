package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/job-tracker/internal/application"
	"github.com/redmonkez12/job-tracker/internal/httputil"
)

func newTestRemote(t *testing.T, handler http.Handler) (*Remote, *Session) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session := NewSession(filepath.Join(t.TempDir(), "session.json"))
	return NewRemote(server.URL, session), session
}

func TestRemote_LoginSavesSession(t *testing.T) {
	remote, session := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		httputil.RespondJSON(w, map[string]any{
			"token": "tok-abc",
			"user":  map[string]string{"id": "u1", "email": "a@x.com"},
		}, http.StatusOK)
	}))

	require.NoError(t, remote.Login(context.Background(), "a@x.com", "pw1"))

	state, err := session.Load()
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "tok-abc", state.Token)
	assert.Equal(t, "a@x.com", state.Email)
}

func TestRemote_LoginInvalidCredentials(t *testing.T) {
	remote, session := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondErrorWithCode(w, "invalid email or password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
	}))

	err := remote.Login(context.Background(), "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// No session was stored for the failed login
	state, err := session.Load()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestRemote_RegisterDuplicateEmail(t *testing.T) {
	remote, _ := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondErrorWithCode(w, "email already registered", httputil.CodeEmailAlreadyExists, http.StatusBadRequest)
	}))

	err := remote.Register(context.Background(), "a@x.com", "pw1")
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestRemote_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	remote, session := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		httputil.RespondJSON(w, []application.Application{}, http.StatusOK)
	}))

	require.NoError(t, session.Save(&State{Token: "tok-abc", Email: "a@x.com"}))

	_, err := remote.List(context.Background(), application.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestRemote_AnonymousSendsNoAuthHeader(t *testing.T) {
	var sawHeader bool
	remote, _ := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawHeader = r.Header.Get("Authorization") != ""
		httputil.RespondJSON(w, []application.Application{}, http.StatusOK)
	}))

	_, err := remote.List(context.Background(), application.ListFilter{})
	require.NoError(t, err)
	assert.False(t, sawHeader)
}

func TestRemote_ListPassesFilter(t *testing.T) {
	var gotQuery string
	remote, _ := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		httputil.RespondJSON(w, []application.Application{}, http.StatusOK)
	}))

	_, err := remote.List(context.Background(), application.ListFilter{
		Status: application.StatusInterviewing,
		Sort:   application.SortOldest,
	})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "status=interviewing")
	assert.Contains(t, gotQuery, "sort=oldest")
}

func TestRemote_RejectedTokenClearsSession(t *testing.T) {
	remote, session := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondErrorWithCode(w, "token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
	}))

	require.NoError(t, session.Save(&State{Token: "expired", Email: "a@x.com"}))

	_, err := remote.Me(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)

	// The stale token is gone, so the caller can fall back to guest mode
	state, err := session.Load()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestRemote_UpdateOmitsUnsetFields(t *testing.T) {
	var gotBody map[string]string
	remote, session := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		httputil.RespondJSON(w, application.Application{ID: "x"}, http.StatusOK)
	}))
	require.NoError(t, session.Save(&State{Token: "tok", Email: "a@x.com"}))

	status := application.StatusOffer
	_, err := remote.Update(context.Background(), "some-id", application.UpdateFields{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"status": "offer"}, gotBody)
}

func TestRemote_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		want   error
	}{
		{"forbidden", http.StatusForbidden, httputil.CodeForbidden, application.ErrForbidden},
		{"not found", http.StatusNotFound, httputil.CodeNotFound, application.ErrNotFound},
		{"company required", http.StatusBadRequest, httputil.CodeCompanyRequired, application.ErrCompanyRequired},
		{"role required", http.StatusBadRequest, httputil.CodeRoleRequired, application.ErrRoleRequired},
		{"invalid status", http.StatusBadRequest, httputil.CodeInvalidStatus, application.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote, session := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				httputil.RespondErrorWithCode(w, tt.name, tt.code, tt.status)
			}))
			require.NoError(t, session.Save(&State{Token: "tok", Email: "a@x.com"}))

			_, err := remote.Update(context.Background(), "some-id", application.UpdateFields{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRemote_UnknownBadRequestIsValidationError(t *testing.T) {
	remote, _ := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
	}))

	_, err := remote.Create(context.Background(), application.CreateInput{Company: "Acme", Role: "Engineer"})
	assert.ErrorIs(t, err, ErrValidation)
}
