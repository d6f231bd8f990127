// Package client is the consumer side of the job tracker: durable session
// state, a remote store that talks to the REST API with a bearer token, and
// a guest shadow store that mirrors the same CRUD contract entirely locally.
package client

import (
	"context"
	"errors"

	"github.com/redmonkez12/job-tracker/internal/application"
)

var (
	// ErrInvalidCredentials is returned by Login for unknown email or wrong
	// password alike; the server never distinguishes the two.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailAlreadyRegistered is returned by Register for a taken email.
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrSessionExpired means the stored token was rejected. The session has
	// already been cleared; the caller should fall back to guest mode.
	ErrSessionExpired = errors.New("session expired, please log in again")

	// ErrValidation covers 400 responses from create/update.
	ErrValidation = errors.New("validation failed")
)

// Store mirrors the four application operations. Remote and Guest both
// implement it, so callers switch between them purely on whether a session
// token exists, and both can be exercised by one contract test suite.
// CRUD failures reuse the application package sentinels (ErrNotFound,
// ErrForbidden) so callers handle them uniformly.
type Store interface {
	List(ctx context.Context, filter application.ListFilter) ([]application.Application, error)
	Create(ctx context.Context, in application.CreateInput) (*application.Application, error)
	Update(ctx context.Context, id string, fields application.UpdateFields) (*application.Application, error)
	Delete(ctx context.Context, id string) error
}
