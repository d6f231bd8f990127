package application

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("application not found")
	ErrForbidden       = errors.New("application belongs to another user")
	ErrCompanyRequired = errors.New("company is required")
	ErrRoleRequired    = errors.New("role is required")
	ErrInvalidStatus   = errors.New("invalid status")
)

// Repository abstracts application storage. Two implementations exist: the
// Postgres repository used by the server and the in-memory repository shared
// by tests and the client-side guest shadow. Both obey the same contract.
//
// Repositories store and fetch rows; ownership decisions live in Service.
type Repository interface {
	// List returns the owner's applications, filtered and ordered
	List(ctx context.Context, ownerID string, filter ListFilter) ([]Application, error)
	// Get returns a single application by id regardless of owner
	Get(ctx context.Context, id string) (*Application, error)
	// Create persists a new application and fills in id and createdAt
	Create(ctx context.Context, app *Application) error
	// Update overwrites the mutable fields of an existing application
	Update(ctx context.Context, app *Application) error
	// Delete removes an application permanently
	Delete(ctx context.Context, id string) error
}
