package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service implements the application CRUD operations and enforces per-record
// ownership. Every mutation loads the record and compares its owner against
// the caller's identity before touching anything; a client-supplied owner
// field is never trusted.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the owner's applications. An anonymous caller (nil owner)
// gets an empty collection: guests are served entirely by the client-side
// shadow and must never see another user's persisted records.
func (s *Service) List(ctx context.Context, owner *uuid.UUID, filter ListFilter) ([]Application, error) {
	if owner == nil {
		return []Application{}, nil
	}

	apps, err := s.repo.List(ctx, owner.String(), filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// Create validates the input and persists a new application owned by the caller.
// Status defaults to "applied" when omitted.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, in CreateInput) (*Application, error) {
	company := strings.TrimSpace(in.Company)
	role := strings.TrimSpace(in.Role)

	if company == "" {
		return nil, ErrCompanyRequired
	}
	if role == "" {
		return nil, ErrRoleRequired
	}

	status := in.Status
	if status == "" {
		status = StatusApplied
	} else if _, err := ParseStatus(string(status)); err != nil {
		return nil, ErrInvalidStatus
	}

	app := &Application{
		UserID:  owner.String(),
		Company: company,
		Role:    role,
		Status:  status,
		Link:    strings.TrimSpace(in.Link),
		Notes:   strings.TrimSpace(in.Notes),
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return app, nil
}

// Update applies a partial update to an application the caller owns.
// The ownership check happens after loading and before any mutation.
func (s *Service) Update(ctx context.Context, owner uuid.UUID, id string, fields UpdateFields) (*Application, error) {
	app, err := s.loadOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if fields.Company != nil {
		company := strings.TrimSpace(*fields.Company)
		if company == "" {
			return nil, ErrCompanyRequired
		}
		app.Company = company
	}
	if fields.Role != nil {
		role := strings.TrimSpace(*fields.Role)
		if role == "" {
			return nil, ErrRoleRequired
		}
		app.Role = role
	}
	if fields.Status != nil {
		if _, err := ParseStatus(string(*fields.Status)); err != nil {
			return nil, ErrInvalidStatus
		}
		app.Status = *fields.Status
	}
	if fields.Link != nil {
		app.Link = strings.TrimSpace(*fields.Link)
	}
	if fields.Notes != nil {
		app.Notes = strings.TrimSpace(*fields.Notes)
	}

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	return app, nil
}

// Delete permanently removes an application the caller owns.
// Deleting an already deleted id reports ErrNotFound, not success.
func (s *Service) Delete(ctx context.Context, owner uuid.UUID, id string) error {
	if _, err := s.loadOwned(ctx, owner, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}

// loadOwned fetches a record and verifies the caller owns it
func (s *Service) loadOwned(ctx context.Context, owner uuid.UUID, id string) (*Application, error) {
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if app.UserID != owner.String() {
		return nil, ErrForbidden
	}

	return app, nil
}
