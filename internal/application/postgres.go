package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/job-tracker/internal/database"
)

// PostgresRepository stores applications in Postgres via Bun
type PostgresRepository struct {
	db *bun.DB
}

func NewPostgresRepository(db *bun.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns the owner's applications, optionally filtered to one status,
// ordered by creation time
func (r *PostgresRepository) List(ctx context.Context, ownerID string, filter ListFilter) ([]Application, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id: %w", err)
	}

	var dbApps []database.Application
	q := r.db.NewSelect().
		Model(&dbApps).
		Where("user_id = ?", ownerUUID)

	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}

	if filter.Sort == SortOldest {
		q = q.Order("created_at ASC")
	} else {
		q = q.Order("created_at DESC")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	apps := make([]Application, 0, len(dbApps))
	for i := range dbApps {
		apps = append(apps, *mapDBApplicationToModel(&dbApps[i]))
	}
	return apps, nil
}

// Get returns a single application by id
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Application, error) {
	appUUID, err := uuid.Parse(id)
	if err != nil {
		// Not a server-assigned id, so it cannot exist here
		return nil, ErrNotFound
	}

	dbApp := new(database.Application)
	err = r.db.NewSelect().
		Model(dbApp).
		Where("id = ?", appUUID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	return mapDBApplicationToModel(dbApp), nil
}

// Create inserts a new application and fills in the server-assigned id and timestamps
func (r *PostgresRepository) Create(ctx context.Context, app *Application) error {
	ownerUUID, err := uuid.Parse(app.UserID)
	if err != nil {
		return fmt.Errorf("invalid owner id: %w", err)
	}

	dbApp := &database.Application{
		UserID:  ownerUUID,
		Company: app.Company,
		Role:    app.Role,
		Status:  string(app.Status),
		Link:    nullable(app.Link),
		Notes:   nullable(app.Notes),
	}

	_, err = r.db.NewInsert().
		Model(dbApp).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	*app = *mapDBApplicationToModel(dbApp)
	return nil
}

// Update overwrites the mutable columns of an existing application
func (r *PostgresRepository) Update(ctx context.Context, app *Application) error {
	appUUID, err := uuid.Parse(app.ID)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.db.NewUpdate().
		Model((*database.Application)(nil)).
		Set("company = ?", app.Company).
		Set("role = ?", app.Role).
		Set("status = ?", string(app.Status)).
		Set("link = ?", nullable(app.Link)).
		Set("notes = ?", nullable(app.Notes)).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", appUUID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes an application permanently
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	appUUID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.db.NewDelete().
		Model((*database.Application)(nil)).
		Where("id = ?", appUUID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBApplicationToModel converts database model to domain model
func mapDBApplicationToModel(dba *database.Application) *Application {
	return &Application{
		ID:        dba.ID.String(),
		UserID:    dba.UserID.String(),
		Company:   dba.Company,
		Role:      dba.Role,
		Status:    Status(dba.Status),
		Link:      deref(dba.Link),
		Notes:     deref(dba.Notes),
		CreatedAt: dba.CreatedAt,
	}
}

// nullable maps empty strings to NULL columns
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
