package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository. It backs service and handler
// tests and the client-side guest shadow, which mirrors the server CRUD
// contract without a network round-trip. Nothing survives process exit.
type MemoryRepository struct {
	mu    sync.RWMutex
	apps  map[string]Application
	newID func() string
}

// NewMemoryRepository creates an empty in-memory repository. A nil id
// generator defaults to plain uuids; the guest shadow passes one that
// prefixes ids so they are distinguishable from server-assigned ones.
func NewMemoryRepository(newID func() string) *MemoryRepository {
	if newID == nil {
		newID = uuid.NewString
	}
	return &MemoryRepository{
		apps:  make(map[string]Application),
		newID: newID,
	}
}

func (r *MemoryRepository) List(_ context.Context, ownerID string, filter ListFilter) ([]Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	apps := make([]Application, 0)
	for _, app := range r.apps {
		if app.UserID != ownerID {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		apps = append(apps, app)
	}

	sort.Slice(apps, func(i, j int) bool {
		if filter.Sort == SortOldest {
			return apps[i].CreatedAt.Before(apps[j].CreatedAt)
		}
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})

	return apps, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.apps[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &app, nil
}

func (r *MemoryRepository) Create(_ context.Context, app *Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if app.ID == "" {
		app.ID = r.newID()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now()
	}
	r.apps[app.ID] = *app
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, app *Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.apps[app.ID]; !ok {
		return ErrNotFound
	}
	r.apps[app.ID] = *app
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.apps[id]; !ok {
		return ErrNotFound
	}
	delete(r.apps, id)
	return nil
}
