package client

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/job-tracker/internal/application"
)

// GuestIDPrefix marks locally generated ids so they can never be confused
// with server-assigned uuids.
const GuestIDPrefix = "guest-"

// guestOwner is the pseudo-identity all guest records belong to. It only
// exists inside this process; nothing in guest mode ever reaches the server.
var guestOwner = uuid.Nil

// Guest is the guest-mode shadow store. It mirrors the server CRUD contract
// by running the same application.Service over the in-memory repository, so
// validation, filtering, sorting and error behavior match the API exactly.
// It starts with a fixed demo set, identical for everyone, and nothing is
// persisted: closing the process discards all guest data. Records created
// here are never migrated into an account on login.
type Guest struct {
	svc *application.Service
}

func NewGuest() *Guest {
	repo := application.NewMemoryRepository(func() string {
		return GuestIDPrefix + uuid.NewString()
	})
	seedDemoData(repo)

	return &Guest{svc: application.NewService(repo)}
}

func (g *Guest) List(ctx context.Context, filter application.ListFilter) ([]application.Application, error) {
	owner := guestOwner
	return g.svc.List(ctx, &owner, filter)
}

func (g *Guest) Create(ctx context.Context, in application.CreateInput) (*application.Application, error) {
	return g.svc.Create(ctx, guestOwner, in)
}

func (g *Guest) Update(ctx context.Context, id string, fields application.UpdateFields) (*application.Application, error) {
	return g.svc.Update(ctx, guestOwner, id, fields)
}

func (g *Guest) Delete(ctx context.Context, id string) error {
	return g.svc.Delete(ctx, guestOwner, id)
}

// seedDemoData loads the fixed demo set shown to every guest
func seedDemoData(repo *application.MemoryRepository) {
	now := time.Now()
	demo := []application.Application{
		{
			Company:   "Initech",
			Role:      "Backend Engineer",
			Status:    application.StatusApplied,
			Notes:     "Referred by a former colleague",
			CreatedAt: now.Add(-72 * time.Hour),
		},
		{
			Company:   "Globex",
			Role:      "Platform Engineer",
			Status:    application.StatusInterviewing,
			Link:      "https://globex.example.com/careers/platform",
			CreatedAt: now.Add(-48 * time.Hour),
		},
		{
			Company:   "Hooli",
			Role:      "Site Reliability Engineer",
			Status:    application.StatusOffer,
			CreatedAt: now.Add(-24 * time.Hour),
		},
	}

	for i := range demo {
		demo[i].UserID = guestOwner.String()
		// Create cannot fail on the in-memory repository
		_ = repo.Create(context.Background(), &demo[i])
	}
}
