package application

import (
	"fmt"
	"time"
)

// Status is the stage a job application is in
type Status string

const (
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusOffer        Status = "offer"
)

// ParseStatus validates a status string
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusApplied, StatusInterviewing, StatusOffer:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// Sort orders for listing
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// Application is a job-application record. IDs are opaque strings: uuids for
// persisted records, "guest-" prefixed for records created by the client-side
// guest shadow, so the two can never be confused.
type Application struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Company   string    `json:"company"`
	Role      string    `json:"role"`
	Status    Status    `json:"status"`
	Link      string    `json:"link,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateInput carries the caller-supplied fields for a new application
type CreateInput struct {
	Company string
	Role    string
	Status  Status
	Link    string
	Notes   string
}

// UpdateFields carries a partial update. A nil field means "unchanged",
// which is distinct from a pointer to an empty string. Owner and id are
// never part of an update.
type UpdateFields struct {
	Company *string
	Role    *string
	Status  *Status
	Link    *string
	Notes   *string
}

// ListFilter narrows and orders a listing
type ListFilter struct {
	Status Status // empty = all statuses
	Sort   string // SortNewest (default) or SortOldest
}
