package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest-api/internal/domain"
)

// TaskStore defines the interface for task persistence. Every read and
// write is scoped by the owning user's ID; there is no way to reach a task
// through any other identity.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByOwnerAndID retrieves the task with the given ID owned by ownerID.
	// Returns ErrTaskNotFound if no such task exists under that owner,
	// including when the ID belongs to a different owner's task.
	GetByOwnerAndID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// ListByOwner returns the owner's tasks ordered by creation time
	// ascending. A non-nil status restricts the result to that status.
	// Offset/limit apply after filtering; a limit of 0 means no limit.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, status *domain.TaskStatus, offset, limit int) ([]*domain.Task, error)

	// Update persists the task's mutable fields (title, description,
	// status, updated_at) for the task matching both ID and owner.
	// Returns ErrTaskNotFound per GetByOwnerAndID semantics.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task with the given ID owned by ownerID.
	// Hard delete, no tombstone. Returns ErrTaskNotFound per
	// GetByOwnerAndID semantics.
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}
