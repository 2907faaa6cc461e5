package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/store"
)

// CreateTaskInput carries the fields for creating a task. The owner comes
// from the caller's verified identity, never from the input.
type CreateTaskInput struct {
	Title       string
	Description string
}

// UpdateTaskInput carries a partial update. Nil fields are left untouched;
// providing a field always replaces it, including with the empty string
// for the description. Status is not updatable here.
type UpdateTaskInput struct {
	Title       *string
	Description *string
}

// TaskService owns the task lifecycle: creation, retrieval, filtered
// listing, partial update, status transitions, and deletion. Every
// operation is scoped by the owner's verified identity.
type TaskService struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService with the given dependencies.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) *TaskService {
	if taskStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskStore cannot be nil for TaskService")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskService{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_service")),
	}
}

// Create validates the input and persists a new pending task owned by
// ownerID. Returns domain validation errors for a bad title or
// description.
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, input.Title, input.Description)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", ownerID.String()))
	return task, nil
}

// List returns the owner's tasks in creation order. The filter must be
// empty, "all", or a recognized status; anything else is a validation
// error, never a silent empty result.
func (s *TaskService) List(ctx context.Context, ownerID uuid.UUID, filter string) ([]*domain.Task, error) {
	status, apply, err := domain.ParseStatusFilter(filter)
	if err != nil {
		return nil, err
	}

	var statusPtr *domain.TaskStatus
	if apply {
		statusPtr = &status
	}

	tasks, err := s.taskStore.ListByOwner(ctx, ownerID, statusPtr, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Get retrieves a single task owned by ownerID. A task ID that exists
// under a different owner reports store.ErrTaskNotFound, the same as a
// task that does not exist at all.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return s.taskStore.GetByOwnerAndID(ctx, ownerID, taskID)
}

// Update applies a partial update to the task: only fields present in the
// input change, and UpdatedAt advances on every successful call.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, input UpdateTaskInput) (*domain.Task, error) {
	task, err := s.taskStore.GetByOwnerAndID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if err := task.ApplyUpdate(input.Title, input.Description); err != nil {
		return nil, err
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// SetStatus transitions the task to the given status. This is the general
// status primitive; the completion endpoints are built on top of it.
func (s *TaskService) SetStatus(ctx context.Context, ownerID, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error) {
	task, err := s.taskStore.GetByOwnerAndID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if err := task.SetStatus(status); err != nil {
		return nil, err
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return task, nil
}

// SetCompletion is the idempotent explicit-set completion contract:
// true sets completed, false sets pending. Repeating a call leaves the
// status unchanged but still bumps UpdatedAt, so retries are safe.
func (s *TaskService) SetCompletion(ctx context.Context, ownerID, taskID uuid.UUID, completed bool) (*domain.Task, error) {
	status := domain.TaskStatusPending
	if completed {
		status = domain.TaskStatusCompleted
	}
	return s.SetStatus(ctx, ownerID, taskID, status)
}

// ToggleCompletion is a convenience built on Get plus explicit-set:
// a completed task returns to pending, anything else becomes completed.
// Two calls restore the original state.
func (s *TaskService) ToggleCompletion(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByOwnerAndID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	return s.SetCompletion(ctx, ownerID, taskID, task.Status != domain.TaskStatusCompleted)
}

// Delete removes the task permanently. Returns store.ErrTaskNotFound per
// Get semantics; returns nil on success.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.taskStore.Delete(ctx, ownerID, taskID); err != nil {
		return err
	}

	log.Debug("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("owner_id", ownerID.String()))
	return nil
}
