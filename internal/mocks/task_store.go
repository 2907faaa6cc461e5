package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. The default
// implementation is a real in-memory store with the same ownership
// scoping as the SQL one: a task is only reachable through its owner.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn func(ctx context.Context, task *domain.Task) error
	GetFn    func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	ListFn   func(ctx context.Context, ownerID uuid.UUID, status *domain.TaskStatus, offset, limit int) ([]*domain.Task, error)
	UpdateFn func(ctx context.Context, task *domain.Task) error
	DeleteFn func(ctx context.Context, ownerID, taskID uuid.UUID) error

	mu    sync.Mutex
	Tasks map[uuid.UUID]*domain.Task
	order []uuid.UUID

	// Errors returned by the default implementation when set
	CreateError error
	GetError    error
	ListError   error
	UpdateError error
	DeleteError error
}

// Ensure MockTaskStore implements store.TaskStore
var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store with initialized defaults.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *task
	m.Tasks[task.ID] = &stored
	m.order = append(m.order, task.ID)
	return nil
}

// GetByOwnerAndID implements the TaskStore interface.
func (m *MockTaskStore) GetByOwnerAndID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, ownerID, taskID)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.Tasks[taskID]
	if !exists || task.UserID != ownerID {
		// Same error whether the task is missing or owned by someone else.
		return nil, store.ErrTaskNotFound
	}

	copied := *task
	return &copied, nil
}

// ListByOwner implements the TaskStore interface.
func (m *MockTaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, status *domain.TaskStatus, offset, limit int) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, status, offset, limit)
	}

	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Creation order, same as the SQL store.
	tasks := make([]*domain.Task, 0)
	for _, id := range m.order {
		task, exists := m.Tasks[id]
		if !exists || task.UserID != ownerID {
			continue
		}
		if status != nil && task.Status != *status {
			continue
		}
		copied := *task
		tasks = append(tasks, &copied)
	}

	if offset > 0 {
		if offset >= len(tasks) {
			return []*domain.Task{}, nil
		}
		tasks = tasks[offset:]
	}
	if limit > 0 && limit < len(tasks) {
		tasks = tasks[:limit]
	}

	return tasks, nil
}

// Update implements the TaskStore interface.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	if m.UpdateError != nil {
		return m.UpdateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.Tasks[task.ID]
	if !exists || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}

	stored := *task
	m.Tasks[task.ID] = &stored
	return nil
}

// Delete implements the TaskStore interface.
func (m *MockTaskStore) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, taskID)
	}

	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.Tasks[taskID]
	if !exists || task.UserID != ownerID {
		return store.ErrTaskNotFound
	}

	delete(m.Tasks, taskID)
	return nil
}
