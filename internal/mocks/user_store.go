package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Data for the default in-memory implementation, keyed by email
	mu    sync.Mutex
	Users map[string]*domain.User

	// Errors returned by the default implementation when set
	CreateError error
	GetError    error
}

// Ensure MockUserStore implements store.UserStore
var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// Create implements the UserStore interface.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}

	stored := *user
	m.Users[user.Email] = &stored
	return nil
}

// GetByEmail implements the UserStore interface.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.Users[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

// GetByID implements the UserStore interface.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}

	return nil, store.ErrUserNotFound
}
