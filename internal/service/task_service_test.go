package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/mocks"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/store"
)

func strPtr(s string) *string {
	return &s
}

func mustCreate(t *testing.T, svc *service.TaskService, ownerID uuid.UUID, title string) *domain.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), ownerID, service.CreateTaskInput{Title: title})
	require.NoError(t, err)
	require.NotNil(t, task)
	return task
}

func TestTaskServiceCreate(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	tests := []struct {
		name        string
		input       service.CreateTaskInput
		expectedErr error
	}{
		{
			name:  "valid task",
			input: service.CreateTaskInput{Title: "Buy milk", Description: "2% or whole"},
		},
		{
			name:  "title at maximum length",
			input: service.CreateTaskInput{Title: strings.Repeat("a", domain.MaxTitleLength)},
		},
		{
			name:        "empty title",
			input:       service.CreateTaskInput{Title: ""},
			expectedErr: domain.ErrTitleEmpty,
		},
		{
			name:        "whitespace-only title",
			input:       service.CreateTaskInput{Title: "   "},
			expectedErr: domain.ErrTitleEmpty,
		},
		{
			name:        "title over maximum length",
			input:       service.CreateTaskInput{Title: strings.Repeat("a", domain.MaxTitleLength+1)},
			expectedErr: domain.ErrTitleTooLong,
		},
		{
			name: "description over maximum length",
			input: service.CreateTaskInput{
				Title:       "ok",
				Description: strings.Repeat("d", domain.MaxDescriptionLength+1),
			},
			expectedErr: domain.ErrDescriptionTooLong,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			taskStore := mocks.NewMockTaskStore()
			svc := service.NewTaskService(taskStore, nil)

			task, err := svc.Create(context.Background(), ownerID, tc.input)

			if tc.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, task)
				assert.Empty(t, taskStore.Tasks, "nothing should be persisted on validation failure")
				return
			}

			require.NoError(t, err)
			require.NotNil(t, task)
			assert.Equal(t, ownerID, task.UserID)
			assert.Equal(t, domain.TaskStatusPending, task.Status)
			assert.Equal(t, task.CreatedAt, task.UpdatedAt)
			assert.Contains(t, taskStore.Tasks, task.ID)
		})
	}
}

func TestTaskServiceCreateStoreError(t *testing.T) {
	t.Parallel()

	taskStore := mocks.NewMockTaskStore()
	taskStore.CreateError = errors.New("connection refused")
	svc := service.NewTaskService(taskStore, nil)

	task, err := svc.Create(context.Background(), uuid.New(), service.CreateTaskInput{Title: "Buy milk"})

	require.Error(t, err)
	assert.Nil(t, task)
	assert.Contains(t, err.Error(), "failed to create task")
}

func TestTaskServiceList(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	otherID := uuid.New()

	taskStore := mocks.NewMockTaskStore()
	svc := service.NewTaskService(taskStore, nil)

	first := mustCreate(t, svc, ownerID, "first")
	second := mustCreate(t, svc, ownerID, "second")
	third := mustCreate(t, svc, ownerID, "third")
	mustCreate(t, svc, otherID, "not mine")

	_, err := svc.SetCompletion(context.Background(), ownerID, second.ID, true)
	require.NoError(t, err)

	t.Run("no filter returns all in creation order", func(t *testing.T) {
		tasks, err := svc.List(context.Background(), ownerID, "")
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, first.ID, tasks[0].ID)
		assert.Equal(t, second.ID, tasks[1].ID)
		assert.Equal(t, third.ID, tasks[2].ID)
	})

	t.Run("all filter matches no filter", func(t *testing.T) {
		tasks, err := svc.List(context.Background(), ownerID, domain.StatusFilterAll)
		require.NoError(t, err)
		assert.Len(t, tasks, 3)
	})

	t.Run("completed filter", func(t *testing.T) {
		tasks, err := svc.List(context.Background(), ownerID, "completed")
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, second.ID, tasks[0].ID)
	})

	t.Run("pending filter", func(t *testing.T) {
		tasks, err := svc.List(context.Background(), ownerID, "pending")
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("filter matching nothing returns empty slice", func(t *testing.T) {
		tasks, err := svc.List(context.Background(), ownerID, "in-progress")
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("unknown filter is an error not an empty result", func(t *testing.T) {
		tasks, err := svc.List(context.Background(), ownerID, "done")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidStatusFilter)
		assert.Nil(t, tasks)
	})

	t.Run("other owner sees only their own tasks", func(t *testing.T) {
		tasks, err := svc.List(context.Background(), otherID, "")
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "not mine", tasks[0].Title)
	})
}

func TestTaskServiceGet(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	otherID := uuid.New()

	taskStore := mocks.NewMockTaskStore()
	svc := service.NewTaskService(taskStore, nil)
	task := mustCreate(t, svc, ownerID, "Buy milk")

	t.Run("owner retrieves own task", func(t *testing.T) {
		got, err := svc.Get(context.Background(), ownerID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
		assert.Equal(t, task.Title, got.Title)
	})

	t.Run("unknown task ID", func(t *testing.T) {
		got, err := svc.Get(context.Background(), ownerID, uuid.New())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.Nil(t, got)
	})

	t.Run("task owned by someone else reads as not found", func(t *testing.T) {
		got, err := svc.Get(context.Background(), otherID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.Nil(t, got)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("updates only provided fields", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		taskStore := mocks.NewMockTaskStore()
		svc := service.NewTaskService(taskStore, nil)
		task, err := svc.Create(context.Background(), ownerID, service.CreateTaskInput{
			Title:       "Buy milk",
			Description: "2% or whole",
		})
		require.NoError(t, err)

		updated, err := svc.Update(context.Background(), ownerID, task.ID, service.UpdateTaskInput{
			Title: strPtr("Buy oat milk"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Buy oat milk", updated.Title)
		assert.Equal(t, "2% or whole", updated.Description, "omitted field must be untouched")
		assert.True(t, updated.UpdatedAt.After(task.CreatedAt) || updated.UpdatedAt.Equal(task.CreatedAt))
	})

	t.Run("explicit empty description clears it", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		taskStore := mocks.NewMockTaskStore()
		svc := service.NewTaskService(taskStore, nil)
		task, err := svc.Create(context.Background(), ownerID, service.CreateTaskInput{
			Title:       "Buy milk",
			Description: "2% or whole",
		})
		require.NoError(t, err)

		updated, err := svc.Update(context.Background(), ownerID, task.ID, service.UpdateTaskInput{
			Description: strPtr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", updated.Title)
		assert.Empty(t, updated.Description)
	})

	t.Run("invalid title leaves stored task unchanged", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		taskStore := mocks.NewMockTaskStore()
		svc := service.NewTaskService(taskStore, nil)
		task := mustCreate(t, svc, ownerID, "Buy milk")

		updated, err := svc.Update(context.Background(), ownerID, task.ID, service.UpdateTaskInput{
			Title: strPtr(""),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrTitleEmpty)
		assert.Nil(t, updated)

		stored, err := svc.Get(context.Background(), ownerID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", stored.Title)
	})

	t.Run("update of foreign task reads as not found", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		taskStore := mocks.NewMockTaskStore()
		svc := service.NewTaskService(taskStore, nil)
		task := mustCreate(t, svc, ownerID, "Buy milk")

		updated, err := svc.Update(context.Background(), uuid.New(), task.ID, service.UpdateTaskInput{
			Title: strPtr("hijacked"),
		})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.Nil(t, updated)
	})
}

func TestTaskServiceSetCompletion(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	taskStore := mocks.NewMockTaskStore()
	svc := service.NewTaskService(taskStore, nil)
	task := mustCreate(t, svc, ownerID, "Buy milk")

	completed, err := svc.SetCompletion(context.Background(), ownerID, task.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, completed.Status)

	// Setting the same state again succeeds and still advances UpdatedAt.
	again, err := svc.SetCompletion(context.Background(), ownerID, task.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, again.Status)
	assert.False(t, again.UpdatedAt.Before(completed.UpdatedAt))

	reopened, err := svc.SetCompletion(context.Background(), ownerID, task.ID, false)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, reopened.Status)
}

func TestTaskServiceSetStatus(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	taskStore := mocks.NewMockTaskStore()
	svc := service.NewTaskService(taskStore, nil)
	task := mustCreate(t, svc, ownerID, "Buy milk")

	started, err := svc.SetStatus(context.Background(), ownerID, task.ID, domain.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, started.Status)

	_, err = svc.SetStatus(context.Background(), ownerID, task.ID, domain.TaskStatus("done"))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestTaskServiceToggleCompletion(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	taskStore := mocks.NewMockTaskStore()
	svc := service.NewTaskService(taskStore, nil)
	task := mustCreate(t, svc, ownerID, "Buy milk")

	toggled, err := svc.ToggleCompletion(context.Background(), ownerID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, toggled.Status)

	// Two toggles restore the original state.
	back, err := svc.ToggleCompletion(context.Background(), ownerID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, back.Status)

	_, err = svc.ToggleCompletion(context.Background(), ownerID, uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskServiceDelete(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	otherID := uuid.New()

	taskStore := mocks.NewMockTaskStore()
	svc := service.NewTaskService(taskStore, nil)
	task := mustCreate(t, svc, ownerID, "Buy milk")

	t.Run("delete by non-owner reads as not found", func(t *testing.T) {
		err := svc.Delete(context.Background(), otherID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		_, err = svc.Get(context.Background(), ownerID, task.ID)
		assert.NoError(t, err, "task must survive a foreign delete attempt")
	})

	t.Run("owner deletes own task", func(t *testing.T) {
		err := svc.Delete(context.Background(), ownerID, task.ID)
		require.NoError(t, err)

		_, err = svc.Get(context.Background(), ownerID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("deleting twice reports not found", func(t *testing.T) {
		err := svc.Delete(context.Background(), ownerID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestNewTaskServicePanicsOnNilStore(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		service.NewTaskService(nil, nil)
	})
}
