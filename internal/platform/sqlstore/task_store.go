package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/store"
)

// TaskStore implements the store.TaskStore interface on a SQL database.
// Every statement filters on the owner's ID, so a task never leaks across
// identities regardless of what ID the caller supplies.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a new SQL implementation of the TaskStore
// interface. It accepts a database connection or transaction that should
// be initialized and managed by the caller. If logger is nil, a default
// logger will be used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("owner_id", task.UserID.String()))
			return fmt.Errorf("%w: owner %s not found",
				store.ErrInvalidEntity, task.UserID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.UserID.String()))
	return nil
}

// GetByOwnerAndID implements store.TaskStore.GetByOwnerAndID
// Returns store.ErrTaskNotFound whether the ID is unknown or belongs to a
// different owner; the two cases are indistinguishable to the caller.
func (s *TaskStore) GetByOwnerAndID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, user_id, title, description, status, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND id = $2
	`

	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, ownerID, taskID).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}

	return &task, nil
}

// ListByOwner implements store.TaskStore.ListByOwner
// Results are ordered by creation time ascending with the ID as a
// tiebreaker, so the listing is stable across calls.
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, status *domain.TaskStatus, offset, limit int) ([]*domain.Task, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, user_id, title, description, status, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
	`)

	args := []any{ownerID}
	if status != nil {
		args = append(args, *status)
		sb.WriteString(" AND status = $" + strconv.Itoa(len(args)))
	}

	sb.WriteString(" ORDER BY created_at ASC, id ASC")

	// sqlite rejects OFFSET without LIMIT, so an offset-only request gets
	// an effectively unbounded limit.
	if offset > 0 && limit <= 0 {
		limit = math.MaxInt32
	}

	if limit > 0 {
		args = append(args, limit)
		sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	if offset > 0 {
		args = append(args, offset)
		sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update
// It persists the mutable fields for the task matching both ID and owner.
// Returns store.ErrTaskNotFound when no row matches.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, updated_at = $4
		WHERE user_id = $5 AND id = $6
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Status,
		task.UpdatedAt,
		task.UserID,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	log.Debug("task updated",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete
// Hard delete scoped by owner. Returns store.ErrTaskNotFound when no row
// matches.
func (s *TaskStore) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE user_id = $1 AND id = $2`
	result, err := s.db.ExecContext(ctx, query, ownerID, taskID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	log.Debug("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("owner_id", ownerID.String()))
	return nil
}
