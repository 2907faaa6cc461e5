package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Task validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskOwnerEmpty is returned when a task's owner ID is empty or nil.
	ErrTaskOwnerEmpty = errors.New("task owner ID cannot be empty")

	// ErrTitleEmpty is returned when a task title is empty or whitespace-only.
	ErrTitleEmpty = errors.New("task title cannot be empty")

	// ErrTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("task title cannot exceed 200 characters")

	// ErrDescriptionTooLong is returned when a description exceeds MaxDescriptionLength.
	ErrDescriptionTooLong = errors.New("task description cannot exceed 1000 characters")
)

// Field length limits for tasks.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

// Recognized task statuses. A task starts pending; completed is not
// terminal and can transition back to pending.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// StatusFilterAll is the sentinel list filter matching every status.
const StatusFilterAll = "all"

// IsValid reports whether s is one of the recognized task statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task represents a single unit of work owned by exactly one user.
// The owner ID is immutable once set; no operation may read or mutate a
// task through any identity other than its owner.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user, with status pending
// and CreatedAt equal to UpdatedAt. Returns an error if validation fails.
func NewTask(userID uuid.UUID, title, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      TaskStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTaskOwnerEmpty
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrTitleEmpty
	}

	// Limits are in characters, not bytes, so multibyte titles are not
	// penalized.
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}

	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}

	return nil
}

// SetStatus transitions the task to the given status and bumps UpdatedAt.
// Setting the current status again is a no-op on the status field but
// still advances UpdatedAt, so explicit-set stays retry-safe.
func (t *Task) SetStatus(status TaskStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}

	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// SetCompletion maps the explicit completion flag onto the status field:
// true sets completed, false sets pending.
func (t *Task) SetCompletion(completed bool) {
	if completed {
		t.Status = TaskStatusCompleted
	} else {
		t.Status = TaskStatusPending
	}
	t.UpdatedAt = time.Now().UTC()
}

// ApplyUpdate changes only the fields that are non-nil and always bumps
// UpdatedAt. Status is never touched here; it moves only through
// SetStatus/SetCompletion.
func (t *Task) ApplyUpdate(title, description *string) error {
	orig := *t

	if title != nil {
		t.Title = *title
	}
	if description != nil {
		t.Description = *description
	}

	if err := t.Validate(); err != nil {
		*t = orig
		return err
	}

	t.UpdatedAt = time.Now().UTC()
	return nil
}

// ParseStatusFilter validates a list filter string. The empty string and
// StatusFilterAll both mean "no filtering"; anything else must name a
// recognized status.
func ParseStatusFilter(filter string) (TaskStatus, bool, error) {
	if filter == "" || filter == StatusFilterAll {
		return "", false, nil
	}

	status := TaskStatus(filter)
	if !status.IsValid() {
		return "", false, NewValidationError("status", "must be one of: all, pending, in-progress, completed", ErrInvalidStatusFilter)
	}

	return status, true, nil
}
