package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/service/guard"
)

// TaskHandler handles task-related HTTP requests. All routes are nested
// under /{userID}/tasks; the handler authorizes the verified subject
// against the path owner before any task operation runs, so a request
// naming a foreign owner fails with 403 without revealing whether the
// named task exists.
type TaskHandler struct {
	taskService *service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService *service.TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// authorizeOwner extracts the verified subject and the {userID} path
// parameter and checks that they match. On failure it writes the error
// response and returns false.
func (h *TaskHandler) authorizeOwner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	subject, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}

	owner, err := getPathUUID(r, "userID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}

	if err := guard.Authorize(subject, owner); err != nil {
		log.Warn("owner scope rejected",
			slog.String("subject_id", subject.String()),
			slog.String("owner_id", owner.String()))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}

	return owner, true
}

// taskID extracts and validates the {taskID} path parameter, writing a
// 400 response on failure.
func (h *TaskHandler) taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := getPathUUID(r, "taskID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return id, true
}

// CreateTask handles POST /{userID}/tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.authorizeOwner(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.Create(r.Context(), owner, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /{userID}/tasks requests.
// The optional ?status= query restricts the listing; an unrecognized
// value is a 400, never a silently empty result.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.authorizeOwner(w, r)
	if !ok {
		return
	}

	tasks, err := h.taskService.List(r.Context(), owner, r.URL.Query().Get("status"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /{userID}/tasks/{taskID} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.authorizeOwner(w, r)
	if !ok {
		return
	}

	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), owner, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /{userID}/tasks/{taskID} requests.
// Only fields present in the body change.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.authorizeOwner(w, r)
	if !ok {
		return
	}

	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.Update(r.Context(), owner, taskID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// CompleteTask handles PATCH /{userID}/tasks/{taskID}/complete requests.
// The body states the intended final completion state explicitly, which
// makes retries idempotent.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.authorizeOwner(w, r)
	if !ok {
		return
	}

	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req CompleteTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.SetCompletion(r.Context(), owner, taskID, *req.Completed)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /{userID}/tasks/{taskID} requests.
// A successful delete returns 204 with no body.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.authorizeOwner(w, r)
	if !ok {
		return
	}

	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), owner, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
