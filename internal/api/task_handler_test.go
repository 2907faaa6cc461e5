package api_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest-api/internal/api"
)

func boolPtr(b bool) *bool {
	return &b
}

// registerSubject creates a user through the API and returns its ID and
// bearer token.
func registerSubject(t *testing.T, env *testEnv, email string) (uuid.UUID, string) {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/auth/register", "", api.RegisterRequest{
		Email:    email,
		Password: "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	id, err := uuid.Parse(body["user_id"].(string))
	require.NoError(t, err)
	return id, body["token"].(string)
}

func createTaskViaAPI(t *testing.T, env *testEnv, ownerID uuid.UUID, token, title string) api.TaskResponse {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/"+ownerID.String()+"/tasks", token, api.CreateTaskRequest{
		Title: title,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var task api.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	return task
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	t.Run("creates pending task for owner", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		ownerID, token := registerSubject(t, env, "alice@example.com")

		rec := env.do(t, http.MethodPost, "/"+ownerID.String()+"/tasks", token, api.CreateTaskRequest{
			Title:       "Buy milk",
			Description: "2% or whole",
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		var task api.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
		assert.Equal(t, ownerID, task.UserID)
		assert.Equal(t, "Buy milk", task.Title)
		assert.Equal(t, "pending", task.Status)
	})

	t.Run("missing token returns 401 before any handler", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		ownerID, _ := registerSubject(t, env, "alice@example.com")

		rec := env.do(t, http.MethodPost, "/"+ownerID.String()+"/tasks", "", api.CreateTaskRequest{
			Title: "Buy milk",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, env.taskStore.Tasks)
	})

	t.Run("creating under a foreign owner path returns 403", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		_, token := registerSubject(t, env, "alice@example.com")
		otherID, _ := registerSubject(t, env, "bob@example.com")

		rec := env.do(t, http.MethodPost, "/"+otherID.String()+"/tasks", token, api.CreateTaskRequest{
			Title: "Buy milk",
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, env.taskStore.Tasks)
	})

	t.Run("empty title returns 400", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		ownerID, token := registerSubject(t, env, "alice@example.com")

		rec := env.do(t, http.MethodPost, "/"+ownerID.String()+"/tasks", token, api.CreateTaskRequest{
			Title: "   ",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("title over limit returns 400", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		ownerID, token := registerSubject(t, env, "alice@example.com")

		rec := env.do(t, http.MethodPost, "/"+ownerID.String()+"/tasks", token, api.CreateTaskRequest{
			Title: strings.Repeat("a", 201),
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("multibyte title at the character limit is accepted", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		ownerID, token := registerSubject(t, env, "alice@example.com")

		// 200 characters but 400 bytes; limits count characters.
		title := strings.Repeat("é", 200)
		rec := env.do(t, http.MethodPost, "/"+ownerID.String()+"/tasks", token, api.CreateTaskRequest{
			Title: title,
		})

		require.Equal(t, http.StatusCreated, rec.Code)

		var got api.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, title, got.Title)
	})

	t.Run("malformed owner ID in path returns 400", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		_, token := registerSubject(t, env, "alice@example.com")

		rec := env.do(t, http.MethodPost, "/not-a-uuid/tasks", token, api.CreateTaskRequest{
			Title: "Buy milk",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ownerID, token := registerSubject(t, env, "alice@example.com")
	otherID, otherToken := registerSubject(t, env, "bob@example.com")

	createTaskViaAPI(t, env, ownerID, token, "first")
	second := createTaskViaAPI(t, env, ownerID, token, "second")
	createTaskViaAPI(t, env, otherID, otherToken, "not mine")

	completeRec := env.do(t, http.MethodPatch,
		"/"+ownerID.String()+"/tasks/"+second.ID.String()+"/complete",
		token, api.CompleteTaskRequest{Completed: boolPtr(true)})
	require.Equal(t, http.StatusOK, completeRec.Code)

	t.Run("lists own tasks in creation order", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/"+ownerID.String()+"/tasks", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var tasks []api.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
		require.Len(t, tasks, 2)
		assert.Equal(t, "first", tasks[0].Title)
		assert.Equal(t, "second", tasks[1].Title)
	})

	t.Run("status filter restricts the listing", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/"+ownerID.String()+"/tasks?status=completed", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var tasks []api.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
		require.Len(t, tasks, 1)
		assert.Equal(t, "second", tasks[0].Title)
	})

	t.Run("all filter returns everything", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/"+ownerID.String()+"/tasks?status=all", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var tasks []api.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
		assert.Len(t, tasks, 2)
	})

	t.Run("unknown filter returns 400", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/"+ownerID.String()+"/tasks?status=done", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("listing a foreign owner's tasks returns 403", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/"+otherID.String()+"/tasks", token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestGetTask(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ownerID, token := registerSubject(t, env, "alice@example.com")
	otherID, otherToken := registerSubject(t, env, "bob@example.com")

	task := createTaskViaAPI(t, env, ownerID, token, "Buy milk")
	foreign := createTaskViaAPI(t, env, otherID, otherToken, "not mine")

	t.Run("owner gets own task", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/"+ownerID.String()+"/tasks/"+task.ID.String(), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got api.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, task.ID, got.ID)
	})

	t.Run("unknown task ID returns 404", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/"+ownerID.String()+"/tasks/"+uuid.NewString(), token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("foreign task ID under own scope returns 404 not 403", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/"+ownerID.String()+"/tasks/"+foreign.ID.String(), token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed task ID returns 400", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/"+ownerID.String()+"/tasks/42", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ownerID, token := registerSubject(t, env, "alice@example.com")

	rec := env.do(t, http.MethodPost, "/"+ownerID.String()+"/tasks", token, api.CreateTaskRequest{
		Title:       "Buy milk",
		Description: "2% or whole",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var task api.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))

	t.Run("partial update changes only provided fields", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/"+ownerID.String()+"/tasks/"+task.ID.String(), token,
			map[string]string{"title": "Buy oat milk"})
		require.Equal(t, http.StatusOK, rec.Code)

		var got api.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Buy oat milk", got.Title)
		assert.Equal(t, "2% or whole", got.Description)
	})

	t.Run("explicit empty description clears it", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/"+ownerID.String()+"/tasks/"+task.ID.String(), token,
			map[string]string{"description": ""})
		require.Equal(t, http.StatusOK, rec.Code)

		var got api.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Empty(t, got.Description)
	})

	t.Run("PATCH is accepted as an alias for PUT", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/"+ownerID.String()+"/tasks/"+task.ID.String(), token,
			map[string]string{"title": "Buy almond milk"})
		require.Equal(t, http.StatusOK, rec.Code)

		var got api.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Buy almond milk", got.Title)
	})

	t.Run("empty title update returns 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/"+ownerID.String()+"/tasks/"+task.ID.String(), token,
			map[string]string{"title": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("title over limit returns 400 without touching the task", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/"+ownerID.String()+"/tasks/"+task.ID.String(), token,
			map[string]string{"title": strings.Repeat("a", 201)})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		stored := env.taskStore.Tasks[task.ID]
		assert.Equal(t, "Buy almond milk", stored.Title)
	})
}

func TestCompleteTask(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ownerID, token := registerSubject(t, env, "alice@example.com")
	task := createTaskViaAPI(t, env, ownerID, token, "Buy milk")
	path := "/" + ownerID.String() + "/tasks/" + task.ID.String() + "/complete"

	t.Run("explicit completion is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			rec := env.do(t, http.MethodPatch, path, token, api.CompleteTaskRequest{Completed: boolPtr(true)})
			require.Equal(t, http.StatusOK, rec.Code)

			var got api.TaskResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "completed", got.Status)
		}
	})

	t.Run("explicit false reopens the task", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, path, token, api.CompleteTaskRequest{Completed: boolPtr(false)})
		require.Equal(t, http.StatusOK, rec.Code)

		var got api.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "pending", got.Status)
	})

	t.Run("missing completed flag returns 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, path, token, map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown task returns 404", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch,
			"/"+ownerID.String()+"/tasks/"+uuid.NewString()+"/complete",
			token, api.CompleteTaskRequest{Completed: boolPtr(true)})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ownerID, token := registerSubject(t, env, "alice@example.com")
	task := createTaskViaAPI(t, env, ownerID, token, "Buy milk")
	path := "/" + ownerID.String() + "/tasks/" + task.ID.String()

	t.Run("delete returns 204 with no body", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, path, token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
	})

	t.Run("deleting again returns 404", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, path, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
