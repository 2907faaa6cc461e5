package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apimiddleware "github.com/tasknest/tasknest-api/internal/api/middleware"
)

// NewRouter creates and configures the application router with all routes
// and middleware. Authentication endpoints are public; every task route
// sits behind the bearer-token middleware.
func NewRouter(
	authHandler *AuthHandler,
	taskHandler *TaskHandler,
	authMiddleware *apimiddleware.AuthMiddleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	// Authentication endpoints (public)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/refresh", authHandler.RefreshToken)

	// Owner-scoped task endpoints
	r.Route("/{userID}/tasks", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/", taskHandler.CreateTask)
		r.Get("/", taskHandler.ListTasks)
		r.Get("/{taskID}", taskHandler.GetTask)
		r.Put("/{taskID}", taskHandler.UpdateTask)
		r.Patch("/{taskID}", taskHandler.UpdateTask)
		r.Patch("/{taskID}/complete", taskHandler.CompleteTask)
		r.Delete("/{taskID}", taskHandler.DeleteTask)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
