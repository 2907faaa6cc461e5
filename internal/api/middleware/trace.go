package middleware

import (
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context and stores a
// trace-enriched logger alongside it, so every log line written through
// logger.FromContext downstream carries the trace_id.
// Apply it early in the middleware chain so all subsequent handlers can
// correlate their logs.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		log := logger.FromContext(ctx).With(slog.String("trace_id", shared.GetTraceID(ctx)))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
