package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anayy09/AcademiaFlow/internal/auth"
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// userIDRecorder lets BearerAuth report the user back to Logger, which
// runs outside it and never sees the derived request context.
type userIDRecorder struct {
	id uint
}

// Logger returns a middleware that logs HTTP requests.
// Request headers are never logged.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)
			rec := &userIDRecorder{}

			next.ServeHTTP(wrapped, r.WithContext(withUserIDRecorder(r.Context(), rec)))

			duration := time.Since(start)

			attrs := []slog.Attr{
				slog.String("request_id", GetRequestID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status_code", wrapped.status),
				slog.Float64("duration_ms", float64(duration.Microseconds())/1000),
				slog.String("remote_addr", r.RemoteAddr),
			}
			if rec.id != 0 {
				attrs = append(attrs, slog.Uint64("user_id", uint64(rec.id)))
			}

			level := slog.LevelInfo
			if wrapped.status >= 500 {
				level = slog.LevelError
			} else if wrapped.status >= 400 {
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "http request", attrs...)
		})
	}
}

// recordUser is called once the request is authenticated.
func recordUser(r *http.Request, userID uint) *http.Request {
	if rec, ok := r.Context().Value(userRecorderKey).(*userIDRecorder); ok {
		rec.id = userID
	}
	return r.WithContext(auth.ContextWithUserID(r.Context(), userID))
}
