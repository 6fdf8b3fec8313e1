package apiclient

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/anayy09/AcademiaFlow/internal/metrics"
)

const (
	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"
	// AuthorizationHeader carries the bearer credential.
	AuthorizationHeader = "Authorization"
)

// TokenSource yields the current bearer token; "" means signed out.
type TokenSource interface {
	Token() string
}

// Logouter ends the local session.
type Logouter interface {
	Logout(ctx context.Context)
}

// BearerAuth attaches the current token to every request. The token is read
// per request, so a login or logout between two calls takes effect on the
// next call.
func BearerAuth(src TokenSource) RequestHook {
	return func(req *http.Request) error {
		if token := src.Token(); token != "" {
			req.Header.Set(AuthorizationHeader, "Bearer "+token)
		}
		return nil
	}
}

// RequestID sets X-Request-ID to a fresh UUID unless the caller set one.
func RequestID() RequestHook {
	return func(req *http.Request) error {
		if req.Header.Get(RequestIDHeader) == "" {
			req.Header.Set(RequestIDHeader, uuid.New().String())
		}
		return nil
	}
}

// LogoutOnUnauthorized ends the session whenever the backend answers 401.
// The caller still receives the original error.
func LogoutOnUnauthorized(l Logouter) ResponseHook {
	return func(ex *Exchange) {
		if ex.Response == nil || ex.Response.StatusCode != http.StatusUnauthorized {
			return
		}
		l.Logout(context.WithoutCancel(ex.Request.Context()))
	}
}

// Logging logs one line per call. Headers are never logged.
func Logging(logger *slog.Logger) ResponseHook {
	logger = logger.With("component", "apiclient")
	return func(ex *Exchange) {
		attrs := []slog.Attr{
			slog.String("request_id", ex.Request.Header.Get(RequestIDHeader)),
			slog.String("method", ex.Request.Method),
			slog.String("path", ex.Request.URL.Path),
			slog.Float64("duration_ms", float64(ex.Duration.Microseconds())/1000),
		}

		level := slog.LevelDebug
		switch {
		case ex.Response == nil:
			level = slog.LevelError
			attrs = append(attrs, slog.String("error", ex.Err.Error()))
		default:
			attrs = append(attrs, slog.Int("status_code", ex.Response.StatusCode))
			if ex.Response.StatusCode >= 500 {
				level = slog.LevelError
			} else if ex.Response.StatusCode >= 400 {
				level = slog.LevelWarn
			}
		}

		logger.LogAttrs(ex.Request.Context(), level, "api request", attrs...)
	}
}

// Metrics records request counts and latency.
func Metrics(recorder metrics.Recorder) ResponseHook {
	return func(ex *Exchange) {
		status := 0
		if ex.Response != nil {
			status = ex.Response.StatusCode
		}
		recorder.IncAPIRequest(ex.Request.Method, metrics.StatusClass(status))
		recorder.ObserveAPIRequestDuration(ex.Duration)
		if status == http.StatusUnauthorized {
			recorder.IncSessionInvalidated()
		}
	}
}
