package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// TokenResolver maps a bearer token to the user it was issued to.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (userID uint, ok bool)
}

// Auth failure messages, written as {"error": ...}.
const (
	msgAuthHeaderRequired  = "Authorization header required"
	msgBearerTokenRequired = "Bearer token required"
	msgInvalidToken        = "Invalid token"
)

// BearerAuth returns a middleware that authenticates requests by their
// Authorization: Bearer header and stores the user ID in the context.
func BearerAuth(resolver TokenResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				authFailed(w, r, logger, "missing_header", msgAuthHeaderRequired)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				authFailed(w, r, logger, "not_bearer", msgBearerTokenRequired)
				return
			}

			userID, ok := resolver.ResolveToken(r.Context(), token)
			if !ok {
				authFailed(w, r, logger, "invalid_token", msgInvalidToken)
				return
			}

			next.ServeHTTP(w, recordUser(r, userID))
		})
	}
}

func authFailed(w http.ResponseWriter, r *http.Request, logger *slog.Logger, reason, message string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
	WriteError(w, http.StatusUnauthorized, message)
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes {"error": message}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
