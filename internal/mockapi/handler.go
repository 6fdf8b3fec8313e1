// Package mockapi is an in-memory implementation of the AcademiaFlow REST
// backend for local development and end-to-end tests of the client.
package mockapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anayy09/AcademiaFlow/internal/auth"
	"github.com/anayy09/AcademiaFlow/internal/middleware"
)

// Handler serves the backend routes over a Store.
type Handler struct {
	store  *Store
	hasher *auth.Hasher
	logger *slog.Logger
	now    func() time.Time
}

// Options configure a Handler.
type Options struct {
	// Params are the password hashing costs; zero means auth.DefaultParams.
	Params auth.Params
	// Now overrides the clock.
	Now func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(store *Store, logger *slog.Logger, opts Options) *Handler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		store:  store,
		hasher: auth.NewHasher(opts.Params),
		logger: logger.With("component", "mockapi"),
		now:    now,
	}
}

// Store returns the backing store.
func (h *Handler) Store() *Store {
	return h.store
}

// Health reports liveness.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "AcademiaFlow API is running",
	})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	middleware.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	middleware.WriteError(w, status, message)
}

// decodeJSON reads the request body into v. Unknown fields are ignored.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errors.New("request body too large")
		}
		return errors.New("invalid JSON body")
	}
	return nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the authenticated user ID. Routes that use it sit
// behind BearerAuth.
func currentUser(r *http.Request) uint {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}
