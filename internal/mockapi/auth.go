package mockapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/anayy09/AcademiaFlow/internal/auth"
	"github.com/anayy09/AcademiaFlow/internal/model"
)

const msgInvalidCredentials = "invalid credentials"

// Register creates an account and signs it in.
// POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Could not create user")
		return
	}

	user, err := h.store.CreateUser(req, hash)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Could not create user")
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not generate token")
		return
	}

	h.logger.Info("user registered", slog.Uint64("user_id", uint64(user.ID)))

	writeJSON(w, http.StatusCreated, model.AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    user,
	})
}

// Login exchanges credentials for a token.
// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, hash, err := h.store.Credentials(req.Email)
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	ok, err := h.hasher.Verify(req.Password, hash)
	if err != nil || !ok {
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not generate token")
		return
	}

	writeJSON(w, http.StatusOK, model.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

func (h *Handler) issueToken(userID uint) (string, error) {
	tok, err := auth.NewToken(h.now())
	if err != nil {
		h.logger.Error("failed to issue token", slog.String("error", err.Error()))
		return "", err
	}
	h.store.AddSession(userID, tok)
	h.logger.Debug("token issued",
		slog.Uint64("user_id", uint64(userID)),
		slog.String("token_id", tok.ID),
	)
	return tok.Plaintext, nil
}

// GetProfile returns the authenticated user.
// GET /api/v1/users/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.User(currentUser(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, model.ProfileResponse{User: user})
}

// UpdateProfile applies a partial profile update.
// PUT /api/v1/users/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.store.UpdateUser(currentUser(r), req)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, model.ProfileUpdateResponse{
		User:    user,
		Message: "Profile updated successfully",
	})
}
