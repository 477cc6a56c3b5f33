// Package account handles registration, login and the /auth/me surface.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/zebraboard/zebra-board-api/internal/http/middleware"
	"github.com/zebraboard/zebra-board-api/internal/httputil"
	"github.com/zebraboard/zebra-board-api/pkg/auth"
	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

// UserReader is the slice of the user store this handler needs beyond
// the account service.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler handles account endpoints.
type Handler struct {
	logger   *slog.Logger
	accounts *auth.AccountService
	users    UserReader
}

// NewHandler creates an account handler.
func NewHandler(logger *slog.Logger, accounts *auth.AccountService, users UserReader) *Handler {
	return &Handler{logger: logger, accounts: accounts, users: users}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// LoginRequest is the login payload. Identifier may be a username or an
// email address.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Register handles user registration.
// POST /users
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, h.logger, domain.Validation("invalid request body"))
		return
	}

	result, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	h.logger.Info("user registered", "user_id", result.User.ID, "pending_verification", result.PendingVerification)
	httputil.JSON(w, http.StatusCreated, result)
}

// Login handles user login.
// POST /users/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, h.logger, domain.Validation("invalid request body"))
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// GetMe returns the authenticated user.
// GET /auth/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, string(domain.KindAuth), "authentication required")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			httputil.WriteError(w, h.logger, domain.NotFound("user"))
			return
		}
		httputil.WriteError(w, h.logger, domain.Internal(err))
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"user": user.Sanitized()})
}

// DeleteMe deletes the authenticated user's account. Dependent records
// cascade at the schema level.
// DELETE /auth/me
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, string(domain.KindAuth), "authentication required")
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			httputil.WriteError(w, h.logger, domain.NotFound("user"))
			return
		}
		httputil.WriteError(w, h.logger, domain.Internal(err))
		return
	}

	h.logger.Info("account deleted", "user_id", userID)
	httputil.JSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}
