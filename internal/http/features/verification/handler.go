// Package verification handles the email verification token lifecycle
// over HTTP.
package verification

import (
	"log/slog"
	"net/http"

	"github.com/zebraboard/zebra-board-api/internal/http/middleware"
	"github.com/zebraboard/zebra-board-api/internal/httputil"
	"github.com/zebraboard/zebra-board-api/pkg/auth"
	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

// Handler handles verification endpoints.
type Handler struct {
	logger   *slog.Logger
	accounts *auth.AccountService
}

// NewHandler creates a verification handler.
func NewHandler(logger *slog.Logger, accounts *auth.AccountService) *Handler {
	return &Handler{logger: logger, accounts: accounts}
}

// VerifyEmail consumes a verification token.
// GET /auth/verify-email?token=
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	user, err := h.accounts.VerifyEmail(r.Context(), token)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	h.logger.Info("email verified", "user_id", user.ID)
	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "email verified",
		"user":    user,
	})
}

// Status reports whether the caller's email is verified.
// GET /auth/verify-email/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, string(domain.KindAuth), "authentication required")
		return
	}

	verified, err := h.accounts.VerificationStatus(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]bool{"emailVerified": verified})
}

// Resend issues a fresh verification token and emails it.
// POST /auth/resend-verification
func (h *Handler) Resend(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, string(domain.KindAuth), "authentication required")
		return
	}

	if err := h.accounts.ResendVerification(r.Context(), userID); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "verification email sent"})
}
