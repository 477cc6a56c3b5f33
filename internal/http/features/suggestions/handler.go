// Package suggestions handles user feedback endpoints.
package suggestions

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zebraboard/zebra-board-api/internal/http/middleware"
	"github.com/zebraboard/zebra-board-api/internal/httputil"
	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

const maxSuggestionLength = 2000

// Store is the persistence contract for suggestions.
type Store interface {
	Create(ctx context.Context, s *domain.Suggestion) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Suggestion, error)
}

// Handler handles suggestion endpoints.
type Handler struct {
	logger *slog.Logger
	store  Store
}

// NewHandler creates a suggestions handler.
func NewHandler(logger *slog.Logger, store Store) *Handler {
	return &Handler{logger: logger, store: store}
}

// CreateRequest is the suggestion payload.
type CreateRequest struct {
	Text string `json:"text"`
}

// Create stores a suggestion from the caller.
// POST /suggestions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, string(domain.KindAuth), "authentication required")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, h.logger, domain.Validation("invalid request body"))
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		httputil.WriteError(w, h.logger, domain.Validation("text is required"))
		return
	}
	if len(text) > maxSuggestionLength {
		httputil.WriteError(w, h.logger, domain.Validation("text is too long"))
		return
	}

	suggestion := &domain.Suggestion{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := h.store.Create(r.Context(), suggestion); err != nil {
		httputil.WriteError(w, h.logger, domain.Internal(err))
		return
	}

	httputil.JSON(w, http.StatusCreated, suggestion)
}

// List returns the caller's suggestions.
// GET /suggestions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, string(domain.KindAuth), "authentication required")
		return
	}

	list, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, h.logger, domain.Internal(err))
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"suggestions": list})
}
