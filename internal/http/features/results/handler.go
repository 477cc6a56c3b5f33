// Package results handles typing-test result endpoints.
package results

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/zebraboard/zebra-board-api/internal/http/middleware"
	"github.com/zebraboard/zebra-board-api/internal/httputil"
	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Store is the persistence contract for results.
type Store interface {
	Create(ctx context.Context, result *domain.TestResult) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.TestResult, error)
	StatsByUser(ctx context.Context, userID uuid.UUID) (*domain.ResultStats, error)
}

// Handler handles result endpoints.
type Handler struct {
	logger *slog.Logger
	store  Store
}

// NewHandler creates a results handler.
func NewHandler(logger *slog.Logger, store Store) *Handler {
	return &Handler{logger: logger, store: store}
}

// CreateRequest is the record-a-test payload.
type CreateRequest struct {
	WPM             float64 `json:"wpm"`
	Accuracy        float64 `json:"accuracy"`
	Mode            string  `json:"mode"`
	DurationSeconds int     `json:"durationSeconds"`
}

// Create records a completed typing test for the caller.
// POST /results
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
	if req.WPM <= 0 {
		httputil.WriteError(w, h.logger, domain.Validation("wpm must be positive"))
		return
	}
	if req.Accuracy < 0 || req.Accuracy > 100 {
		httputil.WriteError(w, h.logger, domain.Validation("accuracy must be between 0 and 100"))
		return
	}
	if req.DurationSeconds <= 0 {
		httputil.WriteError(w, h.logger, domain.Validation("durationSeconds must be positive"))
		return
	}
	if req.Mode == "" {
		req.Mode = "time"
	}

	result := &domain.TestResult{
		ID:              uuid.New(),
		UserID:          userID,
		WPM:             req.WPM,
		Accuracy:        req.Accuracy,
		Mode:            req.Mode,
		DurationSeconds: req.DurationSeconds,
		CreatedAt:       time.Now(),
	}
	if err := h.store.Create(r.Context(), result); err != nil {
		httputil.WriteError(w, h.logger, domain.Internal(err))
		return
	}

	httputil.JSON(w, http.StatusCreated, result)
}

// List returns the caller's results, newest first.
// GET /results?limit=&offset=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, string(domain.KindAuth), "authentication required")
		return
	}

	limit := queryInt(r, "limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	results, err := h.store.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		httputil.WriteError(w, h.logger, domain.Internal(err))
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"results": results})
}

// Stats returns the caller's aggregate statistics.
// GET /results/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, string(domain.KindAuth), "authentication required")
		return
	}

	stats, err := h.store.StatsByUser(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, h.logger, domain.Internal(err))
		return
	}

	httputil.JSON(w, http.StatusOK, stats)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
