package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

// SuggestionsRepository handles suggestion persistence.
type SuggestionsRepository struct {
	db *sql.DB
}

// NewSuggestionsRepository creates a new suggestions repository.
func NewSuggestionsRepository(db *sql.DB) *SuggestionsRepository {
	return &SuggestionsRepository{db: db}
}

// Create stores a suggestion.
func (r *SuggestionsRepository) Create(ctx context.Context, s *domain.Suggestion) error {
	query := `
		INSERT INTO suggestions (id, user_id, text, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.Text, s.CreatedAt)
	return mapError(err)
}

// ListByUser returns the user's suggestions, newest first.
func (r *SuggestionsRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Suggestion, error) {
	query := `
		SELECT id, user_id, text, created_at
		FROM suggestions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suggestions := []domain.Suggestion{}
	for rows.Next() {
		var s domain.Suggestion
		if err := rows.Scan(&s.ID, &s.UserID, &s.Text, &s.CreatedAt); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}
