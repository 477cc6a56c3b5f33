package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

// ResultsRepository handles typing-test result persistence.
type ResultsRepository struct {
	db *sql.DB
}

// NewResultsRepository creates a new results repository.
func NewResultsRepository(db *sql.DB) *ResultsRepository {
	return &ResultsRepository{db: db}
}

// Create records a completed test.
func (r *ResultsRepository) Create(ctx context.Context, result *domain.TestResult) error {
	query := `
		INSERT INTO test_results (id, user_id, wpm, accuracy, mode, duration_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		result.ID, result.UserID, result.WPM, result.Accuracy, result.Mode,
		result.DurationSeconds, result.CreatedAt,
	)
	return mapError(err)
}

// ListByUser returns the user's results, newest first.
func (r *ResultsRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.TestResult, error) {
	query := `
		SELECT id, user_id, wpm, accuracy, mode, duration_seconds, created_at
		FROM test_results
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.TestResult{}
	for rows.Next() {
		var res domain.TestResult
		if err := rows.Scan(&res.ID, &res.UserID, &res.WPM, &res.Accuracy, &res.Mode,
			&res.DurationSeconds, &res.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// StatsByUser aggregates the user's test history. A user with no
// results gets zeroed stats, not an error.
func (r *ResultsRepository) StatsByUser(ctx context.Context, userID uuid.UUID) (*domain.ResultStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(MAX(wpm), 0),
		       COALESCE(AVG(wpm), 0),
		       COALESCE(AVG(accuracy), 0)
		FROM test_results
		WHERE user_id = $1
	`
	stats := &domain.ResultStats{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.Count, &stats.BestWPM, &stats.AvgWPM, &stats.AvgAccuracy,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
