package domain

import (
	"time"

	"github.com/google/uuid"
)

// TestResult records a single completed typing test.
type TestResult struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	WPM             float64   `json:"wpm"`
	Accuracy        float64   `json:"accuracy"`
	Mode            string    `json:"mode"`
	DurationSeconds int       `json:"durationSeconds"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ResultStats aggregates a user's test history.
type ResultStats struct {
	Count       int64   `json:"count"`
	BestWPM     float64 `json:"bestWpm"`
	AvgWPM      float64 `json:"avgWpm"`
	AvgAccuracy float64 `json:"avgAccuracy"`
}
