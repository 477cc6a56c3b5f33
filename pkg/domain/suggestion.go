package domain

import (
	"time"

	"github.com/google/uuid"
)

// Suggestion is free-form user feedback about the app.
type Suggestion struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
