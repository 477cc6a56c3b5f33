package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents the account. Password-only accounts have a nil Email;
// OAuth accounts have a nil PasswordHash. EmailVerificationToken is
// non-nil exactly while a verification is outstanding.
type User struct {
	ID                      uuid.UUID
	Username                string
	Email                   *string
	PasswordHash            *string
	Provider                *string
	ProviderID              *string
	EmailVerifiedAt         *time.Time
	EmailVerificationToken  *string
	EmailVerificationSentAt *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// EmailVerified reports whether the account's email has been verified.
// Accounts without an email have nothing to verify.
func (u *User) EmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// LoginGated reports whether password login must be refused until the
// email is verified. Only accounts that registered with an email are
// gated.
func (u *User) LoginGated() bool {
	return u.Email != nil && u.EmailVerifiedAt == nil
}

// SanitizedUser is the only user shape that crosses the API boundary.
// It structurally cannot carry the password hash or verification token.
type SanitizedUser struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Email         *string   `json:"email,omitempty"`
	Provider      *string   `json:"provider,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Sanitized strips credential and token fields for API responses.
func (u *User) Sanitized() SanitizedUser {
	return SanitizedUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Provider:      u.Provider,
		EmailVerified: u.EmailVerified(),
		CreatedAt:     u.CreatedAt,
	}
}
