package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

// UserStore is the persistence contract the auth flows depend on.
// Implementations must return domain.ErrUserNotFound for missing rows
// and domain.ErrDuplicate for unique-constraint violations so the flows
// can tell a conflict from a generic failure.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetByIdentifier resolves a username or an email to one user.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	GetByProviderID(ctx context.Context, provider, providerID string) (*domain.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)

	// SetVerificationToken installs a fresh token and issuance timestamp,
	// superseding any outstanding one.
	SetVerificationToken(ctx context.Context, userID uuid.UUID, token string, sentAt time.Time) error

	// MarkEmailVerified sets the verified timestamp and clears the token
	// and sent-at fields in a single atomic update. It must return
	// domain.ErrUserNotFound when no row with an outstanding token
	// matches, so a consumed token cannot be verified twice.
	MarkEmailVerified(ctx context.Context, userID uuid.UUID, verifiedAt time.Time) error

	Delete(ctx context.Context, id uuid.UUID) error
}
