package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

// maxUsernameAttempts bounds the numeric-suffix retry loop during
// collision resolution.
const maxUsernameAttempts = 20

// ExternalProfile is the identity assertion a provider hands back after
// a successful code exchange.
type ExternalProfile struct {
	Provider    string
	Subject     string // provider's stable external ID
	Email       string // may be empty if hidden on the provider side
	DisplayName string
}

// Linker finds or creates local accounts for external OAuth identities.
type Linker struct {
	store  UserStore
	logger *slog.Logger
}

// NewLinker creates a Linker.
func NewLinker(store UserStore, logger *slog.Logger) *Linker {
	return &Linker{store: store, logger: logger}
}

// Upsert is idempotent with respect to (provider, subject): re-login
// returns the existing account unchanged. First login derives a
// username from the profile and creates the account. Because the
// external provider already attested the email, accounts created with
// one are verified immediately.
//
// Two concurrent first logins from the same external identity race on
// the provider_id unique constraint; the loser re-queries and returns
// the winner's account instead of failing the caller.
func (l *Linker) Upsert(ctx context.Context, profile ExternalProfile) (*domain.User, error) {
	if profile.Provider == "" || profile.Subject == "" {
		return nil, domain.Validation("provider identity is incomplete")
	}

	user, err := l.store.GetByProviderID(ctx, profile.Provider, profile.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.Internal(err)
	}

	base := deriveUsername(profile)
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		username := base
		if attempt > 0 {
			username = suffixed(base, attempt+1)
		}

		exists, err := l.store.UsernameExists(ctx, username)
		if err != nil {
			return nil, domain.Internal(err)
		}
		if exists {
			continue
		}

		now := time.Now()
		candidate := &domain.User{
			ID:         uuid.New(),
			Username:   username,
			Provider:   &profile.Provider,
			ProviderID: &profile.Subject,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if profile.Email != "" {
			email := profile.Email
			candidate.Email = &email
			candidate.EmailVerifiedAt = &now
		}

		err = l.store.Create(ctx, candidate)
		if err == nil {
			l.logger.Info("linked new account", "provider", profile.Provider, "user_id", candidate.ID)
			return candidate, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Internal(err)
		}

		// A unique constraint fired. If it was provider_id, a concurrent
		// login for the same identity won: resolve as a lookup.
		if existing, lookupErr := l.store.GetByProviderID(ctx, profile.Provider, profile.Subject); lookupErr == nil {
			return existing, nil
		}
		// Otherwise the username (or email) collided under us; try the
		// next suffix.
	}

	return nil, domain.Conflict("could not derive a free username")
}

// deriveUsername picks a candidate from the profile hints: display name,
// then email local-part, then a provider_subject fallback.
func deriveUsername(profile ExternalProfile) string {
	if name := sanitizeUsername(profile.DisplayName); name != "" {
		return name
	}
	if at := strings.IndexByte(profile.Email, '@'); at > 0 {
		if name := sanitizeUsername(profile.Email[:at]); name != "" {
			return name
		}
	}
	return sanitizeUsername(profile.Provider + "_" + profile.Subject)
}

// sanitizeUsername lowercases and filters to [a-z0-9_-], truncated to
// the maximum username length.
func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
		if b.Len() >= maxUsernameLength {
			break
		}
	}
	return b.String()
}

// suffixed appends a numeric disambiguation suffix, shortening the base
// if needed to stay within the length bound.
func suffixed(base string, n int) string {
	suffix := fmt.Sprintf("-%d", n)
	if len(base)+len(suffix) > maxUsernameLength {
		base = base[:maxUsernameLength-len(suffix)]
	}
	return base + suffix
}
