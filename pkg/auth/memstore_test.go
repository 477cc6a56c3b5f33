package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

// memStore is an in-memory UserStore for flow tests. It enforces the
// same unique constraints the schema does, including returning
// domain.ErrDuplicate, so the flows exercise their real failure paths.
type memStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemStore() *memStore {
	return &memStore{users: make(map[uuid.UUID]*domain.User)}
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (m *memStore) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return fmt.Errorf("%w: users_username_key", domain.ErrDuplicate)
		}
		if user.Email != nil && existing.Email != nil && *existing.Email == *user.Email {
			return fmt.Errorf("%w: users_email_key", domain.ErrDuplicate)
		}
		if user.ProviderID != nil && existing.ProviderID != nil && *existing.ProviderID == *user.ProviderID {
			return fmt.Errorf("%w: users_provider_id_key", domain.ErrDuplicate)
		}
	}
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memStore) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == identifier || (u.Email != nil && *u.Email == identifier) {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memStore) GetByProviderID(_ context.Context, provider, providerID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Provider != nil && *u.Provider == provider && u.ProviderID != nil && *u.ProviderID == providerID {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memStore) GetByVerificationToken(_ context.Context, token string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.EmailVerificationToken != nil && *u.EmailVerificationToken == token {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memStore) UsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SetVerificationToken(_ context.Context, userID uuid.UUID, token string, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.EmailVerificationToken = &token
	u.EmailVerificationSentAt = &sentAt
	u.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) MarkEmailVerified(_ context.Context, userID uuid.UUID, verifiedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.EmailVerificationToken == nil {
		return domain.ErrUserNotFound
	}
	u.EmailVerifiedAt = &verifiedAt
	u.EmailVerificationToken = nil
	u.EmailVerificationSentAt = nil
	u.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// tokenOf returns the stored verification token for a user, for tests
// that need to exercise the verify path.
func (m *memStore) tokenOf(id uuid.UUID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok && u.EmailVerificationToken != nil {
		return *u.EmailVerificationToken
	}
	return ""
}

// backdateToken shifts the token issuance timestamp, for expiry tests.
func (m *memStore) backdateToken(id uuid.UUID, age time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok && u.EmailVerificationSentAt != nil {
		sentAt := u.EmailVerificationSentAt.Add(-age)
		u.EmailVerificationSentAt = &sentAt
	}
}
