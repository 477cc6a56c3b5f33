package http

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

// fakeUserStore is an in-memory auth.UserStore with the same contract as
// the Postgres repository: sentinel errors for missing rows and unique
// violations, atomic single-use token consumption.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return fmt.Errorf("%w: users_username_key", domain.ErrDuplicate)
		}
		if user.Email != nil && existing.Email != nil && *existing.Email == *user.Email {
			return fmt.Errorf("%w: users_email_key", domain.ErrDuplicate)
		}
		if user.Provider != nil && existing.Provider != nil &&
			*existing.Provider == *user.Provider && *existing.ProviderID == *user.ProviderID {
			return fmt.Errorf("%w: users_provider_id_key", domain.ErrDuplicate)
		}
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *fakeUserStore) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == identifier || (user.Email != nil && *user.Email == identifier) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *fakeUserStore) GetByProviderID(_ context.Context, provider, providerID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Provider != nil && *user.Provider == provider &&
			user.ProviderID != nil && *user.ProviderID == providerID {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *fakeUserStore) GetByVerificationToken(_ context.Context, token string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.EmailVerificationToken != nil && *user.EmailVerificationToken == token {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *fakeUserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) SetVerificationToken(_ context.Context, userID uuid.UUID, token string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.EmailVerificationToken = &token
	user.EmailVerificationSentAt = &sentAt
	return nil
}

func (s *fakeUserStore) MarkEmailVerified(_ context.Context, userID uuid.UUID, verifiedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok || user.EmailVerificationToken == nil {
		return domain.ErrUserNotFound
	}
	user.EmailVerifiedAt = &verifiedAt
	user.EmailVerificationToken = nil
	user.EmailVerificationSentAt = nil
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// tokenFor returns the outstanding verification token for a username.
func (s *fakeUserStore) tokenFor(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username && user.EmailVerificationToken != nil {
			return *user.EmailVerificationToken
		}
	}
	return ""
}

type fakeResultsStore struct {
	mu      sync.Mutex
	results []domain.TestResult
}

func (s *fakeResultsStore) Create(_ context.Context, result *domain.TestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, *result)
	return nil
}

func (s *fakeResultsStore) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.TestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var mine []domain.TestResult
	for _, r := range s.results {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	if offset >= len(mine) {
		return []domain.TestResult{}, nil
	}
	mine = mine[offset:]
	if limit < len(mine) {
		mine = mine[:limit]
	}
	return mine, nil
}

func (s *fakeResultsStore) StatsByUser(_ context.Context, userID uuid.UUID) (*domain.ResultStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &domain.ResultStats{}
	var wpmSum, accSum float64
	for _, r := range s.results {
		if r.UserID != userID {
			continue
		}
		stats.Count++
		wpmSum += r.WPM
		accSum += r.Accuracy
		if r.WPM > stats.BestWPM {
			stats.BestWPM = r.WPM
		}
	}
	if stats.Count > 0 {
		stats.AvgWPM = wpmSum / float64(stats.Count)
		stats.AvgAccuracy = accSum / float64(stats.Count)
	}
	return stats, nil
}

type fakeSuggestionsStore struct {
	mu          sync.Mutex
	suggestions []domain.Suggestion
}

func (s *fakeSuggestionsStore) Create(_ context.Context, suggestion *domain.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions = append(s.suggestions, *suggestion)
	return nil
}

func (s *fakeSuggestionsStore) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var mine []domain.Suggestion
	for _, sg := range s.suggestions {
		if sg.UserID == userID {
			mine = append(mine, sg)
		}
	}
	return mine, nil
}
