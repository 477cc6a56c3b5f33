package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

const (
	// DefaultVerificationTTL is how long an email verification token
	// stays valid after issuance.
	DefaultVerificationTTL = 24 * time.Hour

	// DefaultEmailSendTimeout bounds how long registration waits for the
	// mailer before giving up and continuing.
	DefaultEmailSendTimeout = 5 * time.Second

	maxUsernameLength = 30
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{2,29}$`)

// Mailer dispatches verification emails. Failures are non-fatal to the
// flows that use it.
type Mailer interface {
	SendVerificationEmail(to, verifyURL string) error
}

// ServiceConfig holds account service configuration.
type ServiceConfig struct {
	VerificationTTL  time.Duration
	EmailSendTimeout time.Duration
	// AppBaseURL prefixes verification links, e.g. "https://zebraboard.app".
	AppBaseURL string
}

// AccountService orchestrates registration, login and email
// verification.
type AccountService struct {
	config ServiceConfig
	store  UserStore
	hasher *Hasher
	signer *TokenSigner
	mailer Mailer
	logger *slog.Logger
}

// NewAccountService creates an account service. mailer may be nil when
// email delivery is not configured; registrations with an email still
// succeed in pending state.
func NewAccountService(
	config ServiceConfig,
	store UserStore,
	hasher *Hasher,
	signer *TokenSigner,
	mailer Mailer,
	logger *slog.Logger,
) *AccountService {
	if config.VerificationTTL == 0 {
		config.VerificationTTL = DefaultVerificationTTL
	}
	if config.EmailSendTimeout == 0 {
		config.EmailSendTimeout = DefaultEmailSendTimeout
	}
	return &AccountService{
		config: config,
		store:  store,
		hasher: hasher,
		signer: signer,
		mailer: mailer,
		logger: logger,
	}
}

// RegistrationResult reports the outcome of a registration.
// PendingVerification means the caller must not treat the account as
// authenticated until the emailed token has been verified.
type RegistrationResult struct {
	User                domain.SanitizedUser `json:"user"`
	PendingVerification bool                 `json:"pendingVerification"`
}

// LoginResult carries the sanitized user plus a signed bearer token.
type LoginResult struct {
	User  domain.SanitizedUser `json:"user"`
	Token string               `json:"token"`
}

// Register creates an account. Email is optional: without one the
// account is usable immediately; with one the account starts pending
// and a verification email is dispatched (failure to send is logged,
// never fatal).
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*RegistrationResult, error) {
	if username == "" || password == "" {
		return nil, domain.Validation("username and password are required")
	}
	if !usernamePattern.MatchString(username) {
		return nil, domain.Validation("username must be 3-30 characters: letters, digits, underscore or hyphen, starting with a letter or digit")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	pending := false
	var rawToken string
	if email != "" {
		token, err := NewVerificationToken()
		if err != nil {
			return nil, domain.Internal(err)
		}
		user.Email = &email
		user.EmailVerificationToken = &token
		user.EmailVerificationSentAt = &now
		pending = true
		rawToken = token
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("username or email already taken")
		}
		return nil, domain.Internal(err)
	}

	if pending {
		s.dispatchVerificationEmail(email, rawToken, user.ID)
	}

	return &RegistrationResult{User: user.Sanitized(), PendingVerification: pending}, nil
}

// Login authenticates by username or email plus password and issues a
// bearer token. Credential failures are uniform; the verification gate
// is a distinct kind so callers can prompt for it.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	if identifier == "" || password == "" {
		return nil, domain.Validation("identifier and password are required")
	}

	user, err := s.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.InvalidCredentials()
		}
		return nil, domain.Internal(err)
	}

	if user.PasswordHash == nil || !s.hasher.Verify(password, *user.PasswordHash) {
		return nil, domain.InvalidCredentials()
	}

	if user.LoginGated() {
		return nil, domain.VerificationRequired()
	}

	token, err := s.signer.Sign(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user.Sanitized(), Token: token}, nil
}

// VerifyEmail consumes a verification token. The token lookup also
// covers already-consumed tokens, since the field is cleared on success.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (*domain.SanitizedUser, error) {
	if token == "" {
		return nil, domain.Validation("token is required")
	}

	user, err := s.store.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.InvalidToken("invalid verification token")
		}
		return nil, domain.Internal(err)
	}

	if user.EmailVerificationSentAt == nil || time.Since(*user.EmailVerificationSentAt) > s.config.VerificationTTL {
		return nil, domain.ExpiredToken("verification token expired")
	}

	verifiedAt := time.Now()
	if err := s.store.MarkEmailVerified(ctx, user.ID, verifiedAt); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Consumed between lookup and update.
			return nil, domain.InvalidToken("invalid verification token")
		}
		return nil, domain.Internal(err)
	}

	user.EmailVerifiedAt = &verifiedAt
	user.EmailVerificationToken = nil
	user.EmailVerificationSentAt = nil
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// ResendVerification issues a fresh token superseding any outstanding
// one and dispatches a new email.
func (s *AccountService) ResendVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.NotFound("user")
		}
		return domain.Internal(err)
	}
	if user.Email == nil {
		return domain.Validation("account has no email address")
	}
	if user.EmailVerified() {
		return domain.Validation("email already verified")
	}

	token, err := NewVerificationToken()
	if err != nil {
		return domain.Internal(err)
	}
	if err := s.store.SetVerificationToken(ctx, userID, token, time.Now()); err != nil {
		return domain.Internal(err)
	}

	s.dispatchVerificationEmail(*user.Email, token, userID)
	return nil
}

// VerificationStatus reports whether the user's email is verified.
func (s *AccountService) VerificationStatus(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, domain.NotFound("user")
		}
		return false, domain.Internal(err)
	}
	return user.EmailVerified(), nil
}

// dispatchVerificationEmail sends the verification link, waiting at most
// EmailSendTimeout. A slow or failing mailer is logged and otherwise
// ignored; the account stays pending and the token can be resent.
func (s *AccountService) dispatchVerificationEmail(email, token string, userID uuid.UUID) {
	if s.mailer == nil {
		s.logger.Warn("email delivery not configured, skipping verification email", "user_id", userID)
		return
	}

	verifyURL := fmt.Sprintf("%s/auth/verify-email?token=%s", strings.TrimSuffix(s.config.AppBaseURL, "/"), url.QueryEscape(token))

	done := make(chan error, 1)
	go func() {
		done <- s.mailer.SendVerificationEmail(email, verifyURL)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.logger.Error("failed to send verification email", "error", err, "user_id", userID)
		} else {
			s.logger.Info("verification email sent", "user_id", userID)
		}
	case <-time.After(s.config.EmailSendTimeout):
		s.logger.Error("verification email send timed out", "user_id", userID, "timeout", s.config.EmailSendTimeout)
	}
}
