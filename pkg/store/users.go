package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

const userColumns = `id, username, email, password_hash, provider, provider_id,
	       email_verified_at, email_verification_token, email_verification_sent_at,
	       created_at, updated_at`

// UsersRepository handles user persistence.
type UsersRepository struct {
	db *sql.DB
}

// NewUsersRepository creates a new users repository.
func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create inserts a new user. Unique-constraint violations surface as
// domain.ErrDuplicate.
func (r *UsersRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, provider, provider_id,
		                   email_verified_at, email_verification_token, email_verification_sent_at,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Provider, user.ProviderID,
		user.EmailVerifiedAt, user.EmailVerificationToken, user.EmailVerificationSentAt,
		user.CreatedAt, user.UpdatedAt,
	)
	return mapError(err)
}

func (r *UsersRepository) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Provider, &user.ProviderID,
		&user.EmailVerifiedAt, &user.EmailVerificationToken, &user.EmailVerificationSentAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by ID.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByIdentifier retrieves a user by username or email.
func (r *UsersRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1`, identifier)
}

// GetByProviderID retrieves a user by its external identity pair.
func (r *UsersRepository) GetByProviderID(ctx context.Context, provider, providerID string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE provider = $1 AND provider_id = $2`, provider, providerID)
}

// GetByVerificationToken retrieves the user holding an outstanding
// verification token. Consumed tokens match no row.
func (r *UsersRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email_verification_token = $1`, token)
}

// UsernameExists checks if a username is taken.
func (r *UsersRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

// SetVerificationToken installs a fresh verification token, superseding
// any outstanding one.
func (r *UsersRepository) SetVerificationToken(ctx context.Context, userID uuid.UUID, token string, sentAt time.Time) error {
	query := `
		UPDATE users
		SET email_verification_token = $2,
		    email_verification_sent_at = $3,
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, userID, token, sentAt)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result)
}

// MarkEmailVerified sets the verified timestamp and clears the token
// fields in one statement, so a crash can never leave the row half
// transitioned. The token guard makes consumption single-use: a second
// caller matches no row and gets domain.ErrUserNotFound.
func (r *UsersRepository) MarkEmailVerified(ctx context.Context, userID uuid.UUID, verifiedAt time.Time) error {
	query := `
		UPDATE users
		SET email_verified_at = $2,
		    email_verification_token = NULL,
		    email_verification_sent_at = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND email_verification_token IS NOT NULL
	`
	result, err := r.db.ExecContext(ctx, query, userID, verifiedAt)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result)
}

// Delete permanently removes a user. Dependent result and suggestion
// rows cascade at the schema level.
func (r *UsersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
