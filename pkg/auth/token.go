package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

// DefaultTokenTTL is the default bearer token lifetime.
const DefaultTokenTTL = 15 * time.Minute

// Claims is the bearer token payload: minimal identity plus the
// standard registered claims. Subject carries the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Provider string `json:"provider,omitempty"`
}

// UserID parses the subject claim as a user ID.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenSigner issues and verifies HS256-signed bearer tokens. Tokens are
// stateless: expiry is the only lifecycle bound, there is no server-side
// revocation.
type TokenSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenSigner creates a TokenSigner. A zero ttl falls back to
// DefaultTokenTTL.
func NewTokenSigner(secret []byte, issuer string, ttl time.Duration) *TokenSigner {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenSigner{secret: secret, issuer: issuer, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *TokenSigner) TTL() time.Duration { return s.ttl }

// Sign issues a token for the user.
func (s *TokenSigner) Sign(user *domain.User) (string, error) {
	now := time.Now()
	provider := ""
	if user.Provider != nil {
		provider = *user.Provider
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: user.Username,
		Provider: provider,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.Internal(err)
	}
	return signed, nil
}

// Verify parses and validates a token string. Every failure mode
// (malformed, tampered, expired, wrong algorithm) surfaces as the same
// invalid-token error so callers cannot learn which check failed.
func (s *TokenSigner) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.InvalidToken("invalid or expired token")
	}
	return claims, nil
}
