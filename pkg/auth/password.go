package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 6

	// defaultCost is the bcrypt work factor. Fixed configuration, not
	// data-dependent.
	defaultCost = 10
)

// Hasher provides one-way password hashing and verification.
//
// It is a struct rather than free functions so the cost can be lowered
// in tests: bcrypt at cost 10 takes tens of milliseconds per call.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the default work factor.
func NewHasher() *Hasher {
	return &Hasher{cost: defaultCost}
}

// NewHasherWithCost creates a Hasher with a custom work factor. Intended
// for tests (bcrypt.MinCost); do not lower the cost in production.
func NewHasherWithCost(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// Hash hashes a plaintext password. The returned string embeds the salt
// and cost. Passwords shorter than MinPasswordLength are rejected.
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", domain.Validation("password must be at least 6 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		// Only reachable for passwords over bcrypt's 72-byte limit.
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.Validation("password is too long")
		}
		return "", domain.Internal(err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored hash. It never
// returns an error: a malformed hash or a mismatch are both false.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
