package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// verificationTokenBytes gives 256 bits of entropy per token.
const verificationTokenBytes = 32

// NewVerificationToken returns a cryptographically random single-use
// token rendered as a fixed-length hex string. The token carries no
// information about the account it will be attached to; collision
// handling is left to the storage-level unique constraint.
func NewVerificationToken() (string, error) {
	b := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating verification token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
