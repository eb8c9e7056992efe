// Package cryptox wraps the one-way password hashing used for account
// credentials.
package cryptox

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches ten rounds of the adaptive hash.
const DefaultCost = 10

// PasswordHasher hashes plaintext passwords with bcrypt. The encoded result
// carries the cost and the random salt, so Compare needs nothing else.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given cost. Values outside
// bcrypt's supported range fall back to DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Cost reports the work factor used for new hashes.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash salts and hashes plaintext.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Compare reports whether candidate matches the stored hash. A hash that
// cannot be decoded yields common.ErrCorruptCredential.
func (h *PasswordHasher) Compare(hash, candidate string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", common.ErrCorruptCredential, err)
	}
}
