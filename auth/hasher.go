package auth

import (
	"errors"

	"github.com/samber/oops"
	// Library for password hashing using bcrypt. bcrypt is a strong, adaptive hashing algorithm.
	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxPasswordLen is the longest input bcrypt accepts; longer inputs are rejected, not truncated.
const bcryptMaxPasswordLen = 72

var (
	// ErrEmptyPassword is returned when attempting to hash an empty password.
	ErrEmptyPassword = errors.New("password cannot be empty")
	// ErrPasswordTooLong is returned for passwords bcrypt cannot represent.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// PasswordHasher provides one-way password hashing and verification.
type PasswordHasher interface {
	// Hash produces a salted hash string that embeds its own parameters.
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. A malformed hash yields false.
	Verify(password, hash string) bool
}

// BcryptHasher implements PasswordHasher using bcrypt.
// Each hash carries a random salt and its cost, so raising the cost later
// does not invalidate hashes already stored.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the given work factor.
func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

// Hash produces a bcrypt hash of the password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > bcryptMaxPasswordLen {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", oops.Code("AUTH_HASH_FAILED").With("cost", h.cost).Wrap(err)
	}
	return string(hashed), nil
}

// Verify compares the password with the hash in constant time.
// `bcrypt.CompareHashAndPassword` returns an error for both a mismatch and a
// malformed hash; either way the answer is "no".
// bcrypt only reads the first 72 bytes, so a longer input would match any stored
// password sharing that prefix. Hash never accepts such input, so it never matches.
func (h *BcryptHasher) Verify(password, hash string) bool {
	if len(password) > bcryptMaxPasswordLen {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
