// Package passwd hashes and verifies passwords with bcrypt.
package passwd

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is reported for passwords over 72 bytes, bcrypt's input
// limit.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// ErrMismatch is reported when a password does not match its hash.
var ErrMismatch = errors.New("password does not match")

// DefaultCost balances safety and login latency.
const DefaultCost = 12

// Hash returns the bcrypt hash of password at DefaultCost.
func Hash(password string) (string, error) {
	return HashWithCost(password, DefaultCost)
}

// HashWithCost returns the bcrypt hash of password at the given cost.
func HashWithCost(password string, cost int) (string, error) {
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify checks password against its bcrypt hash.
func Verify(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
