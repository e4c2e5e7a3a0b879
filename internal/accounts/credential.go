package accounts

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns credentials into stored values and verifies them.
type Hasher interface {
	Hash(credential string) (string, error)
	Verify(stored, credential string) bool
}

// BcryptHasher hashes credentials with bcrypt.
type BcryptHasher struct {
	Cost int
}

// Hash implements Hasher.
func (h BcryptHasher) Hash(credential string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("credential too long: %w", err)
		}
		return "", fmt.Errorf("failed to hash credential: %w", err)
	}
	return string(hashed), nil
}

// Verify implements Hasher.
func (h BcryptHasher) Verify(stored, credential string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(credential)) == nil
}
