package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPIN returns the bcrypt hash of a plaintext PIN, suitable for storing
// in configuration.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hash), nil
}

// VerifyPIN reports whether the plaintext PIN matches the stored hash.
func VerifyPIN(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
