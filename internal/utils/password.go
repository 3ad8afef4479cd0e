package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost for stored credentials. Interactive logins only, so the
// library default is enough.
const passwordHashCost = bcrypt.DefaultCost

// HashPassword derives the stored bcrypt hash for a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext password matches the stored
// bcrypt hash. Any bcrypt error reads as a mismatch.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
