package util

import (
	"golang.org/x/crypto/bcrypt"
)

// Account passwords are stored as bcrypt hashes.
const passwordHashCost = 12

// HashPassword derives the bcrypt hash stored for an account password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
