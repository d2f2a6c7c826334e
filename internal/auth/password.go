package auth

import (
	"crypto/rand"
	"encoding/hex"
	stderrors "errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/badreads/badreads/internal/errors"
)

const (
	// MinPasswordLength is the minimum required password length.
	MinPasswordLength = 12
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordLength = 72
)

var (
	ErrPasswordTooShort = errors.Validation("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = errors.Validation("password exceeds maximum length of %d bytes", MaxPasswordLength)
	ErrInvalidPassword  = stderrors.New("invalid password")
)

// HashPassword creates a bcrypt hash of the password.
func HashPassword(password string, cost int) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a password with its hash.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if stderrors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return err
	}
	return nil
}

// GenerateSessionSecret creates a random 32-byte secret for CSRF signing.
func GenerateSessionSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
