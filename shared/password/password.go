package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	Cost = bcrypt.DefaultCost

	MinLength = 8
	// MaxLength is in bytes; bcrypt ignores anything past it.
	MaxLength = 72
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrTooShort        = fmt.Errorf("password must be at least %d characters", MinLength)
	ErrTooLong         = fmt.Errorf("password must be at most %d bytes", MaxLength)
)

// Check applies the staff credential policy without hashing.
func Check(plain string) error {
	switch {
	case len(plain) < MinLength:
		return ErrTooShort
	case len(plain) > MaxLength:
		return ErrTooLong
	default:
		return nil
	}
}

func Hash(plain string) (string, error) {
	if err := Check(plain); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// Verify returns ErrInvalidPassword on any mismatch, including an empty input or hash.
// Other errors mean the stored hash is corrupt.
func Verify(plain, hash string) error {
	if plain == "" || hash == "" {
		return ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidPassword
	}

	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}

	return nil
}

// NeedsRehash reports hashes made with a lower cost than Cost, such as accounts seeded by SQL.
func NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))

	return err == nil && cost < Cost
}
