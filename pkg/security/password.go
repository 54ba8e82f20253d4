package security

import (
	"errors"
	"fmt"

	"github.com/angelmondragon/notewell-backend/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// ErrInvalidHash signals a stored value that is not a bcrypt hash.
var ErrInvalidHash = errors.New("invalid bcrypt hash")

// HashPassword returns a bcrypt hash using the configured cost.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	if len(password) > MaxPasswordBytes {
		return "", bcrypt.ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), costFromConfig(cfg))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the encoded bcrypt hash.
// A malformed hash returns ErrInvalidHash. Inputs longer than MaxPasswordBytes
// never match, since bcrypt would only compare their first 72 bytes.
func VerifyPassword(password, encoded string) (bool, error) {
	if len(password) > MaxPasswordBytes {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case errors.Is(err, bcrypt.ErrHashTooShort):
		return false, ErrInvalidHash
	default:
		var versionErr bcrypt.HashVersionTooNewError
		var prefixErr bcrypt.InvalidHashPrefixError
		if errors.As(err, &versionErr) || errors.As(err, &prefixErr) {
			return false, ErrInvalidHash
		}
		return false, err
	}
}

func costFromConfig(cfg config.PasswordConfig) int {
	switch {
	case cfg.BcryptCost <= 0:
		return bcrypt.DefaultCost + 2
	case cfg.BcryptCost < bcrypt.MinCost:
		return bcrypt.MinCost
	case cfg.BcryptCost > bcrypt.MaxCost:
		return bcrypt.MaxCost
	}
	return cfg.BcryptCost
}
