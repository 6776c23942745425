// Package generate produces random keys, API keys and passwords.
package generate

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	"github.com/illarion/kookie/internal/crypto"
)

const (
	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
	symbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// APIKeyPrefix marks keys made by APIKey.
	APIKeyPrefix = "kk_"

	// DefaultPasswordLength is used by the CLI when no length is given.
	DefaultPasswordLength = 20
)

// ErrInvalidLength is returned for non-positive lengths.
var ErrInvalidLength = errors.New("length must be positive")

// RandomKey returns n random bytes as unpadded URL-safe base64.
func RandomKey(n int) (string, error) {
	if n <= 0 {
		return "", ErrInvalidLength
	}
	b, err := crypto.GenerateRandom(n)
	if err != nil {
		return "", err
	}
	defer crypto.ClearBytes(b)
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// JWTSecret returns a 256-bit key suitable for HMAC signing.
func JWTSecret() (string, error) {
	return RandomKey(32)
}

// APIKey returns APIKeyPrefix followed by 24 random bytes.
func APIKey() (string, error) {
	k, err := RandomKey(24)
	if err != nil {
		return "", err
	}
	return APIKeyPrefix + k, nil
}

// Password returns length characters chosen uniformly from letters and
// digits, plus symbols when withSymbols is set.
func Password(length int, withSymbols bool) (string, error) {
	if length <= 0 {
		return "", ErrInvalidLength
	}
	charset := letters + digits
	if withSymbols {
		charset += symbols
	}

	size := big.NewInt(int64(len(charset)))
	out := make([]byte, length)
	for i := range out {
		// rand.Int rejects out-of-range samples, so there is no modulo bias
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}
