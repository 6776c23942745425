package crypto

import (
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 32 // Salt size in bytes
	KeySize  = 32 // AES-256 key size
)

var ErrInvalidSalt = errors.New("invalid salt")

// Params are the Argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultParams is the cost used for vaults unless overridden.
var DefaultParams = Params{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 4,
}

// GenerateSalt returns a fresh random salt encoded as base64.
func GenerateSalt() (string, error) {
	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// DeriveKey derives an encryption key from a password and an encoded salt.
// It fails only when the salt cannot be decoded.
func DeriveKey(password, salt string, p Params) (*Key, error) {
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSalt, err)
	}
	if len(rawSalt) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSalt)
	}

	pw := []byte(password)
	defer ClearBytes(pw)

	derived := argon2.IDKey(pw, rawSalt, p.Time, p.Memory, p.Threads, KeySize)
	return NewKey(derived), nil
}
