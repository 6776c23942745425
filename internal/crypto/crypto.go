package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	NonceSize = 12 // GCM nonce size
	TagSize   = 16 // GCM authentication tag size
)

var (
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrKeyDestroyed      = errors.New("key destroyed")
)

// tokenEncoding rejects non-canonical encodings so that every change to a
// token changes the decoded bytes.
var tokenEncoding = base64.StdEncoding.Strict()

func newGCM(key *Key) (cipher.AEAD, error) {
	if key.Destroyed() {
		return nil, ErrKeyDestroyed
	}

	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt encrypts plaintext using AES-256-GCM and returns a text token
// carrying the nonce, ciphertext and tag.
func Encrypt(key *Key, plaintext []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends ciphertext and tag after the nonce
	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return tokenEncoding.EncodeToString(sealed), nil
}

// Decrypt decodes a token produced by Encrypt and verifies its tag.
func Decrypt(key *Key, token string) ([]byte, error) {
	sealed, err := tokenEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidCiphertext
	}
	if len(sealed) < NonceSize+TagSize {
		return nil, ErrInvalidCiphertext
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, sealed[:NonceSize], sealed[NonceSize:], nil)
	if err != nil {
		return nil, ErrAuthFailed
	}

	return plaintext, nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
