// Package keyring caches vault master passwords in the OS keyring.
package keyring

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const serviceName = "kookie"

// ErrNotFound is returned when no password is stored for a vault.
var ErrNotFound = keyring.ErrNotFound

// account identifies a vault by its absolute path
func account(vaultPath string) (string, error) {
	abs, err := filepath.Abs(vaultPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve vault path: %w", err)
	}
	return abs, nil
}

// SavePassword stores a password in the OS keyring
func SavePassword(vaultPath, password string) error {
	acct, err := account(vaultPath)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, acct, password)
}

// GetPassword retrieves a password from the OS keyring
func GetPassword(vaultPath string) (string, error) {
	acct, err := account(vaultPath)
	if err != nil {
		return "", err
	}
	return keyring.Get(serviceName, acct)
}

// DeletePassword removes a password from the OS keyring
func DeletePassword(vaultPath string) error {
	acct, err := account(vaultPath)
	if err != nil {
		return err
	}
	return keyring.Delete(serviceName, acct)
}

// HasPassword checks if a password is stored in the keyring
func HasPassword(vaultPath string) bool {
	_, err := GetPassword(vaultPath)
	return err == nil
}

// IsNotFound reports whether err means no password is stored
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
