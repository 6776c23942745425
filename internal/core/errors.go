package core

import "errors"

var (
	ErrNotInitialized = errors.New("vault not initialized")
	ErrAlreadyExists  = errors.New("vault already exists")
	// ErrWrongPassword covers a wrong master password, any ciphertext
	// authentication failure and writes attempted while locked.
	ErrWrongPassword  = errors.New("wrong master password")
	ErrSecretNotFound = errors.New("secret not found")
	ErrDuplicateName  = errors.New("duplicate secret name")
	ErrIO             = errors.New("io error")
	ErrSerialization  = errors.New("serialization error")
	ErrEncryption     = errors.New("encryption error")
	ErrKDF            = errors.New("key derivation error")
)
