package vaultfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

const CurrentVersion = 1

var (
	ErrMalformed          = errors.New("malformed vault file")
	ErrUnsupportedVersion = errors.New("unsupported vault file version")
)

// File is the vault envelope.
type File struct {
	Version       int       `json:"version"`
	Salt          string    `json:"salt"`
	EncryptedData string    `json:"encrypted_data"`
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
}

// rawFile mirrors File with pointers so missing fields can be told apart
// from zero values.
type rawFile struct {
	Version       *int       `json:"version"`
	Salt          *string    `json:"salt"`
	EncryptedData *string    `json:"encrypted_data"`
	CreatedAt     *time.Time `json:"created_at"`
	ModifiedAt    *time.Time `json:"modified_at"`
}

// New creates an envelope for the current format version.
func New(salt, encryptedData string, created, modified time.Time) *File {
	return &File{
		Version:       CurrentVersion,
		Salt:          salt,
		EncryptedData: encryptedData,
		CreatedAt:     created.UTC(),
		ModifiedAt:    modified.UTC(),
	}
}

// Marshal encodes the envelope as indented JSON.
func Marshal(f *File) ([]byte, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil envelope", ErrMalformed)
	}
	out := File{
		Version:       f.Version,
		Salt:          f.Salt,
		EncryptedData: f.EncryptedData,
		CreatedAt:     f.CreatedAt.UTC(),
		ModifiedAt:    f.ModifiedAt.UTC(),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vault file: %w", err)
	}
	return append(data, '\n'), nil
}

// Unmarshal parses an envelope. Every field is required and the version
// must be CurrentVersion.
func Unmarshal(data []byte) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrMalformed)
	}

	var raw rawFile
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	// Anything after the object, even a stray bracket, is corruption
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformed)
	}

	if raw.Version == nil {
		return nil, fmt.Errorf("%w: missing version", ErrMalformed)
	}
	if *raw.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, *raw.Version)
	}

	switch {
	case raw.Salt == nil || *raw.Salt == "":
		return nil, fmt.Errorf("%w: missing salt", ErrMalformed)
	case raw.EncryptedData == nil || *raw.EncryptedData == "":
		return nil, fmt.Errorf("%w: missing encrypted_data", ErrMalformed)
	case raw.CreatedAt == nil:
		return nil, fmt.Errorf("%w: missing created_at", ErrMalformed)
	case raw.ModifiedAt == nil:
		return nil, fmt.Errorf("%w: missing modified_at", ErrMalformed)
	}

	return &File{
		Version:       *raw.Version,
		Salt:          *raw.Salt,
		EncryptedData: *raw.EncryptedData,
		CreatedAt:     raw.CreatedAt.UTC(),
		ModifiedAt:    raw.ModifiedAt.UTC(),
	}, nil
}
