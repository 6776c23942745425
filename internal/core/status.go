package core

import (
	"fmt"
	"os"
	"time"
)

// StatusInfo describes a vault file without decrypting it.
type StatusInfo struct {
	Path       string
	Version    int
	Size       int64
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Status reads the unencrypted envelope metadata. No password is needed.
func (v *Vault) Status() (*StatusInfo, error) {
	file, err := v.readFile()
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(v.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	return &StatusInfo{
		Path:       v.path,
		Version:    file.Version,
		Size:       info.Size(),
		CreatedAt:  file.CreatedAt,
		ModifiedAt: file.ModifiedAt,
	}, nil
}
