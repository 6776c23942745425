package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/illarion/kookie/internal/crypto"
	"github.com/illarion/kookie/internal/secrets"
	"github.com/illarion/kookie/internal/vaultfile"
)

// Recorder keeps envelopes that a save is about to replace.
type Recorder interface {
	Record(envelope []byte) error
}

// Vault is an encrypted secret store backed by a single file.
//
// A Vault is Uninitialized while no file exists at its path, Locked while it
// holds no key and Unlocked after Init or Unlock. It is not safe for
// concurrent use.
type Vault struct {
	path      string
	data      secrets.Collection
	key       *crypto.Key
	salt      string
	createdAt time.Time

	params   crypto.Params
	recorder Recorder
	log      *slog.Logger
	now      func() time.Time
}

// Option configures a Vault.
type Option func(*Vault)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(v *Vault) { v.log = l }
}

// WithKDFParams overrides the Argon2id cost. A vault must be unlocked with
// the parameters it was created with.
func WithKDFParams(p crypto.Params) Option {
	return func(v *Vault) { v.params = p }
}

// WithRecorder keeps every envelope replaced by a save.
func WithRecorder(r Recorder) Option {
	return func(v *Vault) { v.recorder = r }
}

// WithClock sets the time source for file timestamps.
func WithClock(now func() time.Time) Option {
	return func(v *Vault) { v.now = now }
}

// New creates a locked vault handle for the file at path.
func New(path string, opts ...Option) *Vault {
	v := &Vault{
		path:   path,
		data:   secrets.NewCollection(),
		params: crypto.DefaultParams,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Path returns the vault file path
func (v *Vault) Path() string {
	return v.path
}

// Exists checks if the vault file exists
func (v *Vault) Exists() bool {
	_, err := os.Stat(v.path)
	return err == nil
}

// IsUnlocked reports whether a key is held
func (v *Vault) IsUnlocked() bool {
	return !v.key.Destroyed()
}

// Init creates a new vault. It fails with ErrAlreadyExists if the file exists.
func (v *Vault) Init(masterPassword string) error {
	if v.Exists() {
		return ErrAlreadyExists
	}
	return v.InitForce(masterPassword)
}

// InitForce creates a new vault, overwriting any existing file. The previous
// salt and ciphertext are replaced, so the old secrets become unrecoverable
// unless a recorder kept them.
func (v *Vault) InitForce(masterPassword string) error {
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKDF, err)
	}

	key, err := crypto.DeriveKey(masterPassword, salt, v.params)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKDF, err)
	}

	data := secrets.NewCollection()
	created := v.now().UTC()
	if err := v.persist(key, salt, created, data); err != nil {
		key.Destroy()
		return err
	}

	v.setSession(key, salt, created, data)
	v.log.Debug("vault initialized", "path", v.path)
	return nil
}

// Unlock loads the vault file and decrypts it with a key derived from the
// master password. Any decryption failure is reported as ErrWrongPassword.
func (v *Vault) Unlock(masterPassword string) error {
	file, err := v.readFile()
	if err != nil {
		return err
	}

	key, data, err := v.open(file, masterPassword)
	if err != nil {
		return err
	}

	v.setSession(key, file.Salt, file.CreatedAt, data)
	v.log.Debug("vault unlocked", "path", v.path, "entries", data.Len())
	return nil
}

// Lock wipes the key from memory and drops the decrypted secrets.
func (v *Vault) Lock() {
	v.key.Destroy()
	v.key = nil
	v.data = secrets.NewCollection()
	v.log.Debug("vault locked", "path", v.path)
}

// Save encrypts the current secrets and atomically replaces the vault file.
func (v *Vault) Save() error {
	if !v.IsUnlocked() {
		return ErrWrongPassword
	}
	return v.persist(v.key, v.salt, v.createdAt, v.data)
}

// Secrets returns a copy of the decrypted secrets.
func (v *Vault) Secrets() secrets.Collection {
	return v.data.Clone()
}

func (v *Vault) setSession(key *crypto.Key, salt string, created time.Time, data secrets.Collection) {
	if v.key != key {
		v.key.Destroy()
	}
	v.key = key
	v.salt = salt
	v.createdAt = created
	v.data = data
}

func (v *Vault) readFile() (*vaultfile.File, error) {
	file, err := vaultfile.Read(v.path)
	switch {
	case err == nil:
		return file, nil
	case errors.Is(err, os.ErrNotExist):
		return nil, ErrNotInitialized
	case errors.Is(err, vaultfile.ErrMalformed), errors.Is(err, vaultfile.ErrUnsupportedVersion):
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
}

func parseEnvelope(raw []byte) (*vaultfile.File, error) {
	file, err := vaultfile.Unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return file, nil
}

// open derives the key for file and decrypts its secrets. The caller owns
// the returned key.
func (v *Vault) open(file *vaultfile.File, masterPassword string) (*crypto.Key, secrets.Collection, error) {
	key, err := crypto.DeriveKey(masterPassword, file.Salt, v.params)
	if err != nil {
		return nil, secrets.Collection{}, fmt.Errorf("%w: %w", ErrKDF, err)
	}

	plaintext, err := crypto.Decrypt(key, file.EncryptedData)
	if err != nil {
		key.Destroy()
		return nil, secrets.Collection{}, ErrWrongPassword
	}
	defer crypto.ClearBytes(plaintext)

	var data secrets.Collection
	if err := json.Unmarshal(plaintext, &data); err != nil {
		key.Destroy()
		return nil, secrets.Collection{}, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	data.Normalize()

	return key, data, nil
}

// persist writes data encrypted under key to the vault file. The current
// file, if any, is handed to the recorder first.
func (v *Vault) persist(key *crypto.Key, salt string, created time.Time, data secrets.Collection) error {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	defer crypto.ClearBytes(plaintext)

	token, err := crypto.Encrypt(key, plaintext)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncryption, err)
	}

	v.recordCurrent()
	if err := vaultfile.Write(v.path, vaultfile.New(salt, token, created, v.now())); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	v.log.Debug("vault saved", "path", v.path)
	return nil
}

// replace records the current file and atomically writes envelope.
func (v *Vault) replace(envelope []byte) error {
	v.recordCurrent()

	if err := vaultfile.WriteAtomic(v.path, envelope); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	v.log.Debug("vault saved", "path", v.path, "bytes", len(envelope))
	return nil
}

func (v *Vault) recordCurrent() {
	if v.recorder == nil {
		return
	}
	previous, err := os.ReadFile(v.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			v.log.Warn("failed to read vault for snapshot", "path", v.path, "error", err)
		}
		return
	}
	if err := v.recorder.Record(previous); err != nil {
		v.log.Warn("failed to record snapshot", "path", v.path, "error", err)
	}
}
