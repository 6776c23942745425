package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/illarion/kookie/internal/core"
	"github.com/illarion/kookie/internal/git"
	"github.com/illarion/kookie/internal/keyring"
	"github.com/illarion/kookie/internal/prompt"
	"github.com/illarion/kookie/internal/storage"
	"github.com/illarion/kookie/internal/vaultfile"
)

// PasswordEnv names the environment variable holding the master password.
const PasswordEnv = "KOOKIE_PASSWORD"

// session is an open vault plus its snapshot store, if any.
type session struct {
	vault   *core.Vault
	history *storage.Storage

	// password that unlocked vault, empty while locked
	password string
}

// Close locks the vault and closes the snapshot store.
func (s *session) Close() {
	s.vault.Lock()
	s.password = ""
	if s.history != nil {
		s.history.Close()
	}
}

// open returns a locked vault. Saves are recorded to the snapshot store when
// history is enabled and there is something to record or restore.
func (a *app) open() (*session, error) {
	opts := []core.Option{core.WithLogger(a.log)}

	s := &session{}
	if a.cfg.HistoryEnabled && (exists(a.cfg.VaultPath) || exists(a.cfg.HistoryPath)) {
		if err := os.MkdirAll(filepath.Dir(a.cfg.HistoryPath), vaultfile.DirPermSecure); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		h, err := storage.Open(a.cfg.HistoryPath, a.cfg.HistoryLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		s.history = h
		opts = append(opts, core.WithRecorder(h))
	}

	s.vault = core.New(a.cfg.VaultPath, opts...)
	return s, nil
}

// openHistory opens the snapshot store on its own.
func (a *app) openHistory() (*storage.Storage, error) {
	if !a.cfg.HistoryEnabled {
		return nil, errHistoryDisabled
	}
	if !exists(a.cfg.HistoryPath) {
		return nil, errNoHistory
	}
	return storage.Open(a.cfg.HistoryPath, a.cfg.HistoryLimit)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// masterPassword returns the password from the environment, the keyring or
// a prompt, in that order. fromKeyring reports which source was used.
func (a *app) masterPassword(vaultPath string) (password string, fromKeyring bool, err error) {
	if pw := os.Getenv(PasswordEnv); pw != "" {
		return pw, false, nil
	}
	if pw, err := keyring.GetPassword(vaultPath); err == nil {
		return pw, true, nil
	}
	pw, err := a.prompt.Password("Master password:")
	return pw, false, err
}

// unlock opens v with the master password and returns the password used.
// A stale keyring entry is removed and the user is asked instead.
func (a *app) unlock(v *core.Vault) (string, error) {
	if !v.Exists() {
		return "", core.ErrNotInitialized
	}

	pw, fromKeyring, err := a.masterPassword(v.Path())
	if err != nil {
		return "", err
	}

	err = v.Unlock(pw)
	if err == nil {
		return pw, nil
	}
	if !fromKeyring || !errors.Is(err, core.ErrWrongPassword) {
		return "", err
	}

	a.log.Warn("keyring password rejected, removing it", "vault", v.Path())
	_ = keyring.DeletePassword(v.Path())
	Warning(a.errOut, "Stored keyring password is out of date and was removed")

	pw, err = a.prompt.Password("Master password:")
	if err != nil {
		return "", err
	}
	if err := v.Unlock(pw); err != nil {
		return "", err
	}
	return pw, nil
}

// unlocked opens the vault and unlocks it. The caller must Close the session.
func (a *app) unlocked() (*session, error) {
	s, err := a.open()
	if err != nil {
		return nil, err
	}
	if s.password, err = a.unlock(s.vault); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// warnGitExposure prints a warning for each vault file git could commit.
func (a *app) warnGitExposure() {
	paths := []string{a.cfg.VaultPath}
	if a.cfg.HistoryEnabled {
		paths = append(paths, a.cfg.HistoryPath)
	}
	for _, w := range git.Warnings(git.Check(paths...)) {
		Warning(a.out, "%s", w)
	}
}

// confirm asks a yes/no question unless yes is already set.
func (a *app) confirm(question string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	ok, err := a.prompt.Confirm(question, false)
	if err != nil {
		return false, err
	}
	if !ok {
		Info(a.out, "Aborted.")
	}
	return ok, nil
}

var (
	errHistoryDisabled = errors.New("snapshot history is disabled")
	errNoHistory       = errors.New("no snapshot history yet")
)

// errorMessages maps an error to the lines shown to the user.
func errorMessages(err error) []string {
	switch {
	case errors.Is(err, core.ErrNotInitialized):
		return []string{"Vault not initialized. Run 'kookie init' first."}
	case errors.Is(err, core.ErrAlreadyExists):
		return []string{"Vault already exists. Use --force to reinitialize."}
	case errors.Is(err, core.ErrWrongPassword):
		return []string{"Wrong master password"}
	case errors.Is(err, prompt.ErrNoInput):
		return []string{"No input available", "Set " + PasswordEnv + " for non-interactive use"}
	case errors.Is(err, storage.ErrSnapshotNotFound):
		return []string{err.Error(), "Use 'kookie history list' to see snapshots"}
	case errors.Is(err, errNoHistory):
		return []string{err.Error(), "Snapshots are taken each time the vault is saved"}
	default:
		return []string{err.Error()}
	}
}

// HandleError prints err for the user and exits with status 1.
func HandleError(err error) {
	handleError(os.Stderr, err)
	os.Exit(1)
}

func handleError(w io.Writer, err error) {
	lines := errorMessages(err)
	Error(w, "%s", lines[0])
	for _, l := range lines[1:] {
		fmt.Fprintln(w, "  "+l)
	}
}
