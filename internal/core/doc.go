// Package core provides the kookie vault engine.
//
// A Vault moves through three states:
//   - Uninitialized: no file exists at the vault path
//   - Locked: the file exists, no key is held
//   - Unlocked: the key is held and the secrets are decrypted in memory
//
// Every mutation is transactional: the new collection is encrypted and
// written first, and only a successful write updates the in-memory state.
// Writes replace the vault file atomically.
//
// Any decryption failure, whether caused by a wrong password or a corrupted
// file, is reported as ErrWrongPassword.
package core
