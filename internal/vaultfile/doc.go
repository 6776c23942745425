// Package vaultfile reads and writes the on-disk vault envelope.
//
// The envelope is a JSON object with five required fields:
//   - version: format version, currently 1
//   - salt: base64 Argon2id salt (unencrypted)
//   - encrypted_data: AES-256-GCM token holding the secret collection
//   - created_at, modified_at: RFC 3339 timestamps in UTC
//
// Writes replace the file atomically through a temporary file and rename,
// so a crash mid-write never leaves a half-written envelope behind.
package vaultfile
