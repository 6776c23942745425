// Package crypto provides cryptographic operations for kookie.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from the master password via Argon2id
//   - 12-byte random nonce per encryption operation
//   - Tokens encoded as base64(nonce || ciphertext || tag)
//
// Key derivation uses Argon2id with:
//   - 32-byte random salt, base64 encoded and stored unencrypted
//   - 3 passes over 64 MiB with 4 lanes by default
//
// Memory safety:
//   - Keys live in a Key value; call Key.Destroy() when the session ends
//   - Use ClearBytes() to zero passwords and plaintext after use
package crypto
