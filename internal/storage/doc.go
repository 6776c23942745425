// Package storage provides the BBolt snapshot history for kookie vaults.
//
// Database structure uses two buckets:
//   - config: format version and creation time
//   - snapshots: previous vault envelopes keyed by capture time
//
// Snapshots are the encrypted envelopes exactly as they were on disk, so the
// history file never holds plaintext secrets. Restoring a snapshot still
// requires the master password that was valid when it was taken.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
