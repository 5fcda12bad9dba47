// Package storage provides the BBolt database interface for pw.
//
// Database structure uses two buckets:
//   - config: vault version, timestamps, Argon2 parameters, vault ID
//   - entries: one record per secret, keyed by its long name
//
// Entry records are the JSON form of a sealed entry. Labels and salt are
// stored in the clear so that listing works without a passphrase; the
// secret itself is only present as ciphertext.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
