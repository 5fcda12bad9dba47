// Package crypto provides the per-entry cryptographic primitives for pw.
//
// Encryption uses ChaCha20-Poly1305 with:
//   - 32-byte key derived from the master passphrase and the entry salt
//   - 12-byte counter nonce, starting at zero for every seal and open
//   - 16-byte authentication tag appended to the ciphertext
//   - associated data binding the entry's visible labels
//
// Key derivation uses Argon2id with:
//   - 16-byte random salt per entry (stored unencrypted)
//   - time, memory and thread parameters configured per vault
//
// A counter nonce is only safe because every key is unique to one entry
// and every entry is sealed once. Callers must never seal twice with the
// same salt.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
package crypto
