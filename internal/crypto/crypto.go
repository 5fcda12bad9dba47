package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"runtime"
)

const (
	SaltSize  = 16 // Per-entry salt size in bytes
	KeySize   = 32 // ChaCha20-Poly1305 key size
	NonceSize = 12 // ChaCha20-Poly1305 nonce size
	TagSize   = 16 // Poly1305 authentication tag size
)

var (
	ErrKeyDerivation  = errors.New("key derivation failed")
	ErrSeal           = errors.New("seal failed")
	ErrAuthentication = errors.New("incorrect passphrase or corrupted/tampered entry")
	ErrNonceExhausted = errors.New("nonce sequence exhausted")
)

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// NewSalt returns a fresh random entry salt
func NewSalt() ([SaltSize]byte, error) {
	var salt [SaltSize]byte
	b, err := GenerateRandom(SaltSize)
	if err != nil {
		return salt, fmt.Errorf("failed to generate salt: %w", err)
	}
	copy(salt[:], b)
	return salt, nil
}
