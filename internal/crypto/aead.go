package crypto

import (
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// SealBytes encrypts plaintext under key with the next nonce from nonces.
// The result is ciphertext followed by the tag, len(plaintext)+TagSize bytes.
func SealBytes(key []byte, nonces *NonceSequence, plaintext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeal, err)
	}

	nonce, err := nonces.Next()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeal, err)
	}

	return aead.Seal(make([]byte, 0, len(plaintext)+TagSize), nonce, plaintext, ad), nil
}

// OpenBytes reverses SealBytes. sealed is never modified. Any failure,
// including a malformed key or a short input, is reported as ErrAuthentication.
func OpenBytes(key []byte, nonces *NonceSequence, sealed, ad []byte) ([]byte, error) {
	if len(sealed) < TagSize {
		return nil, ErrAuthentication
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, ErrAuthentication
	}

	nonce, err := nonces.Next()
	if err != nil {
		return nil, ErrAuthentication
	}

	buf := append([]byte(nil), sealed...)
	plaintext, err := aead.Open(buf[:0], nonce, buf, ad)
	if err != nil {
		ClearBytes(buf)
		return nil, ErrAuthentication
	}

	return plaintext, nil
}
