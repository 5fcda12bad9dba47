package crypto

import "encoding/binary"

// NonceSequence hands out counter nonces for a single seal or open.
// Nonce n holds n little-endian in its low-order bytes; the rest is zero.
type NonceSequence struct {
	counter   uint64
	exhausted bool
}

// NewNonceSequence returns a sequence whose first nonce is zero
func NewNonceSequence() *NonceSequence {
	return &NonceSequence{}
}

// Next returns the next nonce and advances the counter
func (s *NonceSequence) Next() ([]byte, error) {
	if s.exhausted {
		return nil, ErrNonceExhausted
	}
	nonce := make([]byte, NonceSize)
	binary.LittleEndian.PutUint64(nonce, s.counter)
	s.counter++
	if s.counter == 0 {
		s.exhausted = true
	}
	return nonce, nil
}
