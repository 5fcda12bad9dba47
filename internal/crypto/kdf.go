package crypto

import (
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Default Argon2id parameters
const (
	DefaultTime    = 192
	DefaultMemory  = 4096 // KiB
	DefaultThreads = 4
)

// minSaltSize is the shortest salt Argon2 accepts
const minSaltSize = 8

// Params holds the Argon2id cost parameters
type Params struct {
	Time    uint32 `json:"time"`
	Memory  uint32 `json:"memory"` // KiB
	Threads uint8  `json:"threads"`
}

// DefaultParams returns the parameters used when a vault does not specify its own
func DefaultParams() Params {
	return Params{
		Time:    DefaultTime,
		Memory:  DefaultMemory,
		Threads: DefaultThreads,
	}
}

// Validate reports whether Argon2 accepts these parameters
func (p Params) Validate() error {
	switch {
	case p.Time < 1:
		return fmt.Errorf("%w: time must be at least 1", ErrKeyDerivation)
	case p.Threads < 1:
		return fmt.Errorf("%w: threads must be at least 1", ErrKeyDerivation)
	case p.Memory < 8*uint32(p.Threads):
		return fmt.Errorf("%w: memory must be at least %d KiB for %d threads", ErrKeyDerivation, 8*uint32(p.Threads), p.Threads)
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("argon2id t=%d m=%dKiB p=%d", p.Time, p.Memory, p.Threads)
}

// DeriveKey derives a KeySize-byte key from a passphrase and an entry salt.
// The same inputs always produce the same key.
func DeriveKey(passphrase, salt []byte, params Params) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(salt) < minSaltSize {
		return nil, fmt.Errorf("%w: salt must be at least %d bytes", ErrKeyDerivation, minSaltSize)
	}
	return argon2.IDKey(passphrase, salt, params.Time, params.Memory, params.Threads, KeySize), nil
}
