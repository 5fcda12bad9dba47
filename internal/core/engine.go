package core

import (
	"fmt"

	"github.com/illarion/pw/internal/crypto"
	"github.com/sirupsen/logrus"
)

// Errors reported by Seal and Open
var (
	ErrKeyDerivation  = crypto.ErrKeyDerivation
	ErrSeal           = crypto.ErrSeal
	ErrAuthentication = crypto.ErrAuthentication
	ErrNonceExhausted = crypto.ErrNonceExhausted
)

// Engine seals and opens entries with a fixed set of Argon2 parameters
type Engine struct {
	KDF crypto.Params
}

// NewEngine returns an engine using params for key derivation
func NewEngine(params crypto.Params) Engine {
	return Engine{KDF: params}
}

var defaultEngine = NewEngine(crypto.DefaultParams())

// Seal seals d with the default Argon2 parameters
func Seal(d *Draft, passphrase []byte) (*Entry, error) {
	return defaultEngine.Seal(d, passphrase)
}

// Open opens e with the default Argon2 parameters
func Open(e *Entry, passphrase []byte) ([]byte, error) {
	return defaultEngine.Open(e, passphrase)
}

// Seal encrypts the draft's secret into a new Entry. The draft's secret is
// zeroed and the draft cannot be sealed again, whether or not sealing succeeds.
func (g Engine) Seal(d *Draft, passphrase []byte) (*Entry, error) {
	if d.consumed {
		return nil, ErrDraftConsumed
	}
	defer d.Discard()

	key, err := crypto.DeriveKey(passphrase, d.salt[:], g.KDF)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(key)

	ad := crypto.AssociatedData(d.Long, d.Short, d.Extra)
	sealed, err := crypto.SealBytes(key, crypto.NewNonceSequence(), d.secret, ad)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"entry": d.Long,
		"size":  len(sealed),
	}).Debug("sealed entry")

	return &Entry{
		Long:   d.Long,
		Short:  d.Short,
		Extra:  d.Extra,
		Salt:   d.salt,
		Sealed: Ciphertext(sealed),
	}, nil
}

// Open decrypts the entry's secret. The entry is not modified. Any failure to
// authenticate is reported as ErrAuthentication.
func (g Engine) Open(e *Entry, passphrase []byte) ([]byte, error) {
	key, err := crypto.DeriveKey(passphrase, e.Salt[:], g.KDF)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(key)

	ad := crypto.AssociatedData(e.Long, e.Short, e.Extra)
	plaintext, err := crypto.OpenBytes(key, crypto.NewNonceSequence(), e.Sealed, ad)
	if err != nil {
		logrus.WithField("entry", e.Long).Debug("open rejected")
		return nil, err
	}
	return plaintext, nil
}

// reseal opens e with oldPass and seals its secret into a fresh draft under newPass
func (g Engine) reseal(e *Entry, oldPass, newPass []byte, long, short, extra string) (*Entry, error) {
	secret, err := g.Open(e, oldPass)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Long, err)
	}
	d, err := NewDraft(long, short, extra, secret)
	if err != nil {
		crypto.ClearBytes(secret)
		return nil, err
	}
	return g.Seal(d, newPass)
}
