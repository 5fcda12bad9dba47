package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/illarion/pw/internal/crypto"
)

var ErrDraftConsumed = errors.New("draft already sealed")

// Entry is a sealed secret with its public labels
type Entry struct {
	Long   string     `json:"long"`
	Short  string     `json:"short"`
	Extra  string     `json:"extra"`
	Salt   Salt       `json:"salt"`
	Sealed Ciphertext `json:"sealed"`
}

// String renders the entry as a listing line
func (e *Entry) String() string {
	switch {
	case e.Short == "" && e.Extra == "":
		return fmt.Sprintf("- %s", e.Long)
	case e.Short == "":
		return fmt.Sprintf("- %s: %s", e.Long, e.Extra)
	case e.Extra == "":
		return fmt.Sprintf("- %s (%s)", e.Long, e.Short)
	default:
		return fmt.Sprintf("- %s (%s): %s", e.Long, e.Short, e.Extra)
	}
}

// Matches reports whether name is the entry's long or short name
func (e *Entry) Matches(name string) bool {
	return name != "" && (name == e.Long || name == e.Short)
}

// Salt is the per-entry Argon2 salt. It is encoded in JSON as an array of
// exactly SaltSize byte values.
type Salt [crypto.SaltSize]byte

func (s Salt) MarshalJSON() ([]byte, error) {
	return marshalBytes(s[:]), nil
}

func (s *Salt) UnmarshalJSON(data []byte) error {
	b, err := unmarshalBytes("salt", data)
	if err != nil {
		return err
	}
	if len(b) != crypto.SaltSize {
		return fmt.Errorf("salt must be %d bytes, got %d", crypto.SaltSize, len(b))
	}
	copy(s[:], b)
	return nil
}

// Ciphertext holds ciphertext followed by the authentication tag.
// It is encoded in JSON as an array of byte values.
type Ciphertext []byte

func (c Ciphertext) MarshalJSON() ([]byte, error) {
	return marshalBytes(c), nil
}

func (c *Ciphertext) UnmarshalJSON(data []byte) error {
	b, err := unmarshalBytes("sealed", data)
	if err != nil {
		return err
	}
	*c = b
	return nil
}

// marshalBytes renders b as a JSON array of numbers
func marshalBytes(b []byte) []byte {
	buf := make([]byte, 0, 2+4*len(b))
	buf = append(buf, '[')
	for i, v := range b {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendUint(buf, uint64(v), 10)
	}
	return append(buf, ']')
}

func unmarshalBytes(field string, data []byte) ([]byte, error) {
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%s must be an array of bytes: %w", field, err)
	}
	out := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%s byte %d out of range: %d", field, i, v)
		}
		out[i] = byte(v)
	}
	return out, nil
}

// Draft is an unsealed entry. It owns a fresh salt and the plaintext secret,
// and can be sealed only once.
type Draft struct {
	Long  string
	Short string
	Extra string

	salt     Salt
	secret   []byte
	consumed bool
}

// NewDraft prepares a new entry with a random salt.
// The draft takes ownership of secret and zeroes it when sealed.
func NewDraft(long, short, extra string, secret []byte) (*Draft, error) {
	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, err
	}
	return newDraft(long, short, extra, Salt(salt), secret), nil
}

func newDraft(long, short, extra string, salt Salt, secret []byte) *Draft {
	return &Draft{
		Long:   long,
		Short:  short,
		Extra:  extra,
		salt:   salt,
		secret: secret,
	}
}

// Discard zeroes the secret of a draft that will not be sealed
func (d *Draft) Discard() {
	crypto.ClearBytes(d.secret)
	d.secret = nil
	d.consumed = true
}
