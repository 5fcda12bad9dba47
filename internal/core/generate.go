package core

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// Character sets offered when generating a password
const (
	CharsetLower  = "abcdefghijklmnopqrstuvwxyz"
	CharsetUpper  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	CharsetDigit  = "0123456789"
	CharsetSymbol = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

	DefaultCharset        = CharsetLower + CharsetUpper + CharsetDigit + CharsetSymbol
	DefaultPasswordLength = 32
)

var (
	ErrEmptyCharset  = errors.New("character set is empty")
	ErrInvalidLength = errors.New("password length must be positive")
)

// GeneratePassword draws length characters uniformly from charset
func GeneratePassword(length int, charset string) ([]byte, error) {
	if length <= 0 {
		return nil, ErrInvalidLength
	}
	chars := []rune(charset)
	if len(chars) == 0 {
		return nil, ErrEmptyCharset
	}

	max := big.NewInt(int64(len(chars)))
	out := make([]rune, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return nil, err
		}
		out[i] = chars[n.Int64()]
	}
	return []byte(string(out)), nil
}

// BuildCharset joins the selected standard sets and any extra characters,
// dropping duplicates so every character is equally likely
func BuildCharset(lower, upper, digit, symbol bool, extra string) string {
	var sets []string
	if lower {
		sets = append(sets, CharsetLower)
	}
	if upper {
		sets = append(sets, CharsetUpper)
	}
	if digit {
		sets = append(sets, CharsetDigit)
	}
	if symbol {
		sets = append(sets, CharsetSymbol)
	}
	sets = append(sets, extra)

	seen := make(map[rune]bool)
	var out []rune
	for _, set := range sets {
		for _, r := range set {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return string(out)
}
