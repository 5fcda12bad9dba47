package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePassword(t *testing.T) {
	pw, err := GeneratePassword(DefaultPasswordLength, DefaultCharset)
	require.NoError(t, err)
	assert.Len(t, []rune(string(pw)), DefaultPasswordLength)
	for _, r := range string(pw) {
		assert.True(t, strings.ContainsRune(DefaultCharset, r), "unexpected character %q", r)
	}
}

func TestGeneratePasswordUnicodeCharset(t *testing.T) {
	pw, err := GeneratePassword(10, "äö")
	require.NoError(t, err)
	assert.Len(t, []rune(string(pw)), 10)
}

func TestGeneratePasswordErrors(t *testing.T) {
	_, err := GeneratePassword(0, DefaultCharset)
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = GeneratePassword(8, "")
	assert.ErrorIs(t, err, ErrEmptyCharset)
}

func TestBuildCharset(t *testing.T) {
	assert.Equal(t, DefaultCharset, BuildCharset(true, true, true, true, ""))
	assert.Equal(t, CharsetDigit, BuildCharset(false, false, true, false, ""))
	assert.Equal(t, "0123456789_", BuildCharset(false, false, true, false, "_1"))
	assert.Equal(t, "", BuildCharset(false, false, false, false, ""))
}
