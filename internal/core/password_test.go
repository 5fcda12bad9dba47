package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		answer string
		def    bool
		want   bool
	}{
		{"", true, true},
		{"", false, false},
		{"n", true, false},
		{"No", true, false},
		{"sure", true, true},
		{"y", true, true},
		{"y", false, true},
		{"YES", false, true},
		{"sure", false, false},
		{"n", false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseAnswer(tt.answer, tt.def), "answer %q, default %v", tt.answer, tt.def)
	}
}

func TestGetPasswordFromEnv(t *testing.T) {
	t.Setenv(PasswordEnvVar, "")
	assert.Nil(t, GetPasswordFromEnv())

	t.Setenv(PasswordEnvVar, "correct-horse")
	assert.Equal(t, []byte("correct-horse"), GetPasswordFromEnv())
}
