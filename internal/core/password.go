package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/illarion/pw/internal/crypto"
	"golang.org/x/term"
)

const PasswordEnvVar = "PW_PASSWORD"

var stdin = bufio.NewReader(os.Stdin)

// ReadPassword reads a password from the terminal without echoing
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)

	// Read password without echo
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after password

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// ReadPasswordConfirm reads a password twice and ensures they match
func ReadPasswordConfirm(prompt string) ([]byte, error) {
	password1, err := ReadPassword(prompt)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password1)

	if len(password1) == 0 {
		return nil, fmt.Errorf("password can't be empty")
	}

	password2, err := ReadPassword("Enter again: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password2)

	if !crypto.ConstantTimeCompare(password1, password2) {
		return nil, fmt.Errorf("passwords do not match")
	}

	// Return a copy of the password
	result := make([]byte, len(password1))
	copy(result, password1)
	return result, nil
}

// GetPasswordFromEnv reads password from PW_PASSWORD environment variable
func GetPasswordFromEnv() []byte {
	password := os.Getenv(PasswordEnvVar)
	if password == "" {
		return nil
	}
	// Return a copy to avoid issues when clearing the bytes
	result := make([]byte, len(password))
	copy(result, []byte(password))
	return result
}

// ReadLine prints prompt and reads one trimmed line from stdin
func ReadLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. An empty answer returns def. Otherwise
// only an explicit opposite answer overrides def: "n"/"no" for a default
// yes, "y"/"yes" for a default no.
func Confirm(prompt string, def bool) (bool, error) {
	answer, err := ReadLine(prompt)
	if err != nil {
		return false, err
	}
	return parseAnswer(answer, def), nil
}

func parseAnswer(answer string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "n", "no":
		return false
	case "y", "yes":
		return true
	default:
		return def
	}
}
