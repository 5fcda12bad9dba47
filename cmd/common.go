package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/pw/internal/core"
	"github.com/illarion/pw/internal/crypto"
	"github.com/illarion/pw/internal/keyring"
	"github.com/sirupsen/logrus"
)

// maxAttempts bounds how often a passphrase prompt is repeated
const maxAttempts = 3

// PasswordSource tells where a passphrase came from
type PasswordSource int

const (
	SourceEnv PasswordSource = iota
	SourceKeyring
	SourcePrompt
)

// openStore returns the store at $PW_PATH or ~/.pw.vault
func openStore() *core.Store {
	path, err := core.DefaultPath()
	if err != nil {
		HandleError(err)
	}
	return core.New(path)
}

// GetPassword retrieves password from environment or prompts user
// The caller is responsible for calling crypto.ClearBytes on the returned password
func GetPassword(prompt string) ([]byte, error) {
	// Try environment variable first
	password := core.GetPasswordFromEnv()
	if password != nil {
		return password, nil
	}

	password, err := core.ReadPassword(prompt)
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("master key can't be empty")
	}
	return password, nil
}

// GetPasswordWithRetry finds a passphrase that verify accepts. The
// environment is tried first, then the keyring, then the terminal. A stale
// keyring passphrase is removed and the user is prompted instead.
// Wrong passphrases typed at the prompt are retried a few times.
func GetPasswordWithRetry(prompt, vaultID string, verify func([]byte) error) ([]byte, PasswordSource, error) {
	if password := core.GetPasswordFromEnv(); password != nil {
		if err := verify(password); err != nil {
			crypto.ClearBytes(password)
			return nil, SourceEnv, err
		}
		return password, SourceEnv, nil
	}

	if vaultID != "" {
		if password, err := keyring.GetPassword(vaultID); err == nil {
			err = verify(password)
			if err == nil {
				return password, SourceKeyring, nil
			}
			crypto.ClearBytes(password)
			if !errors.Is(err, core.ErrAuthentication) {
				return nil, SourceKeyring, err
			}
			fmt.Fprintln(os.Stderr, "Stored keyring password is incorrect, removing it")
			if err := keyring.DeletePassword(vaultID); err != nil {
				logrus.WithError(err).Debug("keyring delete failed")
			}
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		password, err := core.ReadPassword(prompt)
		if err != nil {
			return nil, SourcePrompt, err
		}
		if len(password) == 0 {
			fmt.Println("Master key can't be empty.")
			continue
		}
		lastErr = verify(password)
		if lastErr == nil {
			return password, SourcePrompt, nil
		}
		crypto.ClearBytes(password)
		if !errors.Is(lastErr, core.ErrAuthentication) {
			return nil, SourcePrompt, lastErr
		}
		fmt.Println("Either master key was incorrect or entry is tampered.")
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("master key can't be empty")
	}
	return nil, SourcePrompt, lastErr
}

// GetNewPassword returns the passphrase for sealing a new entry: the
// environment, a cached keyring passphrase, or a confirmed prompt.
func GetNewPassword(prompt, vaultID string) ([]byte, PasswordSource, error) {
	if password := core.GetPasswordFromEnv(); password != nil {
		return password, SourceEnv, nil
	}
	if vaultID != "" {
		if password, err := keyring.GetPassword(vaultID); err == nil {
			return password, SourceKeyring, nil
		}
	}
	password, err := ReadNewPassword(prompt)
	return password, SourcePrompt, err
}

// ReadNewPassword prompts twice until both entries match
func ReadNewPassword(prompt string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		password, err := core.ReadPasswordConfirm(prompt)
		if err == nil {
			return password, nil
		}
		lastErr = err
		fmt.Printf("%s.\n", capitalize(err.Error()))
	}
	return nil, lastErr
}

// OfferToSavePassword asks to cache a manually entered passphrase
func OfferToSavePassword(vaultID string, password []byte) {
	if keyring.HasPassword(vaultID) {
		return
	}
	ok, err := core.Confirm("Save master key to keyring? [y/N] ", false)
	if err != nil || !ok {
		return
	}
	if err := keyring.SavePassword(vaultID, password); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save to keyring: %s\n", err)
		return
	}
	fmt.Println("Master key saved to keyring")
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, core.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: vault not initialized\n")
		fmt.Fprintf(os.Stderr, "Run 'pw init' first\n")
	case errors.Is(err, core.ErrAlreadyExists):
		fmt.Fprintf(os.Stderr, "Error: vault already exists\n")
		fmt.Fprintf(os.Stderr, "Use 'pw status' to see current state\n")
	case errors.Is(err, core.ErrAuthentication):
		fmt.Fprintf(os.Stderr, "Error: %s\n", core.ErrAuthentication)
	case errors.Is(err, core.ErrEntryNotFound):
		fmt.Fprintf(os.Stderr, "No entry found.\n")
	case errors.Is(err, core.ErrNameInUse):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	case errors.Is(err, core.ErrImportConflict):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use --keep-local or --use-incoming to resolve conflicts\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
