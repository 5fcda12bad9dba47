// Package keyring caches the master passphrase of a vault in the OS keyring.
// Entries are keyed by the vault ID so several vaults can coexist.
package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "pw"

// ErrNotFound is returned when no passphrase is cached for a vault
var ErrNotFound = keyring.ErrNotFound

// SavePassword stores a passphrase in the OS keyring
func SavePassword(vaultID string, password []byte) error {
	return keyring.Set(serviceName, vaultID, string(password))
}

// GetPassword retrieves a passphrase from the OS keyring
func GetPassword(vaultID string) ([]byte, error) {
	password, err := keyring.Get(serviceName, vaultID)
	if err != nil {
		return nil, err
	}
	return []byte(password), nil
}

// DeletePassword removes a passphrase from the OS keyring.
// Deleting a missing entry is not an error.
func DeletePassword(vaultID string) error {
	err := keyring.Delete(serviceName, vaultID)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// HasPassword checks if a passphrase is stored in the keyring
func HasPassword(vaultID string) bool {
	_, err := keyring.Get(serviceName, vaultID)
	return err == nil
}
