package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/pw/internal/core"
	"github.com/illarion/pw/internal/crypto"
	"github.com/illarion/pw/internal/keyring"
)

// KeyringSave saves the master key to the OS keyring
func KeyringSave() {
	store := openStore()

	entries, err := store.List()
	if err != nil {
		HandleError(err)
	}

	password, err := GetPassword("Master key: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	// Verify against an existing entry; an empty vault has nothing to check
	if len(entries) > 0 {
		if err := store.VerifyPassword(entries[0].Long, password); err != nil {
			HandleError(err)
		}
	}

	// Get vault ID (create if not exists)
	vaultID, err := store.GetOrCreateVaultID()
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassword(vaultID, password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Master key saved to keyring")
}

// KeyringDelete removes the master key from the OS keyring
func KeyringDelete() {
	store := openStore()

	vaultID, err := store.GetVaultID()
	if errors.Is(err, core.ErrNotInitialized) {
		HandleError(err)
	}
	if err != nil || !keyring.HasPassword(vaultID) {
		fmt.Println("No master key stored in keyring")
		return
	}

	if err := keyring.DeletePassword(vaultID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to remove from keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Master key removed from keyring")
}

// KeyringStatus checks if a master key is stored in the keyring
func KeyringStatus() {
	store := openStore()

	vaultID, err := store.GetVaultID()
	if errors.Is(err, core.ErrNotInitialized) {
		HandleError(err)
	}
	if err == nil && keyring.HasPassword(vaultID) {
		fmt.Println("Master key: stored in keyring")
	} else {
		fmt.Println("Master key: not stored")
	}
}
