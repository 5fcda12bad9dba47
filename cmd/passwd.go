package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/pw/internal/crypto"
	"github.com/illarion/pw/internal/keyring"
)

// Passwd reseals every entry under a new master key
func Passwd(ctx context.Context) {
	store := openStore()

	entries, err := store.List()
	if err != nil {
		HandleError(err)
	}
	if len(entries) == 0 {
		fmt.Println("No entries to reseal")
		return
	}

	// Get vault ID for keyring lookup
	vaultID, _ := store.GetVaultID()

	// Get current password with retry on stale keyring
	first := entries[0].Long
	currentPassword, _, err := GetPasswordWithRetry("Current master key: ", vaultID, func(p []byte) error {
		return store.VerifyPassword(first, p)
	})
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(currentPassword)

	newPassword, err := ReadNewPassword("New master key: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(newPassword)

	n, err := store.ChangePassword(ctx, currentPassword, newPassword)
	if err != nil {
		HandleError(err)
	}

	// Keep a cached passphrase in step with the vault
	if vaultID != "" && keyring.HasPassword(vaultID) {
		if err := keyring.SavePassword(vaultID, newPassword); err == nil {
			fmt.Println("Keyring updated with new master key")
		}
	}

	// Compact database after rewriting all entries
	if err := store.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}

	fmt.Printf("Master key changed, %d entries resealed\n", n)
}
