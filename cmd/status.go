package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/illarion/pw/internal/clipboard"
	"github.com/illarion/pw/internal/keyring"
)

// Status shows the vault summary. No password is required.
func Status() {
	store := openStore()

	if _, err := os.Stat(store.Path()); err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No vault found at %s\n", store.Path())
			fmt.Println("Run 'pw init' to create one")
			return
		}
		HandleError(err)
	}

	info, err := store.Status()
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Vault:    %s\n", store.Path())
	fmt.Printf("Format:   v%s\n", info.Version)
	fmt.Printf("Entries:  %d\n", info.Entries)
	fmt.Printf("Size:     %s\n", formatSize(info.Size))
	fmt.Printf("KDF:      %s\n", info.KDF)
	fmt.Println("Cipher:   chacha20-poly1305")
	if !info.Created.IsZero() {
		fmt.Printf("Created:  %s\n", info.Created.Format(time.RFC3339))
	}
	if !info.Modified.IsZero() {
		fmt.Printf("Modified: %s\n", info.Modified.Format(time.RFC3339))
	}

	if clipboard.Available() {
		fmt.Println("Clipboard: available")
	} else {
		fmt.Println("Clipboard: unavailable (use 'pw get -p')")
	}

	if info.VaultID == "" {
		fmt.Println("Keyring:  not stored")
	} else if keyring.HasPassword(info.VaultID) {
		fmt.Println("Keyring:  master key stored")
	} else {
		fmt.Println("Keyring:  not stored")
	}
}
