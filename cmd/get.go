package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/pw/internal/clipboard"
	"github.com/illarion/pw/internal/crypto"
)

// Get opens the named entry and copies its password to the clipboard,
// or prints it when show is set
func Get(name string, show bool) {
	store := openStore()

	entry, err := store.Find(name)
	if err != nil {
		HandleError(err)
	}

	vaultID, _ := store.GetVaultID()

	var secret []byte
	master, source, err := GetPasswordWithRetry("Master key: ", vaultID, func(p []byte) error {
		s, err := store.Get(entry.Long, p)
		if err == nil {
			secret = s
		}
		return err
	})
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(master)
	defer crypto.ClearBytes(secret)

	if show {
		os.Stdout.Write(secret)
		fmt.Println()
	} else if err := clipboard.Copy(secret); err != nil {
		if errors.Is(err, clipboard.ErrUnavailable) {
			fmt.Fprintln(os.Stderr, "Error: no clipboard tool found (install xclip, xsel or wl-copy, or use -p)")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		crypto.ClearBytes(secret)
		crypto.ClearBytes(master)
		os.Exit(1)
	} else {
		fmt.Println("Success! Password copied to clipboard.")
	}

	if source == SourcePrompt {
		if vaultID, err := store.GetOrCreateVaultID(); err == nil {
			OfferToSavePassword(vaultID, master)
		}
	}
}
