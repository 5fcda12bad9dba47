package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/illarion/pw/internal/core"
	"github.com/illarion/pw/internal/crypto"
)

// Init creates a new vault with the given Argon2 parameters
func Init(params crypto.Params) {
	store := openStore()

	if err := store.Init(params); err != nil {
		HandleError(err)
	}

	fmt.Printf("✓ Initialized %s (%s)\n", store.Path(), params)

	// Point users of the JSON collection at import
	if home, err := os.UserHomeDir(); err == nil {
		legacy := filepath.Join(home, core.LegacyFile)
		if _, err := os.Stat(legacy); err == nil {
			fmt.Printf("Found %s; run 'pw import --legacy %s' to bring its entries over\n", legacy, legacy)
		}
	}
}
