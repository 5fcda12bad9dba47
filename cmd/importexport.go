package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/illarion/pw/internal/core"
	"github.com/illarion/pw/internal/crypto"
)

// Import reads a JSON entry list from path ("-" for stdin) into the vault.
// When sourceKDF is set, entries are resealed under the vault's parameters.
func Import(ctx context.Context, path string, strategy core.ImportStrategy, sourceKDF *crypto.Params) {
	store := openStore()

	data, err := readInput(path)
	if err != nil {
		HandleError(err)
	}

	// Decode before asking for anything
	incoming, err := core.DecodeEntries(bytes.NewReader(data))
	if err != nil {
		HandleError(err)
	}

	opts := core.ImportOptions{Strategy: strategy}
	if sourceKDF != nil && len(incoming) > 0 {
		if err := sourceKDF.Validate(); err != nil {
			HandleError(err)
		}
		first := incoming[0]
		source := core.NewEngine(*sourceKDF)
		password, _, err := GetPasswordWithRetry("Master key of imported entries: ", "", func(p []byte) error {
			secret, err := source.Open(first, p)
			crypto.ClearBytes(secret)
			return err
		})
		if err != nil {
			HandleError(err)
		}
		defer crypto.ClearBytes(password)
		opts.SourceKDF = sourceKDF
		opts.Passphrase = password
	}

	result, err := store.Import(ctx, bytes.NewReader(data), opts)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("imported: %d entries\n", len(result.Added))
	if len(result.Replaced) > 0 {
		fmt.Printf("replaced: %d entries\n", len(result.Replaced))
	}
	if len(result.Skipped) > 0 {
		fmt.Printf("skipped: %d entries\n", len(result.Skipped))
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Export writes every entry as a JSON list to path, or stdout when empty.
// Entries stay sealed; no password is required.
func Export(path string) {
	store := openStore()

	if path == "" || path == "-" {
		if err := store.Export(os.Stdout); err != nil {
			HandleError(err)
		}
		fmt.Println()
		return
	}

	var buf bytes.Buffer
	if err := store.Export(&buf); err != nil {
		HandleError(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), core.FilePermSecure); err != nil {
		HandleError(fmt.Errorf("failed to write %s: %w", path, err))
	}
	fmt.Printf("exported to %s\n", path)
}
