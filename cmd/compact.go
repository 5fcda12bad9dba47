package cmd

import (
	"fmt"
	"os"
)

// Compact compacts the vault database to reclaim unused space
func Compact() {
	store := openStore()

	// Get file size before
	info, err := os.Stat(store.Path())
	if err != nil {
		HandleError(err)
	}
	sizeBefore := info.Size()

	if err := store.Compact(); err != nil {
		HandleError(err)
	}

	// Get file size after
	info, err = os.Stat(store.Path())
	if err != nil {
		HandleError(err)
	}
	sizeAfter := info.Size()

	fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(sizeAfter))
}
