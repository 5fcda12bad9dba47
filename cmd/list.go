package cmd

import (
	"fmt"
)

// List prints every entry. No password is required.
// With namesOnly, only the names are printed, one per line.
func List(namesOnly bool) {
	store := openStore()

	entries, err := store.List()
	if err != nil {
		HandleError(err)
	}

	for _, e := range entries {
		if namesOnly {
			fmt.Println(e.Long)
			if e.Short != "" {
				fmt.Println(e.Short)
			}
			continue
		}
		fmt.Println(e)
	}
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
