package cmd

import (
	"fmt"

	"github.com/illarion/pw/internal/core"
)

// Delete removes an entry after confirmation. An empty name is prompted for.
func Delete(name string, force bool) {
	store := openStore()

	for name == "" {
		var err error
		if name, err = core.ReadLine("Entry name (or shortened): "); err != nil {
			HandleError(err)
		}
		if name == "" {
			fmt.Println("Name can't be empty.")
		}
	}

	entry, err := store.Find(name)
	if err != nil {
		HandleError(err)
	}

	if !force {
		fmt.Println(entry)
		ok, err := core.Confirm("Delete this entry? [y/N]: ", false)
		if err != nil {
			HandleError(err)
		}
		if !ok {
			return
		}
	}

	if _, err := store.Delete(entry.Long); err != nil {
		HandleError(err)
	}
	fmt.Println("Success! Removed entry.")
}
