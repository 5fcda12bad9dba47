package cmd

import (
	"fmt"

	"github.com/illarion/pw/internal/core"
	"github.com/illarion/pw/internal/crypto"
)

// EditOptions selects what Edit changes. Labels set to nil are taken from
// the editor when no label flag was given at all.
type EditOptions struct {
	Long, Short, Extra *string
	NewSecret          bool // prompt for a new password
	Generate           bool // generate a new password
	Yes                bool // apply without confirmation
}

// Edit relabels an entry and/or replaces its password. The entry is always
// resealed with a fresh salt.
func Edit(name string, opts EditOptions) {
	store := openStore()

	entry, err := store.Find(name)
	if err != nil {
		HandleError(err)
	}

	before := core.Labels{Long: entry.Long, Short: entry.Short, Extra: entry.Extra}
	after := before
	switch {
	case opts.Long != nil || opts.Short != nil || opts.Extra != nil:
		if opts.Long != nil {
			after.Long = *opts.Long
		}
		if opts.Short != nil {
			after.Short = *opts.Short
		}
		if opts.Extra != nil {
			after.Extra = *opts.Extra
		}
	case !opts.NewSecret && !opts.Generate:
		if after, err = core.EditLabels(before); err != nil {
			HandleError(err)
		}
	}

	updated := &core.Entry{Long: after.Long, Short: after.Short, Extra: after.Extra}
	diff := core.DescribeChange(entry.Long, entry.String(), updated.String())
	if diff == "" && !opts.NewSecret && !opts.Generate {
		fmt.Println("No changes.")
		return
	}

	req := core.EditRequest{Long: &after.Long, Short: &after.Short, Extra: &after.Extra}
	switch {
	case opts.Generate:
		if req.Secret, err = core.GeneratePassword(core.DefaultPasswordLength, core.DefaultCharset); err != nil {
			HandleError(err)
		}
	case opts.NewSecret:
		if req.Secret, err = ReadNewPassword("New password: "); err != nil {
			HandleError(err)
		}
	}

	if diff != "" {
		fmt.Print(diff)
	}
	if req.Secret != nil {
		fmt.Println("password: will be replaced")
	}
	if !opts.Yes {
		ok, err := core.Confirm("Apply changes? [Y/n] ", true)
		if err != nil {
			HandleError(err)
		}
		if !ok {
			crypto.ClearBytes(req.Secret)
			return
		}
	}

	vaultID, _ := store.GetVaultID()
	master, _, err := GetPasswordWithRetry("Master key: ", vaultID, func(p []byte) error {
		return store.VerifyPassword(entry.Long, p)
	})
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(master)

	if _, _, err := store.Edit(entry.Long, master, req); err != nil {
		HandleError(err)
	}
	fmt.Println("Success! Updated entry.")
}
