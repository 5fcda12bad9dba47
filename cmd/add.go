package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/illarion/pw/internal/core"
	"github.com/illarion/pw/internal/crypto"
)

// Add interactively creates a new entry. name, when set, skips the name prompt.
// generate skips the generation questions and uses the default length and charset.
func Add(name string, generate bool) {
	store := openStore()

	// Fail early on a missing vault, before asking anything
	if _, err := store.List(); err != nil {
		HandleError(err)
	}

	long, short, extra, err := promptLabels(store, name)
	if err != nil {
		HandleError(err)
	}

	var secret []byte
	if generate {
		secret, err = core.GeneratePassword(core.DefaultPasswordLength, core.DefaultCharset)
	} else {
		secret, err = promptSecret()
	}
	if err != nil {
		HandleError(err)
	}

	draft, err := core.NewDraft(long, short, extra, secret)
	if err != nil {
		crypto.ClearBytes(secret)
		HandleError(err)
	}
	defer draft.Discard()

	vaultID, _ := store.GetOrCreateVaultID()
	master, source, err := GetNewPassword("Master key: ", vaultID)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(master)

	if _, err := store.Add(draft, master); err != nil {
		HandleError(err)
	}
	fmt.Println("Success! Added entry.")

	if source == SourcePrompt && vaultID != "" {
		OfferToSavePassword(vaultID, master)
	}
}

// promptLabels asks for the entry names until they are usable
func promptLabels(store *core.Store, name string) (long, short, extra string, err error) {
	long = name
	for {
		if long == "" {
			if long, err = core.ReadLine("Entry name: "); err != nil {
				return
			}
		}
		err = store.CheckNames(long, "")
		if err == nil {
			break
		}
		switch {
		case errors.Is(err, core.ErrEmptyName):
			fmt.Println("Entry name can't be empty.")
		case errors.Is(err, core.ErrNameInUse):
			fmt.Println("Name already in use.")
		default:
			return
		}
		long = ""
	}

	for {
		if short, err = core.ReadLine("Shortened name (optional): "); err != nil {
			return
		}
		if short == "" {
			break
		}
		err = store.CheckNames(long, short)
		if err == nil {
			break
		}
		if !errors.Is(err, core.ErrNameInUse) {
			return
		}
		fmt.Println("Name already in use.")
	}

	extra, err = core.ReadLine("Extra information (optional): ")
	return
}

// promptSecret generates a password or reads one from the terminal
func promptSecret() ([]byte, error) {
	generate, err := core.Confirm("Randomly generate password? [Y/n] ", true)
	if err != nil {
		return nil, err
	}
	if !generate {
		for attempt := 0; attempt < maxAttempts; attempt++ {
			secret, err := core.ReadPassword("Password: ")
			if err != nil {
				return nil, err
			}
			confirm, err := core.ReadPassword("Enter again: ")
			if err != nil {
				crypto.ClearBytes(secret)
				return nil, err
			}
			match := crypto.ConstantTimeCompare(secret, confirm)
			crypto.ClearBytes(confirm)
			if match {
				return secret, nil
			}
			crypto.ClearBytes(secret)
			fmt.Println("Passwords don't match.")
		}
		return nil, fmt.Errorf("passwords do not match")
	}

	standard, err := core.Confirm(fmt.Sprintf("Standard length (%d) and charset (lower, upper, digit, symbol)? [Y/n] ", core.DefaultPasswordLength), true)
	if err != nil {
		return nil, err
	}
	if standard {
		return core.GeneratePassword(core.DefaultPasswordLength, core.DefaultCharset)
	}

	var length int
	for {
		answer, err := core.ReadLine("Length: ")
		if err != nil {
			return nil, err
		}
		length, err = strconv.Atoi(answer)
		if err == nil && length > 0 {
			break
		}
		fmt.Println("Invalid length.")
	}

	var include [4]bool
	questions := []string{
		"Include lowercase characters? [Y/n] ",
		"Include uppercase characters? [Y/n] ",
		"Include digits? [Y/n] ",
		"Include symbols? [Y/n] ",
	}
	for i, q := range questions {
		if include[i], err = core.Confirm(q, true); err != nil {
			return nil, err
		}
	}
	additional, err := core.ReadLine("Additional characters (optional): ")
	if err != nil {
		return nil, err
	}

	charset := core.BuildCharset(include[0], include[1], include[2], include[3], additional)
	secret, err := core.GeneratePassword(length, charset)
	if errors.Is(err, core.ErrEmptyCharset) {
		fmt.Fprintln(os.Stderr, "No characters selected.")
	}
	return secret, err
}
