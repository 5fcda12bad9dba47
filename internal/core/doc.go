// Package core provides the pw entry model and vault operations.
//
// Every secret lives in its own Entry, sealed under a key derived from the
// master passphrase and the entry's salt. Entries are created from a Draft,
// which can be sealed exactly once; changing a secret or its labels always
// goes through a new Draft with a new salt.
//
// Vault operations on Store include:
//   - Init: Create a new vault with its Argon2 parameters
//   - Add/Get/Delete/Edit: Manage individual entries
//   - ChangePassword: Re-seal every entry under a new passphrase
//   - Import/Export: Read and write the JSON entry list
package core
