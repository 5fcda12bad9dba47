// Package clipboard places secrets on the system clipboard.
//
// Delivery goes through github.com/atotto/clipboard, which uses pbcopy on
// macOS, the Win32 clipboard on Windows and wl-copy, xclip or xsel on
// other systems.
package clipboard

import (
	"errors"
	"fmt"

	atotto "github.com/atotto/clipboard"
)

var ErrUnavailable = errors.New("no clipboard tool found")

// Available reports whether the clipboard can be written
func Available() bool {
	return !atotto.Unsupported
}

// Copy places data on the clipboard
func Copy(data []byte) error {
	if !Available() {
		return ErrUnavailable
	}
	if err := atotto.WriteAll(string(data)); err != nil {
		return fmt.Errorf("unable to set clipboard contents: %w", err)
	}
	return nil
}
