package core

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/term"
)

// ImportStrategy defines how to handle name conflicts during import
type ImportStrategy int

const (
	StrategyAsk         ImportStrategy = iota // Ask user for each conflict
	StrategyKeepLocal                         // Always keep the vault entry
	StrategyUseIncoming                       // Always replace with the imported entry
	StrategyAbort                             // Abort on any conflict
)

// ConflictResolution is the choice made for a single conflict
type ConflictResolution int

const (
	ResolutionKeepLocal ConflictResolution = iota
	ResolutionUseIncoming
)

var ErrImportConflict = errors.New("import conflicts with existing entry")

// HandleConflict decides what to do with an imported entry whose names clash
// with entries already in the vault
func HandleConflict(local []*Entry, incoming *Entry, strategy ImportStrategy) (ConflictResolution, error) {
	switch strategy {
	case StrategyKeepLocal:
		return ResolutionKeepLocal, nil
	case StrategyUseIncoming:
		return ResolutionUseIncoming, nil
	case StrategyAbort:
		return ResolutionKeepLocal, fmt.Errorf("%w: %s", ErrImportConflict, incoming.Long)
	}

	fmt.Printf("\nconflict: %s\n", incoming.Long)
	fmt.Print(DescribeChange(incoming.Long, listing(local), incoming.String()))
	for {
		fmt.Printf("[l] keep local  [i] use imported: ")
		choice, err := readChoice()
		if err != nil {
			return ResolutionKeepLocal, err
		}
		switch choice {
		case "l":
			return ResolutionKeepLocal, nil
		case "i":
			return ResolutionUseIncoming, nil
		}
		fmt.Printf("Invalid choice. Please enter l or i\n")
	}
}

func listing(entries []*Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

// readChoice reads a single character choice from the terminal
func readChoice() (string, error) {
	// Try to use raw mode for single-key input
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		// Fallback to regular input
		var input string
		_, err := fmt.Scanln(&input)
		if err != nil {
			return "", err
		}
		return strings.ToLower(strings.TrimSpace(input)), nil
	}
	defer func() { _ = term.Restore(int(os.Stdin.Fd()), oldState) }()

	buf := make([]byte, 1)
	_, err = os.Stdin.Read(buf)
	if err != nil {
		return "", err
	}

	choice := strings.ToLower(string(buf[0]))
	fmt.Printf("%s\n", choice) // Echo the choice
	return choice, nil
}

// DescribeChange renders a line diff between two listings.
// Returns an empty string if they are identical.
func DescribeChange(name, before, after string) string {
	if before == after {
		return ""
	}
	before = withNewline(before)
	after = withNewline(after)

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var out strings.Builder
	out.WriteString(fmt.Sprintf("--- a/%s\n", name))
	out.WriteString(fmt.Sprintf("+++ b/%s\n", name))
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + withNewline(line))
		}
	}
	return out.String()
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// Labels are the public fields of an entry
type Labels struct {
	Long  string
	Short string
	Extra string
}

const labelsHeader = "# Edit the entry labels. Lines starting with # are ignored.\n"

// FormatLabels renders labels in the form edited by EditLabels
func FormatLabels(l Labels) []byte {
	var buf bytes.Buffer
	buf.WriteString(labelsHeader)
	fmt.Fprintf(&buf, "long: %s\n", l.Long)
	fmt.Fprintf(&buf, "short: %s\n", l.Short)
	fmt.Fprintf(&buf, "extra: %s\n", l.Extra)
	return buf.Bytes()
}

// ParseLabels reads labels written by FormatLabels. Missing keys keep their
// value from base.
func ParseLabels(data []byte, base Labels) (Labels, error) {
	l := base
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return base, fmt.Errorf("line %d: expected key: value", n)
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "long":
			l.Long = value
		case "short":
			l.Short = value
		case "extra":
			l.Extra = value
		default:
			return base, fmt.Errorf("line %d: unknown key %q", n, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return base, err
	}
	return l, nil
}

// getEditor returns the editor to use, checking environment variables with fallback
func getEditor() string {
	// Check VISUAL first
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	// Fall back to EDITOR
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	// Platform-specific defaults
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}

// invokeEditor opens the specified editor and waits for user to finish
func invokeEditor(filename string) error {
	editor := getEditor()

	// Check if editor is available
	if _, err := exec.LookPath(editor); err != nil {
		return fmt.Errorf("editor '%s' not found: %w\nPlease set VISUAL or EDITOR environment variable", editor, err)
	}

	cmd := exec.Command(editor, filename)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	exitErr, ok := err.(*exec.ExitError)
	if ok {
		return fmt.Errorf("editor exited with code %d", exitErr.ExitCode())
	}
	return err
}

// EditLabels opens the labels in $EDITOR and returns the edited version.
// Only labels are written to the temp file, never the secret.
func EditLabels(l Labels) (Labels, error) {
	tmpFile, err := os.CreateTemp("", "pw-edit-*.txt")
	if err != nil {
		return l, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if err := os.Chmod(tmpFile.Name(), 0600); err != nil {
		tmpFile.Close()
		return l, fmt.Errorf("failed to set temp file permissions: %w", err)
	}
	if _, err := tmpFile.Write(FormatLabels(l)); err != nil {
		tmpFile.Close()
		return l, fmt.Errorf("failed to write labels: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return l, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := invokeEditor(tmpFile.Name()); err != nil {
		return l, err
	}

	edited, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return l, fmt.Errorf("failed to read edited file: %w", err)
	}
	return ParseLabels(edited, l)
}
