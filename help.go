package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Println("pw - per-entry sealed password store")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pw                 List entries")
	fmt.Println("  pw <name>          Copy the password of an entry to the clipboard")
	fmt.Println("  pw <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list, ls    List entries")
	fmt.Println("  init        Create a new vault")
	fmt.Println("  add         Add an entry")
	fmt.Println("  del, rm     Delete an entry")
	fmt.Println("  get         Copy or print the password of an entry")
	fmt.Println("  edit        Relabel an entry or replace its password")
	fmt.Println("  passwd      Change the master key of every entry")
	fmt.Println("  import      Import entries from a JSON file")
	fmt.Println("  export      Export sealed entries as JSON")
	fmt.Println("  status      Show vault status")
	fmt.Println("  compact     Compact vault to reclaim disk space")
	fmt.Println("  keyring     Manage master key in OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  PW_PATH       Vault location (default ~/.pw.vault)")
	fmt.Println("  PW_PASSWORD   Master key, skips prompting")
	fmt.Println("  PW_LOG_LEVEL  Log level (default warn)")
	fmt.Println()
	fmt.Println("Use 'pw help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "list", "ls":
		fmt.Println("pw list [-n]")
		fmt.Println()
		fmt.Println("Lists every entry with its shortened name and extra information.")
		fmt.Println("Does not require a master key.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -n    Print names only, one per line")
	case "init":
		fmt.Println("pw init [--time N] [--memory KiB] [--threads N]")
		fmt.Println()
		fmt.Println("Creates a new vault. The Argon2id parameters are stored in the vault")
		fmt.Println("and used to derive the key of every entry.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --time      Iterations (default 192)")
		fmt.Println("  --memory    Memory in KiB (default 4096)")
		fmt.Println("  --threads   Parallelism (default 4)")
	case "add":
		fmt.Println("pw add [-g] [name]")
		fmt.Println()
		fmt.Println("Adds an entry. Asks for the names, extra information and the password,")
		fmt.Println("which can be randomly generated, then seals it with the master key.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -g    Generate a password with the standard length and charset")
	case "del", "rm":
		fmt.Println("pw del [-f] [name]")
		fmt.Println()
		fmt.Println("Deletes an entry after confirmation. Does not require a master key.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -f    Delete without confirmation")
	case "get":
		fmt.Println("pw get [-p] <name>")
		fmt.Println()
		fmt.Println("Opens an entry, by name or shortened name, and copies its password")
		fmt.Println("to the clipboard. 'pw <name>' does the same.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -p    Print the password instead")
	case "edit":
		fmt.Println("pw edit [--long S] [--short S] [--extra S] [--secret|--generate] [-y] <name>")
		fmt.Println()
		fmt.Println("Changes the labels of an entry and/or its password. Without label flags")
		fmt.Println("the labels are opened in $VISUAL or $EDITOR. The entry is resealed with")
		fmt.Println("a fresh salt.")
	case "passwd":
		fmt.Println("pw passwd")
		fmt.Println()
		fmt.Println("Changes the master key. Every entry is opened with the current key and")
		fmt.Println("resealed under the new one with a fresh salt. If any entry fails to open")
		fmt.Println("nothing is changed.")
	case "import":
		fmt.Println("pw import [--keep-local|--use-incoming|--abort] [--legacy] <file|->")
		fmt.Println()
		fmt.Println("Imports a JSON list of sealed entries, such as ~/.pw.json or the output")
		fmt.Println("of 'pw export'. Name conflicts are resolved interactively by default.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --keep-local     Keep existing entries")
		fmt.Println("  --use-incoming   Replace existing entries")
		fmt.Println("  --abort          Fail on the first conflict")
		fmt.Println("  --legacy         Entries were sealed by the JSON tool; reseal them")
		fmt.Println("  --time, --memory, --threads")
		fmt.Println("                   Argon2 parameters the entries were sealed with")
	case "export":
		fmt.Println("pw export [file]")
		fmt.Println()
		fmt.Println("Writes every entry, still sealed, as a JSON list to file or stdout.")
	case "status":
		fmt.Println("pw status")
		fmt.Println()
		fmt.Println("Shows vault location, entry count, size and key derivation settings.")
		fmt.Println("Does not require a master key.")
	case "compact":
		fmt.Println("pw compact")
		fmt.Println()
		fmt.Println("Compacts the vault database to reclaim unused disk space.")
		fmt.Println("This is done automatically after 'passwd'.")
	case "keyring":
		fmt.Println("pw keyring <save|delete|status>")
		fmt.Println()
		fmt.Println("Stores the master key in the OS keyring so that it is not prompted for.")
	case "completion":
		fmt.Println("pw completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(pw completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(pw completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  pw completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
