package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_pw() {
    local cur prev words cword
    _init_completion || return

    local commands="list init add del get edit passwd import export status compact keyring help completion"

    if [[ $cword -eq 1 ]]; then
        local names
        names=$(pw list -n 2>/dev/null)
        COMPREPLY=($(compgen -W "$commands $names" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        get|del|edit)
            if [[ "$cur" == -* ]]; then
                case "$cmd" in
                    get) COMPREPLY=($(compgen -W "-p" -- "$cur")) ;;
                    del) COMPREPLY=($(compgen -W "-f" -- "$cur")) ;;
                    edit) COMPREPLY=($(compgen -W "--long --short --extra --secret --generate -y" -- "$cur")) ;;
                esac
            else
                local names
                names=$(pw list -n 2>/dev/null)
                COMPREPLY=($(compgen -W "$names" -- "$cur"))
            fi
            ;;
        import)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--keep-local --use-incoming --abort --legacy --time --memory --threads" -- "$cur"))
            else
                _filedir
            fi
            ;;
        export)
            _filedir
            ;;
        init)
            COMPREPLY=($(compgen -W "--time --memory --threads" -- "$cur"))
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _pw pw
`

const zshCompletion = `#compdef pw

_pw() {
    local -a commands
    commands=(
        'list:List entries'
        'init:Create a new vault'
        'add:Add an entry'
        'del:Delete an entry'
        'get:Copy an entry password to the clipboard'
        'edit:Relabel an entry or replace its password'
        'passwd:Change the master key'
        'import:Import entries from a JSON file'
        'export:Export sealed entries as JSON'
        'status:Show vault status'
        'compact:Compact vault to reclaim disk space'
        'keyring:Manage master key in OS keyring'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'pw commands' commands
            _pw_entries
            ;;
        args)
            case "${words[2]}" in
                get)
                    _arguments \
                        '-p[Print the password instead of copying it]' \
                        '*:entry:_pw_entries'
                    ;;
                del)
                    _arguments \
                        '-f[Delete without confirmation]' \
                        '*:entry:_pw_entries'
                    ;;
                edit)
                    _arguments \
                        '--long[New name]:name' \
                        '--short[New shortened name]:name' \
                        '--extra[New extra information]:text' \
                        '--secret[Prompt for a new password]' \
                        '--generate[Generate a new password]' \
                        '-y[Apply without confirmation]' \
                        '*:entry:_pw_entries'
                    ;;
                import)
                    _arguments \
                        '--keep-local[Keep existing entries on conflict]' \
                        '--use-incoming[Replace existing entries on conflict]' \
                        '--abort[Fail on the first conflict]' \
                        '--legacy[Reseal entries written by the JSON tool]' \
                        '*:file:_files'
                    ;;
                export)
                    _arguments '*:file:_files'
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                help)
                    _describe -t commands 'pw commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_pw_entries() {
    local -a entries
    entries=(${(f)"$(pw list -n 2>/dev/null)"})
    _describe -t entries 'entries' entries
}

_pw "$@"
`

const fishCompletion = `# pw fish completions

set -l commands list init add del get edit passwd import export status compact keyring help completion

complete -c pw -f

# Commands
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a list -d 'List entries'
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a init -d 'Create a new vault'
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a add -d 'Add an entry'
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a del -d 'Delete an entry'
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a get -d 'Copy a password to the clipboard'
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a edit -d 'Edit an entry'
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a passwd -d 'Change the master key'
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a import -d 'Import entries'
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a export -d 'Export entries'
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show vault status'
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact vault'
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage master key in OS keyring'
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'
complete -c pw -n "not __fish_seen_subcommand_from $commands" -a "(pw list -n 2>/dev/null)"

# entry names
complete -c pw -n "__fish_seen_subcommand_from get del edit" -a "(pw list -n 2>/dev/null)"
complete -c pw -n "__fish_seen_subcommand_from get" -s p -d 'Print the password'
complete -c pw -n "__fish_seen_subcommand_from del" -s f -d 'Delete without confirmation'
complete -c pw -n "__fish_seen_subcommand_from edit" -l secret -d 'Prompt for a new password'
complete -c pw -n "__fish_seen_subcommand_from edit" -l generate -d 'Generate a new password'

# import flags and files
complete -c pw -n "__fish_seen_subcommand_from import" -l keep-local -d 'Keep existing entries'
complete -c pw -n "__fish_seen_subcommand_from import" -l use-incoming -d 'Replace existing entries'
complete -c pw -n "__fish_seen_subcommand_from import" -l abort -d 'Fail on conflict'
complete -c pw -n "__fish_seen_subcommand_from import" -l legacy -d 'Reseal JSON tool entries'
complete -c pw -n "__fish_seen_subcommand_from import export" -F

# keyring subcommands
complete -c pw -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c pw -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c pw -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
