package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/illarion/pw/cmd"
	"github.com/illarion/pw/internal/core"
	"github.com/illarion/pw/internal/crypto"
	"github.com/illarion/pw/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Setup()

	if len(os.Args) < 2 {
		cmd.List(false)
		return
	}

	switch os.Args[1] {
	case "list", "ls":
		runList(ctx, os.Args[2:])
	case "init":
		runInit(ctx, os.Args[2:])
	case "add":
		runAdd(ctx, os.Args[2:])
	case "del", "rm":
		runDel(ctx, os.Args[2:])
	case "get":
		runGet(ctx, os.Args[2:])
	case "edit":
		runEdit(ctx, os.Args[2:])
	case "passwd":
		runPasswd(ctx, os.Args[2:])
	case "import":
		runImport(ctx, os.Args[2:])
	case "export":
		runExport(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		// pw <name> copies the entry's password
		cmd.Get(os.Args[1], false)
	}
}

func parse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// requireName returns the single positional argument or exits with usage
func requireName(fs *flag.FlagSet, usage string) string {
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s\n", usage)
		os.Exit(1)
	}
	return fs.Arg(0)
}

// setFlags returns the names of the flags given on the command line
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func runList(_ context.Context, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	names := fs.Bool("n", false, "Print entry names only")
	parse(fs, args)

	cmd.List(*names)
}

func kdfFlags(fs *flag.FlagSet, def crypto.Params) (*uint, *uint, *uint) {
	t := fs.Uint("time", uint(def.Time), "Argon2 iterations")
	m := fs.Uint("memory", uint(def.Memory), "Argon2 memory in KiB")
	p := fs.Uint("threads", uint(def.Threads), "Argon2 parallelism")
	return t, m, p
}

func toParams(t, m, p *uint) crypto.Params {
	if *t > 1<<32-1 || *m > 1<<32-1 || *p > 255 {
		fmt.Fprintln(os.Stderr, "Error: argon2 parameter out of range")
		os.Exit(1)
	}
	return crypto.Params{Time: uint32(*t), Memory: uint32(*m), Threads: uint8(*p)}
}

func runInit(_ context.Context, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	t, m, p := kdfFlags(fs, crypto.DefaultParams())
	parse(fs, args)

	cmd.Init(toParams(t, m, p))
}

func runAdd(_ context.Context, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	generate := fs.Bool("g", false, "Generate a password with the default length and charset")
	parse(fs, args)

	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Usage: pw add [-g] [name]")
		os.Exit(1)
	}
	cmd.Add(fs.Arg(0), *generate)
}

func runDel(_ context.Context, args []string) {
	fs := flag.NewFlagSet("del", flag.ExitOnError)
	force := fs.Bool("f", false, "Delete without confirmation")
	parse(fs, args)

	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Usage: pw del [-f] [name]")
		os.Exit(1)
	}
	cmd.Delete(fs.Arg(0), *force)
}

func runGet(_ context.Context, args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	show := fs.Bool("p", false, "Print the password instead of copying it")
	parse(fs, args)

	cmd.Get(requireName(fs, "pw get [-p] <name>"), *show)
}

func runEdit(_ context.Context, args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	long := fs.String("long", "", "New entry name")
	short := fs.String("short", "", "New shortened name")
	extra := fs.String("extra", "", "New extra information")
	secret := fs.Bool("secret", false, "Prompt for a new password")
	generate := fs.Bool("generate", false, "Generate a new password")
	yes := fs.Bool("y", false, "Apply without confirmation")
	parse(fs, args)

	name := requireName(fs, "pw edit [flags] <name>")
	if *secret && *generate {
		fmt.Fprintln(os.Stderr, "error: --secret and --generate are mutually exclusive")
		os.Exit(1)
	}

	opts := cmd.EditOptions{NewSecret: *secret, Generate: *generate, Yes: *yes}
	set := setFlags(fs)
	if set["long"] {
		opts.Long = long
	}
	if set["short"] {
		opts.Short = short
	}
	if set["extra"] {
		opts.Extra = extra
	}
	cmd.Edit(name, opts)
}

func runPasswd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	parse(fs, args)

	cmd.Passwd(ctx)
}

func runImport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	keepLocal := fs.Bool("keep-local", false, "Keep existing entries on conflict")
	useIncoming := fs.Bool("use-incoming", false, "Replace existing entries on conflict")
	abort := fs.Bool("abort", false, "Fail on the first conflict")
	legacy := fs.Bool("legacy", false, "Reseal entries written by the JSON tool")
	t, m, p := kdfFlags(fs, legacyParams())
	parse(fs, args)

	path := requireName(fs, "pw import [flags] <file|->")

	flagCount := boolToInt(*keepLocal) + boolToInt(*useIncoming) + boolToInt(*abort)
	if flagCount > 1 {
		fmt.Fprintln(os.Stderr, "error: --keep-local, --use-incoming, and --abort are mutually exclusive")
		os.Exit(1)
	}

	var strategy core.ImportStrategy
	switch {
	case *keepLocal:
		strategy = core.StrategyKeepLocal
	case *useIncoming:
		strategy = core.StrategyUseIncoming
	case *abort:
		strategy = core.StrategyAbort
	default:
		strategy = core.StrategyAsk
	}

	var source *crypto.Params
	set := setFlags(fs)
	if *legacy || set["time"] || set["memory"] || set["threads"] {
		params := toParams(t, m, p)
		source = &params
	}
	cmd.Import(ctx, path, strategy, source)
}

// legacyParams are the Argon2 parameters of the JSON tool, whose lane
// count followed the CPU count of the machine that sealed the entries
func legacyParams() crypto.Params {
	p := crypto.DefaultParams()
	p.Threads = uint8(min(runtime.NumCPU(), 255))
	return p
}

func runExport(_ context.Context, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	parse(fs, args)

	cmd.Export(fs.Arg(0))
}

func runStatus(_ context.Context, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	parse(fs, args)

	cmd.Status()
}

func runCompact(_ context.Context, args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	parse(fs, args)

	cmd.Compact()
}

func runKeyring(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pw keyring <save|delete|status>")
		os.Exit(1)
	}
	switch args[0] {
	case "save":
		cmd.KeyringSave()
	case "delete":
		cmd.KeyringDelete()
	case "status":
		cmd.KeyringStatus()
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", args[0])
		os.Exit(1)
	}
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pw completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
