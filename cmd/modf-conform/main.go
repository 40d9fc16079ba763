// Command modf-conform runs the conformance suite for the floating-point
// split operation (C modf semantics) against a selectable implementation.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/lattice-substrate/modf-conform/conferr"
	"github.com/lattice-substrate/modf-conform/modfcheck"
	"github.com/lattice-substrate/modf-conform/modfref"
	"github.com/lattice-substrate/modf-conform/modfvec"
)

const (
	exitSuccess  = 0
	exitMismatch = 1
	exitUsage    = 2
	exitInternal = 10
)

const usageLine = "usage: modf-conform <run|table> [options]"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		if err := writeLine(stderr, usageLine); err != nil {
			return exitInternal
		}
		return exitUsage
	}

	switch args[0] {
	case "run":
		return cmdRun(args[1:], stderr)
	case "table":
		return cmdTable(args[1:], stdout, stderr)
	default:
		if err := writef(stderr, "unknown command: %s\n", args[0]); err != nil {
			return exitInternal
		}
		if err := writeLine(stderr, usageLine); err != nil {
			return exitInternal
		}
		return exitUsage
	}
}

type flags struct {
	impl      string
	vectors   string
	keepGoing bool
	verbose   bool
	quiet     bool
	help      bool
}

func parseFlags(args []string) (flags, []string, error) {
	f := flags{impl: "bitref"}
	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--keep-going":
			f.keepGoing = true
		case arg == "--verbose" || arg == "-v":
			f.verbose = true
		case arg == "--quiet" || arg == "-q":
			f.quiet = true
		case arg == "--help" || arg == "-h":
			f.help = true
		case strings.HasPrefix(arg, "--impl="):
			f.impl = strings.TrimPrefix(arg, "--impl=")
		case arg == "--impl":
			if i+1 >= len(args) {
				return flags{}, nil, fmt.Errorf("option --impl requires a value")
			}
			i++
			f.impl = args[i]
		case strings.HasPrefix(arg, "--vectors="):
			f.vectors = strings.TrimPrefix(arg, "--vectors=")
		case arg == "--vectors":
			if i+1 >= len(args) {
				return flags{}, nil, fmt.Errorf("option --vectors requires a value")
			}
			i++
			f.vectors = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return flags{}, nil, fmt.Errorf("unknown option: %s", arg)
			}
			positional = append(positional, arg)
		}
	}
	return f, positional, nil
}

func cmdRun(args []string, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, exitUsage, "error: %v\n", err)
	}

	if fl.help {
		if err := writeRunHelp(stderr); err != nil {
			return exitInternal
		}
		return exitSuccess
	}

	if len(positional) > 0 {
		return writeErrorAndReturn(stderr, exitUsage, "error: unexpected argument: %s\n", positional[0])
	}

	split, err := resolveImpl(fl.impl)
	if err != nil {
		return writeErrorAndReturn(stderr, exitUsage, "error: %v\n", err)
	}

	vectors := modfvec.Table()
	if fl.vectors != "" {
		vectors, err = modfvec.Load(fl.vectors)
		if err != nil {
			return writeClassifiedError(stderr, err)
		}
	}

	var log *zap.Logger
	if fl.verbose {
		log = zap.Must(zap.NewDevelopment())
		defer func() {
			_ = log.Sync()
		}()
	}

	r := &modfcheck.Runner{Split: split, Log: log, KeepGoing: fl.keepGoing}
	if err := r.Run(vectors); err != nil {
		return writeClassifiedError(stderr, err)
	}

	// A fully passing run produces no output.
	return exitSuccess
}

func cmdTable(args []string, stdout io.Writer, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, exitUsage, "error: %v\n", err)
	}

	if fl.help {
		if err := writeTableHelp(stderr); err != nil {
			return exitInternal
		}
		return exitSuccess
	}

	if len(positional) > 0 {
		return writeErrorAndReturn(stderr, exitUsage, "error: unexpected argument: %s\n", positional[0])
	}

	data, err := modfvec.Dump(modfvec.Table())
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	if _, err := stdout.Write(data); err != nil {
		return writeErrorAndReturn(stderr, exitInternal, "error: writing output: %v\n", err)
	}
	return exitSuccess
}

func resolveImpl(name string) (modfcheck.SplitFunc, error) {
	switch name {
	case "bitref":
		return modfref.Split, nil
	case "stdlib":
		return modfcheck.StdlibSplit, nil
	default:
		return nil, fmt.Errorf("unknown implementation: %s (want bitref or stdlib)", name)
	}
}

// writeClassifiedError maps a classified error to its exit code; anything
// unclassified is an internal error.
func writeClassifiedError(stderr io.Writer, err error) int {
	if werr := writef(stderr, "error: %v\n", err); werr != nil {
		return exitInternal
	}
	var cerr *conferr.Error
	if errors.As(err, &cerr) {
		return cerr.Class.ExitCode()
	}
	return exitInternal
}

func writeErrorAndReturn(stderr io.Writer, code int, format string, args ...any) int {
	if err := writef(stderr, format, args...); err != nil {
		return exitInternal
	}
	return code
}

func writeRunHelp(stderr io.Writer) error {
	if err := writeLine(stderr, "usage: modf-conform run [--impl bitref|stdlib] [--vectors FILE] [--keep-going] [--verbose]"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  Validate the split implementation against the vector table; silent on pass."); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --impl        Implementation under test (default bitref)"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --vectors     TOML vector table to use instead of the built-in one"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --keep-going  Report every failing vector instead of stopping at the first"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --verbose     Log per-vector progress to stderr"); err != nil {
		return err
	}
	return writeLine(stderr, "  --quiet       Accepted for command symmetry; run is silent on success")
}

func writeTableHelp(stderr io.Writer) error {
	if err := writeLine(stderr, "usage: modf-conform table"); err != nil {
		return err
	}
	return writeLine(stderr, "  Emit the built-in vector table as TOML to stdout (loadable via run --vectors).")
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}
