package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const version = "0.1.0"

// cliOptions mirrors internal/parser.Options for the slice of knobs
// worth exposing on the command line; every subcommand that parses a
// pattern shares these flags.
type cliOptions struct {
	flags                    string
	captureGroupRule         bool
	skipBackrefValidation    bool
	skipLookbehindValidation bool
	skipPropertyValidation   bool
	noColor                  bool
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "oniguru",
		Short:         "Inspect and rewrite Oniguruma regular expressions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	registerCommonFlags(root.PersistentFlags(), opts)

	root.AddCommand(
		newParseCommand(opts),
		newTraverseCommand(opts),
		newOptimizeCommand(opts),
		newTryCommand(opts),
	)
	return root
}

// registerCommonFlags wires the flags every subcommand shares onto fs.
// Typed against *pflag.FlagSet (rather than called implicitly through
// cobra's wrapper) since it's meant to be reusable against any flag
// set, persistent or not.
func registerCommonFlags(fs *pflag.FlagSet, opts *cliOptions) {
	fs.StringVar(&opts.flags, "flags", "", "initial flag letters (e.g. \"imx\")")
	fs.BoolVar(&opts.captureGroupRule, "capture-group", false, "treat unnamed (?:...) groups as capturing (ONIG_OPTION_CAPTURE_GROUP)")
	fs.BoolVar(&opts.skipBackrefValidation, "skip-backref-validation", false, "accept backreferences to undefined targets as orphans")
	fs.BoolVar(&opts.skipLookbehindValidation, "skip-lookbehind-validation", false, "disable lookbehind-content restrictions")
	fs.BoolVar(&opts.skipPropertyValidation, "skip-property-validation", false, "accept any \\p{Name} text verbatim")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable ANSI color in tree/diff output")
}

// stdinIfPiped returns os.Stdin when something other than a terminal
// is feeding it, and nil otherwise (mirrors the teacher CLI's own
// character-device check, generalized from os.ModeCharDevice to
// go-isatty so every subcommand shares one implementation).
func stdinIfPiped() io.Reader {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return nil
	}
	return os.Stdin
}

// colorEnabled reports whether ANSI styling should be applied: the
// user hasn't passed --no-color, and stdout is actually a terminal (a
// pipe or file redirect gets plain text).
func colorEnabled(opts *cliOptions) bool {
	if opts.noColor {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
