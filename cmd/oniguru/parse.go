package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/parser"
)

func newParseCommand(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [pattern]",
		Short: "Parse a pattern and dump its AST",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, err := resolveInput(args, stdinIfPiped())
			if err != nil {
				return err
			}
			re, err := parser.Parse(pattern, opts.parserOptions())
			if err != nil {
				displayParseError(cmd.OutOrStdout(), pattern, err)
				return err
			}
			return dumpTree(cmd.OutOrStdout(), re, colorEnabled(opts))
		},
	}
	return cmd
}

// displayParseError mirrors the teacher CLI's position-indicator error
// display, generalized from pigeon's "line:col" format to this parser's
// own SyntaxError.Pos byte offset.
func displayParseError(w io.Writer, pattern string, err error) {
	fmt.Fprintf(w, "error parsing pattern:\n\n  %s\n", pattern)
	if se, ok := err.(*ast.SyntaxError); ok && se.Pos >= 0 && se.Pos <= len(pattern) {
		fmt.Fprintf(w, "  %s^\n", spaces(se.Pos))
	}
	fmt.Fprintf(w, "\n%s\n", err)
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
