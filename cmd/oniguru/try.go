package main

import (
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/spf13/cobra"

	"github.com/0x4d5352/oniguru/internal/generator"
	"github.com/0x4d5352/oniguru/internal/optimize"
	"github.com/0x4d5352/oniguru/internal/parser"
)

// newTryCommand wires up an opt-in smoke test: parse (optionally
// optimize) a pattern, regenerate it, and run it through regexp2 —
// whose backtracking engine covers enough of Oniguruma's syntax
// (named groups, lookaround, possessive quantifiers) to sanity-check
// that a round-tripped pattern still compiles and behaves as expected
// against a sample string. It is not a claim that regexp2 is a
// faithful Oniguruma engine; it just catches gross round-trip breakage.
func newTryCommand(opts *cliOptions) *cobra.Command {
	var runOptimize bool

	cmd := &cobra.Command{
		Use:   "try <pattern> <text>",
		Short: "Smoke-test a pattern against sample text via regexp2",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, text := args[0], args[1]

			re, err := parser.Parse(pattern, opts.parserOptions())
			if err != nil {
				displayParseError(cmd.OutOrStdout(), pattern, err)
				return err
			}

			finalPattern := pattern
			if runOptimize {
				res, err := optimize.Optimize(pattern, optimize.Options{
					Flags: opts.flags,
					Rules: opts.parserOptions().Rules,
				})
				if err != nil {
					return err
				}
				finalPattern = res.Pattern
				re = res.AST
			}

			genPattern, _, err := generator.Generate(re)
			if err != nil {
				return err
			}

			regex, err := regexp2.Compile(genPattern, regexp2.None)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "regexp2 rejected the regenerated pattern %q: %v\n", finalPattern, err)
				return err
			}
			match, err := regex.MatchString(text)
			if err != nil {
				return fmt.Errorf("matching %q against %q: %w", finalPattern, text, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pattern: %s\nmatch:   %t\n", finalPattern, match)
			return nil
		},
	}

	cmd.Flags().BoolVar(&runOptimize, "optimize", false, "optimize the pattern before trying it")
	return cmd
}
