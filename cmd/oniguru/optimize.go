package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/0x4d5352/oniguru/internal/optimize"
)

func newOptimizeCommand(opts *cliOptions) *cobra.Command {
	var (
		allow     []string
		enable    []string
		disable   []string
		maxPasses int
		showDiff  bool
	)

	cmd := &cobra.Command{
		Use:   "optimize [pattern]",
		Short: "Run the fixed-point optimizer over a pattern",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, err := resolveInput(args, stdinIfPiped())
			if err != nil {
				return err
			}

			override := make(map[string]bool, len(enable)+len(disable))
			for _, name := range enable {
				override[name] = true
			}
			for _, name := range disable {
				override[name] = false
			}

			res, err := optimize.Optimize(pattern, optimize.Options{
				Flags:     opts.flags,
				Rules:     opts.parserOptions().Rules,
				Allow:     allow,
				Override:  override,
				MaxPasses: maxPasses,
			})
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "optimize failed: %v\n", err)
				return err
			}

			if showDiff {
				printOptimizeDiff(cmd.OutOrStdout(), pattern, res.Pattern, colorEnabled(opts))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Pattern)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&allow, "allow", nil, "restrict the active transform set to exactly these names")
	cmd.Flags().StringSliceVar(&enable, "enable", nil, "force-enable a transform by name (layered over defaults or --allow)")
	cmd.Flags().StringSliceVar(&disable, "disable", nil, "force-disable a transform by name")
	cmd.Flags().IntVar(&maxPasses, "max-passes", 0, "pass-count safety bound (0 = use the default)")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "show a before/after diff instead of just the result")
	return cmd
}

func printOptimizeDiff(w io.Writer, before, after string, color bool) {
	if before == after {
		fmt.Fprintf(w, "  %s (unchanged)\n", before)
		return
	}
	minus, plus := "- ", "+ "
	line1, line2 := minus+before, plus+after
	if color {
		line1 = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(line1)
		line2 = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Render(line2)
	}
	fmt.Fprintln(w, line1)
	fmt.Fprintln(w, line2)
}
