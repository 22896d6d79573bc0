// Package optimize implements the fixed-point AST-to-AST optimizer
// orchestrator (spec §4.5) and its transform catalog: a set of
// traverse.Visitor-based rewrites that fold equivalent Oniguruma
// patterns into smaller or more idiomatic forms. Each transform is
// registered into a shared registry (internal/optimize's own file per
// transform), mirroring the teacher's internal/flavor registry.
package optimize

import (
	"sort"

	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/generator"
	"github.com/0x4d5352/oniguru/internal/parser"
	"github.com/0x4d5352/oniguru/internal/traverse"
)

// defaultMaxPasses bounds the fixed-point loop when the caller doesn't
// set Options.MaxPasses; it is generous relative to any realistic
// pattern/transform-set combination the catalog's transforms (each
// monotone in a structural size metric, or cycling between detectably
// equal representations) would need.
const defaultMaxPasses = 64

// Options configures a single Optimize call.
type Options struct {
	Flags string
	Rules parser.Rules

	// Override toggles individual transforms on or off by name,
	// layered on top of the registry's defaults (or Allow, if set).
	Override map[string]bool

	// Allow, when non-empty, restricts the active transform set to
	// exactly these names (a whitelist), ignoring registered defaults.
	Allow []string

	// MaxPasses overrides defaultMaxPasses; zero means use the default.
	MaxPasses int
}

// Result is optimize's return value (spec §4.5's `{pattern, ast}`).
type Result struct {
	Pattern string
	AST     *ast.Regex
}

// Optimize parses source, repeatedly applies the resolved transform
// set until the generated pattern stops changing, and returns the
// converged pattern and AST. Each pass runs every active transform (in
// sorted name order) as its own full traversal; running per-transform
// walks within a pass, rather than a single merged-visitor walk, keeps
// transform authors independent of one another (no shared enter/exit
// slot to coordinate on a node type two transforms both care about)
// while preserving the spec's convergence contract: a pass that leaves
// the generated source unchanged is a fixed point.
func Optimize(source string, opts Options) (Result, error) {
	regex, err := parser.Parse(source, parser.Options{
		Flags: opts.Flags,
		Rules: opts.Rules,
		// The optimizer's own parse call has no caller-facing property
		// validation knobs (spec §4.5 only surfaces flags/rules/
		// override/allow), so it accepts any \p{Name} text verbatim;
		// transforms that need to recognize a specific property match
		// on a normalized slug of the raw text, not a pre-validated
		// canonical spelling.
		SkipPropertyNameValidation: true,
	})
	if err != nil {
		return Result{}, err
	}

	active, err := resolveActive(opts)
	if err != nil {
		return Result{}, err
	}
	names := activeNames(active)

	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = defaultMaxPasses
	}

	prevSrc, _, err := generator.Generate(regex)
	if err != nil {
		return Result{}, err
	}

	for pass := 0; pass < maxPasses; pass++ {
		for _, name := range names {
			entry, ok := get(name)
			if !ok {
				continue
			}
			visitor := entry.Build(regex.Flags.FlagSet)
			if err := traverse.Walk(regex, visitor); err != nil {
				return Result{}, err
			}
		}
		curSrc, _, err := generator.Generate(regex)
		if err != nil {
			return Result{}, err
		}
		if curSrc == prevSrc {
			return Result{Pattern: curSrc, AST: regex}, nil
		}
		prevSrc = curSrc
	}
	return Result{}, &ast.OptimizerNonConvergingError{Passes: maxPasses}
}

// resolveActive computes the name -> enabled map for one Optimize call:
// Allow (if set) replaces the registry defaults outright, then Override
// layers on top of whichever base was chosen.
func resolveActive(opts Options) (map[string]bool, error) {
	var active map[string]bool
	if len(opts.Allow) > 0 {
		active = make(map[string]bool, len(opts.Allow))
		for _, name := range opts.Allow {
			if _, ok := get(name); !ok {
				return nil, &ast.InvariantError{Msg: "optimize: unknown transform in allow list: " + name}
			}
			active[name] = true
		}
	} else {
		active = GetOptionalOptimizations(nil)
	}
	for name, enabled := range opts.Override {
		if _, ok := get(name); !ok {
			return nil, &ast.InvariantError{Msg: "optimize: unknown transform in override map: " + name}
		}
		active[name] = enabled
	}
	return active, nil
}

func activeNames(active map[string]bool) []string {
	names := make([]string, 0, len(active))
	for name, enabled := range active {
		if enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
