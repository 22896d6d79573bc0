package generator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rivo/uniseg"

	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/parser"
)

// roundTrip parses src, generates it back, and reparses the result,
// returning both ASTs for structural comparison (spec §8 round-trip
// identity: generated source need not be byte-identical to src, only
// parse to the same tree).
func roundTrip(t *testing.T, src string, opts parser.Options) (*ast.Regex, *ast.Regex, string) {
	t.Helper()
	re, err := parser.Parse(src, opts)
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	pattern, _, err := Generate(re)
	if err != nil {
		t.Fatalf("generate(%q): %v", src, err)
	}
	re2, err := parser.Parse(pattern, opts)
	if err != nil {
		t.Fatalf("reparse of generated %q (from %q): %v", pattern, src, err)
	}
	return re, re2, pattern
}

func TestGenerateRoundTrip(t *testing.T) {
	patterns := []string{
		`a|b|c`,
		`[a-z]+`,
		`(?:ab)*`,
		`(?<name>a+)b`,
		`\d\s\w\h`,
		`\p{L}`,
		`[[:digit:]]`,
		`[^\n]`,
		`(?=a)(?!b)`,
		`a{3,1}`,
		`a{2,}?`,
		`(?<name>a)\k<name>`,
		`(?<name>a)\g<name>`,
		`[a-z&&[^aeiou]]`,
		`(?i:a)b`,
		`\Aa\z`,
		`\X\y`,
		`(?~a)`,
	}
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			orig, reparsed, generated := roundTrip(t, p, parser.Options{})
			if diff := cmp.Diff(orig, reparsed); diff != "" {
				t.Errorf("generated %q from %q did not round-trip structurally (-orig +reparsed):\n%s", generated, p, diff)
			}
		})
	}
}

func TestGenerateNamedBackreference(t *testing.T) {
	re, err := parser.Parse(`(?<x>a)\k<x>`, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	pattern, flags, err := Generate(re)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if flags != "" {
		t.Errorf("expected empty flags, got %q", flags)
	}
	if pattern != `(?<x>a)\k<x>` {
		t.Errorf("expected exact round trip for named backreference, got %q", pattern)
	}
}

func TestGenerateFlagsString(t *testing.T) {
	re, err := parser.Parse(`a`, parser.Options{Flags: "imxy"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, flags, err := Generate(re)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if flags != "imxy" {
		t.Errorf("expected flags %q, got %q", "imxy", flags)
	}
}

func TestGeneratePossessiveReversedBounds(t *testing.T) {
	re, err := parser.Parse(`a{3,1}`, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	pattern, _, err := Generate(re)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if pattern != `a{1,3}+` {
		t.Errorf("expected a{1,3}+, got %q", pattern)
	}
}

// TestGraphemeShorthandMatchesClusterBoundaries exercises uniseg
// directly (rather than through the generator, which only ever prints
// the literal "\X"/"\y" escapes) to check that a base letter with two
// combining marks is one extended grapheme cluster, not one cluster per
// rune, and then that a parsed \X regenerates as "\X".
func TestGraphemeShorthandMatchesClusterBoundaries(t *testing.T) {
	sample := "é̀" // "e" + combining acute + combining grave: one cluster
	gr := uniseg.NewGraphemes(sample)
	count := 0
	for gr.Next() {
		count++
	}
	if count != 1 {
		t.Errorf("expected one grapheme cluster for %q, got %d", sample, count)
	}

	re, err := parser.Parse(`\X`, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	pattern, _, err := Generate(re)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if pattern != `\X` {
		t.Errorf(`expected "\X", got %q`, pattern)
	}
}
