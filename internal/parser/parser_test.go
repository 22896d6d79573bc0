package parser

import (
	"testing"

	"github.com/0x4d5352/oniguru/internal/ast"
)

func mustParse(t *testing.T, src string, opts Options) *ast.Regex {
	t.Helper()
	re, err := Parse(src, opts)
	if err != nil {
		t.Fatalf("Parse(%q): unexpected error: %v", src, err)
	}
	return re
}

func firstElement(t *testing.T, re *ast.Regex) ast.Node {
	t.Helper()
	if len(re.Pattern.Alternatives) == 0 || len(re.Pattern.Alternatives[0].Elements) == 0 {
		t.Fatalf("pattern has no elements")
	}
	return re.Pattern.Alternatives[0].Elements[0]
}

func TestParseLiteralSequence(t *testing.T) {
	re := mustParse(t, "ab", Options{})
	elems := re.Pattern.Alternatives[0].Elements
	if len(elems) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elems))
	}
	for i, want := range []rune{'a', 'b'} {
		ch, ok := elems[i].(*ast.Character)
		if !ok || ch.Value != want {
			t.Errorf("element %d: expected Character %q, got %#v", i, want, elems[i])
		}
	}
}

func TestParseAlternation(t *testing.T) {
	re := mustParse(t, "a|b|c", Options{})
	if len(re.Pattern.Alternatives) != 3 {
		t.Fatalf("expected 3 alternatives, got %d", len(re.Pattern.Alternatives))
	}
}

func TestParseCharacterClassRange(t *testing.T) {
	re := mustParse(t, "[a-z]", Options{})
	cls := firstElement(t, re).(*ast.CharacterClass)
	if cls.Kind != ast.ClassUnion || cls.Negate {
		t.Fatalf("unexpected class: %+v", cls)
	}
	rng, ok := cls.Elements[0].(*ast.CharacterClassRange)
	if !ok {
		t.Fatalf("expected a range element, got %#v", cls.Elements[0])
	}
	if rng.Min.Value != 'a' || rng.Max.Value != 'z' {
		t.Errorf("unexpected range %c-%c", rng.Min.Value, rng.Max.Value)
	}
}

func TestParseCharacterClassNegated(t *testing.T) {
	re := mustParse(t, "[^abc]", Options{})
	cls := firstElement(t, re).(*ast.CharacterClass)
	if !cls.Negate {
		t.Error("expected negated class")
	}
	if len(cls.Elements) != 3 {
		t.Errorf("expected 3 elements, got %d", len(cls.Elements))
	}
}

func TestParseCharacterClassLiteralHyphenAtEdges(t *testing.T) {
	re := mustParse(t, "[-a]", Options{})
	cls := firstElement(t, re).(*ast.CharacterClass)
	if len(cls.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d: %#v", len(cls.Elements), cls.Elements)
	}
	lit, ok := cls.Elements[0].(*ast.Character)
	if !ok || lit.Value != '-' {
		t.Errorf("expected literal hyphen first, got %#v", cls.Elements[0])
	}
}

func TestParseCharacterClassIntersection(t *testing.T) {
	re := mustParse(t, "[a-z&&[^aeiou]]", Options{})
	cls := firstElement(t, re).(*ast.CharacterClass)
	if cls.Kind != ast.ClassIntersection {
		t.Fatalf("expected intersection class, got %s", cls.Kind)
	}
	if len(cls.Elements) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(cls.Elements))
	}
}

func TestParseCharacterClassRangeWithSetEndpointErrors(t *testing.T) {
	if _, err := Parse(`[\d-z]`, Options{}); err == nil {
		t.Fatal("expected an error for a range with a character-set endpoint")
	}
}

func TestParseEmptyCharacterClassErrors(t *testing.T) {
	if _, err := Parse("[]", Options{}); err == nil {
		t.Fatal("expected an error for an empty character class")
	}
}

func TestParseUnterminatedCharacterClassErrors(t *testing.T) {
	if _, err := Parse("[abc", Options{}); err == nil {
		t.Fatal("expected an error for an unterminated character class")
	}
}

func TestParseUnmatchedCloseParenErrors(t *testing.T) {
	if _, err := Parse("a)", Options{}); err == nil {
		t.Fatal("expected an error for an unmatched ')'")
	}
}

func TestParseQuantifierReversedBoundsBecomesPossessive(t *testing.T) {
	re := mustParse(t, "a{3,1}", Options{})
	q := firstElement(t, re).(*ast.Quantifier)
	if q.Kind != ast.QuantifierPossessive {
		t.Errorf("expected possessive kind, got %s", q.Kind)
	}
	if q.Min != 1 || q.Max != 3 {
		t.Errorf("expected swapped bounds 1,3; got %d,%d", q.Min, q.Max)
	}
}

func TestParseQuantifierWithNothingToRepeatErrors(t *testing.T) {
	if _, err := Parse("*", Options{}); err == nil {
		t.Fatal("expected an error for a leading quantifier")
	}
}

func TestParseNamedCapturingGroupAndBackreference(t *testing.T) {
	re := mustParse(t, `(?<word>\w+)\k<word>`, Options{})
	elems := re.Pattern.Alternatives[0].Elements
	grp, ok := elems[0].(*ast.CapturingGroup)
	if !ok || grp.Name != "word" || grp.Number != 1 {
		t.Fatalf("unexpected group node: %#v", elems[0])
	}
	back, ok := elems[1].(*ast.Backreference)
	if !ok || back.Ref != "word" || back.Orphan {
		t.Fatalf("unexpected backreference node: %#v", elems[1])
	}
}

func TestParseNumberedBackreference(t *testing.T) {
	re := mustParse(t, `(a)(b)\2\1`, Options{})
	elems := re.Pattern.Alternatives[0].Elements
	b1 := elems[2].(*ast.Backreference)
	b2 := elems[3].(*ast.Backreference)
	if b1.Ref != 2 || b2.Ref != 1 {
		t.Errorf("unexpected refs: %v, %v", b1.Ref, b2.Ref)
	}
}

func TestParseBackreferenceToUndefinedGroupErrors(t *testing.T) {
	if _, err := Parse(`\1`, Options{}); err != nil {
		t.Fatalf("\\1 with no preceding groups should decode as an octal escape, not error: %v", err)
	}
	if _, err := Parse(`\k<missing>`, Options{}); err == nil {
		t.Fatal("expected a reference error for an undefined named backreference")
	}
}

func TestParseBackreferenceSkipValidationProducesOrphan(t *testing.T) {
	re := mustParse(t, `\k<missing>`, Options{SkipBackrefValidation: true})
	back := firstElement(t, re).(*ast.Backreference)
	if !back.Orphan || back.Ref != "missing" {
		t.Errorf("expected orphan backreference, got %+v", back)
	}
}

func TestParseForwardSubroutineReference(t *testing.T) {
	re := mustParse(t, `\g<1>(a)`, Options{})
	sub := firstElement(t, re).(*ast.Subroutine)
	if sub.Ref != 1 {
		t.Errorf("expected ref 1, got %v", sub.Ref)
	}
}

func TestParseSubroutineToUndefinedGroupErrors(t *testing.T) {
	if _, err := Parse(`\g<5>(a)`, Options{}); err == nil {
		t.Fatal("expected a reference error for a subroutine to an undefined group")
	}
}

func TestParseSubroutineWholePatternRecursion(t *testing.T) {
	re := mustParse(t, `(a\g<0>?)`, Options{})
	grp := firstElement(t, re).(*ast.CapturingGroup)
	sub := grp.Alternatives[0].Elements[1].(*ast.Quantifier).Element.(*ast.Subroutine)
	if sub.Ref != 0 {
		t.Errorf("expected whole-pattern recursion ref 0, got %v", sub.Ref)
	}
}

func TestParseSubroutineAmbiguousNameErrors(t *testing.T) {
	if _, err := Parse(`(?<x>a)(?<x>b)\g<x>`, Options{}); err == nil {
		t.Fatal("expected a reference error for an ambiguous duplicate-named subroutine target")
	}
}

func TestParseNumberedAndNamedMixingRule(t *testing.T) {
	if _, err := Parse(`(?<x>a)\1`, Options{}); err == nil {
		t.Fatal("expected a reference error mixing a numbered backreference with a named group")
	}
	if _, err := Parse(`(?<x>a)(b)\2`, Options{Rules: Rules{CaptureGroup: true}}); err != nil {
		t.Fatalf("mixing should be allowed under the CaptureGroup rule: %v", err)
	}
}

func TestParseLookaheadInsideLookbehindErrors(t *testing.T) {
	if _, err := Parse(`(?<=(?=a)b)`, Options{}); err == nil {
		t.Fatal("expected a feature error for lookahead inside a lookbehind")
	}
}

func TestParseNegativeLookbehindInsidePositiveLookbehindErrors(t *testing.T) {
	if _, err := Parse(`(?<=(?<!a)b)`, Options{}); err == nil {
		t.Fatal("expected a feature error for a negative lookbehind nested in a positive one")
	}
}

func TestParseCapturingGroupInsideNegativeLookbehindErrors(t *testing.T) {
	if _, err := Parse(`(?<!(a))`, Options{}); err == nil {
		t.Fatal("expected a feature error for a capturing group directly inside a negative lookbehind")
	}
}

func TestParseCapturingGroupInsidePositiveLookbehindAllowed(t *testing.T) {
	if _, err := Parse(`(?<=(a))`, Options{}); err != nil {
		t.Fatalf("a capturing group inside a positive lookbehind should be allowed: %v", err)
	}
}

func TestParseQuantifiedCaptureInsideNegativeLookbehindPasses(t *testing.T) {
	// A Quantifier node, not the CapturingGroup itself, occupies the
	// alternative slot here, so the direct-child check does not flag it
	// - matching Oniguruma's own behavior (see DESIGN.md open question).
	if _, err := Parse(`(?<!(a){2})`, Options{}); err != nil {
		t.Fatalf("a quantified capture inside a negative lookbehind should pass the direct check: %v", err)
	}
}

func TestParseSkipLookbehindValidationDisablesAllChecks(t *testing.T) {
	if _, err := Parse(`(?<!(a))`, Options{SkipLookbehindValidation: true}); err != nil {
		t.Fatalf("expected lookbehind checks to be skipped: %v", err)
	}
}

func TestParseFlagsGroupAndDirective(t *testing.T) {
	re := mustParse(t, `(?i:a)(?m)`, Options{})
	elems := re.Pattern.Alternatives[0].Elements
	grp, ok := elems[0].(*ast.Group)
	if !ok || grp.Flags == nil || !grp.Flags.Enable.IgnoreCase {
		t.Fatalf("unexpected flags group: %#v", elems[0])
	}
	dir, ok := elems[1].(*ast.Directive)
	if !ok || dir.Kind != ast.DirectiveFlags || !dir.Flags.Enable.DotAll {
		t.Fatalf("unexpected flags directive: %#v", elems[1])
	}
}

func TestParseAtomicGroup(t *testing.T) {
	re := mustParse(t, `(?>ab)`, Options{})
	grp := firstElement(t, re).(*ast.Group)
	if !grp.Atomic {
		t.Error("expected an atomic group")
	}
}

func TestParseAbsentRepeater(t *testing.T) {
	re := mustParse(t, `(?~a)`, Options{})
	fn := firstElement(t, re).(*ast.AbsentFunction)
	if fn.Kind != ast.AbsentFunctionRepeater {
		t.Errorf("unexpected absent function kind %s", fn.Kind)
	}
}

func TestParseNestedAbsentFunctionErrors(t *testing.T) {
	if _, err := Parse(`(?~(?~a))`, Options{}); err == nil {
		t.Fatal("expected a feature error for a nested absent function")
	}
}

func TestParsePosixClass(t *testing.T) {
	re := mustParse(t, `[[:digit:]]`, Options{})
	cls := firstElement(t, re).(*ast.CharacterClass)
	set := cls.Elements[0].(*ast.CharacterSet)
	if set.Kind != ast.CharacterSetPosix || set.Value != "digit" {
		t.Errorf("unexpected posix set: %+v", set)
	}
}

func TestParseUnicodePropertyBuiltinResolution(t *testing.T) {
	re := mustParse(t, `\p{Is_Letter}`, Options{})
	set := firstElement(t, re).(*ast.CharacterSet)
	if set.Value != "L" {
		t.Errorf("expected canonical name L, got %q", set.Value)
	}
}

func TestParseUnknownUnicodePropertyErrors(t *testing.T) {
	if _, err := Parse(`\p{NotARealProperty}`, Options{}); err == nil {
		t.Fatal("expected a syntax error for an unknown property name")
	}
}

func TestParseUnicodePropertySkipValidation(t *testing.T) {
	re := mustParse(t, `\p{NotARealProperty}`, Options{SkipPropertyNameValidation: true})
	set := firstElement(t, re).(*ast.CharacterSet)
	if set.Value != "NotARealProperty" {
		t.Errorf("expected verbatim name, got %q", set.Value)
	}
}

func TestParseCustomUnicodePropertyMap(t *testing.T) {
	re := mustParse(t, `\p{myslug}`, Options{UnicodePropertyMap: map[string]string{"myslug": "My_Canonical"}})
	set := firstElement(t, re).(*ast.CharacterSet)
	if set.Value != "My_Canonical" {
		t.Errorf("expected mapped canonical name, got %q", set.Value)
	}
}

func TestParseExtendedModeWhitespaceIgnored(t *testing.T) {
	re := mustParse(t, "a b # comment\nc", Options{Flags: "x"})
	elems := re.Pattern.Alternatives[0].Elements
	if len(elems) != 3 {
		t.Fatalf("expected 3 literal elements, got %d", len(elems))
	}
}

func TestParseRootFlags(t *testing.T) {
	re := mustParse(t, "a", Options{Flags: "im"})
	if !re.Flags.IgnoreCase || !re.Flags.DotAll {
		t.Errorf("unexpected root flags: %+v", re.Flags.FlagSet)
	}
}
