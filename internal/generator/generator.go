// Package generator inverts internal/parser: it serializes an AST back
// into Oniguruma source text (spec §6, the "external collaborator"
// Generator). It is intentionally a plain recursive type-switch
// printer, the same shape as a textual AST formatter rather than the
// teacher's SVG box-layout renderer, which solves a different problem.
package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/0x4d5352/oniguru/internal/ast"
)

// metaChars mirrors internal/token's escape table: characters that
// must be backslash-escaped to appear literally outside a class.
const metaChars = `.()[]{}|+*?^$\-`

// classMetaChars mirrors internal/token's in-class escape table.
const classMetaChars = `]^-&`

// Generate serializes re back into Oniguruma pattern source and its
// initial flag-letter string. A malformed AST (one that could only
// arise from a bug in a caller or a transform, not from parsing real
// source) is reported as an *ast.InvariantError.
func Generate(re *ast.Regex) (pattern string, flags string, err error) {
	if re == nil || re.Pattern == nil {
		return "", "", &ast.InvariantError{Msg: "generator: nil Regex or Pattern"}
	}
	pattern, err = genAlternatives(re.Pattern.Alternatives)
	if err != nil {
		return "", "", err
	}
	if re.Flags != nil {
		flags = flagLetters(re.Flags.FlagSet)
	}
	return pattern, flags, nil
}

// flagLetters renders a FlagSet back to the letter string internal/token
// parses via parseFlagLetters: one character per set boolean field, in
// the tokenizer's own recognition order.
func flagLetters(fs ast.FlagSet) string {
	var b strings.Builder
	if fs.IgnoreCase {
		b.WriteByte('i')
	}
	if fs.DotAll {
		b.WriteByte('m')
	}
	if fs.Extended {
		b.WriteByte('x')
	}
	if fs.DigitIsASCII {
		b.WriteByte('D')
	}
	if fs.SpaceIsASCII {
		b.WriteByte('S')
	}
	if fs.WordIsASCII {
		b.WriteByte('W')
	}
	if fs.PosixIsASCII {
		b.WriteByte('P')
	}
	if fs.TextSegmentMode {
		b.WriteByte('y')
	}
	return b.String()
}

// genModifiers renders a FlagGroupModifiers as the "flags" or
// "flags-flags" body of a scoped-flag group or directive.
func genModifiers(m *ast.FlagGroupModifiers) string {
	enable := flagLetters(m.Enable)
	disable := flagLetters(m.Disable)
	if disable == "" {
		return enable
	}
	return enable + "-" + disable
}

func genAlternatives(alts []*ast.Alternative) (string, error) {
	parts := make([]string, len(alts))
	for i, a := range alts {
		s, err := genAlternative(a)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, "|"), nil
}

func genAlternative(a *ast.Alternative) (string, error) {
	var b strings.Builder
	for _, e := range a.Elements {
		s, err := genElement(e)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// genElement renders a single Alternative element (non-class context).
func genElement(n ast.Node) (string, error) {
	switch t := n.(type) {
	case *ast.Character:
		return renderChar(t.Value, metaChars), nil
	case *ast.CharacterSet:
		return genCharacterSet(t, false), nil
	case *ast.CharacterClass:
		return genClass(t)
	case *ast.Assertion:
		return genAssertion(t), nil
	case *ast.LookaroundAssertion:
		return genLookaround(t)
	case *ast.Group:
		return genGroup(t)
	case *ast.CapturingGroup:
		return genCapturingGroup(t)
	case *ast.AbsentFunction:
		return genAbsentFunction(t)
	case *ast.Backreference:
		return genBackreference(t)
	case *ast.Subroutine:
		return genSubroutine(t)
	case *ast.Quantifier:
		return genQuantifier(t)
	case *ast.Directive:
		return genDirective(t)
	default:
		return "", &ast.InvariantError{Msg: fmt.Sprintf("generator: unsupported node type %T", n)}
	}
}

func genAssertion(a *ast.Assertion) string {
	switch a.Kind {
	case ast.AssertionLineStart:
		return "^"
	case ast.AssertionLineEnd:
		return "$"
	case ast.AssertionStringStart:
		return `\A`
	case ast.AssertionStringEnd:
		return `\z`
	case ast.AssertionStringEndNewline:
		return `\Z`
	case ast.AssertionSearchStart:
		return `\G`
	case ast.AssertionWordBoundary:
		if a.Negate {
			return `\B`
		}
		return `\b`
	case ast.AssertionGraphemeBoundary:
		if a.Negate {
			return `\Y`
		}
		return `\y`
	default:
		return ""
	}
}

func genLookaround(l *ast.LookaroundAssertion) (string, error) {
	body, err := genAlternatives(l.Alternatives)
	if err != nil {
		return "", err
	}
	var open string
	switch {
	case l.Kind == ast.LookaroundLookahead && !l.Negate:
		open = "(?="
	case l.Kind == ast.LookaroundLookahead && l.Negate:
		open = "(?!"
	case l.Kind == ast.LookaroundLookbehind && !l.Negate:
		open = "(?<="
	default:
		open = "(?<!"
	}
	return open + body + ")", nil
}

func genGroup(g *ast.Group) (string, error) {
	body, err := genAlternatives(g.Alternatives)
	if err != nil {
		return "", err
	}
	switch {
	case g.Flags != nil:
		return "(?" + genModifiers(g.Flags) + ":" + body + ")", nil
	case g.Atomic:
		return "(?>" + body + ")", nil
	default:
		return "(?:" + body + ")", nil
	}
}

func genCapturingGroup(g *ast.CapturingGroup) (string, error) {
	body, err := genAlternatives(g.Alternatives)
	if err != nil {
		return "", err
	}
	if g.Name != "" {
		return "(?<" + g.Name + ">" + body + ")", nil
	}
	return "(" + body + ")", nil
}

func genAbsentFunction(a *ast.AbsentFunction) (string, error) {
	body, err := genAlternatives(a.Alternatives)
	if err != nil {
		return "", err
	}
	return "(?~" + body + ")", nil
}

func genBackreference(b *ast.Backreference) (string, error) {
	switch ref := b.Ref.(type) {
	case string:
		return `\k<` + ref + `>`, nil
	case int:
		return `\k<` + strconv.Itoa(ref) + `>`, nil
	default:
		return "", &ast.InvariantError{Msg: fmt.Sprintf("generator: backreference ref has type %T", ref)}
	}
}

func genSubroutine(s *ast.Subroutine) (string, error) {
	switch ref := s.Ref.(type) {
	case string:
		return `\g<` + ref + `>`, nil
	case int:
		return `\g<` + strconv.Itoa(ref) + `>`, nil
	default:
		return "", &ast.InvariantError{Msg: fmt.Sprintf("generator: subroutine ref has type %T", ref)}
	}
}

// quantifierBase renders the min/max portion of a Quantifier using the
// shortest equivalent Oniguruma spelling; the lazy/possessive suffix is
// appended separately since it applies uniformly to every base form.
func quantifierBase(min, max int) string {
	if max == ast.Unbounded {
		switch min {
		case 0:
			return "*"
		case 1:
			return "+"
		default:
			return fmt.Sprintf("{%d,}", min)
		}
	}
	if min == 0 && max == 1 {
		return "?"
	}
	if min == max {
		return fmt.Sprintf("{%d}", min)
	}
	return fmt.Sprintf("{%d,%d}", min, max)
}

func genQuantifier(q *ast.Quantifier) (string, error) {
	elem, err := genElement(q.Element)
	if err != nil {
		return "", err
	}
	base := quantifierBase(q.Min, q.Max)
	switch q.Kind {
	case ast.QuantifierLazy:
		return elem + base + "?", nil
	case ast.QuantifierPossessive:
		return elem + base + "+", nil
	default:
		return elem + base, nil
	}
}

func genDirective(d *ast.Directive) (string, error) {
	switch d.Kind {
	case ast.DirectiveKeep:
		return `\K`, nil
	case ast.DirectiveFlags:
		return "(?" + genModifiers(d.Flags) + ")", nil
	default:
		return "", &ast.InvariantError{Msg: fmt.Sprintf("generator: unknown directive kind %q", d.Kind)}
	}
}

// genCharacterSet renders a shorthand/POSIX/property character set.
// insideClass only changes the POSIX form: its "[:name:]" spelling is
// only legal nested inside an already-open class bracket, so a POSIX
// set found outside any class (an unusual but reachable AST shape,
// e.g. after a hand-built transform) is self-wrapped in a one-element
// class instead of emitting invalid bare "[:name:]" source.
func genCharacterSet(cs *ast.CharacterSet, insideClass bool) string {
	switch cs.Kind {
	case ast.CharacterSetAny:
		return "."
	case ast.CharacterSetDigit:
		if cs.Negate {
			return `\D`
		}
		return `\d`
	case ast.CharacterSetHex:
		if cs.Negate {
			return `\H`
		}
		return `\h`
	case ast.CharacterSetSpace:
		if cs.Negate {
			return `\S`
		}
		return `\s`
	case ast.CharacterSetWord:
		if cs.Negate {
			return `\W`
		}
		return `\w`
	case ast.CharacterSetNewline:
		if cs.Negate {
			return `\N`
		}
		return `\R`
	case ast.CharacterSetGrapheme:
		return `\X`
	case ast.CharacterSetPosix:
		form := "[:" + cs.Value + ":]"
		if cs.Negate {
			form = "[:^" + cs.Value + ":]"
		}
		if insideClass {
			return form
		}
		return "[" + form + "]"
	case ast.CharacterSetProperty:
		letter := "p"
		if cs.Negate {
			letter = "P"
		}
		return `\` + letter + `{` + cs.Value + `}`
	default:
		return ""
	}
}

// genClass renders a full "[...]" character class, dispatching on
// union vs. intersection form.
func genClass(cc *ast.CharacterClass) (string, error) {
	var b strings.Builder
	b.WriteByte('[')
	if cc.Negate {
		b.WriteByte('^')
	}
	switch cc.Kind {
	case ast.ClassIntersection:
		parts := make([]string, len(cc.Elements))
		for i, e := range cc.Elements {
			s, err := genIntersectionSegment(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		b.WriteString(strings.Join(parts, "&&"))
	default:
		for _, e := range cc.Elements {
			s, err := genClassElement(e)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
	}
	b.WriteByte(']')
	return b.String(), nil
}

// genClassElement renders one member of a union class's Elements list.
func genClassElement(n ast.Node) (string, error) {
	switch t := n.(type) {
	case *ast.Character:
		return renderChar(t.Value, classMetaChars), nil
	case *ast.CharacterClassRange:
		return renderChar(t.Min.Value, classMetaChars) + "-" + renderChar(t.Max.Value, classMetaChars), nil
	case *ast.CharacterSet:
		return genCharacterSet(t, true), nil
	case *ast.CharacterClass:
		return genClass(t)
	default:
		return "", &ast.InvariantError{Msg: fmt.Sprintf("generator: unsupported character class element %T", n)}
	}
}

// genIntersectionSegment renders one "&&"-separated segment of an
// intersection class. parser.buildCharacterClass wraps a multi-element
// segment in a synthetic, always-non-negated union CharacterClass
// purely to carry the list (it was never bracketed in the source), and
// unwraps a single-element segment to that bare element, so a
// synthetic wrapper always holds two or more elements. A *genuinely*
// bracketed nested union of two or more elements (e.g. "[x&&[yz]]")
// and a plain multi-character segment (e.g. "[x&&yz]") produce the
// identical AST shape here. Both are rendered unbracketed: the
// ambiguity is in the AST, not introduced by the generator, and either
// source form reparses to the same tree (spec §8's round-trip property
// only requires structural equality, not byte equality). A negated or
// single-element nested class can only be a real bracketed class, so
// those keep their brackets.
func genIntersectionSegment(n ast.Node) (string, error) {
	if cc, ok := n.(*ast.CharacterClass); ok && cc.Kind == ast.ClassUnion && !cc.Negate && len(cc.Elements) > 1 {
		var b strings.Builder
		for _, e := range cc.Elements {
			s, err := genClassElement(e)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
		return b.String(), nil
	}
	return genClassElement(n)
}

// renderChar renders a single code point as it would appear in source:
// a handful of named control escapes, a backslash-escape for whatever
// meta set applies to the surrounding context, a \x{...} escape for
// other non-printable control characters, and a literal rune otherwise.
func renderChar(v rune, metaSet string) string {
	switch v {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case '\f':
		return `\f`
	case '\v':
		return `\v`
	case '\a':
		return `\a`
	case 0x1b:
		return `\e`
	case '\\':
		return `\\`
	}
	if strings.ContainsRune(metaSet, v) {
		return `\` + string(v)
	}
	if v < 0x20 || v == 0x7f {
		return fmt.Sprintf(`\x{%X}`, v)
	}
	return string(v)
}
