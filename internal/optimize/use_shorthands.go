package optimize

import (
	"sort"

	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/traverse"
	"github.com/0x4d5352/oniguru/internal/unicode"
)

func init() {
	Register("use-shorthands", true, buildUseShorthands)
}

// buildUseShorthands implements the "use-shorthands" catalog entry: it
// folds verbose property/POSIX spellings down to Oniguruma's built-in
// shorthand sets, gated by the flags that change what those shorthands
// mean (spec.md §4.5, §9's \p{space} asymmetry).
func buildUseShorthands(flags ast.FlagSet) traverse.Visitor {
	return traverse.Visitor{
		ast.NodeCharacterSet: traverse.NodeVisitor{Enter: func(p *traverse.Path) error {
			repl, ok := shorthandReplacement(p.Node.(*ast.CharacterSet), flags)
			if !ok {
				return nil
			}
			return p.ReplaceWith(repl)
		}},
		ast.NodeCharacterClass: traverse.NodeVisitor{Enter: func(p *traverse.Path) error {
			cc := p.Node.(*ast.CharacterClass)
			if cc.Kind != ast.ClassUnion {
				return nil
			}
			collapseHexRanges(cc)
			collapseAnyRange(cc)
			collapseWordCategories(cc, flags)
			return nil
		}},
	}
}

// shorthandReplacement maps a single property or POSIX CharacterSet to
// its built-in shorthand equivalent, honoring the flag gates that
// suppress a property-form rewrite but not its POSIX-form counterpart
// (the \p{space}-vs-[[:space:]] asymmetry generalizes to digit and
// space alike; see DESIGN.md's Open Question decision).
func shorthandReplacement(cs *ast.CharacterSet, flags ast.FlagSet) (ast.Node, bool) {
	switch cs.Kind {
	case ast.CharacterSetProperty:
		switch unicode.Slug(cs.Value) {
		case "decimalnumber", "nd":
			if flags.DigitIsASCII || flags.PosixIsASCII {
				return nil, false
			}
			return ast.NewCharacterSet(ast.CharacterSetDigit, cs.Negate), true
		case "asciihexdigit", "ahex":
			return ast.NewCharacterSet(ast.CharacterSetHex, cs.Negate), true
		case "whitespace", "wspace":
			if flags.SpaceIsASCII || flags.PosixIsASCII {
				return nil, false
			}
			return ast.NewCharacterSet(ast.CharacterSetSpace, cs.Negate), true
		case "cntrl":
			if flags.PosixIsASCII {
				return nil, false
			}
			return ast.NewPropertyCharacterSet("Cc", cs.Negate), true
		}
	case ast.CharacterSetPosix:
		switch cs.Value {
		case "digit":
			return ast.NewCharacterSet(ast.CharacterSetDigit, cs.Negate), true
		case "xdigit":
			return ast.NewCharacterSet(ast.CharacterSetHex, cs.Negate), true
		case "space":
			return ast.NewCharacterSet(ast.CharacterSetSpace, cs.Negate), true
		case "cntrl":
			if flags.PosixIsASCII {
				return nil, false
			}
			return ast.NewPropertyCharacterSet("Cc", cs.Negate), true
		}
	}
	return nil, false
}

// collapseHexRanges folds the three ranges "0-9", "A-F", "a-f" into a
// trailing \h when a union class carries all three.
func collapseHexRanges(cc *ast.CharacterClass) {
	idxDigit, idxUpper, idxLower := -1, -1, -1
	for i, e := range cc.Elements {
		r, ok := e.(*ast.CharacterClassRange)
		if !ok {
			continue
		}
		switch {
		case r.Min.Value == '0' && r.Max.Value == '9':
			idxDigit = i
		case r.Min.Value == 'A' && r.Max.Value == 'F':
			idxUpper = i
		case r.Min.Value == 'a' && r.Max.Value == 'f':
			idxLower = i
		}
	}
	if idxDigit < 0 || idxUpper < 0 || idxLower < 0 {
		return
	}
	cc.Elements = removeIndices(cc.Elements, idxDigit, idxUpper, idxLower)
	cc.Elements = append(cc.Elements, ast.NewCharacterSet(ast.CharacterSetHex, false))
}

// collapseAnyRange folds a "\x00-\x{10FFFF}" range into a trailing
// \p{Any}.
func collapseAnyRange(cc *ast.CharacterClass) {
	for i, e := range cc.Elements {
		r, ok := e.(*ast.CharacterClassRange)
		if !ok {
			continue
		}
		if r.Min.Value == 0 && r.Max.Value == ast.MaxCodePoint {
			cc.Elements = removeIndices(cc.Elements, i)
			cc.Elements = append(cc.Elements, ast.NewPropertyCharacterSet("Any", false))
			return
		}
	}
}

// collapseWordCategories folds a class covering the L, M, N, and Pc
// property categories into a trailing \w. Recognition is simplified to
// each category's top-level code or full name (not a full enumeration
// of every Unicode subcategory); \p{P} also satisfies the Pc
// requirement since Pc is one of its subcategories, even though \p{P}
// alone is broader than Pc.
func collapseWordCategories(cc *ast.CharacterClass, flags ast.FlagSet) {
	if flags.WordIsASCII || flags.PosixIsASCII {
		return
	}
	var haveL, haveM, haveN, havePc bool
	var idxs []int
	for i, e := range cc.Elements {
		cs, ok := e.(*ast.CharacterSet)
		if !ok || cs.Kind != ast.CharacterSetProperty || cs.Negate {
			continue
		}
		switch unicode.Slug(cs.Value) {
		case "l", "letter":
			haveL = true
		case "m", "mark":
			haveM = true
		case "n", "number":
			haveN = true
		case "pc", "connectorpunctuation":
			havePc = true
		case "p", "punctuation":
			havePc = true
		default:
			continue
		}
		idxs = append(idxs, i)
	}
	if !(haveL && haveM && haveN && havePc) {
		return
	}
	cc.Elements = removeIndices(cc.Elements, idxs...)
	cc.Elements = append(cc.Elements, ast.NewCharacterSet(ast.CharacterSetWord, false))
}

// removeIndices returns elements with the given indices deleted,
// leaving the relative order of survivors unchanged.
func removeIndices(elements []ast.Node, idxs ...int) []ast.Node {
	sorted := append([]int(nil), idxs...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	out := append([]ast.Node(nil), elements...)
	for _, i := range sorted {
		out = append(out[:i], out[i+1:]...)
	}
	return out
}
