package optimize

import (
	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/traverse"
)

func init() {
	Register("unwrap-negation-wrappers", true, buildUnwrapNegationWrappers)
}

// buildUnwrapNegationWrappers implements "unwrap-negation-wrappers": a
// negated single-child union class whose child is a CharacterSet
// collapses by flipping the set's own Negate, e.g. "[^\d]" -> "\D".
//
// A negated single-child union class whose child is instead the bare
// literal newline character ("[^\n]") collapses to the \N shorthand
// directly (there is no existing CharacterSet to flip; \n tokenizes as
// a plain Character, not a CharacterSetNewline). Oniguruma has a known
// bug applying a non-lazy quantifier directly to \N, so this one
// rewrite is suppressed when the class sits directly under a greedy or
// possessive Quantifier (a lazy quantifier, or no quantifier at all,
// is unaffected).
func buildUnwrapNegationWrappers(flags ast.FlagSet) traverse.Visitor {
	return traverse.Visitor{
		ast.NodeCharacterClass: traverse.NodeVisitor{Enter: func(p *traverse.Path) error {
			cc := p.Node.(*ast.CharacterClass)
			if !cc.Negate || cc.Kind != ast.ClassUnion || len(cc.Elements) != 1 {
				return nil
			}

			if ch, ok := cc.Elements[0].(*ast.Character); ok && ch.Value == '\n' {
				if q, ok := p.Parent.(*ast.Quantifier); ok && q.Kind != ast.QuantifierLazy {
					return nil
				}
				return p.ReplaceWith(ast.NewCharacterSet(ast.CharacterSetNewline, true))
			}

			cs, ok := cc.Elements[0].(*ast.CharacterSet)
			if !ok {
				return nil
			}
			flipped := ast.NewCharacterSet(cs.Kind, !cs.Negate)
			if cs.Kind == ast.CharacterSetPosix || cs.Kind == ast.CharacterSetProperty {
				flipped.Value = cs.Value
			}
			return p.ReplaceWith(flipped)
		}},
	}
}
