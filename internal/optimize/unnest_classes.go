package optimize

import (
	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/traverse"
)

func init() {
	Register("unnest-useless-classes", true, buildUnnestUselessClasses)
}

// buildUnnestUselessClasses implements "unnest-useless-classes": inside
// another class, an inner union class is flattened into its parent's
// element list; if the inner class was the parent's only element and
// is itself a union, the parent's negate XORs with the inner's (since
// "[^[^a]]" and "[a]" denote the same set). A non-negated singleton
// intersection class (one "&&"-segment) is redundant wherever it occurs
// and unwraps to that segment's own element; a negated one is left as is.
func buildUnnestUselessClasses(flags ast.FlagSet) traverse.Visitor {
	return traverse.Visitor{
		ast.NodeCharacterClass: traverse.NodeVisitor{Enter: func(p *traverse.Path) error {
			cc := p.Node.(*ast.CharacterClass)

			if cc.Kind == ast.ClassIntersection && len(cc.Elements) == 1 && !cc.Negate {
				return p.ReplaceWith(cc.Elements[0])
			}

			outer, ok := p.Parent.(*ast.CharacterClass)
			if !ok || cc.Kind != ast.ClassUnion {
				return nil
			}
			if len(outer.Elements) == 1 {
				outer.Negate = outer.Negate != cc.Negate
			} else if cc.Negate {
				// A negated inner union with siblings can't be
				// flattened without losing its negation; leave it.
				return nil
			}
			return p.ReplaceWithMultiple(cc.Elements, true)
		}},
	}
}
