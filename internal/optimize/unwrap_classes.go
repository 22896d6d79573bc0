package optimize

import (
	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/traverse"
)

func init() {
	Register("unwrap-classes", true, buildUnwrapClasses)
}

// buildUnwrapClasses implements the catalog's "unwrap-classes": a
// non-negated union class at non-class context (its parent isn't
// itself a CharacterClass; that case belongs to unnest-useless-classes)
// with exactly one Character or CharacterSet child collapses to that
// child.
func buildUnwrapClasses(flags ast.FlagSet) traverse.Visitor {
	return traverse.Visitor{
		ast.NodeCharacterClass: traverse.NodeVisitor{Enter: func(p *traverse.Path) error {
			cc := p.Node.(*ast.CharacterClass)
			if cc.Negate || cc.Kind != ast.ClassUnion || len(cc.Elements) != 1 {
				return nil
			}
			if p.Parent != nil && p.Parent.Type() == ast.NodeCharacterClass {
				return nil
			}
			switch cc.Elements[0].(type) {
			case *ast.Character, *ast.CharacterSet:
				return p.ReplaceWith(cc.Elements[0])
			}
			return nil
		}},
	}
}
