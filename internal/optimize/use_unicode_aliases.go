package optimize

import (
	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/traverse"
	"github.com/0x4d5352/oniguru/internal/unicode"
)

func init() {
	Register("use-unicode-aliases", true, buildUseUnicodeAliases)
}

// buildUseUnicodeAliases implements the "use-unicode-aliases" companion
// transform: canonicalize a \p{Name}/\P{Name} spelling to its short
// alias (e.g. "Decimal_Number" -> "Nd") using the same table
// internal/parser consults when the caller hasn't supplied its own
// property map.
func buildUseUnicodeAliases(flags ast.FlagSet) traverse.Visitor {
	return traverse.Visitor{
		ast.NodeCharacterSet: traverse.NodeVisitor{Enter: func(p *traverse.Path) error {
			cs := p.Node.(*ast.CharacterSet)
			if cs.Kind != ast.CharacterSetProperty {
				return nil
			}
			canonical, ok := unicode.Resolve(cs.Value)
			if !ok || canonical == cs.Value {
				return nil
			}
			return p.ReplaceWith(ast.NewPropertyCharacterSet(canonical, cs.Negate))
		}},
	}
}
