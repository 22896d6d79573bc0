package optimize

import (
	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/traverse"
)

func init() {
	Register("alternation-to-class", true, buildAlternationToClass)
}

// buildAlternationToClass implements "alternation-to-class": in any
// alternative-container, a run of two or more adjacent alternatives
// each consisting of a single single-length element (a Character, a
// CharacterClass, or a non-variable-length CharacterSet) fuses into one
// alternative holding a union class over those elements, e.g.
// "a|b|c" -> "[abc]". A singleton run (no fusable neighbor) is left
// untouched.
//
// Every container type that holds an Alternatives slice (Pattern,
// Group, CapturingGroup, LookaroundAssertion, AbsentFunction) registers
// the same Enter callback and rewrites its own field directly, rather
// than going through the traverser's container mutation primitives:
// fusing N siblings into 1 has no Path operation (ReplaceWithMultiple
// only ever grows or holds steady). The walk reads Alternatives again
// right after Enter returns, so mutating the field in place here is
// exactly as safe as any other structural rewrite.
func buildAlternationToClass(flags ast.FlagSet) traverse.Visitor {
	enter := func(p *traverse.Path) error {
		switch n := p.Node.(type) {
		case *ast.Pattern:
			n.Alternatives = fuseAlternationRuns(n.Alternatives)
		case *ast.Group:
			n.Alternatives = fuseAlternationRuns(n.Alternatives)
		case *ast.CapturingGroup:
			n.Alternatives = fuseAlternationRuns(n.Alternatives)
		case *ast.LookaroundAssertion:
			n.Alternatives = fuseAlternationRuns(n.Alternatives)
		case *ast.AbsentFunction:
			n.Alternatives = fuseAlternationRuns(n.Alternatives)
		}
		return nil
	}
	return traverse.Visitor{
		ast.NodePattern:             traverse.NodeVisitor{Enter: enter},
		ast.NodeGroup:               traverse.NodeVisitor{Enter: enter},
		ast.NodeCapturingGroup:      traverse.NodeVisitor{Enter: enter},
		ast.NodeLookaroundAssertion: traverse.NodeVisitor{Enter: enter},
		ast.NodeAbsentFunction:      traverse.NodeVisitor{Enter: enter},
	}
}

func fuseAlternationRuns(alts []*ast.Alternative) []*ast.Alternative {
	out := make([]*ast.Alternative, 0, len(alts))
	i := 0
	for i < len(alts) {
		first, ok := fusableElement(alts[i])
		if !ok {
			out = append(out, alts[i])
			i++
			continue
		}
		members := []ast.Node{first}
		j := i + 1
		for j < len(alts) {
			e, ok := fusableElement(alts[j])
			if !ok {
				break
			}
			members = append(members, e)
			j++
		}
		if j-i == 1 {
			out = append(out, alts[i])
		} else {
			out = append(out, &ast.Alternative{Elements: []ast.Node{
				&ast.CharacterClass{Kind: ast.ClassUnion, Elements: members},
			}})
		}
		i = j
	}
	return out
}

// fusableElement reports the sole element of alt when it is one of the
// kinds alternation-to-class can fold into a class member, and whether
// it qualifies (exactly one element, single-length).
func fusableElement(alt *ast.Alternative) (ast.Node, bool) {
	if len(alt.Elements) != 1 {
		return nil, false
	}
	switch e := alt.Elements[0].(type) {
	case *ast.Character:
		return e, true
	case *ast.CharacterClass:
		return e, true
	case *ast.CharacterSet:
		if e.VariableLength {
			return nil, false
		}
		return e, true
	default:
		return nil, false
	}
}
