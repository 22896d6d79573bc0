package traverse

import "github.com/0x4d5352/oniguru/internal/ast"

// VisitFn is a single enter or exit callback.
type VisitFn func(p *Path) error

// NodeVisitor pairs the enter/exit callbacks registered for one node kind.
type NodeVisitor struct {
	Enter VisitFn
	Exit  VisitFn
}

// Visitor maps a node kind to the callbacks that fire for it. Kinds
// with no entry are walked (children still visited) but never invoke a
// callback themselves.
type Visitor map[ast.NodeType]NodeVisitor

// Wildcard is the reserved key for a cross-cutting callback pair that
// fires on every node regardless of kind, in addition to (not instead
// of) that node's own type-keyed entry. Order per node: wildcard-enter,
// type-enter, children, type-exit, wildcard-exit.
const Wildcard ast.NodeType = "*"

// Walk traverses root and everything reachable from it, invoking v's
// registered callbacks. root is typically an *ast.Regex, *ast.Pattern,
// or any node reachable by a narrower walk (the optimizer's
// convergence checks re-walk the whole Regex each pass).
func Walk(root ast.Node, v Visitor) error {
	_, err := walkNode(root, v, nil, "", -1, nil, nil, nil)
	return err
}

func walkNode(node ast.Node, v Visitor, parent ast.Node, key string, index int, container genericContainer, slot genericSlot, idxPtr *int) (*Path, error) {
	p := &Path{Node: node, Parent: parent, Key: key, Index: index, container: container, slot: slot, idxPtr: idxPtr}

	if nv, ok := v[Wildcard]; ok && nv.Enter != nil {
		if err := nv.Enter(p); err != nil {
			return p, err
		}
	}
	if p.removed {
		return p, nil
	}
	if nv, ok := v[node.Type()]; ok && nv.Enter != nil {
		if err := nv.Enter(p); err != nil {
			return p, err
		}
	}
	if p.removed {
		return p, nil
	}
	// A ReplaceWith during Enter hands the replacement its own
	// type-keyed Enter before its children are walked.
	for entered := node; p.Node != entered; {
		entered = p.Node
		if nv, ok := v[entered.Type()]; ok && nv.Enter != nil {
			if err := nv.Enter(p); err != nil {
				return p, err
			}
		}
		if p.removed {
			return p, nil
		}
	}

	if !p.skip {
		if err := walkChildren(p.Node, v); err != nil {
			return p, err
		}
	}

	if !p.removed {
		if nv, ok := v[p.Node.Type()]; ok && nv.Exit != nil {
			if err := nv.Exit(p); err != nil {
				return p, err
			}
		}
	}
	if !p.removed {
		if nv, ok := v[Wildcard]; ok && nv.Exit != nil {
			if err := nv.Exit(p); err != nil {
				return p, err
			}
		}
	}
	return p, nil
}

// walkChildren dispatches to the child containers/slots for node's
// concrete type, per spec §4.4's child-enumeration table. Regex.Flags
// is root metadata, not a pattern element, and is intentionally not
// descended into.
func walkChildren(node ast.Node, v Visitor) error {
	switch n := node.(type) {
	case *ast.Regex:
		return walkSlotField(NewSlot(&n.Pattern), "Pattern", v, n)
	case *ast.Pattern:
		return walkContainerField(NewContainer(&n.Alternatives), "Alternatives", v, n)
	case *ast.Alternative:
		return walkContainerField(NewContainer(&n.Elements), "Elements", v, n)
	case *ast.CharacterClass:
		return walkContainerField(NewContainer(&n.Elements), "Elements", v, n)
	case *ast.CharacterClassRange:
		if err := walkSlotField(NewSlot(&n.Min), "Min", v, n); err != nil {
			return err
		}
		return walkSlotField(NewSlot(&n.Max), "Max", v, n)
	case *ast.LookaroundAssertion:
		return walkContainerField(NewContainer(&n.Alternatives), "Alternatives", v, n)
	case *ast.Group:
		return walkContainerField(NewContainer(&n.Alternatives), "Alternatives", v, n)
	case *ast.CapturingGroup:
		return walkContainerField(NewContainer(&n.Alternatives), "Alternatives", v, n)
	case *ast.AbsentFunction:
		return walkContainerField(NewContainer(&n.Alternatives), "Alternatives", v, n)
	case *ast.Quantifier:
		return walkSlotField(NewSlot(&n.Element), "Element", v, n)
	default:
		// Character, CharacterSet, Assertion, Backreference,
		// Subroutine, Directive, Flags: no children.
		return nil
	}
}

func walkContainerField[T ast.Node](c Container[T], key string, v Visitor, parent ast.Node) error {
	i := 0
	for i < c.Len() {
		idx := i
		child := c.Get(idx)
		p, err := walkNode(child, v, parent, key, idx, c, nil, &i)
		if err != nil {
			return err
		}
		if !(p.removed || p.advanceHandled) {
			i++
		}
	}
	return nil
}

func walkSlotField[T ast.Node](s Slot[T], key string, v Visitor, parent ast.Node) error {
	_, err := walkNode(s.Get(), v, parent, key, -1, nil, s, nil)
	return err
}
