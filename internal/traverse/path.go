package traverse

import "github.com/0x4d5352/oniguru/internal/ast"

// Path is handed to every visitor callback during a walk. It carries
// the current node together with enough addressing information
// (parent, key, container/slot, and a pointer into the enclosing
// container loop's cursor) that the mutation primitives below can
// splice the tree and steer the walk's cursor in the same call,
// without the caller ever touching a raw slice index itself.
//
// A Path is only valid for the duration of the callback it was passed
// to; nothing retains it afterward.
type Path struct {
	Node   ast.Node
	Parent ast.Node
	Key    string // the parent field this node was reached through
	Index  int    // position within Key's container; -1 for a single-child slot

	container genericContainer // non-nil when Node lives in a slice field
	slot      genericSlot      // non-nil when Node lives in a single-value field
	idxPtr    *int             // the enclosing container loop's cursor variable

	skip           bool
	removed        bool // Node no longer occupies its slot; don't descend or exit
	advanceHandled bool // a mutation already set *idxPtr; the loop must not also increment it
}

// Skip prevents the walk from descending into Node's children. Node's
// own Exit callback, if any, still fires.
func (p *Path) Skip() { p.skip = true }

// ReplaceWith substitutes node for Path.Node in place. When called from
// an Enter callback, node's own type-keyed Enter then fires (the
// wildcard Enter does not fire again), and traversal continues into
// node's own children as if it had been there from the start (there is
// no separate "don't traverse" option for a single
// replacement; use ReplaceWithMultiple(nodes, false) when that's
// needed for a 1-to-N substitution).
func (p *Path) ReplaceWith(node ast.Node) error {
	switch {
	case p.container != nil:
		p.container.Set(p.Index, node)
	case p.slot != nil:
		p.slot.Set(node)
	default:
		return &ast.InvariantError{Msg: "ReplaceWith has no parent slot to write into"}
	}
	p.Node = node
	return nil
}

// ReplaceWithMultiple splices nodes in place of Path.Node, which must
// live in a container (a single-child slot has no room to grow into).
// When traverseNew is false, the walk resumes just past all inserted
// nodes without visiting them. When true, the walk resumes at the
// first inserted node and descends into each of them in turn via the
// container loop's normal advance, including any further mutations
// they trigger.
func (p *Path) ReplaceWithMultiple(nodes []ast.Node, traverseNew bool) error {
	if p.container == nil {
		return &ast.InvariantError{Msg: "ReplaceWithMultiple requires a container parent"}
	}
	i := p.Index
	p.container.RemoveRange(i, i+1)
	p.container.Insert(i, nodes)
	if traverseNew {
		*p.idxPtr = i
	} else {
		*p.idxPtr = i + len(nodes)
	}
	p.advanceHandled = true
	p.removed = true
	return nil
}

// Remove deletes Path.Node from its container. The walk resumes at the
// same index, which now holds the node's former next sibling (or is
// past the end, ending the loop).
func (p *Path) Remove() error {
	if p.container == nil {
		return &ast.InvariantError{Msg: "Remove requires a container parent"}
	}
	p.container.RemoveRange(p.Index, p.Index+1)
	p.removed = true
	return nil
}

// RemoveAllPrevSiblings deletes every element before Path.Node in its
// container. The walk then continues normally past Path.Node (which
// has shifted to index 0) to whatever followed it.
func (p *Path) RemoveAllPrevSiblings() error {
	if p.container == nil {
		return &ast.InvariantError{Msg: "RemoveAllPrevSiblings requires a container parent"}
	}
	if p.Index == 0 {
		return nil
	}
	p.container.RemoveRange(0, p.Index)
	p.Index = 0
	*p.idxPtr = 0
	return nil
}

// RemoveAllNextSiblings deletes every element after Path.Node in its
// container. No cursor adjustment is needed: the walk's normal advance
// past Path.Node then finds the container exhausted.
func (p *Path) RemoveAllNextSiblings() error {
	if p.container == nil {
		return &ast.InvariantError{Msg: "RemoveAllNextSiblings requires a container parent"}
	}
	n := p.container.Len()
	if p.Index+1 >= n {
		return nil
	}
	p.container.RemoveRange(p.Index+1, n)
	return nil
}
