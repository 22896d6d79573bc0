// Package traverse implements a generic, mutation-aware AST walk over
// internal/ast (spec §4.4): a visitor dispatches enter/exit callbacks
// per node kind, and a Path object threaded into each callback exposes
// replaceWith/replaceWithMultiple/remove/skip primitives that adjust
// the walk's cursor precisely, without reflection.
package traverse

import "github.com/0x4d5352/oniguru/internal/ast"

// Container addresses a child slice in a parent node (e.g.
// Pattern.Alternatives, Alternative.Elements) without reflection. T is
// the concrete node type stored in the slice.
type Container[T ast.Node] struct {
	slice *[]T
}

// NewContainer wraps a pointer to a node's child slice field.
func NewContainer[T ast.Node](slice *[]T) Container[T] { return Container[T]{slice: slice} }

func (c Container[T]) Len() int { return len(*c.slice) }

func (c Container[T]) Get(i int) ast.Node { return (*c.slice)[i] }

// Set replaces the element at i with node, which must be assignable
// to T; it panics via a failed type assertion otherwise, which is the
// traverser's own invariant violation, not a caller input error.
func (c Container[T]) Set(i int, node ast.Node) { (*c.slice)[i] = node.(T) }

// Insert splices nodes into the slice starting at i, shifting
// everything at and after i to the right.
func (c Container[T]) Insert(i int, nodes []ast.Node) {
	typed := make([]T, len(nodes))
	for j, n := range nodes {
		typed[j] = n.(T)
	}
	s := *c.slice
	grown := make([]T, 0, len(s)+len(typed))
	grown = append(grown, s[:i]...)
	grown = append(grown, typed...)
	grown = append(grown, s[i:]...)
	*c.slice = grown
}

// RemoveRange deletes the half-open range [from, to) from the slice.
func (c Container[T]) RemoveRange(from, to int) {
	s := *c.slice
	*c.slice = append(s[:from:from], s[to:]...)
}

// genericContainer erases Container[T]'s type parameter so Path can
// hold a container for any child-slice element type uniformly.
type genericContainer interface {
	Len() int
	Get(i int) ast.Node
	Set(i int, node ast.Node)
	Insert(i int, nodes []ast.Node)
	RemoveRange(from, to int)
}

var (
	_ genericContainer = Container[ast.Node]{}
	_ genericContainer = Container[*ast.Alternative]{}
)

// Slot addresses a single-child field in a parent node (e.g.
// Regex.Pattern, Quantifier.Element) without reflection.
type Slot[T ast.Node] struct {
	ptr *T
}

// NewSlot wraps a pointer to a node's single-child field.
func NewSlot[T ast.Node](ptr *T) Slot[T] { return Slot[T]{ptr: ptr} }

func (s Slot[T]) Get() ast.Node { return *s.ptr }

func (s Slot[T]) Set(node ast.Node) { *s.ptr = node.(T) }

type genericSlot interface {
	Get() ast.Node
	Set(node ast.Node)
}

var (
	_ genericSlot = Slot[ast.Node]{}
	_ genericSlot = Slot[*ast.Pattern]{}
)
