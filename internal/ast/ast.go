// Package ast defines the Abstract Syntax Tree node types for Oniguruma
// regular expression patterns. Every node is a struct implementing Node;
// there is no class hierarchy, only a closed set of concrete node types
// switched on by their NodeType discriminant.
package ast

import (
	"fmt"
	"regexp"
)

// NodeType discriminates the concrete node types in the tree.
type NodeType string

const (
	NodeRegex               NodeType = "Regex"
	NodePattern              NodeType = "Pattern"
	NodeAlternative          NodeType = "Alternative"
	NodeFlags                NodeType = "Flags"
	NodeCharacter             NodeType = "Character"
	NodeCharacterClass        NodeType = "CharacterClass"
	NodeCharacterClassRange   NodeType = "CharacterClassRange"
	NodeCharacterSet          NodeType = "CharacterSet"
	NodeAssertion             NodeType = "Assertion"
	NodeLookaroundAssertion   NodeType = "LookaroundAssertion"
	NodeGroup                 NodeType = "Group"
	NodeCapturingGroup        NodeType = "CapturingGroup"
	NodeAbsentFunction        NodeType = "AbsentFunction"
	NodeBackreference         NodeType = "Backreference"
	NodeSubroutine            NodeType = "Subroutine"
	NodeQuantifier            NodeType = "Quantifier"
	NodeDirective             NodeType = "Directive"
)

// Node is implemented by every AST node. Child knowledge never flows
// upward: nodes do not point at their parent. The traverser reconstructs
// ancestry transiently via the path object during a walk.
type Node interface {
	Type() NodeType
}

// Regex is the root node: a pattern under a resolved flag set.
type Regex struct {
	Pattern *Pattern
	Flags   *Flags
}

func (n *Regex) Type() NodeType { return NodeRegex }

// Pattern is an ordered list of alternatives (top-level alternation).
type Pattern struct {
	Alternatives []*Alternative
}

func (n *Pattern) Type() NodeType { return NodePattern }

// Alternative is an ordered sequence of elements (one alternation branch).
type Alternative struct {
	Elements []Node
}

func (n *Alternative) Type() NodeType { return NodeAlternative }

// FlagSet is the boolean flag vector carried by Flags nodes and by the
// enable/disable sides of a FlagGroupModifiers.
type FlagSet struct {
	IgnoreCase      bool
	DotAll          bool
	Extended        bool
	DigitIsASCII    bool
	SpaceIsASCII    bool
	WordIsASCII     bool
	PosixIsASCII    bool
	TextSegmentMode bool
}

// Flags is the resolved flag record for a Regex.
type Flags struct {
	FlagSet
}

func (n *Flags) Type() NodeType { return NodeFlags }

// FlagGroupModifiers is the enable/disable pair carried by a scoped
// flag Group and by a flags Directive.
type FlagGroupModifiers struct {
	Enable  FlagSet
	Disable FlagSet
}

// MaxCodePoint is the largest code point createCharacter accepts outright.
const MaxCodePoint = 0x10FFFF

// MaxLastValidCodePoint is the largest code point accepted when
// useLastValid caps an out-of-range escape at the last valid code point.
const MaxLastValidCodePoint = 0x13FFFF

// Character is a single Unicode scalar value.
type Character struct {
	Value rune
}

func (n *Character) Type() NodeType { return NodeCharacter }

// NewCharacter validates and constructs a Character node. Values beyond
// MaxLastValidCodePoint are always rejected. Values between MaxCodePoint
// and MaxLastValidCodePoint are rejected unless useLastValid is set, in
// which case the value is capped at MaxCodePoint.
func NewCharacter(value rune, useLastValid bool) (*Character, error) {
	if value < 0 || value > MaxLastValidCodePoint {
		return nil, &InvariantError{Msg: fmt.Sprintf("character code point %d out of range", value)}
	}
	if value > MaxCodePoint {
		if !useLastValid {
			return nil, &InvariantError{Msg: fmt.Sprintf("character code point %d exceeds U+10FFFF", value)}
		}
		value = MaxCodePoint
	}
	return &Character{Value: value}, nil
}

// ClassKind distinguishes a union character class from an intersection
// of sub-classes.
type ClassKind string

const (
	ClassUnion        ClassKind = "union"
	ClassIntersection ClassKind = "intersection"
)

// CharacterClass is a `[...]` construct: a union of elements, or an
// intersection of unions joined by `&&`.
type CharacterClass struct {
	Kind     ClassKind
	Negate   bool
	Elements []Node // Character, CharacterClassRange, CharacterSet, nested CharacterClass
}

func (n *CharacterClass) Type() NodeType { return NodeCharacterClass }

// CharacterClassRange is an inclusive, non-descending range inside a
// character class.
type CharacterClassRange struct {
	Min *Character
	Max *Character
}

func (n *CharacterClassRange) Type() NodeType { return NodeCharacterClassRange }

// NewCharacterClassRange validates min <= max before constructing a range.
func NewCharacterClassRange(min, max *Character) (*CharacterClassRange, error) {
	if min == nil || max == nil {
		return nil, &InvariantError{Msg: "character class range requires both endpoints"}
	}
	if min.Value > max.Value {
		return nil, &InvariantError{Msg: fmt.Sprintf("descending character class range %d-%d", min.Value, max.Value)}
	}
	return &CharacterClassRange{Min: min, Max: max}, nil
}

// CharacterSetKind discriminates the built-in and named character sets.
type CharacterSetKind string

const (
	CharacterSetAny      CharacterSetKind = "any"
	CharacterSetDigit    CharacterSetKind = "digit"
	CharacterSetHex      CharacterSetKind = "hex"
	CharacterSetSpace    CharacterSetKind = "space"
	CharacterSetWord     CharacterSetKind = "word"
	CharacterSetNewline  CharacterSetKind = "newline"
	CharacterSetGrapheme CharacterSetKind = "grapheme"
	CharacterSetPosix    CharacterSetKind = "posix"
	CharacterSetProperty CharacterSetKind = "property"
)

// CharacterSet is a built-in or named shorthand set: \d \h \s \w \N \X,
// a POSIX class [:alpha:], or a Unicode property \p{Name}.
type CharacterSet struct {
	Kind           CharacterSetKind
	Value          string // set for Posix and Property kinds
	Negate         bool
	VariableLength bool // set for Grapheme, and for non-negated Newline
}

func (n *CharacterSet) Type() NodeType { return NodeCharacterSet }

// posixClassNames is the closed set of POSIX bracket-class names.
var posixClassNames = map[string]bool{
	"alnum": true, "alpha": true, "blank": true, "cntrl": true,
	"digit": true, "graph": true, "lower": true, "print": true,
	"punct": true, "space": true, "upper": true, "xdigit": true,
	"word": true, "ascii": true,
}

// NewPosixCharacterSet validates the POSIX class name before constructing
// the CharacterSet node.
func NewPosixCharacterSet(name string, negate bool) (*CharacterSet, error) {
	if !posixClassNames[name] {
		return nil, &SyntaxError{Msg: fmt.Sprintf("unknown POSIX class name %q", name), Pos: -1}
	}
	return &CharacterSet{Kind: CharacterSetPosix, Value: name, Negate: negate}, nil
}

// NewPropertyCharacterSet constructs a \p{Name}/\P{Name} node. Name
// validation against a Unicode property map is a parser-level concern
// (it depends on parser options), not a factory-level invariant.
func NewPropertyCharacterSet(name string, negate bool) *CharacterSet {
	return &CharacterSet{Kind: CharacterSetProperty, Value: name, Negate: negate}
}

// NewCharacterSet constructs one of the unnamed built-in sets (any,
// digit, hex, space, word, newline, grapheme). variableLength applies
// only to Grapheme and non-negated Newline; it is ignored otherwise.
func NewCharacterSet(kind CharacterSetKind, negate bool) *CharacterSet {
	variableLength := kind == CharacterSetGrapheme || (kind == CharacterSetNewline && !negate)
	return &CharacterSet{Kind: kind, Negate: negate, VariableLength: variableLength}
}

// AssertionKind discriminates the zero-width, non-lookaround assertions.
type AssertionKind string

const (
	AssertionLineStart        AssertionKind = "line_start"
	AssertionLineEnd          AssertionKind = "line_end"
	AssertionStringStart      AssertionKind = "string_start"
	AssertionStringEnd        AssertionKind = "string_end"
	AssertionStringEndNewline AssertionKind = "string_end_newline"
	AssertionSearchStart      AssertionKind = "search_start"
	AssertionWordBoundary     AssertionKind = "word_boundary"
	AssertionGraphemeBoundary AssertionKind = "grapheme_boundary"
)

// Assertion is a zero-width assertion other than a lookaround. Negate
// only applies to the two boundary kinds.
type Assertion struct {
	Kind   AssertionKind
	Negate bool
}

func (n *Assertion) Type() NodeType { return NodeAssertion }

// NewAssertion validates that Negate is only requested for a boundary kind.
func NewAssertion(kind AssertionKind, negate bool) (*Assertion, error) {
	if negate && kind != AssertionWordBoundary && kind != AssertionGraphemeBoundary {
		return nil, &InvariantError{Msg: fmt.Sprintf("assertion kind %q cannot be negated", kind)}
	}
	return &Assertion{Kind: kind, Negate: negate}, nil
}

// LookaroundKind distinguishes lookahead from lookbehind.
type LookaroundKind string

const (
	LookaroundLookahead  LookaroundKind = "lookahead"
	LookaroundLookbehind LookaroundKind = "lookbehind"
)

// LookaroundAssertion is `(?=...)`, `(?!...)`, `(?<=...)`, `(?<!...)`.
type LookaroundAssertion struct {
	Kind         LookaroundKind
	Negate       bool
	Alternatives []*Alternative
}

func (n *LookaroundAssertion) Type() NodeType { return NodeLookaroundAssertion }

// Group is an anonymous `(?:...)` or `(?>...)` group, optionally with a
// scoped flag modifier.
type Group struct {
	Atomic       bool
	Flags        *FlagGroupModifiers // nil unless this is a scoped flag group
	Alternatives []*Alternative
}

func (n *Group) Type() NodeType { return NodeGroup }

// capturingGroupNameRE is the Oniguruma capture-name grammar: first
// character is alphabetic or a connector punctuation, then anything
// except a literal close-paren.
var capturingGroupNameRE = regexp.MustCompile(`^[\p{L}\p{Pc}][^)]*$`)

// CapturingGroup is a numbered, optionally named, capturing group.
// Numbers are assigned by the parser in source order and must form a
// contiguous 1..N sequence over the whole pattern.
type CapturingGroup struct {
	Number       int
	Name         string
	Alternatives []*Alternative
}

func (n *CapturingGroup) Type() NodeType { return NodeCapturingGroup }

// NewCapturingGroup validates name against the Oniguruma capture-name
// grammar before constructing the node. An empty name denotes an
// unnamed (numbered-only) capturing group and is always accepted.
func NewCapturingGroup(number int, name string, alternatives []*Alternative) (*CapturingGroup, error) {
	if number < 1 {
		return nil, &InvariantError{Msg: fmt.Sprintf("capturing group number must be >= 1, got %d", number)}
	}
	if name != "" && !capturingGroupNameRE.MatchString(name) {
		return nil, &SyntaxError{Msg: fmt.Sprintf("invalid capturing group name %q", name), Pos: -1}
	}
	return &CapturingGroup{Number: number, Name: name, Alternatives: alternatives}, nil
}

// AbsentFunctionKind discriminates the (currently single) supported
// absent-function form.
type AbsentFunctionKind string

const (
	AbsentFunctionRepeater AbsentFunctionKind = "repeater"
)

// AbsentFunction is Oniguruma's `(?~...)` construct. Only the repeater
// form is modeled; other forms are rejected at tokenization.
type AbsentFunction struct {
	Kind         AbsentFunctionKind
	Alternatives []*Alternative
}

func (n *AbsentFunction) Type() NodeType { return NodeAbsentFunction }

// Backreference is `\k<name>`, `\k'name'`, `\n`, `\nn`, `\nnn`, or the
// relative form `\k<-n>`. Ref is either an int (numbered) or a string
// (named).
type Backreference struct {
	Ref    any // int | string
	Orphan bool
}

func (n *Backreference) Type() NodeType { return NodeBackreference }

// NewBackreference validates that Ref is an int or a string.
func NewBackreference(ref any, orphan bool) (*Backreference, error) {
	switch ref.(type) {
	case int, string:
	default:
		return nil, &InvariantError{Msg: fmt.Sprintf("backreference ref must be int or string, got %T", ref)}
	}
	return &Backreference{Ref: ref, Orphan: orphan}, nil
}

// Subroutine is `\g<ref>` / `\g'ref'`. Ref = 0 denotes whole-pattern
// recursion.
type Subroutine struct {
	Ref any // int | string
}

func (n *Subroutine) Type() NodeType { return NodeSubroutine }

// NewSubroutine validates that Ref is an int or a string.
func NewSubroutine(ref any) (*Subroutine, error) {
	switch ref.(type) {
	case int, string:
	default:
		return nil, &InvariantError{Msg: fmt.Sprintf("subroutine ref must be int or string, got %T", ref)}
	}
	return &Subroutine{Ref: ref}, nil
}

// QuantifierKind discriminates a quantifier's backtracking behavior.
type QuantifierKind string

const (
	QuantifierGreedy     QuantifierKind = "greedy"
	QuantifierLazy       QuantifierKind = "lazy"
	QuantifierPossessive QuantifierKind = "possessive"
)

// Unbounded is the Quantifier.Max sentinel meaning "no upper bound".
const Unbounded = -1

// Quantifier wraps a quantifiable element with a repetition count.
type Quantifier struct {
	Element Node
	Min     int
	Max     int // Unbounded for no upper limit
	Kind    QuantifierKind
}

func (n *Quantifier) Type() NodeType { return NodeQuantifier }

// Quantifiable reports whether n is a legal Quantifier.Element: anything
// except an Assertion, a Directive, or a LookaroundAssertion.
func Quantifiable(n Node) bool {
	switch n.(type) {
	case *Assertion, *Directive, *LookaroundAssertion:
		return false
	default:
		return n != nil
	}
}

// NewQuantifier validates that element is quantifiable before
// constructing the node. Reinterpreting a descending min/max pair as a
// possessive quantifier with swapped bounds is a parser-level concern
// (it depends on the source quantifier syntax), not a factory invariant
// enforced here.
func NewQuantifier(element Node, min, max int, kind QuantifierKind) (*Quantifier, error) {
	if !Quantifiable(element) {
		return nil, &InvariantError{Msg: fmt.Sprintf("%T is not quantifiable", element)}
	}
	if min < 0 {
		return nil, &InvariantError{Msg: fmt.Sprintf("quantifier min must be >= 0, got %d", min)}
	}
	if max != Unbounded && max < min {
		return nil, &InvariantError{Msg: fmt.Sprintf("quantifier max %d is less than min %d", max, min)}
	}
	return &Quantifier{Element: element, Min: min, Max: max, Kind: kind}, nil
}

// DirectiveKind discriminates the two directive forms.
type DirectiveKind string

const (
	DirectiveKeep  DirectiveKind = "keep"
	DirectiveFlags DirectiveKind = "flags"
)

// Directive is an inline mode change (?i)... or the \K keep-marker,
// modeled as a node rather than a group.
type Directive struct {
	Kind  DirectiveKind
	Flags *FlagGroupModifiers // set when Kind == DirectiveFlags
}

func (n *Directive) Type() NodeType { return NodeDirective }

// NewDirective constructs a directive node. flags must be nil for the
// Keep kind and non-nil for the Flags kind.
func NewDirective(kind DirectiveKind, flags *FlagGroupModifiers) (*Directive, error) {
	switch kind {
	case DirectiveKeep:
		if flags != nil {
			return nil, &InvariantError{Msg: "keep directive does not carry flag modifiers"}
		}
	case DirectiveFlags:
		if flags == nil {
			return nil, &InvariantError{Msg: "flags directive requires flag modifiers"}
		}
	default:
		return nil, &InvariantError{Msg: fmt.Sprintf("unknown directive kind %q", kind)}
	}
	return &Directive{Kind: kind, Flags: flags}, nil
}
