// Package token defines the linear token stream produced by the
// Oniguruma tokenizer (spec §4.1) and consumed by internal/parser.
package token

import "github.com/0x4d5352/oniguru/internal/ast"

// Kind discriminates token kinds.
type Kind string

const (
	KindCharacter             Kind = "Character"
	KindCharacterClassOpen    Kind = "CharacterClassOpen"
	KindCharacterClassClose   Kind = "CharacterClassClose"
	KindCharacterClassHyphen  Kind = "CharacterClassHyphen"
	KindCharacterClassIntersector Kind = "CharacterClassIntersector"
	KindCharacterSet         Kind = "CharacterSet"
	KindAssertion             Kind = "Assertion"
	KindBackreference         Kind = "Backreference"
	KindSubroutine            Kind = "Subroutine"
	KindGroupOpen             Kind = "GroupOpen"
	KindGroupClose            Kind = "GroupClose"
	KindAlternator            Kind = "Alternator"
	KindQuantifier            Kind = "Quantifier"
	KindDirective             Kind = "Directive"
	KindEOF                   Kind = "EOF"
)

// Token is one lexeme in the linear token stream. Payload carries
// kind-specific data; see the Payload variants below.
type Token struct {
	Kind    Kind
	Start   int // byte offset of the first byte of the lexeme
	End     int // byte offset just past the last byte of the lexeme
	Lexeme  string
	Payload any
}

// CharacterPayload backs KindCharacter.
type CharacterPayload struct {
	Value rune
}

// CharacterSetPayload backs KindCharacterSet.
type CharacterSetPayload struct {
	Kind   ast.CharacterSetKind
	Value  string // set for Posix / Property kinds
	Negate bool
}

// AssertionPayload backs KindAssertion.
type AssertionPayload struct {
	Kind   ast.AssertionKind
	Negate bool
}

// BackreferencePayload backs KindBackreference.
type BackreferencePayload struct {
	Ref      any // int | string
	Relative bool
}

// SubroutinePayload backs KindSubroutine. Relative distinguishes an
// explicitly signed numeric form (\g<+1>, \g<-1>, resolved against the
// capture count at the point of use) from a bare absolute number
// (\g<1>) or a name.
type SubroutinePayload struct {
	Ref      any // int | string
	Relative bool
}

// GroupOpenKind discriminates the group-open forms the tokenizer
// distinguishes by lookahead on the delimiter text.
type GroupOpenKind string

const (
	GroupOpenCapture        GroupOpenKind = "capture"
	GroupOpenNonCapture     GroupOpenKind = "non_capture"
	GroupOpenNamedCapture   GroupOpenKind = "named_capture"
	GroupOpenLookahead      GroupOpenKind = "lookahead"
	GroupOpenNegLookahead   GroupOpenKind = "neg_lookahead"
	GroupOpenLookbehind     GroupOpenKind = "lookbehind"
	GroupOpenNegLookbehind  GroupOpenKind = "neg_lookbehind"
	GroupOpenAtomic         GroupOpenKind = "atomic"
	GroupOpenAbsentRepeater GroupOpenKind = "absent_repeater"
	GroupOpenFlagsOnly      GroupOpenKind = "flags_only"
	GroupOpenFlagsGroup     GroupOpenKind = "flags_group"
)

// GroupOpenPayload backs KindGroupOpen.
type GroupOpenPayload struct {
	Kind    GroupOpenKind
	Name    string // set for GroupOpenNamedCapture
	Enable  string // raw flag letters, set for flags forms
	Disable string // raw flag letters, set for flags forms
}

// QuantifierPayload backs KindQuantifier.
type QuantifierPayload struct {
	Min        int
	Max        int // ast.Unbounded for no upper bound
	Lazy       bool
	Possessive bool
}

// DirectivePayload backs KindDirective (the \K keep-marker only; inline
// flag directives are tokenized as GroupOpenFlagsOnly/FlagsGroup and
// turned into ast.Directive nodes by the parser).
type DirectivePayload struct {
	Kind ast.DirectiveKind
}
