package parser

import (
	"fmt"

	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/token"
	"github.com/0x4d5352/oniguru/internal/unicode"
)

// parseContext is the mutable state threaded through one Parse call.
// It is never shared across calls and carries no package-level state.
type parseContext struct {
	tokens []token.Token
	pos    int
	source string
	opts   Options

	capturingGroups []*ast.CapturingGroup
	namedGroups     map[string][]*ast.CapturingGroup
	hasNumberedRef  bool
	hasNamedGroup   bool

	pendingSubroutines []*ast.Subroutine

	// lookbehindStack tracks the Negate of each lookbehind currently
	// being parsed into, innermost last. Non-empty means "currently
	// parsing content that lies within a lookbehind at some depth".
	lookbehindStack []bool

	absentDepth int
}

func newParseContext(tokens []token.Token, source string, opts Options) *parseContext {
	return &parseContext{
		tokens:      tokens,
		source:      source,
		opts:        opts,
		namedGroups: make(map[string][]*ast.CapturingGroup),
	}
}

func (c *parseContext) atEnd() bool { return c.pos >= len(c.tokens) }

func (c *parseContext) peek() token.Token {
	if c.atEnd() {
		return token.Token{Kind: token.KindEOF, Start: len(c.source), End: len(c.source)}
	}
	return c.tokens[c.pos]
}

func (c *parseContext) peekKind() token.Kind { return c.peek().Kind }

func (c *parseContext) advance() token.Token {
	tok := c.peek()
	if !c.atEnd() {
		c.pos++
	}
	return tok
}

func (c *parseContext) expect(kind token.Kind, what string) (token.Token, error) {
	if c.peekKind() != kind {
		return token.Token{}, &ast.SyntaxError{Msg: fmt.Sprintf("expected %s", what), Pos: c.peek().Start}
	}
	return c.advance(), nil
}

// buildFlagModifiers parses an enable/disable flag-letter pair (from a
// GroupOpenPayload or DirectivePayload) into a FlagGroupModifiers.
func (c *parseContext) buildFlagModifiers(enable, disable string) (*ast.FlagGroupModifiers, error) {
	enableSet, err := token.ParseFlagLetters(enable)
	if err != nil {
		return nil, err
	}
	disableSet, err := token.ParseFlagLetters(disable)
	if err != nil {
		return nil, err
	}
	return &ast.FlagGroupModifiers{Enable: enableSet, Disable: disableSet}, nil
}

// resolvePropertyName resolves a \p{Name}/\P{Name} body to its
// canonical spelling. An explicit UnicodePropertyMap (slug -> canonical)
// takes precedence over the built-in internal/unicode table; either may
// be bypassed by the relevant option.
func (c *parseContext) resolvePropertyName(name string) (string, bool) {
	if c.opts.SkipPropertyNameValidation {
		return name, true
	}
	if c.opts.UnicodePropertyMap != nil {
		if canonical, ok := c.opts.UnicodePropertyMap[unicode.Slug(name)]; ok {
			return canonical, true
		}
	} else if canonical, ok := unicode.Resolve(name); ok {
		return canonical, true
	}
	if c.opts.NormalizeUnknownPropertyNames {
		return unicode.Normalize(name), true
	}
	return "", false
}

// nextCaptureNumber reserves and returns the next 1-based capture
// number without yet registering a group under it.
func (c *parseContext) nextCaptureNumber() int { return len(c.capturingGroups) + 1 }

func (c *parseContext) registerCapturingGroup(g *ast.CapturingGroup) {
	c.capturingGroups = append(c.capturingGroups, g)
	if g.Name != "" {
		c.namedGroups[g.Name] = append(c.namedGroups[g.Name], g)
		c.hasNamedGroup = true
	}
}

// inLookbehind reports whether parsing is currently within a
// lookbehind's content at any depth, and whether any enclosing
// lookbehind (at any depth) is negative.
func (c *parseContext) inLookbehind() (inside bool, anyNegative bool) {
	if len(c.lookbehindStack) == 0 {
		return false, false
	}
	for _, neg := range c.lookbehindStack {
		if neg {
			return true, true
		}
	}
	return true, false
}

// validateLookbehindChild enforces spec §4.3: a node about to be
// appended to an alternative that lies within a lookbehind is checked
// against that lookbehind's restrictions. Only the node that occupies
// the alternative slot is checked: a Quantifier wrapping a forbidden
// element passes, and the wrapped element is not checked on its own
// (matching real Oniguruma's quirk that a quantified capture inside a
// negative lookbehind is not rejected).
func (c *parseContext) validateLookbehindChild(node ast.Node) error {
	if c.opts.SkipLookbehindValidation {
		return nil
	}
	inside, anyNegative := c.inLookbehind()
	if !inside {
		return nil
	}
	if la, ok := node.(*ast.LookaroundAssertion); ok {
		if la.Kind == ast.LookaroundLookahead {
			return &ast.FeatureError{Msg: "lookahead is not allowed inside a lookbehind"}
		}
		if la.Kind == ast.LookaroundLookbehind && la.Negate && !anyNegative {
			return &ast.FeatureError{Msg: "negative lookbehind is not allowed inside a positive lookbehind"}
		}
	}
	if anyNegative {
		if _, ok := node.(*ast.CapturingGroup); ok {
			return &ast.FeatureError{Msg: "capturing group is not allowed inside a negative lookbehind"}
		}
	}
	return nil
}
