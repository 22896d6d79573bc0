package parser

import (
	"fmt"

	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/token"
)

// Parse tokenizes and parses an Oniguruma pattern into a Regex AST.
func Parse(source string, opts Options) (*ast.Regex, error) {
	tokens, flags, err := token.Tokenize(source, token.Options{
		InitialFlags:     opts.Flags,
		CaptureGroupRule: opts.Rules.CaptureGroup,
	})
	if err != nil {
		return nil, err
	}

	ctx := newParseContext(tokens, source, opts)
	pattern, err := ctx.parsePattern()
	if err != nil {
		return nil, err
	}
	if !ctx.atEnd() {
		return nil, &ast.SyntaxError{Msg: "unmatched ')'", Pos: ctx.peek().Start}
	}
	if err := ctx.validateWholePattern(); err != nil {
		return nil, err
	}

	return &ast.Regex{Pattern: pattern, Flags: &ast.Flags{FlagSet: flags}}, nil
}

// parsePattern parses alternatives separated by '|' until a GroupClose
// or EOF is reached; the caller is responsible for consuming any
// terminating GroupClose.
func (c *parseContext) parsePattern() (*ast.Pattern, error) {
	var alts []*ast.Alternative
	for {
		alt, err := c.parseAlternative()
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
		if c.peekKind() == token.KindAlternator {
			c.advance()
			continue
		}
		break
	}
	return &ast.Pattern{Alternatives: alts}, nil
}

// parseAlternative parses one alternation branch: a sequence of
// elements, each optionally followed by a quantifier.
func (c *parseContext) parseAlternative() (*ast.Alternative, error) {
	var elements []ast.Node
	for {
		k := c.peekKind()
		if k == token.KindAlternator || k == token.KindGroupClose || k == token.KindEOF {
			break
		}
		node, err := c.parseElement()
		if err != nil {
			return nil, err
		}
		if c.peekKind() == token.KindQuantifier {
			qtok := c.advance()
			node, err = c.applyQuantifier(node, qtok)
			if err != nil {
				return nil, err
			}
		}
		if err := c.validateLookbehindChild(node); err != nil {
			return nil, err
		}
		elements = append(elements, node)
	}
	return &ast.Alternative{Elements: elements}, nil
}

func (c *parseContext) applyQuantifier(element ast.Node, qtok token.Token) (ast.Node, error) {
	p := qtok.Payload.(token.QuantifierPayload)
	min, max := p.Min, p.Max
	kind := ast.QuantifierGreedy
	switch {
	case p.Lazy:
		kind = ast.QuantifierLazy
	case p.Possessive:
		kind = ast.QuantifierPossessive
	}
	// A reversed bound ("{3,1}") is not an error: Oniguruma
	// reinterprets it as a possessive quantifier over the swapped,
	// now-ascending bounds.
	if max != ast.Unbounded && max < min {
		min, max = max, min
		kind = ast.QuantifierPossessive
	}
	q, err := ast.NewQuantifier(element, min, max, kind)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// parseElement parses a single pattern element (no trailing quantifier).
func (c *parseContext) parseElement() (ast.Node, error) {
	tok := c.peek()
	switch tok.Kind {
	case token.KindCharacter:
		c.advance()
		return ast.NewCharacter(tok.Payload.(token.CharacterPayload).Value, false)
	case token.KindCharacterSet:
		c.advance()
		return c.buildCharacterSet(tok)
	case token.KindAssertion:
		c.advance()
		p := tok.Payload.(token.AssertionPayload)
		return ast.NewAssertion(p.Kind, p.Negate)
	case token.KindBackreference:
		c.advance()
		return c.buildBackreference(tok)
	case token.KindSubroutine:
		c.advance()
		return c.buildSubroutine(tok)
	case token.KindDirective:
		c.advance()
		p := tok.Payload.(token.DirectivePayload)
		return ast.NewDirective(p.Kind, nil)
	case token.KindCharacterClassOpen:
		return c.parseCharacterClass()
	case token.KindGroupOpen:
		c.advance()
		return c.parseGroup(tok)
	default:
		return nil, &ast.SyntaxError{Msg: fmt.Sprintf("unexpected token %s", tok.Kind), Pos: tok.Start}
	}
}

func (c *parseContext) buildCharacterSet(tok token.Token) (ast.Node, error) {
	p := tok.Payload.(token.CharacterSetPayload)
	switch p.Kind {
	case ast.CharacterSetPosix:
		return ast.NewPosixCharacterSet(p.Value, p.Negate)
	case ast.CharacterSetProperty:
		canonical, ok := c.resolvePropertyName(p.Value)
		if !ok {
			return nil, &ast.SyntaxError{Msg: fmt.Sprintf("unknown Unicode property name %q", p.Value), Pos: tok.Start}
		}
		return ast.NewPropertyCharacterSet(canonical, p.Negate), nil
	default:
		return ast.NewCharacterSet(p.Kind, p.Negate), nil
	}
}

func (c *parseContext) buildBackreference(tok token.Token) (ast.Node, error) {
	p := tok.Payload.(token.BackreferencePayload)

	if name, ok := p.Ref.(string); ok {
		if _, defined := c.namedGroups[name]; !defined {
			if c.opts.SkipBackrefValidation {
				return ast.NewBackreference(name, true)
			}
			return nil, &ast.ReferenceError{Msg: fmt.Sprintf("backreference to undefined name %q", name)}
		}
		return ast.NewBackreference(name, false)
	}

	num := p.Ref.(int)
	if p.Relative {
		// Ref carries -n for "\k<-n>" (n groups before the current point).
		n := -num
		num = len(c.capturingGroups) - n + 1
	}
	if num < 1 || num > len(c.capturingGroups) {
		if c.opts.SkipBackrefValidation {
			return ast.NewBackreference(num, true)
		}
		return nil, &ast.ReferenceError{Msg: fmt.Sprintf("backreference to undefined group %d", num)}
	}
	c.hasNumberedRef = true
	return ast.NewBackreference(num, false)
}

func (c *parseContext) buildSubroutine(tok token.Token) (ast.Node, error) {
	p := tok.Payload.(token.SubroutinePayload)

	if name, ok := p.Ref.(string); ok {
		node, err := ast.NewSubroutine(name)
		if err != nil {
			return nil, err
		}
		c.pendingSubroutines = append(c.pendingSubroutines, node)
		return node, nil
	}

	n := p.Ref.(int)
	if p.Relative {
		if n >= 0 {
			n = len(c.capturingGroups) + n
		} else {
			n = len(c.capturingGroups) - (-n) + 1
		}
	}
	if n != 0 {
		c.hasNumberedRef = true
	}
	node, err := ast.NewSubroutine(n)
	if err != nil {
		return nil, err
	}
	c.pendingSubroutines = append(c.pendingSubroutines, node)
	return node, nil
}
