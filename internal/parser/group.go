package parser

import (
	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/token"
)

// parseGroup dispatches on the classification the tokenizer already
// performed (spec §4.2 "Group dispatch") and parses the group's
// content, if any, up to and including its closing ')'. openTok has
// already been consumed by the caller.
func (c *parseContext) parseGroup(openTok token.Token) (ast.Node, error) {
	p := openTok.Payload.(token.GroupOpenPayload)

	switch p.Kind {
	case token.GroupOpenCapture, token.GroupOpenNamedCapture:
		return c.parseCapturingGroup(p.Name)

	case token.GroupOpenNonCapture:
		if c.opts.Rules.CaptureGroup {
			return c.parseCapturingGroup("")
		}
		alts, err := c.parseGroupBody()
		if err != nil {
			return nil, err
		}
		return &ast.Group{Alternatives: alts}, nil

	case token.GroupOpenAtomic:
		alts, err := c.parseGroupBody()
		if err != nil {
			return nil, err
		}
		return &ast.Group{Atomic: true, Alternatives: alts}, nil

	case token.GroupOpenFlagsGroup:
		mods, err := c.buildFlagModifiers(p.Enable, p.Disable)
		if err != nil {
			return nil, err
		}
		alts, err := c.parseGroupBody()
		if err != nil {
			return nil, err
		}
		return &ast.Group{Flags: mods, Alternatives: alts}, nil

	case token.GroupOpenFlagsOnly:
		mods, err := c.buildFlagModifiers(p.Enable, p.Disable)
		if err != nil {
			return nil, err
		}
		return ast.NewDirective(ast.DirectiveFlags, mods)

	case token.GroupOpenLookahead, token.GroupOpenNegLookahead:
		alts, err := c.parseGroupBody()
		if err != nil {
			return nil, err
		}
		return &ast.LookaroundAssertion{
			Kind:         ast.LookaroundLookahead,
			Negate:       p.Kind == token.GroupOpenNegLookahead,
			Alternatives: alts,
		}, nil

	case token.GroupOpenLookbehind, token.GroupOpenNegLookbehind:
		negate := p.Kind == token.GroupOpenNegLookbehind
		if !c.opts.SkipLookbehindValidation {
			c.lookbehindStack = append(c.lookbehindStack, negate)
		}
		alts, err := c.parseGroupBody()
		if !c.opts.SkipLookbehindValidation {
			c.lookbehindStack = c.lookbehindStack[:len(c.lookbehindStack)-1]
		}
		if err != nil {
			return nil, err
		}
		return &ast.LookaroundAssertion{Kind: ast.LookaroundLookbehind, Negate: negate, Alternatives: alts}, nil

	case token.GroupOpenAbsentRepeater:
		if c.absentDepth > 0 {
			return nil, &ast.FeatureError{Msg: "nested absent functions are not supported"}
		}
		c.absentDepth++
		alts, err := c.parseGroupBody()
		c.absentDepth--
		if err != nil {
			return nil, err
		}
		return &ast.AbsentFunction{Kind: ast.AbsentFunctionRepeater, Alternatives: alts}, nil

	default:
		return nil, &ast.SyntaxError{Msg: "unknown group form", Pos: openTok.Start}
	}
}

// parseCapturingGroup reserves this group's number before parsing its
// content, so a self- or forward-referencing backreference/subroutine
// inside the group's own body sees it already registered.
func (c *parseContext) parseCapturingGroup(name string) (ast.Node, error) {
	number := c.nextCaptureNumber()
	node, err := ast.NewCapturingGroup(number, name, nil)
	if err != nil {
		return nil, err
	}
	c.registerCapturingGroup(node)

	alts, err := c.parseGroupBody()
	if err != nil {
		return nil, err
	}
	node.Alternatives = alts
	return node, nil
}

// parseGroupBody parses a pattern and consumes the GroupClose that
// must terminate it.
func (c *parseContext) parseGroupBody() ([]*ast.Alternative, error) {
	pattern, err := c.parsePattern()
	if err != nil {
		return nil, err
	}
	if _, err := c.expect(token.KindGroupClose, "')'"); err != nil {
		return nil, err
	}
	return pattern.Alternatives, nil
}
