package parser

import (
	"fmt"

	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/token"
)

// parseCharacterClass parses a "[...]" bracket expression, including
// nested classes and "&&"-separated intersection segments. The
// current token must be CharacterClassOpen.
func (c *parseContext) parseCharacterClass() (ast.Node, error) {
	openPos := c.peek().Start
	c.advance() // consume '['

	negate := false
	if tok := c.peek(); tok.Kind == token.KindCharacter {
		if v := tok.Payload.(token.CharacterPayload).Value; v == '^' {
			c.advance()
			negate = true
		}
	}

	var segments [][]ast.Node
	var seg []ast.Node
	for {
		switch c.peekKind() {
		case token.KindEOF:
			return nil, &ast.SyntaxError{Msg: "unterminated character class", Pos: openPos}
		case token.KindCharacterClassClose:
			c.advance()
			segments = append(segments, seg)
			return c.buildCharacterClass(segments, negate, openPos)
		case token.KindCharacterClassIntersector:
			c.advance()
			segments = append(segments, seg)
			seg = nil
		case token.KindCharacterClassHyphen:
			if err := c.parseClassHyphen(&seg); err != nil {
				return nil, err
			}
		default:
			elem, err := c.parseClassAtom()
			if err != nil {
				return nil, err
			}
			seg = append(seg, elem)
		}
	}
}

// parseClassAtom parses one class member that is not a hyphen,
// intersector, or close bracket: a literal character, a character-set
// shorthand/POSIX/property escape, or a nested class.
func (c *parseContext) parseClassAtom() (ast.Node, error) {
	tok := c.peek()
	switch tok.Kind {
	case token.KindCharacter:
		c.advance()
		return ast.NewCharacter(tok.Payload.(token.CharacterPayload).Value, false)
	case token.KindCharacterSet:
		c.advance()
		return c.buildCharacterSet(tok)
	case token.KindCharacterClassOpen:
		return c.parseCharacterClass()
	default:
		return nil, &ast.SyntaxError{Msg: fmt.Sprintf("unexpected token %s inside character class", tok.Kind), Pos: tok.Start}
	}
}

// parseClassHyphen consumes a CharacterClassHyphen token and decides
// whether it connects a range (spec §4.2): it does only when a
// previous sibling exists in seg and is a Character or CharacterSet,
// and the following token is itself a Character or CharacterSet.
// Otherwise the hyphen is a literal '-'. When the trigger condition
// holds but one of the two endpoints is a CharacterSet rather than a
// bare Character, the range is invalid (CharacterClassRange only
// accepts Character endpoints) and this reports a SyntaxError rather
// than silently falling back to a literal hyphen.
func (c *parseContext) parseClassHyphen(seg *[]ast.Node) error {
	hyphenPos := c.peek().Start
	c.advance()

	s := *seg
	var prev ast.Node
	if len(s) > 0 {
		prev = s[len(s)-1]
	}
	prevQualifies := prev != nil && isCharOrSet(prev)
	nextKind := c.peekKind()
	nextQualifies := nextKind == token.KindCharacter || nextKind == token.KindCharacterSet

	if !prevQualifies || !nextQualifies {
		lit, _ := ast.NewCharacter('-', false)
		*seg = append(s, lit)
		return nil
	}

	next, err := c.parseClassAtom()
	if err != nil {
		return err
	}
	minChar, minOk := prev.(*ast.Character)
	maxChar, maxOk := next.(*ast.Character)
	if !minOk || !maxOk {
		return &ast.SyntaxError{Msg: "character class range endpoints must be single characters, not character sets", Pos: hyphenPos}
	}
	rangeNode, err := ast.NewCharacterClassRange(minChar, maxChar)
	if err != nil {
		return err
	}
	s[len(s)-1] = rangeNode
	*seg = s
	return nil
}

func isCharOrSet(n ast.Node) bool {
	switch n.(type) {
	case *ast.Character, *ast.CharacterSet:
		return true
	default:
		return false
	}
}

// buildCharacterClass assembles the final CharacterClass node from the
// "&&"-separated segments collected by parseCharacterClass. A single
// segment is a plain union. Multiple segments form an intersection,
// where each segment becomes either its lone element (if singleton) or
// a nested union CharacterClass.
func (c *parseContext) buildCharacterClass(segments [][]ast.Node, negate bool, openPos int) (ast.Node, error) {
	if len(segments) == 1 {
		if len(segments[0]) == 0 {
			return nil, &ast.SyntaxError{Msg: "empty character class", Pos: openPos}
		}
		return &ast.CharacterClass{Kind: ast.ClassUnion, Negate: negate, Elements: segments[0]}, nil
	}

	elements := make([]ast.Node, len(segments))
	for i, seg := range segments {
		if len(seg) == 0 {
			return nil, &ast.SyntaxError{Msg: "empty intersection segment in character class", Pos: openPos}
		}
		if len(seg) == 1 {
			elements[i] = seg[0]
		} else {
			elements[i] = &ast.CharacterClass{Kind: ast.ClassUnion, Elements: seg}
		}
	}
	return &ast.CharacterClass{Kind: ast.ClassIntersection, Negate: negate, Elements: elements}, nil
}
