package token

import (
	"strconv"
	"strings"

	"github.com/0x4d5352/oniguru/internal/ast"
)

// metaChars is the set of characters that, escaped, always denote
// themselves literally outside a character class.
const metaChars = `.()[]{}|+*?^$\-`

// classMetaChars additionally denotes-itself-literally inside a class.
const classMetaChars = `]^-&`

// scanEscape scans a backslash escape. inClass adjusts the meaning of
// a handful of letters (\b is backspace inside a class, a word
// boundary assertion outside one).
func (l *lexer) scanEscape(inClass bool) (Token, error) {
	start := l.pos
	l.pos++ // consume '\\'
	b, ok := l.byteAt(0)
	if !ok {
		return Token{}, l.errf("trailing backslash")
	}

	switch b {
	case 'd':
		l.pos++
		return l.tok(KindCharacterSet, start, CharacterSetPayload{Kind: ast.CharacterSetDigit}), nil
	case 'D':
		l.pos++
		return l.tok(KindCharacterSet, start, CharacterSetPayload{Kind: ast.CharacterSetDigit, Negate: true}), nil
	case 'h':
		l.pos++
		return l.tok(KindCharacterSet, start, CharacterSetPayload{Kind: ast.CharacterSetHex}), nil
	case 'H':
		l.pos++
		return l.tok(KindCharacterSet, start, CharacterSetPayload{Kind: ast.CharacterSetHex, Negate: true}), nil
	case 's':
		l.pos++
		return l.tok(KindCharacterSet, start, CharacterSetPayload{Kind: ast.CharacterSetSpace}), nil
	case 'S':
		l.pos++
		return l.tok(KindCharacterSet, start, CharacterSetPayload{Kind: ast.CharacterSetSpace, Negate: true}), nil
	case 'w':
		l.pos++
		return l.tok(KindCharacterSet, start, CharacterSetPayload{Kind: ast.CharacterSetWord}), nil
	case 'W':
		l.pos++
		return l.tok(KindCharacterSet, start, CharacterSetPayload{Kind: ast.CharacterSetWord, Negate: true}), nil
	case 'N':
		l.pos++
		return l.tok(KindCharacterSet, start, CharacterSetPayload{Kind: ast.CharacterSetNewline, Negate: true}), nil
	case 'R':
		l.pos++
		return l.tok(KindCharacterSet, start, CharacterSetPayload{Kind: ast.CharacterSetNewline}), nil
	case 'X':
		l.pos++
		return l.tok(KindCharacterSet, start, CharacterSetPayload{Kind: ast.CharacterSetGrapheme}), nil
	case 'p', 'P':
		return l.scanUnicodeProperty(start, b == 'P')
	case 'k':
		if inClass {
			break
		}
		return l.scanBackreference(start)
	case 'g':
		if inClass {
			break
		}
		return l.scanSubroutine(start)
	case 'K':
		if inClass {
			break
		}
		l.pos++
		return l.tok(KindDirective, start, DirectivePayload{Kind: ast.DirectiveKeep}), nil
	case 'b':
		l.pos++
		if inClass {
			return l.tok(KindCharacter, start, CharacterPayload{Value: '\b'}), nil
		}
		return l.tok(KindAssertion, start, AssertionPayload{Kind: ast.AssertionWordBoundary}), nil
	case 'B':
		if !inClass {
			l.pos++
			return l.tok(KindAssertion, start, AssertionPayload{Kind: ast.AssertionWordBoundary, Negate: true}), nil
		}
	case 'A':
		if !inClass {
			l.pos++
			return l.tok(KindAssertion, start, AssertionPayload{Kind: ast.AssertionStringStart}), nil
		}
	case 'Z':
		if !inClass {
			l.pos++
			return l.tok(KindAssertion, start, AssertionPayload{Kind: ast.AssertionStringEndNewline}), nil
		}
	case 'z':
		if !inClass {
			l.pos++
			return l.tok(KindAssertion, start, AssertionPayload{Kind: ast.AssertionStringEnd}), nil
		}
	case 'G':
		if !inClass {
			l.pos++
			return l.tok(KindAssertion, start, AssertionPayload{Kind: ast.AssertionSearchStart}), nil
		}
	case 'y':
		if !inClass {
			l.pos++
			return l.tok(KindAssertion, start, AssertionPayload{Kind: ast.AssertionGraphemeBoundary}), nil
		}
	case 'Y':
		if !inClass {
			l.pos++
			return l.tok(KindAssertion, start, AssertionPayload{Kind: ast.AssertionGraphemeBoundary, Negate: true}), nil
		}
	case 'x':
		return l.scanHexEscape(start)
	case 'n':
		l.pos++
		return l.tok(KindCharacter, start, CharacterPayload{Value: '\n'}), nil
	case 't':
		l.pos++
		return l.tok(KindCharacter, start, CharacterPayload{Value: '\t'}), nil
	case 'r':
		l.pos++
		return l.tok(KindCharacter, start, CharacterPayload{Value: '\r'}), nil
	case 'f':
		l.pos++
		return l.tok(KindCharacter, start, CharacterPayload{Value: '\f'}), nil
	case 'v':
		l.pos++
		return l.tok(KindCharacter, start, CharacterPayload{Value: '\v'}), nil
	case 'a':
		l.pos++
		return l.tok(KindCharacter, start, CharacterPayload{Value: '\a'}), nil
	case 'e':
		l.pos++
		return l.tok(KindCharacter, start, CharacterPayload{Value: 0x1b}), nil
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return l.scanNumericEscape(start)
	}

	metaSet := metaChars
	if inClass {
		metaSet = classMetaChars
	}
	if strings.IndexByte(metaSet, b) >= 0 {
		l.pos++
		return l.tok(KindCharacter, start, CharacterPayload{Value: rune(b)}), nil
	}
	if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') {
		return Token{}, l.errf("unsupported escape \\" + string(b))
	}
	l.pos++
	return l.tok(KindCharacter, start, CharacterPayload{Value: rune(b)}), nil
}

func isOctalDigit(b byte) bool { return b >= '0' && b <= '7' }
func isDigit(b byte) bool      { return b >= '0' && b <= '9' }

// scanNumericEscape resolves \N..\NNN to a Backreference (when n
// capturing groups exist to its left) or to an octal Character escape
// otherwise, per spec §4.1.
func (l *lexer) scanNumericEscape(start int) (Token, error) {
	first, _ := l.byteAt(0)
	if first == '0' {
		l.pos++
		val := 0
		for digits := 0; digits < 2; digits++ {
			b, ok := l.byteAt(0)
			if !ok || !isOctalDigit(b) {
				break
			}
			val = val*8 + int(b-'0')
			l.pos++
		}
		return l.tok(KindCharacter, start, CharacterPayload{Value: rune(val)}), nil
	}

	digitsEnd := 0
	for digitsEnd < 3 {
		b, ok := l.byteAt(digitsEnd)
		if !ok || !isDigit(b) {
			break
		}
		digitsEnd++
	}
	run := l.src[l.pos : l.pos+digitsEnd]
	n, _ := strconv.Atoi(run)
	if n <= l.captureCount {
		l.pos += digitsEnd
		return l.tok(KindBackreference, start, BackreferencePayload{Ref: n}), nil
	}

	// Not a valid backreference: fall back to an octal escape over the
	// longest valid-octal prefix of the run (at least the first digit).
	octalLen := 0
	val := 0
	for octalLen < len(run) && octalLen < 3 && isOctalDigit(run[octalLen]) {
		val = val*8 + int(run[octalLen]-'0')
		octalLen++
	}
	if octalLen == 0 {
		octalLen = 1
		val = int(run[0] - '0')
	}
	l.pos += octalLen
	return l.tok(KindCharacter, start, CharacterPayload{Value: rune(val)}), nil
}

// scanHexEscape scans "\xHH" or "\x{H...}" starting just past "\x".
func (l *lexer) scanHexEscape(start int) (Token, error) {
	l.pos++ // consume 'x'
	if b, ok := l.byteAt(0); ok && b == '{' {
		l.pos++
		end := strings.IndexByte(l.src[l.pos:], '}')
		if end < 0 {
			return Token{}, l.errf("unterminated \\x{...} escape")
		}
		hex := l.src[l.pos : l.pos+end]
		if hex == "" {
			return Token{}, l.errf("empty \\x{...} escape")
		}
		v, err := strconv.ParseInt(hex, 16, 32)
		if err != nil {
			return Token{}, l.errf("invalid hex digits in \\x{...} escape")
		}
		l.pos += end + 1
		return l.tok(KindCharacter, start, CharacterPayload{Value: rune(v)}), nil
	}
	if l.pos+2 > len(l.src) || !isHexDigit(l.src[l.pos]) || !isHexDigit(l.src[l.pos+1]) {
		return Token{}, l.errf("\\x escape requires exactly 2 hex digits")
	}
	v, _ := strconv.ParseInt(l.src[l.pos:l.pos+2], 16, 32)
	l.pos += 2
	return l.tok(KindCharacter, start, CharacterPayload{Value: rune(v)}), nil
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// scanUnicodeProperty scans "\p{Name}", "\p{^Name}", or "\pL".
func (l *lexer) scanUnicodeProperty(start int, negateBase bool) (Token, error) {
	l.pos++ // consume 'p'/'P'
	b, ok := l.byteAt(0)
	if !ok {
		return Token{}, l.errf("unterminated \\p escape")
	}
	if b != '{' {
		l.pos++
		return l.tok(KindCharacterSet, start, CharacterSetPayload{Kind: ast.CharacterSetProperty, Value: string(b), Negate: negateBase}), nil
	}
	l.pos++
	end := strings.IndexByte(l.src[l.pos:], '}')
	if end < 0 {
		return Token{}, l.errf("unterminated \\p{...} escape")
	}
	body := l.src[l.pos : l.pos+end]
	l.pos += end + 1
	negate := negateBase
	if strings.HasPrefix(body, "^") {
		negate = !negate
		body = body[1:]
	}
	if body == "" {
		return Token{}, l.errf("empty \\p{...} escape")
	}
	return l.tok(KindCharacterSet, start, CharacterSetPayload{Kind: ast.CharacterSetProperty, Value: body, Negate: negate}), nil
}

// scanBackreference scans "\k<name>", "\k'name'", "\k<N>", or "\k<-N>".
func (l *lexer) scanBackreference(start int) (Token, error) {
	l.pos++ // consume 'k'
	content, err := l.scanRefDelimited()
	if err != nil {
		return Token{}, err
	}
	if strings.HasPrefix(content, "+") {
		return Token{}, l.errf("form \\k<+n> is not supported")
	}
	if strings.HasPrefix(content, "-") {
		rest := content[1:]
		if rest == "" || !allDigits(rest) {
			return Token{}, l.errf("invalid relative backreference \\k<" + content + ">")
		}
		n, _ := strconv.Atoi(rest)
		return l.tok(KindBackreference, start, BackreferencePayload{Ref: -n, Relative: true}), nil
	}
	if allDigits(content) {
		n, _ := strconv.Atoi(content)
		return l.tok(KindBackreference, start, BackreferencePayload{Ref: n}), nil
	}
	if strings.ContainsAny(content, "-+") {
		return Token{}, l.errf("backreference names containing '-' or '+' are rejected")
	}
	return l.tok(KindBackreference, start, BackreferencePayload{Ref: content}), nil
}

// scanSubroutine scans "\g<ref>" or "\g'ref'".
func (l *lexer) scanSubroutine(start int) (Token, error) {
	l.pos++ // consume 'g'
	content, err := l.scanRefDelimited()
	if err != nil {
		return Token{}, err
	}
	if strings.HasPrefix(content, "+") || strings.HasPrefix(content, "-") {
		rest := content[1:]
		if rest == "" || !allDigits(rest) {
			return Token{}, l.errf("invalid relative subroutine reference \\g<" + content + ">")
		}
		n, _ := strconv.Atoi(rest)
		if content[0] == '-' {
			n = -n
		}
		return l.tok(KindSubroutine, start, SubroutinePayload{Ref: n, Relative: true}), nil
	}
	if allDigits(content) {
		n, _ := strconv.Atoi(content)
		return l.tok(KindSubroutine, start, SubroutinePayload{Ref: n}), nil
	}
	return l.tok(KindSubroutine, start, SubroutinePayload{Ref: content}), nil
}

// scanRefDelimited reads the content of a "<...>" or "'...'" reference
// form, with the cursor positioned just after the "\k"/"\g" letter.
func (l *lexer) scanRefDelimited() (string, error) {
	b, ok := l.byteAt(0)
	if !ok {
		return "", l.errf("expected '<' or '\\'' after reference escape")
	}
	var closer byte
	switch b {
	case '<':
		closer = '>'
	case '\'':
		closer = '\''
	default:
		return "", l.errf("expected '<' or '\\'' after reference escape")
	}
	l.pos++
	return l.scanDelimitedName(closer)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
