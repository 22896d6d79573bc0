package token

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/0x4d5352/oniguru/internal/ast"
)

// Options configures the tokenizer; both fields mirror parser-level
// options: the initial flags (which decide extended-mode trivia
// stripping) and the capture-group rule (which the tokenizer needs to
// disambiguate numeric escapes, spec §4.1).
type Options struct {
	// InitialFlags is the flag letter string in effect before the
	// pattern starts (the `options.flags` parser option, forwarded
	// here since flag parsing itself is a tokenizer responsibility).
	InitialFlags string
	// CaptureGroupRule mirrors options.rules.captureGroup: when true,
	// unnamed `(?:...)` groups are counted as capturing for the
	// purpose of numeric backreference disambiguation, matching
	// ONIG_OPTION_CAPTURE_GROUP.
	CaptureGroupRule bool
}

type lexer struct {
	src          string
	pos          int
	classDepth   int
	captureCount int
	captureRule  bool
	extended     bool
}

// Tokenize converts source into a linear token stream under the given
// options, along with the Flags record resolved from InitialFlags. When
// the resolved flags carry Extended, whitespace and `#...`-to-end-of-line
// comments are stripped outside character classes, mirroring Oniguruma's
// ONIG_OPTION_EXTEND. Scoped (?x) directives encountered mid-pattern do
// not feed back into tokenization; they are resolved once up front.
func Tokenize(source string, opts Options) ([]Token, ast.FlagSet, error) {
	flags, err := parseFlagLetters(opts.InitialFlags)
	if err != nil {
		return nil, ast.FlagSet{}, err
	}

	l := &lexer{src: source, captureRule: opts.CaptureGroupRule, extended: flags.Extended}
	var tokens []Token
	for {
		if l.extended && l.classDepth == 0 {
			l.skipExtendedTrivia()
		}
		if l.pos >= len(l.src) {
			break
		}
		tok, err := l.next()
		if err != nil {
			return nil, ast.FlagSet{}, err
		}
		tokens = append(tokens, tok)
	}
	if l.classDepth > 0 {
		return nil, ast.FlagSet{}, &ast.SyntaxError{Msg: "unterminated character class", Pos: l.pos}
	}
	return tokens, flags, nil
}

// ParseFlagLetters parses a flag-letter string (as used both for the
// initial `options.flags` and for inline "(?flags)" groups) into a
// FlagSet. It is exported so the parser can reuse it for scoped flag
// modifiers.
func ParseFlagLetters(s string) (ast.FlagSet, error) {
	return parseFlagLetters(s)
}

func parseFlagLetters(s string) (ast.FlagSet, error) {
	var fs ast.FlagSet
	for _, c := range s {
		switch c {
		case 'i':
			fs.IgnoreCase = true
		case 'm':
			fs.DotAll = true
		case 'x':
			fs.Extended = true
		case 'D':
			fs.DigitIsASCII = true
		case 'S':
			fs.SpaceIsASCII = true
		case 'W':
			fs.WordIsASCII = true
		case 'P':
			fs.PosixIsASCII = true
		case 'y':
			fs.TextSegmentMode = true
		default:
			return fs, &ast.SyntaxError{Msg: "unknown flag character " + strconv.QuoteRune(c), Pos: -1}
		}
	}
	return fs, nil
}

func (l *lexer) errf(msg string) error {
	return &ast.SyntaxError{Msg: msg, Pos: l.pos}
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

// skipExtendedTrivia advances past runs of unescaped whitespace and
// `#`-to-end-of-line comments. Only called outside character classes,
// where extended-mode whitespace is never significant.
func (l *lexer) skipExtendedTrivia() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '#':
			end := strings.IndexByte(l.src[l.pos:], '\n')
			if end < 0 {
				l.pos = len(l.src)
			} else {
				l.pos += end
			}
		default:
			return
		}
	}
}

func (l *lexer) byteAt(off int) (byte, bool) {
	p := l.pos + off
	if p < 0 || p >= len(l.src) {
		return 0, false
	}
	return l.src[p], true
}

func (l *lexer) hasPrefixAt(off int, s string) bool {
	p := l.pos + off
	return p+len(s) <= len(l.src) && l.src[p:p+len(s)] == s
}

// next scans and returns the next token.
func (l *lexer) next() (Token, error) {
	if l.classDepth > 0 {
		return l.nextInClass()
	}
	return l.nextOutsideClass()
}

func (l *lexer) nextOutsideClass() (Token, error) {
	start := l.pos
	c, _ := l.byteAt(0)

	switch c {
	case '[':
		l.pos++
		l.classDepth++
		return l.tok(KindCharacterClassOpen, start, nil), nil
	case '(':
		return l.scanGroupOpen(start)
	case ')':
		l.pos++
		return l.tok(KindGroupClose, start, nil), nil
	case '|':
		l.pos++
		return l.tok(KindAlternator, start, nil), nil
	case '^':
		l.pos++
		return l.tok(KindAssertion, start, AssertionPayload{Kind: ast.AssertionLineStart}), nil
	case '$':
		l.pos++
		return l.tok(KindAssertion, start, AssertionPayload{Kind: ast.AssertionLineEnd}), nil
	case '.':
		l.pos++
		return l.tok(KindCharacterSet, start, CharacterSetPayload{Kind: ast.CharacterSetAny}), nil
	case '*', '+', '?', '{':
		if q, ok, err := l.scanQuantifier(); err != nil {
			return Token{}, err
		} else if ok {
			return l.tok(KindQuantifier, start, q), nil
		}
		// '{' that does not form a valid quantifier is a literal brace.
		l.pos++
		return l.tok(KindCharacter, start, CharacterPayload{Value: rune(c)}), nil
	case '\\':
		return l.scanEscape(false)
	case ']':
		// Stray ']' outside a class is a literal in Oniguruma.
		l.pos++
		return l.tok(KindCharacter, start, CharacterPayload{Value: ']'}), nil
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	return l.tok(KindCharacter, start, CharacterPayload{Value: r}), nil
}

func (l *lexer) nextInClass() (Token, error) {
	start := l.pos
	c, _ := l.byteAt(0)

	switch c {
	case ']':
		l.pos++
		l.classDepth--
		return l.tok(KindCharacterClassClose, start, nil), nil
	case '[':
		if posix, ok, err := l.scanPosixClass(); err != nil {
			return Token{}, err
		} else if ok {
			return l.tok(KindCharacterSet, start, posix), nil
		}
		l.pos++
		l.classDepth++
		return l.tok(KindCharacterClassOpen, start, nil), nil
	case '&':
		if b, ok := l.byteAt(1); ok && b == '&' {
			l.pos += 2
			return l.tok(KindCharacterClassIntersector, start, nil), nil
		}
		l.pos++
		return l.tok(KindCharacter, start, CharacterPayload{Value: '&'}), nil
	case '-':
		l.pos++
		return l.tok(KindCharacterClassHyphen, start, nil), nil
	case '\\':
		return l.scanEscape(true)
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	return l.tok(KindCharacter, start, CharacterPayload{Value: r}), nil
}

func (l *lexer) tok(kind Kind, start int, payload any) Token {
	return Token{Kind: kind, Start: start, End: l.pos, Lexeme: l.src[start:l.pos], Payload: payload}
}

// scanPosixClass attempts "[:name:]" or "[:^name:]" at the current
// position (which is on the '[' inside a character class). Returns
// ok=false (no position change) if the text doesn't form a POSIX class.
func (l *lexer) scanPosixClass() (CharacterSetPayload, bool, error) {
	if !l.hasPrefixAt(0, "[:") {
		return CharacterSetPayload{}, false, nil
	}
	end := strings.Index(l.src[l.pos+2:], ":]")
	if end < 0 {
		return CharacterSetPayload{}, false, nil
	}
	body := l.src[l.pos+2 : l.pos+2+end]
	negate := false
	if strings.HasPrefix(body, "^") {
		negate = true
		body = body[1:]
	}
	if body == "" || !isIdentifier(body) {
		return CharacterSetPayload{}, false, nil
	}
	l.pos += 2 + end + 2
	return CharacterSetPayload{Kind: ast.CharacterSetPosix, Value: body, Negate: negate}, true, nil
}

func isIdentifier(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// scanQuantifier recognizes *, +, ?, {n}, {n,}, {n,m} followed by an
// optional lazy '?' or possessive '+' suffix. ok=false means the `{`
// at the current position does not form a valid bound quantifier.
func (l *lexer) scanQuantifier() (QuantifierPayload, bool, error) {
	c, _ := l.byteAt(0)
	var min, max int
	switch c {
	case '*':
		min, max = 0, ast.Unbounded
		l.pos++
	case '+':
		min, max = 1, ast.Unbounded
		l.pos++
	case '?':
		min, max = 0, 1
		l.pos++
	case '{':
		m, mx, width, ok := l.scanBounds()
		if !ok {
			return QuantifierPayload{}, false, nil
		}
		min, max = m, mx
		l.pos += width
	}

	lazy, possessive := false, false
	if b, ok := l.byteAt(0); ok {
		if b == '?' {
			lazy = true
			l.pos++
		} else if b == '+' {
			possessive = true
			l.pos++
		}
	}
	return QuantifierPayload{Min: min, Max: max, Lazy: lazy, Possessive: possessive}, true, nil
}

// scanBounds parses "{n}", "{n,}", "{n,m}" starting at the current '{'
// without consuming input; it reports the total width of the match so
// the caller can advance once.
func (l *lexer) scanBounds() (min, max, width int, ok bool) {
	rest := l.src[l.pos:]
	if len(rest) == 0 || rest[0] != '{' {
		return 0, 0, 0, false
	}
	closeIdx := strings.IndexByte(rest, '}')
	if closeIdx < 0 {
		return 0, 0, 0, false
	}
	body := rest[1:closeIdx]
	if body == "" {
		return 0, 0, 0, false
	}
	parts := strings.SplitN(body, ",", 2)
	minStr := parts[0]
	if minStr == "" {
		if len(parts) == 1 {
			return 0, 0, 0, false
		}
		min = 0
	} else {
		n, err := strconv.Atoi(minStr)
		if err != nil || n < 0 {
			return 0, 0, 0, false
		}
		min = n
	}
	if len(parts) == 1 {
		max = min
		return min, max, closeIdx + 1, true
	}
	maxStr := parts[1]
	if maxStr == "" {
		max = ast.Unbounded
	} else {
		n, err := strconv.Atoi(maxStr)
		if err != nil || n < 0 {
			return 0, 0, 0, false
		}
		max = n
	}
	return min, max, closeIdx + 1, true
}

// scanGroupOpen classifies a "(" construct (spec §4.2 "Group dispatch").
func (l *lexer) scanGroupOpen(start int) (Token, error) {
	l.pos++ // consume '('
	b, ok := l.byteAt(0)
	if !ok || b != '?' {
		l.captureCount++
		return l.tok(KindGroupOpen, start, GroupOpenPayload{Kind: GroupOpenCapture}), nil
	}
	l.pos++ // consume '?'

	b, ok = l.byteAt(0)
	if !ok {
		return Token{}, l.errf("unterminated group")
	}
	switch b {
	case ':':
		l.pos++
		if l.captureRule {
			l.captureCount++
		}
		return l.tok(KindGroupOpen, start, GroupOpenPayload{Kind: GroupOpenNonCapture}), nil
	case '=':
		l.pos++
		return l.tok(KindGroupOpen, start, GroupOpenPayload{Kind: GroupOpenLookahead}), nil
	case '!':
		l.pos++
		return l.tok(KindGroupOpen, start, GroupOpenPayload{Kind: GroupOpenNegLookahead}), nil
	case '>':
		l.pos++
		return l.tok(KindGroupOpen, start, GroupOpenPayload{Kind: GroupOpenAtomic}), nil
	case '~':
		l.pos++
		return l.tok(KindGroupOpen, start, GroupOpenPayload{Kind: GroupOpenAbsentRepeater}), nil
	case '<':
		l.pos++
		b2, ok2 := l.byteAt(0)
		if ok2 && b2 == '=' {
			l.pos++
			return l.tok(KindGroupOpen, start, GroupOpenPayload{Kind: GroupOpenLookbehind}), nil
		}
		if ok2 && b2 == '!' {
			l.pos++
			return l.tok(KindGroupOpen, start, GroupOpenPayload{Kind: GroupOpenNegLookbehind}), nil
		}
		name, err := l.scanDelimitedName('>')
		if err != nil {
			return Token{}, err
		}
		l.captureCount++
		return l.tok(KindGroupOpen, start, GroupOpenPayload{Kind: GroupOpenNamedCapture, Name: name}), nil
	case '\'':
		l.pos++
		name, err := l.scanDelimitedName('\'')
		if err != nil {
			return Token{}, err
		}
		l.captureCount++
		return l.tok(KindGroupOpen, start, GroupOpenPayload{Kind: GroupOpenNamedCapture, Name: name}), nil
	default:
		return l.scanFlagsGroup(start)
	}
}

// scanDelimitedName reads up to and consuming the closing delimiter.
func (l *lexer) scanDelimitedName(closer byte) (string, error) {
	end := strings.IndexByte(l.src[l.pos:], closer)
	if end < 0 {
		return "", l.errf("unterminated group name")
	}
	name := l.src[l.pos : l.pos+end]
	l.pos += end + 1
	return name, nil
}

// scanFlagsGroup reads the "(?flags)" / "(?flags:" / "(?flags-flags)" /
// "(?flags-flags:" forms; the current position is just past "(?".
func (l *lexer) scanFlagsGroup(start int) (Token, error) {
	enableStart := l.pos
	for {
		b, ok := l.byteAt(0)
		if !ok {
			return Token{}, l.errf("unterminated flags group")
		}
		if b == ':' || b == ')' || b == '-' {
			break
		}
		l.pos++
	}
	enable := l.src[enableStart:l.pos]

	disable := ""
	if b, ok := l.byteAt(0); ok && b == '-' {
		l.pos++
		disableStart := l.pos
		for {
			b, ok := l.byteAt(0)
			if !ok {
				return Token{}, l.errf("unterminated flags group")
			}
			if b == ':' || b == ')' {
				break
			}
			l.pos++
		}
		disable = l.src[disableStart:l.pos]
	}

	b, ok := l.byteAt(0)
	if !ok {
		return Token{}, l.errf("unterminated flags group")
	}
	if enable == "" && disable == "" {
		return Token{}, l.errf("empty flags group")
	}
	if b == ':' {
		l.pos++
		return l.tok(KindGroupOpen, start, GroupOpenPayload{Kind: GroupOpenFlagsGroup, Enable: enable, Disable: disable}), nil
	}
	l.pos++ // consume ')'
	return l.tok(KindGroupOpen, start, GroupOpenPayload{Kind: GroupOpenFlagsOnly, Enable: enable, Disable: disable}), nil
}
