// Package parser implements the recursive-descent Oniguruma parser
// (spec §4.2): it consumes the token stream produced by internal/token
// and builds the tagged-union AST defined by internal/ast, validating
// backreferences, subroutines, capture numbering, and lookbehind
// content as it goes.
package parser

// Rules mirrors Oniguruma's ONIG_OPTION_CAPTURE_GROUP switch: when
// CaptureGroup is set, unnamed `(?:...)` groups count towards capture
// numbering alongside `(...)` and named groups.
type Rules struct {
	CaptureGroup bool
}

// Options configures a single Parse call.
type Options struct {
	// Flags is the initial flag-letter string ("ims" etc.), resolved
	// into the Regex's root Flags node and used by the tokenizer to
	// decide whether extended-mode whitespace stripping applies.
	Flags string

	Rules Rules

	// SkipBackrefValidation allows a backreference to an undefined or
	// not-yet-defined target to be accepted as an orphan (Backreference
	// .Orphan = true) instead of failing with a ReferenceError.
	SkipBackrefValidation bool

	// SkipLookbehindValidation disables the §4.3 lookbehind-content
	// restrictions entirely.
	SkipLookbehindValidation bool

	// SkipPropertyNameValidation accepts any \p{Name}/\P{Name} text
	// verbatim without consulting UnicodePropertyMap.
	SkipPropertyNameValidation bool

	// NormalizeUnknownPropertyNames rewrites a \p{Name} that does not
	// resolve (through UnicodePropertyMap when set, otherwise through
	// the built-in internal/unicode table) to its normalized display
	// form instead of failing.
	NormalizeUnknownPropertyNames bool

	// UnicodePropertyMap resolves a \p{Name} to its canonical spelling,
	// taking precedence over the built-in internal/unicode table when
	// set. A nil map does not disable validation: resolution falls back
	// to internal/unicode's default table, and a name that table doesn't
	// cover still fails with a SyntaxError unless
	// NormalizeUnknownPropertyNames is also set. Only
	// SkipPropertyNameValidation accepts any name verbatim.
	UnicodePropertyMap map[string]string
}
