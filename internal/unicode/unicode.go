// Package unicode supplements internal/parser's property-name
// resolution (spec §4.2's "Unicode property map" collaborator). It
// holds a small built-in slug-to-canonical table for the property
// aliases Oniguruma recognizes beyond the bare Unicode category/script
// names, plus the slugging and normalization rules the parser falls
// back on for anything the table doesn't cover.
package unicode

import "strings"

// aliases maps a slugged property name to its canonical Oniguruma
// spelling. It only needs to carry the handful of common aliases that
// don't already equal their canonical form once slugged; a full
// Unicode property database is out of scope here (spec Non-goals
// exclude producing match results, and that's the only consumer that
// would need the complete table).
var aliases = map[string]string{
	"alphabetic":       "Alphabetic",
	"any":              "Any",
	"assigned":         "Assigned",
	"ascii":            "ASCII",
	"letter":           "L",
	"uppercaseletter":  "Lu",
	"lowercaseletter":  "Ll",
	"titlecaseletter":  "Lt",
	"modifierletter":   "Lm",
	"otherletter":      "Lo",
	"mark":             "M",
	"number":           "N",
	"decimalnumber":    "Nd",
	"punctuation":      "P",
	"symbol":           "S",
	"separator":        "Z",
	"other":            "C",
	"control":          "Cc",
	"word":             "Word",
	"space":            "Space",
	"alnum":            "Alnum",
	"graph":            "Graph",
	"blank":            "Blank",
	"cntrl":            "Cntrl",
	"digit":            "Digit",
	"print":            "Print",
	"punct":            "Punct",
	"xdigit":           "XDigit",
	"latin":            "Latin",
	"greek":            "Greek",
	"cyrillic":         "Cyrillic",
	"han":              "Han",
	"hiragana":         "Hiragana",
	"katakana":         "Katakana",
	"common":           "Common",
}

// Resolve looks up name (as it appeared in `\p{Name}`) after slugging
// it, reporting the canonical spelling and whether the table covers
// it, either as an alias key or as one of the canonical spellings
// themselves (so "L" and "Nd" resolve to themselves). Resolve never
// errors; an unresolved name is the caller's cue to either reject it
// or fall back to Normalize, per its own validation options.
func Resolve(name string) (string, bool) {
	slug := Slug(name)
	if canonical, ok := aliases[slug]; ok {
		return canonical, true
	}
	for _, canonical := range aliases {
		if Slug(canonical) == slug {
			return canonical, true
		}
	}
	return "", false
}

// Slug normalizes a property name for table lookup: trim surrounding
// space, drop separators ('-', '_', ' ', tab), lowercase, and strip a
// leading "is" (Oniguruma accepts "Is" as an optional decoration on any
// property name). "Is_Alphabetic", "is-alphabetic", and "ISALPHABETIC"
// all slug to "alphabetic".
func Slug(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '-', '_', ' ', '\t':
			continue
		default:
			b.WriteRune(r)
		}
	}
	slug := strings.ToLower(b.String())
	return strings.TrimPrefix(slug, "is")
}

// Normalize produces a human-readable canonical spelling for a
// property name the alias table doesn't recognize: collapse runs of
// '-', '_', and space to a single '_', split camelCase boundaries, and
// title-case each resulting word. It never fails; it's a best-effort
// display/serialization form for NormalizeUnknownPropertyNames, not a
// validity check.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == ' ' || r == '\t':
			flush()
		case i > 0 && isUpper(r) && !isUpper(runes[i-1]):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	for i, w := range words {
		words[i] = title(w)
	}
	return strings.Join(words, "_")
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func title(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
