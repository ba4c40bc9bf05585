// Package grammar holds the single definition of the sub-patterns shared by
// the class name matcher and by arbitrary value extraction.
//
// All exported values are regular expression source fragments (RE2 syntax,
// as understood by package regexp). They contain no capture groups so they
// can be embedded into larger patterns freely.
package grammar

import (
	"regexp"
	"strings"
)

// Atoms.
const (
	// Bracket is an arbitrary segment in square brackets, no nesting.
	Bracket = `\[[^\]]+\]`
	// Paren is a parenthesis group with one level of internal nesting.
	Paren = `\((?:[^()]|\([^()]*\))*\)`
	// Brace is a brace group with one level of internal nesting, used for
	// value registry interpolation.
	Brace = `\{(?:[^{}]|\{[^{}]*\})*\}`
	// Number is a signed decimal with an optional unit suffix.
	Number = `-?(?:\d+(?:\.\d+)?|\.\d+)(?:[a-zA-Z]+|%)?`
	// Word is an identifier with internal hyphens.
	Word = `[a-zA-Z_][a-zA-Z0-9_]*(?:-[a-zA-Z0-9_]+)*`
	// Hex is a hex color.
	Hex = `#[0-9a-fA-F]{3,8}`
	// Var is the $name variable shorthand.
	Var = `\$[a-zA-Z_][a-zA-Z0-9_-]*`
)

// Fraction is the a/b form, each side a number or a word.
var Fraction = Group(Alt(Number, Word)) + `/` + Group(Alt(Number, Word))

// Arbitrary is any of the three delimited forms.
var Arbitrary = Alt(Bracket, Paren, Brace)

// Value is the value slot alternation. Fraction goes first so "1/2" is not
// cut at the slash by the shorter number atom.
var Value = Alt(Fraction, Hex, Var, Bracket, Paren, Brace, Number, Word)

// Alt joins fragments into a non-capturing alternation. Order is kept:
// regexp alternation prefers the leftmost branch.
func Alt(fragments ...string) string {
	var parts []string
	for _, f := range fragments {
		if f != "" {
			parts = append(parts, f)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return Group(parts[0])
	}
	return Group(strings.Join(parts, "|"))
}

// Group wraps a fragment into a non-capturing group.
func Group(fragment string) string {
	return "(?:" + fragment + ")"
}

// Named wraps a fragment into a named capture group.
func Named(name, fragment string) string {
	return "(?P<" + name + ">" + fragment + ")"
}

// Literal escapes s so it matches itself.
func Literal(s string) string {
	return regexp.QuoteMeta(s)
}

// CharClass builds a character class matching any of the given runes, or an
// empty string when there are none.
func CharClass(chars []rune) string {
	if len(chars) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for _, r := range chars {
		switch r {
		case '\\', ']', '[', '^', '-':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte(']')
	return sb.String()
}

// Anchored compiles a fragment matching a whole string.
func Anchored(fragment string) *regexp.Regexp {
	return regexp.MustCompile("^" + Group(fragment) + "$")
}

// Pre-compiled whole-token matchers for the resolvers.
var (
	bracketRe  = Anchored(Bracket)
	parenRe    = Anchored(Paren)
	braceRe    = Anchored(Brace)
	varRe      = Anchored(Var)
	fractionRe = Anchored(Fraction)
	hexRe      = Anchored(Hex)
	numberRe   = Anchored(Number)

	// KeyValue splits "key:value" inside an arbitrary segment. The key must
	// be a plain identifier so "url(http://..)" is never split.
	KeyValue = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9-]*):(.+)$`)

	// Reference finds {name} interpolation tokens.
	Reference = regexp.MustCompile(`\{([a-zA-Z0-9_][a-zA-Z0-9_.-]*)\}`)
)

// IsBracket reports whether token is a whole [...] segment.
func IsBracket(token string) bool { return bracketRe.MatchString(token) }

// IsParen reports whether token is a whole (...) group.
func IsParen(token string) bool { return parenRe.MatchString(token) }

// IsBrace reports whether token is a whole {...} group.
func IsBrace(token string) bool { return braceRe.MatchString(token) }

// IsVar reports whether token is a $name shorthand.
func IsVar(token string) bool { return varRe.MatchString(token) }

// IsFraction reports whether token is an a/b fraction.
func IsFraction(token string) bool { return fractionRe.MatchString(token) }

// IsHex reports whether token is a hex color.
func IsHex(token string) bool { return hexRe.MatchString(token) }

// IsNumber reports whether token is a number with an optional unit.
func IsNumber(token string) bool { return numberRe.MatchString(token) }

// IsArbitrary reports whether token uses one of the delimited forms.
func IsArbitrary(token string) bool {
	return IsBracket(token) || IsParen(token) || IsBrace(token)
}

// Strip removes the outer delimiters of a bracket or paren token. Other
// tokens are returned unchanged.
func Strip(token string) string {
	if IsBracket(token) || IsParen(token) {
		return token[1 : len(token)-1]
	}
	return token
}

// Split cuts a token into a leading head and a trailing arbitrary segment,
// for tokens such as "@[print]" or "supports(display:grid)". ok is false when
// token does not end with an arbitrary segment or the head is empty.
func Split(token string) (head, segment string, ok bool) {
	if len(token) < 3 {
		return "", "", false
	}
	closer := token[len(token)-1:]
	var opener byte
	switch closer {
	case "]":
		opener = '['
	case ")":
		opener = '('
	case "}":
		opener = '{'
	default:
		return "", "", false
	}
	for i := 1; i < len(token); i++ {
		if token[i] != opener {
			continue
		}
		if s := token[i:]; IsArbitrary(s) {
			return token[:i], s, true
		}
	}
	return "", "", false
}

const underscorePlaceholder = "\x00"

// Unescape turns the underscore escaping used in arbitrary values into text:
// "_" becomes a space, "\_" becomes a literal underscore.
func Unescape(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	s = strings.ReplaceAll(s, `\_`, underscorePlaceholder)
	s = strings.ReplaceAll(s, "_", " ")
	return strings.ReplaceAll(s, underscorePlaceholder, "_")
}

// Escape is the inverse of Unescape: literal underscores are escaped and
// spaces become underscores.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "_", `\_`)
	return strings.ReplaceAll(s, " ", "_")
}
