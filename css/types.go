package css

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"ucc/common"
)

// cssEscapeDoubleQuoted escapes a string for use inside CSS double quotes.
// Backslashes and double quotes are escaped per CSS syntax: \" and \\.
func cssEscapeDoubleQuoted(s string) string {
	// Fast path: nothing to escape.
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EscapeIdent escapes s for use as a CSS identifier, following the CSSOM
// CSS.escape() algorithm: class names such as "hover:bg-[10px]" become valid
// selectors.
func EscapeIdent(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	first, _ := utf8.DecodeRuneInString(s)
	for i, r := range s {
		switch {
		case r == 0:
			b.WriteRune(utf8.RuneError)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\%x `, r)
		case i == 0 && r >= '0' && r <= '9':
			fmt.Fprintf(&b, `\%x `, r)
		case i == 1 && first == '-' && r >= '0' && r <= '9':
			fmt.Fprintf(&b, `\%x `, r)
		case i == 0 && r == '-' && len(s) == 1:
			b.WriteString(`\-`)
		case r >= 0x80 || r == '-' || r == '_' ||
			r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Declaration is a single property assignment.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Rule is a selector with its declarations in source order.
type Rule struct {
	Selector     string
	Declarations []Declaration
}

// MediaBlock is a conditional group rule: @media by default, or another
// block at-rule such as @supports named by At.
type MediaBlock struct {
	At    string
	Query string
	Rules []Rule
}

func (mb *MediaBlock) atRule() string {
	if mb.At == "" {
		return "@media"
	}
	return mb.At
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule, MediaBlock, or Import is non-nil.
type StylesheetItem struct {
	Rule       *Rule
	MediaBlock *MediaBlock
	Import     *string
}

// Stylesheet is an ordered list of top-level items.
type Stylesheet struct {
	Items    []StylesheetItem
	Warnings []string // Warnings for skipped or malformed input
}

// AddRule appends rule at top level, or to the media block for query when
// query is not empty. Rules for the same query share one block.
func (s *Stylesheet) AddRule(rule Rule, query string) {
	if query == "" {
		s.Items = append(s.Items, StylesheetItem{Rule: &rule})
		return
	}
	mb := s.Media(query)
	mb.Rules = append(mb.Rules, rule)
}

// Media returns the @media block for query, creating it at the end of the
// stylesheet when missing.
func (s *Stylesheet) Media(query string) *MediaBlock {
	return s.Block("@media", query)
}

// Block returns the block for at rule and query, creating it at the end of
// the stylesheet when missing.
func (s *Stylesheet) Block(at, query string) *MediaBlock {
	for _, item := range s.Items {
		if mb := item.MediaBlock; mb != nil && mb.atRule() == at && mb.Query == query {
			return mb
		}
	}
	mb := &MediaBlock{At: at, Query: query}
	s.Items = append(s.Items, StylesheetItem{MediaBlock: mb})
	return mb
}

// Append adds all items of other after the items of s. Media blocks with a
// query already present in s are merged into the existing block.
func (s *Stylesheet) Append(other *Stylesheet) {
	if other == nil {
		return
	}
	for _, item := range other.Items {
		if item.MediaBlock != nil {
			mb := s.Block(item.MediaBlock.atRule(), item.MediaBlock.Query)
			mb.Rules = append(mb.Rules, item.MediaBlock.Rules...)
			continue
		}
		s.Items = append(s.Items, item)
	}
	s.Warnings = append(s.Warnings, other.Warnings...)
}

// Imports returns all @import URLs from the stylesheet in source order.
func (s *Stylesheet) Imports() []string {
	var urls []string
	for _, item := range s.Items {
		if item.Import != nil {
			urls = append(urls, *item.Import)
		}
	}
	return urls
}

// RulesBySelector returns all top-level rules matching the given selector string.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, item := range s.Items {
		if item.Rule != nil && item.Rule.Selector == selector {
			matches = append(matches, *item.Rule)
		}
	}
	return matches
}

// Len returns the number of rules, counting rules inside media blocks.
func (s *Stylesheet) Len() int {
	var n int
	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			n++
		case item.MediaBlock != nil:
			n += len(item.MediaBlock.Rules)
		}
	}
	return n
}

// WriteTo writes the stylesheet to w in pretty style, implementing
// io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	return s.Write(w, common.OutputStylePretty)
}

// Write writes the stylesheet to w in source order. Declaration order is
// kept: later declarations override earlier ones.
func (s *Stylesheet) Write(w io.Writer, style common.OutputStyle) (int64, error) {
	sw := &sheetWriter{w: w, compact: style == common.OutputStyleCompact}
	for i, item := range s.Items {
		if i > 0 && !sw.compact {
			sw.print("\n")
		}
		switch {
		case item.Import != nil:
			sw.printf("@import url(\"%s\");", cssEscapeDoubleQuoted(*item.Import))
			sw.print("\n")
		case item.MediaBlock != nil:
			sw.media(item.MediaBlock)
		case item.Rule != nil:
			sw.rule(item.Rule, 0)
		}
		if sw.err != nil {
			break
		}
	}
	return sw.n, sw.err
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// sheetWriter keeps the first write error and the running byte count.
type sheetWriter struct {
	w       io.Writer
	compact bool
	n       int64
	err     error
}

func (sw *sheetWriter) print(s string) {
	if sw.err != nil {
		return
	}
	n, err := io.WriteString(sw.w, s)
	sw.n += int64(n)
	sw.err = err
}

func (sw *sheetWriter) printf(format string, args ...any) {
	sw.print(fmt.Sprintf(format, args...))
}

func (sw *sheetWriter) indent(depth int) {
	if !sw.compact {
		sw.print(strings.Repeat("  ", depth))
	}
}

func (sw *sheetWriter) rule(rule *Rule, depth int) {
	if sw.compact {
		sw.print(rule.Selector + "{")
		for i, d := range rule.Declarations {
			if i > 0 {
				sw.print(";")
			}
			sw.print(d.Property + ":" + d.Value)
			if d.Important {
				sw.print("!important")
			}
		}
		sw.print("}")
		if depth == 0 {
			sw.print("\n")
		}
		return
	}
	sw.indent(depth)
	sw.print(rule.Selector + " {\n")
	for _, d := range rule.Declarations {
		sw.indent(depth + 1)
		sw.print(d.Property + ": " + d.Value)
		if d.Important {
			sw.print(" !important")
		}
		sw.print(";\n")
	}
	sw.indent(depth)
	sw.print("}\n")
}

func (sw *sheetWriter) media(mb *MediaBlock) {
	if sw.compact {
		sw.print(mb.atRule() + " " + mb.Query + "{")
		for i := range mb.Rules {
			sw.rule(&mb.Rules[i], 1)
		}
		sw.print("}\n")
		return
	}
	sw.print(mb.atRule() + " " + mb.Query + " {\n")
	for i := range mb.Rules {
		if i > 0 {
			sw.print("\n")
		}
		sw.rule(&mb.Rules[i], 1)
	}
	sw.print("}\n")
}

// Dedup removes top-level and media rules identical to an earlier rule in
// the same scope, keeping the first occurrence.
func (s *Stylesheet) Dedup() {
	seen := map[string]struct{}{}
	key := func(scope string, r Rule) string {
		var sb strings.Builder
		sb.WriteString(scope + "\x00" + r.Selector)
		for _, d := range r.Declarations {
			fmt.Fprintf(&sb, "\x00%s:%s:%t", d.Property, d.Value, d.Important)
		}
		return sb.String()
	}
	s.Items = slices.DeleteFunc(s.Items, func(item StylesheetItem) bool {
		if item.Rule == nil {
			return false
		}
		k := key("", *item.Rule)
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
	for _, item := range s.Items {
		if item.MediaBlock == nil {
			continue
		}
		mb := item.MediaBlock
		mb.Rules = slices.DeleteFunc(mb.Rules, func(r Rule) bool {
			k := key(mb.atRule()+" "+mb.Query, r)
			if _, dup := seen[k]; dup {
				return true
			}
			seen[k] = struct{}{}
			return false
		})
	}
}
