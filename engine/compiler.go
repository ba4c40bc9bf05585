package engine

import (
	"cmp"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"ucc/grammar"
)

// CompiledMatcher is the single automaton built from the configured names.
// It is immutable once built and may be shared between engines.
type CompiledMatcher struct {
	// Source fragments of the three alternations.
	VariantPattern  string
	PropertyPattern string
	ValuePattern    string
	// Source is the complete anchored expression.
	Source string
	// Fingerprint identifies the matcher structurally: equal inputs produce
	// equal fingerprints regardless of map order or slice identity.
	Fingerprint uint64

	re         *regexp.Regexp
	variantIdx int
	propIdx    int
	valueIdx   int
	fractional map[string]struct{}
}

// matcherInput is everything the matcher is a function of.
type matcherInput struct {
	utilities UtilityTable
	variants  VariantTable
	safelist  []string
	prefix    []rune
	fragments []PatternFragments
}

const maxCachedMatchers = 64

// matchers memoizes compiled matchers by fingerprint. The map is never
// modified after publication: every insert stores a fresh copy.
var matchers atomic.Pointer[map[uint64]*CompiledMatcher]

func compileMatcher(in matcherInput) (*CompiledMatcher, error) {
	m := &CompiledMatcher{
		PropertyPattern: propertyAlternation(in),
		VariantPattern:  variantAlternation(in),
		ValuePattern:    valueAlternation(in),
		fractional:      map[string]struct{}{},
	}
	for name, def := range in.utilities {
		if def.acceptsFractions() {
			m.fractional[name] = struct{}{}
		}
	}

	var sb strings.Builder
	sb.WriteString("^")
	if m.VariantPattern != "" {
		sb.WriteString(grammar.Group(grammar.Named("variant", m.VariantPattern) + ":"))
		sb.WriteString("?")
	}
	sb.WriteString(grammar.Named("property", m.PropertyPattern))
	sb.WriteString(grammar.Group("-" + grammar.Named("value", m.ValuePattern)))
	sb.WriteString("?$")
	m.Source = sb.String()
	m.Fingerprint = fingerprint(m.Source, m.fractional)

	if cached := lookupMatcher(m); cached != nil {
		return cached, nil
	}

	re, err := regexp.Compile(m.Source)
	if err != nil {
		return nil, fmt.Errorf("unable to compile class name matcher: %w", err)
	}
	m.re = re
	m.variantIdx = re.SubexpIndex("variant")
	m.propIdx = re.SubexpIndex("property")
	m.valueIdx = re.SubexpIndex("value")

	storeMatcher(m)
	return m, nil
}

func fingerprint(source string, fractional map[string]struct{}) uint64 {
	d := xxhash.New()
	d.WriteString(source) //nolint:errcheck
	for _, name := range slices.Sorted(maps.Keys(fractional)) {
		d.WriteString("\x00") //nolint:errcheck
		d.WriteString(name)   //nolint:errcheck
	}
	return d.Sum64()
}

func lookupMatcher(m *CompiledMatcher) *CompiledMatcher {
	cache := matchers.Load()
	if cache == nil {
		return nil
	}
	cached, ok := (*cache)[m.Fingerprint]
	if !ok || cached.Source != m.Source || !maps.Equal(cached.fractional, m.fractional) {
		return nil
	}
	return cached
}

func storeMatcher(m *CompiledMatcher) {
	for {
		old := matchers.Load()
		next := make(map[uint64]*CompiledMatcher)
		if old != nil && len(*old) < maxCachedMatchers {
			maps.Copy(next, *old)
		}
		next[m.Fingerprint] = m
		if matchers.CompareAndSwap(old, &next) {
			return
		}
	}
}

// byLength orders names longest first so an alternation never settles on a
// prefix of a longer name ("bg" before "background").
func byLength(a, b string) int {
	if c := cmp.Compare(len(b), len(a)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func literals(names []string) []string {
	names = slices.Clone(names)
	slices.SortFunc(names, byLength)
	names = slices.Compact(names)
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, grammar.Literal(n))
		}
	}
	return out
}

func propertyAlternation(in matcherInput) string {
	names := slices.AppendSeq(slices.Clone(in.safelist), maps.Keys(in.utilities))
	parts := literals(names)
	for _, f := range in.fragments {
		parts = append(parts, f.Properties...)
	}
	parts = append(parts, grammar.Bracket)
	return grammar.Alt(parts...)
}

func variantAlternation(in matcherInput) string {
	var parts []string
	if named := literals(slices.Collect(maps.Keys(in.variants))); len(named) > 0 {
		parts = append(parts, grammar.Alt(named...)+grammar.Group(grammar.Arbitrary)+"?")
	}
	for _, f := range in.fragments {
		parts = append(parts, f.Variants...)
	}
	if class := grammar.CharClass(in.prefix); class != "" {
		parts = append(parts, class+"+"+grammar.Group(grammar.Arbitrary)+"?")
	}
	parts = append(parts, grammar.Arbitrary)
	return grammar.Alt(parts...)
}

func valueAlternation(in matcherInput) string {
	var parts []string
	for _, f := range in.fragments {
		parts = append(parts, f.Values...)
	}
	parts = append(parts, grammar.Value)
	return grammar.Alt(parts...)
}

// Parse applies the matcher to one class name. It is purely syntactic: a
// leading or trailing "!" is recorded as the important flag, captured groups
// are returned verbatim. A fraction value on a utility that does not take
// fractions is not a match.
func (m *CompiledMatcher) Parse(className string) *ParsedClassName {
	var important bool
	switch {
	case strings.HasPrefix(className, "!"):
		className, important = className[1:], true
	case strings.HasSuffix(className, "!"):
		className, important = className[:len(className)-1], true
	}

	sub := m.re.FindStringSubmatch(className)
	if sub == nil {
		return nil
	}
	p := &ParsedClassName{
		Important: important,
		Property:  sub[m.propIdx],
		Value:     sub[m.valueIdx],
	}
	if m.variantIdx > 0 {
		p.Variant = sub[m.variantIdx]
	}
	if p.Property == "" {
		return nil
	}
	if p.Value != "" && grammar.IsFraction(p.Value) {
		if _, ok := m.fractional[p.Property]; !ok {
			return nil
		}
	}
	return p
}

// Match reports whether className is in the matcher's language.
func (m *CompiledMatcher) Match(className string) bool {
	return m.Parse(className) != nil
}

func checkPrefixChars(chars []rune) error {
	for _, r := range chars {
		switch {
		case r == '-' || r == ':' || r == '!':
			return fmt.Errorf("prefix character %q is reserved", r)
		case r <= ' ' || r == 0x7f:
			return fmt.Errorf("prefix character %q is not printable", r)
		case r < 0x80 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'):
			return fmt.Errorf("prefix character %q is alphanumeric", r)
		}
	}
	return nil
}

func checkFragments(plugin string, f *PatternFragments) error {
	for _, src := range slices.Concat(f.Variants, f.Properties, f.Values) {
		re, err := regexp.Compile(src)
		if err != nil {
			return fmt.Errorf("plugin %q: bad pattern fragment %q: %w", plugin, src, err)
		}
		if re.NumSubexp() != 0 {
			return fmt.Errorf("plugin %q: pattern fragment %q has capture groups", plugin, src)
		}
	}
	return nil
}
