package engine

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// UtilityTable maps utility names (the "property" slot of a class name) to
// their definitions.
type UtilityTable map[string]UtilityDef

// VariantTable maps variant names to their definitions.
type VariantTable map[string]VariantDef

// ValueRegistry holds named values usable in place of literal ones.
type ValueRegistry struct {
	// Values maps a token to its value. Values may reference other entries
	// with {name}.
	Values map[string]string
	// Scoped holds per-utility overrides: Scoped[utility][token].
	Scoped map[string]map[string]string
}

func (r ValueRegistry) clone() ValueRegistry {
	out := ValueRegistry{Values: maps.Clone(r.Values)}
	if r.Scoped != nil {
		out.Scoped = make(map[string]map[string]string, len(r.Scoped))
		for utility, m := range r.Scoped {
			out.Scoped[utility] = maps.Clone(m)
		}
	}
	return out
}

func (r ValueRegistry) lookup(name string) (string, bool) {
	v, ok := r.Values[name]
	return v, ok
}

func (r ValueRegistry) scoped(property, token string) (string, bool) {
	if m, ok := r.Scoped[property]; ok {
		v, ok := m[token]
		return v, ok
	}
	return "", false
}

// UtilityDef describes what a utility name resolves to. Exactly one form is
// active, selected by Kind.
type UtilityDef struct {
	Kind UtilityKind

	// Properties are the CSS properties targeted by direct and constrained
	// utilities. For function utilities they are the fallback targets of a
	// bare value outcome.
	Properties []string
	// Allowed restricts values of a constrained utility (OR semantics).
	Allowed []ValuePattern
	// Keys makes a utility key-aware: a "key:value" arbitrary value selects
	// the listed properties instead of Properties.
	Keys map[string][]string
	// Default is used when the class name carries no value.
	Default string
	// Fractions lets the utility take a/b values.
	Fractions bool

	Func UtilityFunc
}

// Property defines a direct utility targeting one or more properties.
func Property(names ...string) UtilityDef {
	return UtilityDef{Kind: UtilityKindDirect, Properties: names}
}

// Constrained defines a utility whose values must match one of allowed.
func Constrained(property string, allowed ...ValuePattern) UtilityDef {
	return UtilityDef{Kind: UtilityKindConstrained, Properties: []string{property}, Allowed: allowed}
}

// Function defines a utility computed by fn. Optional properties receive a
// bare value returned by fn.
func Function(fn UtilityFunc, properties ...string) UtilityDef {
	return UtilityDef{Kind: UtilityKindFunction, Func: fn, Properties: properties}
}

// WithKeys returns a copy of d accepting the given key hints.
func (d UtilityDef) WithKeys(keys map[string][]string) UtilityDef {
	d.Keys = keys
	return d
}

// WithDefault returns a copy of d using value when none is given.
func (d UtilityDef) WithDefault(value string) UtilityDef {
	d.Default = value
	return d
}

// WithFractions returns a copy of d accepting a/b values.
func (d UtilityDef) WithFractions() UtilityDef {
	d.Fractions = true
	return d
}

// clone copies the slices and maps of d so it no longer shares them with the
// caller.
func (d UtilityDef) clone() UtilityDef {
	d.Properties = slices.Clone(d.Properties)
	d.Allowed = slices.Clone(d.Allowed)
	if d.Keys != nil {
		keys := make(map[string][]string, len(d.Keys))
		for k, props := range d.Keys {
			keys[k] = slices.Clone(props)
		}
		d.Keys = keys
	}
	return d
}

func (d UtilityDef) acceptsFractions() bool {
	return d.Fractions || d.Kind == UtilityKindFunction
}

func (d UtilityDef) validate(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("invalid utility name %q", name)
	}
	switch d.Kind {
	case UtilityKindDirect:
		if len(d.Properties) == 0 {
			return fmt.Errorf("utility %q: no properties", name)
		}
	case UtilityKindConstrained:
		if len(d.Properties) == 0 {
			return fmt.Errorf("utility %q: no properties", name)
		}
		if len(d.Allowed) == 0 {
			return fmt.Errorf("utility %q: no allowed values", name)
		}
	case UtilityKindFunction:
		if d.Func == nil {
			return fmt.Errorf("utility %q: nil function", name)
		}
	default:
		return fmt.Errorf("utility %q: %w", name, ErrInvalidUtilityKind)
	}
	for key, props := range d.Keys {
		if len(props) == 0 {
			return fmt.Errorf("utility %q: key %q has no properties", name, key)
		}
	}
	return nil
}

// ValuePattern is a constraint on utility values: a literal, an anchored
// regular expression, or a list of patterns any of which may match.
type ValuePattern struct {
	literal string
	re      *regexp.Regexp
	anyOf   []ValuePattern
}

// Literal matches exactly s.
func Literal(s string) ValuePattern {
	return ValuePattern{literal: s}
}

// Pattern matches values fully matched by the regular expression expr.
func Pattern(expr string) (ValuePattern, error) {
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return ValuePattern{}, fmt.Errorf("bad value pattern %q: %w", expr, err)
	}
	return ValuePattern{re: re}, nil
}

// MustPattern is like Pattern but panics on a bad expression.
func MustPattern(expr string) ValuePattern {
	p, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// AnyOf matches when any of patterns matches.
func AnyOf(patterns ...ValuePattern) ValuePattern {
	return ValuePattern{anyOf: append([]ValuePattern{}, patterns...)}
}

// Match reports whether value satisfies the pattern.
func (p ValuePattern) Match(value string) bool {
	switch {
	case p.re != nil:
		return p.re.MatchString(value)
	case p.anyOf != nil:
		for _, sub := range p.anyOf {
			if sub.Match(value) {
				return true
			}
		}
		return false
	default:
		return p.literal == value
	}
}

func (p ValuePattern) String() string {
	switch {
	case p.re != nil:
		return "/" + strings.TrimSuffix(strings.TrimPrefix(p.re.String(), "^(?:"), ")$") + "/"
	case p.anyOf != nil:
		parts := make([]string, 0, len(p.anyOf))
		for _, sub := range p.anyOf {
			parts = append(parts, sub.String())
		}
		return "[" + strings.Join(parts, " | ") + "]"
	default:
		return fmt.Sprintf("%q", p.literal)
	}
}

// VariantDef describes a variant: a template with placeholders or a
// function producing one.
type VariantDef struct {
	Kind     VariantKind
	Template string
	Func     VariantFunc
}

// VariantFunc computes a template for an argument given to the variant, for
// example "[print]" in "@[print]". Returning false means the variant does
// not apply.
type VariantFunc func(arg ResolvedValue) (string, bool)

// Template defines a template variant.
func Template(t string) VariantDef {
	return VariantDef{Kind: VariantKindTemplate, Template: t}
}

// VariantFunction defines a function variant.
func VariantFunction(fn VariantFunc) VariantDef {
	return VariantDef{Kind: VariantKindFunction, Func: fn}
}

func (d VariantDef) validate(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t\n:") {
		return fmt.Errorf("invalid variant name %q", name)
	}
	switch d.Kind {
	case VariantKindTemplate:
		if d.Template == "" {
			return fmt.Errorf("variant %q: empty template", name)
		}
	case VariantKindFunction:
		if d.Func == nil {
			return fmt.Errorf("variant %q: nil function", name)
		}
	default:
		return fmt.Errorf("variant %q: %w", name, ErrInvalidVariantKind)
	}
	return nil
}

// ParsedClassName holds the raw, unresolved components of a class name.
// Empty Variant or Value means the component was absent.
type ParsedClassName struct {
	Important bool
	Variant   string
	Property  string
	Value     string
}

// ResolvedValue is a value after registry lookup and arbitrary syntax
// handling. Key is set only for "key:value" arbitrary values.
type ResolvedValue struct {
	Key   string
	Value string
}

// Rule is the resolved form of a class name: *Simple, *Raw or *Many.
type Rule interface {
	Kind() RuleKind
	isRule()
}

// Simple sets one value on one or more properties.
type Simple struct {
	Properties []string
	Value      string
}

// Raw is a ready rule body fragment, such as "display:flex".
type Raw struct {
	Text string
}

// Many combines several rules.
type Many struct {
	Rules []Rule
}

func (*Simple) Kind() RuleKind { return RuleKindSimple }
func (*Raw) Kind() RuleKind    { return RuleKindRaw }
func (*Many) Kind() RuleKind   { return RuleKindMany }

func (*Simple) isRule() {}
func (*Raw) isRule()    {}
func (*Many) isRule()   {}

// InvalidResult reports a class name that matched the grammar but cannot be
// resolved.
type InvalidResult struct {
	Reason string
}

func (i *InvalidResult) Error() string {
	return i.Reason
}

func invalid(format string, args ...any) *InvalidResult {
	return &InvalidResult{Reason: fmt.Sprintf(format, args...)}
}

// Result is the outcome of processing one class name that matched. Exactly
// one of Rule and Invalid is set.
type Result struct {
	ClassName string
	Parsed    ParsedClassName
	Rule      Rule
	Invalid   *InvalidResult
	// Variant is the resolved variant template, empty when there is none.
	Variant   string
	Important bool
}

// Valid reports whether the result carries a rule.
func (r *Result) Valid() bool {
	return r != nil && r.Invalid == nil && r.Rule != nil
}

// UtilityContext is what function-form utilities and utility hooks see.
type UtilityContext struct {
	ClassName string
	// Utility is the parsed utility name.
	Utility string
	// Value is the resolved value; HasValue is false when the class name had
	// no value and the utility has no default.
	Value    ResolvedValue
	HasValue bool
	Parsed   ParsedClassName
}

// UtilityFunc computes a function-form utility.
type UtilityFunc func(ctx UtilityContext) UtilityOutcome

// UtilityOutcome is everything a function-form utility may return.
type UtilityOutcome struct {
	Kind       OutcomeKind
	Text       string
	Properties []string
	Value      string
	Items      []UtilityOutcome
	Reason     string
}

// Nothing is the empty outcome; it resolves to an invalid result.
func Nothing() UtilityOutcome {
	return UtilityOutcome{Kind: OutcomeKindNone}
}

// Text is a raw fragment when it contains ':' and a bare value for the
// utility's properties otherwise.
func Text(s string) UtilityOutcome {
	return UtilityOutcome{Kind: OutcomeKindText, Text: s}
}

// Declare sets value on properties.
func Declare(value string, properties ...string) UtilityOutcome {
	return UtilityOutcome{Kind: OutcomeKindDeclaration, Value: value, Properties: properties}
}

// Combine groups several outcomes into one rule.
func Combine(items ...UtilityOutcome) UtilityOutcome {
	return UtilityOutcome{Kind: OutcomeKindMany, Items: items}
}

// Fail rejects the class name with reason.
func Fail(reason string) UtilityOutcome {
	return UtilityOutcome{Kind: OutcomeKindFail, Reason: reason}
}

// PatternFragments are extra regular expression sources a plugin adds to
// the matcher alternations. Fragments must not contain capture groups.
type PatternFragments struct {
	Variants   []string
	Properties []string
	Values     []string
}

// IsEmpty reports whether there is nothing to contribute.
func (f *PatternFragments) IsEmpty() bool {
	return f == nil || len(f.Variants)+len(f.Properties)+len(f.Values) == 0
}

// Diagnostic describes a failure isolated by the engine: a plugin hook that
// returned an error or panicked, or a variant template that cannot be
// emitted. Plugin is empty for failures not caused by a plugin.
type Diagnostic struct {
	Plugin string
	Stage  Stage
	Class  string
	Err    error
}
