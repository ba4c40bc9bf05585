// Package tables loads utility, variant and value tables from YAML or TOML
// documents and turns them into engine configuration.
package tables

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"ucc/engine"
)

// Document is the on-disk shape of a table file.
type Document struct {
	// Values are named values, Scoped are per-utility overrides.
	Values map[string]string            `yaml:"values" toml:"values"`
	Scoped map[string]map[string]string `yaml:"scoped" toml:"scoped"`

	Utilities map[string]Utility `yaml:"utilities" toml:"utilities"`

	// Variants are template variants, VariantFunctions map variant names to
	// registered variant functions.
	Variants         map[string]string `yaml:"variants" toml:"variants"`
	VariantFunctions map[string]string `yaml:"variant_functions" toml:"variant_functions"`

	PrefixChars string   `yaml:"prefix_chars" toml:"prefix_chars"`
	Safelist    []string `yaml:"safelist" toml:"safelist"`
}

// Utility is a utility definition as written in a table file. A utility with
// Allowed values is constrained, one naming a Function is computed by a
// registered utility function, anything else is direct. Allowed entries
// wrapped in slashes are regular expressions.
type Utility struct {
	Properties []string            `yaml:"properties" toml:"properties"`
	Allowed    []string            `yaml:"allowed" toml:"allowed"`
	Keys       map[string][]string `yaml:"keys" toml:"keys"`
	Default    string              `yaml:"default" toml:"default"`
	Fractions  bool                `yaml:"fractions" toml:"fractions"`
	Function   string              `yaml:"function" toml:"function"`
}

// Tables is the engine facing result of loading one or more documents.
type Tables struct {
	Utilities   engine.UtilityTable
	Variants    engine.VariantTable
	Values      engine.ValueRegistry
	PrefixChars []rune
	Safelist    []string
}

// New returns empty tables.
func New() *Tables {
	return &Tables{
		Utilities: engine.UtilityTable{},
		Variants:  engine.VariantTable{},
		Values:    engine.ValueRegistry{Values: map[string]string{}, Scoped: map[string]map[string]string{}},
	}
}

// Merge adds entries of other, replacing entries with the same name. Scoped
// values are merged per utility.
func (t *Tables) Merge(other *Tables) {
	if other == nil {
		return
	}
	maps.Copy(t.Utilities, other.Utilities)
	maps.Copy(t.Variants, other.Variants)
	maps.Copy(t.Values.Values, other.Values.Values)
	for scope, values := range other.Values.Scoped {
		if t.Values.Scoped[scope] == nil {
			t.Values.Scoped[scope] = map[string]string{}
		}
		maps.Copy(t.Values.Scoped[scope], values)
	}
	for _, r := range other.PrefixChars {
		if !slices.Contains(t.PrefixChars, r) {
			t.PrefixChars = append(t.PrefixChars, r)
		}
	}
	for _, name := range other.Safelist {
		if !slices.Contains(t.Safelist, name) {
			t.Safelist = append(t.Safelist, name)
		}
	}
}

// Config returns engine configuration built from the tables.
func (t *Tables) Config() engine.Config {
	return engine.Config{
		Utilities:   t.Utilities,
		Variants:    t.Variants,
		Values:      t.Values,
		PrefixChars: t.PrefixChars,
		Safelist:    t.Safelist,
	}
}

// Loader decodes table documents.
type Loader struct {
	log          *zap.Logger
	utilityFuncs map[string]engine.UtilityFunc
	variantFuncs map[string]engine.VariantFunc
}

// Option configures a Loader.
type Option func(*Loader)

// WithUtilityFunctions registers utility functions documents may refer to by
// name.
func WithUtilityFunctions(funcs map[string]engine.UtilityFunc) Option {
	return func(l *Loader) {
		maps.Copy(l.utilityFuncs, funcs)
	}
}

// WithVariantFunctions registers variant functions documents may refer to by
// name.
func WithVariantFunctions(funcs map[string]engine.VariantFunc) Option {
	return func(l *Loader) {
		maps.Copy(l.variantFuncs, funcs)
	}
}

// NewLoader creates a loader.
func NewLoader(log *zap.Logger, options ...Option) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Loader{
		log:          log.Named("tables"),
		utilityFuncs: map[string]engine.UtilityFunc{},
		variantFuncs: map[string]engine.VariantFunc{},
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// LoadFile reads and decodes a table file. The format is taken from the file
// extension.
func (l *Loader) LoadFile(path string) (*Tables, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("unable to load tables from %s: unknown file extension", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load tables: %w", err)
	}
	t, err := l.Load(data, format)
	if err != nil {
		return nil, fmt.Errorf("unable to load tables from %s: %w", path, err)
	}
	return t, nil
}

// LoadFiles loads files in order, later files overriding earlier ones.
func (l *Loader) LoadFiles(paths ...string) (*Tables, error) {
	out := New()
	for _, path := range paths {
		t, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		out.Merge(t)
	}
	return out, nil
}

// Load decodes data. Unknown fields are rejected and all definition problems
// are reported together.
func (l *Loader) Load(data []byte, format Format) (*Tables, error) {
	doc, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	t, err := l.Build(doc)
	if err != nil {
		return nil, err
	}
	l.log.Debug("Tables loaded",
		zap.Stringer("format", format),
		zap.Int("utilities", len(t.Utilities)),
		zap.Int("variants", len(t.Variants)),
		zap.Int("values", len(t.Values.Values)))
	return t, nil
}

// Decode decodes a document without interpreting it.
func Decode(data []byte, format Format) (*Document, error) {
	doc := &Document{}
	switch format {
	case FormatYaml:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("unable to decode yaml tables: %w", err)
		}
	case FormatToml:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("unable to decode toml tables: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to decode tables: %w", ErrInvalidFormat)
	}
	return doc, nil
}

// Build interprets a decoded document.
func (l *Loader) Build(doc *Document) (*Tables, error) {
	t := New()
	var errs error

	maps.Copy(t.Values.Values, doc.Values)
	for scope, values := range doc.Scoped {
		t.Values.Scoped[scope] = maps.Clone(values)
	}

	for name, u := range doc.Utilities {
		def, err := l.utility(u)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("utility %q: %w", name, err))
			continue
		}
		t.Utilities[name] = def
	}

	for name, template := range doc.Variants {
		t.Variants[name] = engine.Template(template)
	}
	for name, fn := range doc.VariantFunctions {
		if _, dup := doc.Variants[name]; dup {
			errs = multierr.Append(errs, fmt.Errorf("variant %q is defined twice", name))
			continue
		}
		f, ok := l.variantFuncs[fn]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("variant %q: unknown function %q", name, fn))
			continue
		}
		t.Variants[name] = engine.VariantFunction(f)
	}

	for _, r := range doc.PrefixChars {
		if !slices.Contains(t.PrefixChars, r) {
			t.PrefixChars = append(t.PrefixChars, r)
		}
	}
	t.Safelist = slices.Clone(doc.Safelist)

	if errs != nil {
		return nil, errs
	}
	return t, nil
}

func (l *Loader) utility(u Utility) (engine.UtilityDef, error) {
	var def engine.UtilityDef
	switch {
	case u.Function != "":
		if len(u.Allowed) > 0 {
			return def, errors.New("function utilities take no allowed values")
		}
		fn, ok := l.utilityFuncs[u.Function]
		if !ok {
			return def, fmt.Errorf("unknown function %q", u.Function)
		}
		def = engine.Function(fn, u.Properties...)
	case len(u.Allowed) > 0:
		allowed := make([]engine.ValuePattern, 0, len(u.Allowed))
		var errs error
		for _, a := range u.Allowed {
			p, err := valuePattern(a)
			errs = multierr.Append(errs, err)
			allowed = append(allowed, p)
		}
		if errs != nil {
			return def, errs
		}
		def = engine.UtilityDef{Kind: engine.UtilityKindConstrained, Properties: u.Properties, Allowed: allowed}
	default:
		def = engine.Property(u.Properties...)
	}
	if len(u.Properties) == 0 && u.Function == "" {
		return def, errors.New("no properties")
	}
	if len(u.Keys) > 0 {
		def = def.WithKeys(u.Keys)
	}
	if u.Default != "" {
		def = def.WithDefault(u.Default)
	}
	if u.Fractions {
		def = def.WithFractions()
	}
	return def, nil
}

// valuePattern reads "/expr/" as a regular expression and anything else as
// a literal.
func valuePattern(s string) (engine.ValuePattern, error) {
	if len(s) >= 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
		return engine.Pattern(s[1 : len(s)-1])
	}
	return engine.Literal(s), nil
}
