// Package engine compiles utility class names ("hover:bg-red", "p-[10px]")
// into style rules using tables supplied at run time.
//
// An Engine is built once by Compile from a Config and is immutable
// afterwards: WithPlugin and WithoutPlugin return new engines. Processing a
// class name has three distinct outcomes: nil (not a utility class), a Result
// carrying an InvalidResult (a utility class that cannot be resolved) and a
// Result carrying a Rule.
package engine

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"ucc/grammar"
	"ucc/utils/debug"
)

// Config is everything an engine is compiled from.
type Config struct {
	Utilities UtilityTable
	Variants  VariantTable
	Values    ValueRegistry
	Plugins   []Plugin
	// PrefixChars are characters that may start a variant on their own, as
	// in "@[print]:hidden". A variant made of prefix characters is looked
	// up in the variant table by the prefix sequence.
	PrefixChars []rune
	// Safelist adds names to the property alternation without defining
	// them, so plugins can resolve them.
	Safelist []string
	// Strict rejects bare words which are neither registry entries nor
	// numbers, hex colors or fractions.
	Strict bool
	// OnDiagnostic receives isolated failures in addition to the log.
	OnDiagnostic func(Diagnostic)
}

// Engine is a compiled, immutable configuration.
type Engine struct {
	cfg     Config
	matcher *CompiledMatcher
	pipe    *pipeline
	base    *zap.Logger
	log     *zap.Logger
}

// Compile validates cfg and builds an engine. All configuration problems are
// reported together.
func Compile(cfg Config, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}

	cfg.Utilities = cloneUtilities(cfg.Utilities)
	cfg.Variants = maps.Clone(cfg.Variants)
	cfg.Values = cfg.Values.clone()
	cfg.Plugins = slices.Clone(cfg.Plugins)
	cfg.PrefixChars = slices.Clone(cfg.PrefixChars)
	cfg.Safelist = slices.Clone(cfg.Safelist)

	var err error
	for _, name := range slices.Sorted(maps.Keys(cfg.Utilities)) {
		err = multierr.Append(err, cfg.Utilities[name].validate(name))
	}
	for _, name := range slices.Sorted(maps.Keys(cfg.Variants)) {
		err = multierr.Append(err, cfg.Variants[name].validate(name))
	}
	for _, name := range cfg.Safelist {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t\n") {
			err = multierr.Append(err, fmt.Errorf("invalid safelist entry %q", name))
		}
	}
	err = multierr.Append(err, checkPrefixChars(cfg.PrefixChars))
	err = multierr.Append(err, checkPlugins(cfg.Plugins))
	if err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}

	e := &Engine{
		cfg:  cfg,
		base: log,
		log:  log.Named("engine"),
	}
	e.pipe = newPipeline(cfg.Plugins, e.log.Named("pipeline"), cfg.OnDiagnostic)

	fragments, err := e.pipe.fragments()
	if err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	e.matcher, err = compileMatcher(matcherInput{
		utilities: cfg.Utilities,
		variants:  cfg.Variants,
		safelist:  cfg.Safelist,
		prefix:    cfg.PrefixChars,
		fragments: fragments,
	})
	if err != nil {
		return nil, err
	}

	e.log.Debug("Engine compiled",
		zap.Int("utilities", len(cfg.Utilities)),
		zap.Int("variants", len(cfg.Variants)),
		zap.Strings("plugins", e.pipe.names()),
		zap.Uint64("fingerprint", e.matcher.Fingerprint))
	return e, nil
}

// cloneUtilities copies the table deep enough that later changes by the
// caller do not reach a compiled engine.
func cloneUtilities(table UtilityTable) UtilityTable {
	if table == nil {
		return nil
	}
	out := make(UtilityTable, len(table))
	for name, def := range table {
		out[name] = def.clone()
	}
	return out
}

// WithPlugin returns a new engine with p added. The receiver is unchanged.
func (e *Engine) WithPlugin(p Plugin) (*Engine, error) {
	cfg := e.cfg
	cfg.Plugins = append(slices.Clone(e.cfg.Plugins), p)
	return Compile(cfg, e.base)
}

// WithoutPlugin returns a new engine without the named plugin.
func (e *Engine) WithoutPlugin(name string) (*Engine, error) {
	idx := slices.IndexFunc(e.cfg.Plugins, func(p Plugin) bool { return p.Name == name })
	if idx < 0 {
		return nil, fmt.Errorf("plugin %q is not registered", name)
	}
	cfg := e.cfg
	cfg.Plugins = slices.Delete(slices.Clone(e.cfg.Plugins), idx, idx+1)
	return Compile(cfg, e.base)
}

// Matcher returns the compiled matcher.
func (e *Engine) Matcher() *CompiledMatcher {
	return e.matcher
}

// Plugins returns plugin names in the order their hooks run.
func (e *Engine) Plugins() []string {
	return e.pipe.names()
}

// ParseOne splits a class name into its raw components, or returns nil when
// it is not a utility class.
func (e *Engine) ParseOne(className string) *ParsedClassName {
	className = strings.TrimSpace(className)
	if className == "" {
		return nil
	}
	if p, ok := e.pipe.parse(className); ok {
		return p
	}
	return e.matcher.Parse(className)
}

// ProcessOne resolves a class name. It returns nil when className is not a
// utility class; otherwise exactly one of Result.Rule and Result.Invalid is
// set.
func (e *Engine) ProcessOne(className string) *Result {
	className = strings.TrimSpace(className)
	if className == "" {
		return nil
	}
	if out, ok := e.pipe.class(className); ok {
		res := *out
		if res.ClassName == "" {
			res.ClassName = className
		}
		switch {
		case res.Invalid != nil:
			res.Rule = nil
		case res.Rule == nil:
			res.Invalid = invalid("class %q: plugin produced no rule", className)
		}
		return &res
	}

	parsed := e.ParseOne(className)
	if parsed == nil {
		return nil
	}
	res := &Result{ClassName: className, Parsed: *parsed, Important: parsed.Important}

	if parsed.Variant != "" {
		template, ok, inv := e.variant(className, parsed.Variant)
		if inv != nil {
			res.Invalid = inv
			return res
		}
		if !ok {
			return nil
		}
		res.Variant = template
	}

	rule, inv, found := e.resolveUtility(className, parsed)
	if !found {
		return nil
	}
	res.Rule, res.Invalid = rule, inv
	if res.Invalid == nil && res.Rule == nil {
		res.Invalid = invalid("utility %q produced no rule", parsed.Property)
	}
	return res
}

func (e *Engine) variant(className, raw string) (string, bool, *InvalidResult) {
	if t, ok := e.pipe.variant(className, raw); ok {
		return checkedTemplate(raw, t, true)
	}
	if prefix, ok := e.prefixOf(raw); ok {
		if _, known := e.cfg.Variants[prefix]; !known {
			return "", false, invalid("unknown variant %q", prefix)
		}
	}
	return resolveVariant(e.cfg.Variants, e.cfg.Values, raw)
}

// prefixOf returns the prefix character sequence of an "@[print]" style
// variant. Tokens which are table entries themselves, or which continue with
// anything but an arbitrary segment, have no prefix.
func (e *Engine) prefixOf(raw string) (string, bool) {
	if len(e.cfg.PrefixChars) == 0 {
		return "", false
	}
	if _, exact := e.cfg.Variants[raw]; exact {
		return "", false
	}
	rest := strings.TrimLeftFunc(raw, func(r rune) bool { return slices.Contains(e.cfg.PrefixChars, r) })
	if rest == raw || (rest != "" && !grammar.IsArbitrary(rest)) {
		return "", false
	}
	return raw[:len(raw)-len(rest)], true
}

// ProcessMany resolves whitespace separated class lists. No match entries are
// dropped. The result is nil only when every input is blank.
func (e *Engine) ProcessMany(classNames ...string) []*Result {
	var (
		results []*Result
		seen    bool
	)
	for _, list := range classNames {
		for name := range strings.FieldsSeq(list) {
			seen = true
			if res := e.ProcessOne(name); res != nil {
				results = append(results, res)
			}
		}
	}
	if !seen {
		return nil
	}
	if results == nil {
		results = []*Result{}
	}
	return results
}

// Emit renders rule for className under an optional variant template. A
// template that cannot be emitted yields an empty string and a diagnostic.
func (e *Engine) Emit(className string, rule Rule, template string, important bool) string {
	text, err := emitRule(className, rule, template, important)
	if err != nil {
		d := Diagnostic{Stage: StageEmit, Class: className, Err: err}
		e.log.Named("emitter").Warn("Unable to emit rule",
			zap.String("class", className),
			zap.String("template", template),
			zap.Error(err))
		if e.cfg.OnDiagnostic != nil {
			e.cfg.OnDiagnostic(d)
		}
		return ""
	}
	return text
}

// EmitResult renders a valid result and applies emit plugins.
func (e *Engine) EmitResult(res *Result) string {
	if !res.Valid() {
		return ""
	}
	text := e.Emit(res.ClassName, res.Rule, res.Variant, res.Important)
	if out, ok := e.pipe.emit(res, text); ok {
		return out
	}
	return text
}

// Describe dumps the compiled configuration for inspection.
func (e *Engine) Describe() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Engine: fingerprint %016x, strict %t", e.matcher.Fingerprint, e.cfg.Strict)

	tw.Line(1, "Utilities: %d", len(e.cfg.Utilities))
	for _, name := range sortedKeys(e.cfg.Utilities) {
		def := e.cfg.Utilities[name]
		tw.Line(2, "%s: %s %v", name, def.Kind, def.Properties)
		if def.Kind == UtilityKindConstrained {
			allowed := make([]string, 0, len(def.Allowed))
			for _, p := range def.Allowed {
				allowed = append(allowed, p.String())
			}
			tw.List(3, "allowed", allowed)
		}
		if def.Default != "" {
			tw.TextBlock(3, "default", def.Default)
		}
		for _, key := range sortedKeys(def.Keys) {
			tw.Line(3, "key %s: %v", key, def.Keys[key])
		}
	}

	tw.Line(1, "Variants: %d", len(e.cfg.Variants))
	for _, name := range sortedKeys(e.cfg.Variants) {
		def := e.cfg.Variants[name]
		if def.Kind == VariantKindTemplate {
			tw.TextBlock(2, name, def.Template)
		} else {
			tw.Line(2, "%s: %s", name, def.Kind)
		}
	}

	tw.Line(1, "Values: %d", len(e.cfg.Values.Values))
	for _, name := range sortedKeys(e.cfg.Values.Values) {
		tw.TextBlock(2, name, e.cfg.Values.Values[name])
	}
	for _, scope := range sortedKeys(e.cfg.Values.Scoped) {
		tw.Line(2, "scope %s: %d", scope, len(e.cfg.Values.Scoped[scope]))
	}

	tw.Line(1, "Plugins: %d", len(e.pipe.plugins))
	for _, p := range e.pipe.plugins {
		var stages []string
		for s := StagePatterns; s <= StageEmit; s++ {
			if p.implements(s) {
				stages = append(stages, s.String())
			}
		}
		tw.Line(2, "%s: priority %d, hooks %s", p.Name, p.Priority, strings.Join(stages, ","))
	}

	tw.Line(1, "Matcher")
	tw.TextBlock(2, "variant", e.matcher.VariantPattern)
	tw.TextBlock(2, "property", e.matcher.PropertyPattern)
	tw.TextBlock(2, "value", e.matcher.ValuePattern)
	return tw.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	return keys
}
