package engine

import (
	"strings"

	"ucc/grammar"
)

// valueSource tells where a resolved value came from. Strict mode rejects
// bare words that fell through every lookup.
type valueSource int

const (
	sourceRegistry valueSource = iota
	sourceVar
	sourceArbitrary
	sourceScoped
	sourceLiteral
)

// resolveValue turns a raw value token into a resolved value. First match
// wins:
//  1. exact registry entry
//  2. $name shorthand -> var(--name)
//  3. arbitrary [..] or (..) with underscore unescaping, key:value split and
//     {name} interpolation; a bare {name} token is interpolated as is
//  4. per-utility registry entry
//  5. the raw token itself
func resolveValue(values ValueRegistry, raw, property string) (ResolvedValue, valueSource) {
	if v, ok := values.lookup(raw); ok {
		seen := visitSet{}
		seen.enter(raw)
		return ResolvedValue{Value: expandRefs(v, values.lookup, seen)}, sourceRegistry
	}
	if grammar.IsVar(raw) {
		return ResolvedValue{Value: "var(--" + raw[1:] + ")"}, sourceVar
	}
	if grammar.IsBracket(raw) || grammar.IsParen(raw) {
		return resolveArbitrary(values, grammar.Strip(raw)), sourceArbitrary
	}
	if grammar.IsBrace(raw) {
		return ResolvedValue{Value: expandRefs(raw, values.lookup, visitSet{})}, sourceArbitrary
	}
	if v, ok := values.scoped(property, raw); ok {
		seen := visitSet{}
		seen.enter(raw)
		return ResolvedValue{Value: expandRefs(v, values.lookup, seen)}, sourceScoped
	}
	return ResolvedValue{Value: raw}, sourceLiteral
}

// resolveArbitrary handles the inside of an arbitrary segment.
func resolveArbitrary(values ValueRegistry, content string) ResolvedValue {
	content = grammar.Unescape(content)
	var rv ResolvedValue
	if m := grammar.KeyValue.FindStringSubmatch(content); m != nil {
		rv.Key, content = m[1], m[2]
	}
	rv.Value = expandRefs(content, values.lookup, visitSet{})
	return rv
}

// resolveVariant turns a raw variant token into a template. ok is false
// when a function variant declines the token; inv is set when the token
// cannot be resolved at all.
func resolveVariant(variants VariantTable, values ValueRegistry, raw string) (template string, ok bool, inv *InvalidResult) {
	lookup := variantLookup(variants)

	if def, found := variants[raw]; found {
		switch def.Kind {
		case VariantKindFunction:
			template, ok = callVariant(def.Func, ResolvedValue{})
		default:
			seen := visitSet{}
			seen.enter(raw)
			template, ok = expandRefs(def.Template, lookup, seen), true
		}
		return checkedTemplate(raw, template, ok)
	}

	switch {
	case grammar.IsBracket(raw) || grammar.IsParen(raw):
		template = expandRefs(grammar.Unescape(grammar.Strip(raw)), lookup, visitSet{})
		return checkedTemplate(raw, template, true)
	case grammar.IsBrace(raw):
		template = expandRefs(raw, lookup, visitSet{})
		if template == raw {
			return "", false, invalid("unknown variant %q", raw)
		}
		return checkedTemplate(raw, template, true)
	}

	head, segment, split := grammar.Split(raw)
	if !split {
		return "", false, invalid("unknown variant %q", raw)
	}
	def, found := variants[head]
	if !found {
		return "", false, invalid("unknown variant %q", head)
	}
	if def.Kind != VariantKindFunction {
		return "", false, invalid("variant %q does not take an argument", head)
	}
	var arg ResolvedValue
	if grammar.IsBrace(segment) {
		arg.Value = expandRefs(segment, values.lookup, visitSet{})
	} else {
		arg = resolveArbitrary(values, grammar.Strip(segment))
	}
	template, ok = callVariant(def.Func, arg)
	return checkedTemplate(raw, template, ok)
}

func variantLookup(variants VariantTable) func(string) (string, bool) {
	return func(name string) (string, bool) {
		def, ok := variants[name]
		if !ok || def.Kind != VariantKindTemplate {
			return "", false
		}
		return def.Template, true
	}
}

// callVariant runs a variant function; a panic counts as declining.
func callVariant(fn VariantFunc, arg ResolvedValue) (template string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			template, ok = "", false
		}
	}()
	return fn(arg)
}

func checkedTemplate(raw, template string, ok bool) (string, bool, *InvalidResult) {
	if !ok {
		return "", false, nil
	}
	if err := checkTemplate(template); err != nil {
		return "", false, invalid("variant %q: %v", raw, err)
	}
	return template, true, nil
}

// splitProperties turns the inside of an arbitrary property slot such as
// "color,border-color" into property names.
func splitProperties(content string) []string {
	var props []string
	for p := range strings.SplitSeq(content, ",") {
		if p = strings.TrimSpace(p); p != "" {
			props = append(props, p)
		}
	}
	return props
}
