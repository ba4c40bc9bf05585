package engine

import (
	"fmt"
	"slices"
	"strings"

	"ucc/grammar"
)

// resolveUtility turns a parsed class name into a rule. found is false when
// the property names no utility, which is a no match rather than an error.
func (e *Engine) resolveUtility(className string, parsed *ParsedClassName) (rule Rule, inv *InvalidResult, found bool) {
	def, known := e.cfg.Utilities[parsed.Property]

	ctx := UtilityContext{
		ClassName: className,
		Utility:   parsed.Property,
		Parsed:    *parsed,
	}
	var unknownValue bool
	switch {
	case parsed.Value != "":
		value, src := e.value(className, parsed.Value, parsed.Property)
		unknownValue = e.cfg.Strict && src == sourceLiteral && !literalValue(parsed.Value)
		ctx.Value, ctx.HasValue = value, true
	case known && def.Default != "":
		ctx.Value, _ = resolveValue(e.cfg.Values, def.Default, parsed.Property)
		ctx.HasValue = true
	}

	if out, ok := e.pipe.utility(ctx); ok {
		rule, inv = normalizeOutcome(*out, def.Properties)
		return rule, inv, true
	}

	if grammar.IsBracket(parsed.Property) {
		rule, inv = arbitraryProperty(ctx)
		return rule, inv, true
	}
	if !known {
		return nil, nil, false
	}
	// strict mode only judges table utilities, function utilities see the
	// raw word themselves
	if unknownValue && def.Kind != UtilityKindFunction {
		return nil, invalid("unknown value %q for %q", parsed.Value, parsed.Property), true
	}

	switch def.Kind {
	case UtilityKindDirect:
		rule, inv = directProperty(ctx, def)
	case UtilityKindConstrained:
		if ctx.HasValue && !slices.ContainsFunc(def.Allowed, func(p ValuePattern) bool { return p.Match(ctx.Value.Value) }) {
			return nil, invalid("value %q is not allowed for %q", ctx.Value.Value, ctx.Utility), true
		}
		rule, inv = directProperty(ctx, def)
	case UtilityKindFunction:
		out, err := callUtility(def.Func, ctx)
		if err != nil {
			return nil, invalid("utility %q failed: %v", ctx.Utility, err), true
		}
		rule, inv = normalizeOutcome(out, def.Properties)
	default:
		inv = invalid("utility %q: %v", ctx.Utility, ErrInvalidUtilityKind)
	}
	return rule, inv, true
}

// value runs the value stage: plugins first, then the built-in resolver.
func (e *Engine) value(className, raw, utility string) (ResolvedValue, valueSource) {
	if v, ok := e.pipe.value(className, raw, utility); ok {
		return *v, sourceRegistry
	}
	return resolveValue(e.cfg.Values, raw, utility)
}

// literalValue reports whether a raw token stands for itself in strict mode.
func literalValue(raw string) bool {
	return grammar.IsNumber(raw) || grammar.IsHex(raw) || grammar.IsFraction(raw)
}

func directProperty(ctx UtilityContext, def UtilityDef) (Rule, *InvalidResult) {
	if !ctx.HasValue {
		return nil, invalid("utility %q requires a value", ctx.Utility)
	}
	props := def.Properties
	if key := ctx.Value.Key; key != "" {
		if len(def.Keys) == 0 {
			return nil, invalid("utility %q does not accept a key", ctx.Utility)
		}
		keyed, ok := def.Keys[key]
		if !ok {
			return nil, invalid("utility %q does not accept key %q", ctx.Utility, key)
		}
		props = keyed
	}
	return &Simple{Properties: slices.Clone(props), Value: ctx.Value.Value}, nil
}

// arbitraryProperty handles a bracketed property slot: "[color,border-color]"
// with a value, or "[color:red]" carrying its own declaration.
func arbitraryProperty(ctx UtilityContext) (Rule, *InvalidResult) {
	content := grammar.Unescape(grammar.Strip(ctx.Utility))
	if !ctx.HasValue {
		m := grammar.KeyValue.FindStringSubmatch(content)
		if m == nil {
			return nil, invalid("arbitrary property %q requires a value", ctx.Utility)
		}
		return &Simple{Properties: []string{m[1]}, Value: m[2]}, nil
	}
	if ctx.Value.Key != "" {
		return nil, invalid("utility %q does not accept a key", ctx.Utility)
	}
	props := splitProperties(content)
	if len(props) == 0 {
		return nil, invalid("arbitrary property %q names no properties", ctx.Utility)
	}
	for _, p := range props {
		if strings.ContainsAny(p, ":; ") {
			return nil, invalid("arbitrary property %q is malformed", ctx.Utility)
		}
	}
	return &Simple{Properties: props, Value: ctx.Value.Value}, nil
}

// callUtility runs a function-form utility, turning a panic into an error.
func callUtility(fn UtilityFunc, ctx UtilityContext) (out UtilityOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx), nil
}

// normalizeOutcome maps every outcome shape onto a rule or an invalid
// result. fallback receives bare text and declarations without properties.
func normalizeOutcome(out UtilityOutcome, fallback []string) (Rule, *InvalidResult) {
	switch out.Kind {
	case OutcomeKindNone:
		return nil, invalid("utility produced no rule")
	case OutcomeKindText:
		text := strings.TrimSpace(out.Text)
		switch {
		case text == "":
			return nil, invalid("utility produced an empty rule")
		case strings.Contains(text, ":"):
			return &Raw{Text: text}, nil
		case len(fallback) == 0:
			return nil, invalid("value %q has no property to apply to", text)
		}
		return &Simple{Properties: slices.Clone(fallback), Value: text}, nil
	case OutcomeKindDeclaration:
		props := out.Properties
		if len(props) == 0 {
			props = fallback
		}
		if len(props) == 0 {
			return nil, invalid("declaration of %q has no property", out.Value)
		}
		return &Simple{Properties: slices.Clone(props), Value: out.Value}, nil
	case OutcomeKindMany:
		if len(out.Items) == 0 {
			return nil, invalid("utility produced an empty rule list")
		}
		rules := make([]Rule, 0, len(out.Items))
		for i, item := range out.Items {
			rule, inv := normalizeOutcome(item, fallback)
			if inv != nil {
				return nil, invalid("item %d: %s", i, inv.Reason)
			}
			rules = append(rules, rule)
		}
		return &Many{Rules: rules}, nil
	case OutcomeKindFail:
		if out.Reason == "" {
			return nil, invalid("utility rejected the class name")
		}
		return nil, invalid("%s", out.Reason)
	}
	return nil, invalid("%v", ErrInvalidOutcomeKind)
}
