package engine

import (
	"errors"
	"slices"
	"strings"

	"ucc/css"
)

const importantMarker = "!important"

var (
	errUnpairedClass = errors.New("template has @class without @rules")
	errUnpairedRules = errors.New("template has @rules without @class")
	errNoPlaceholder = errors.New("template has no &, @slot or @class/@rules placeholder")
)

// checkTemplate reports variant templates that cannot be emitted.
func checkTemplate(t string) error {
	hasClass, hasRules := strings.Contains(t, "@class"), strings.Contains(t, "@rules")
	switch {
	case hasClass && !hasRules:
		return errUnpairedClass
	case hasRules && !hasClass:
		return errUnpairedRules
	case hasClass, strings.Contains(t, "@slot"), strings.Contains(t, "&"):
		return nil
	}
	return errNoPlaceholder
}

// declarations flattens rule into "property:value" declarations in order,
// dropping exact duplicates.
func declarations(rule Rule) []string {
	var out []string
	var walk func(Rule)
	walk = func(r Rule) {
		switch r := r.(type) {
		case *Simple:
			for _, p := range r.Properties {
				out = append(out, p+":"+r.Value)
			}
		case *Raw:
			out = append(out, splitDeclarations(r.Text)...)
		case *Many:
			for _, sub := range r.Rules {
				walk(sub)
			}
		}
	}
	if rule != nil {
		walk(rule)
	}

	seen := make(map[string]struct{}, len(out))
	return slices.DeleteFunc(out, func(d string) bool {
		if _, dup := seen[d]; dup {
			return true
		}
		seen[d] = struct{}{}
		return false
	})
}

// splitDeclarations cuts a raw fragment at top level semicolons, ignoring
// those inside quotes, parentheses and brackets.
func splitDeclarations(text string) []string {
	var (
		out   []string
		depth int
		quote rune
		start int
	)
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	for i, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[':
			depth++
		case (r == ')' || r == ']') && depth > 0:
			depth--
		case r == ';' && depth == 0:
			add(text[start:i])
			start = i + 1
		}
	}
	add(text[start:])
	return out
}

// body joins declarations, marking each important once.
func body(rule Rule, important bool) string {
	decls := declarations(rule)
	if important {
		for i, d := range decls {
			if !strings.HasSuffix(strings.TrimSpace(d), importantMarker) {
				decls[i] = d + importantMarker
			}
		}
	}
	return strings.Join(decls, ";")
}

// emitRule renders rule for className, wrapped by a variant template when one
// is given. Template forms are checked in order: @class with @rules, then
// @slot, then &.
func emitRule(className string, rule Rule, template string, important bool) (string, error) {
	text := body(rule, important)
	if text == "" {
		return "", nil
	}
	sel := "." + css.EscapeIdent(className)
	if template == "" {
		return sel + "{" + text + "}", nil
	}
	if err := checkTemplate(template); err != nil {
		return "", err
	}
	switch {
	case strings.Contains(template, "@class"):
		return strings.NewReplacer("@class", sel, "@rules", text).Replace(template), nil
	case strings.Contains(template, "@slot"):
		return strings.ReplaceAll(template, "@slot", sel+"{"+text+"}"), nil
	default:
		return strings.ReplaceAll(template, "&", sel) + "{" + text + "}", nil
	}
}
