package preset

import (
	"fmt"
	"strconv"
	"strings"

	"ucc/engine"
	"ucc/grammar"
)

// spacingStep is the size of one spacing unit in rem.
const spacingStep = 0.25

// scale turns a unitless number into spacing units. Anything else is not a
// scale value.
func scale(v string) (string, bool) {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return "", false
	}
	if n == 0 {
		return "0", true
	}
	return strconv.FormatFloat(n*spacingStep, 'f', -1, 64) + "rem", true
}

// percent turns an a/b fraction into a percentage.
func percent(v string) (string, bool) {
	a, b, ok := strings.Cut(v, "/")
	if !ok {
		return "", false
	}
	x, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return "", false
	}
	y, err := strconv.ParseFloat(b, 64)
	if err != nil || y == 0 {
		return "", false
	}
	s := strconv.FormatFloat(x/y*100, 'f', 6, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + "%", true
}

func spacing(ctx engine.UtilityContext) engine.UtilityOutcome {
	if !ctx.HasValue {
		return engine.Fail(fmt.Sprintf("utility %q requires a value", ctx.Utility))
	}
	v := ctx.Value.Value
	switch v {
	case "px":
		return engine.Declare("1px")
	case "auto":
		return engine.Declare(v)
	}
	if s, ok := scale(v); ok {
		return engine.Declare(s)
	}
	if grammar.IsFraction(v) {
		return engine.Fail(fmt.Sprintf("utility %q does not take fractions", ctx.Utility))
	}
	return engine.Declare(v)
}

func size(ctx engine.UtilityContext) engine.UtilityOutcome {
	if !ctx.HasValue {
		return engine.Fail(fmt.Sprintf("utility %q requires a value", ctx.Utility))
	}
	v := ctx.Value.Value
	switch v {
	case "full":
		return engine.Declare("100%")
	case "auto", "min-content", "max-content", "fit-content":
		return engine.Declare(v)
	}
	if grammar.IsFraction(v) {
		p, ok := percent(v)
		if !ok {
			return engine.Fail(fmt.Sprintf("bad fraction %q", v))
		}
		return engine.Declare(p)
	}
	if s, ok := scale(v); ok {
		return engine.Declare(s)
	}
	return engine.Declare(v)
}

func gridCols(ctx engine.UtilityContext) engine.UtilityOutcome {
	if !ctx.HasValue {
		return engine.Nothing()
	}
	v := ctx.Value.Value
	if v == "none" {
		return engine.Declare(v)
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 {
			return engine.Fail("grid needs at least one column")
		}
		return engine.Declare(fmt.Sprintf("repeat(%d,minmax(0,1fr))", n))
	}
	return engine.Declare(v)
}

func opacity(ctx engine.UtilityContext) engine.UtilityOutcome {
	if !ctx.HasValue {
		return engine.Nothing()
	}
	n, err := strconv.Atoi(ctx.Value.Value)
	if err != nil {
		return engine.Declare(ctx.Value.Value)
	}
	if n < 0 || n > 100 {
		return engine.Fail(fmt.Sprintf("opacity %d is out of range", n))
	}
	return engine.Declare(strconv.FormatFloat(float64(n)/100, 'f', -1, 64))
}

func truncate(ctx engine.UtilityContext) engine.UtilityOutcome {
	if ctx.HasValue {
		return engine.Fail("truncate takes no value")
	}
	return engine.Combine(
		engine.Text("overflow:hidden"),
		engine.Text("text-overflow:ellipsis"),
		engine.Text("white-space:nowrap"),
	)
}

// media handles "@[print]" and "@[(min-width:30em)]".
func media(arg engine.ResolvedValue) (string, bool) {
	q := condition(arg)
	if q == "" {
		return "", false
	}
	return "@media " + q + "{@slot}", true
}

// supports handles "supports[display:grid]".
func supports(arg engine.ResolvedValue) (string, bool) {
	q := condition(arg)
	if q == "" {
		return "", false
	}
	if !strings.HasPrefix(q, "(") {
		q = "(" + q + ")"
	}
	return "@supports " + q + "{@slot}", true
}

func nth(arg engine.ResolvedValue) (string, bool) {
	if arg.Value == "" || arg.Key != "" {
		return "", false
	}
	return "&:nth-child(" + arg.Value + ")", true
}

func aria(arg engine.ResolvedValue) (string, bool) {
	return attribute("aria-", arg)
}

func data(arg engine.ResolvedValue) (string, bool) {
	return attribute("data-", arg)
}

// attribute builds an attribute selector variant: "aria[expanded]" matches
// aria-expanded="true", "data[state=open]" matches data-state="open".
func attribute(prefix string, arg engine.ResolvedValue) (string, bool) {
	if arg.Value == "" || arg.Key != "" {
		return "", false
	}
	name, value, ok := strings.Cut(arg.Value, "=")
	switch {
	case !ok && prefix == "aria-":
		value = "true"
	case !ok:
		return "&[" + prefix + name + "]", true
	}
	return "&[" + prefix + name + "=\"" + strings.Trim(value, `"'`) + "\"]", true
}

func condition(arg engine.ResolvedValue) string {
	if arg.Key != "" {
		return arg.Key + ":" + arg.Value
	}
	return arg.Value
}
