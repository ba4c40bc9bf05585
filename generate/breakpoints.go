package generate

import (
	"cmp"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/multierr"

	"ucc/engine"
)

// BreakpointPlugin is the name of the plugin making breakpoint names
// usable as variants.
const BreakpointPlugin = "breakpoints"

type breakpoint struct {
	name  string
	width int
}

// Breakpoints are responsive variants. A class using one is emitted without
// a wrapper by the engine and placed into an @media block by the generator.
type Breakpoints []breakpoint

// NewBreakpoints checks breakpoint names and widths and orders them by
// width, narrowest first.
func NewBreakpoints(widths map[string]int) (Breakpoints, error) {
	var (
		bps  Breakpoints
		errs error
	)
	for _, name := range slices.Sorted(maps.Keys(widths)) {
		w := widths[name]
		switch {
		case name == "" || strings.ContainsAny(name, " \t\n:"):
			errs = multierr.Append(errs, fmt.Errorf("invalid breakpoint name %q", name))
		case w < 0:
			errs = multierr.Append(errs, fmt.Errorf("breakpoint %q: negative width %d", name, w))
		default:
			bps = append(bps, breakpoint{name: name, width: w})
		}
	}
	if errs != nil {
		return nil, errs
	}
	slices.SortStableFunc(bps, func(a, b breakpoint) int { return cmp.Compare(a.width, b.width) })
	return bps, nil
}

// Query returns the media query for the named breakpoint.
func (b Breakpoints) Query(name string) (string, bool) {
	for _, bp := range b {
		if bp.name == name {
			return fmt.Sprintf("(min-width:%dpx)", bp.width), true
		}
	}
	return "", false
}

// Names returns breakpoint names, narrowest first.
func (b Breakpoints) Names() []string {
	names := make([]string, 0, len(b))
	for _, bp := range b {
		names = append(names, bp.name)
	}
	return names
}

// Extend returns e with the breakpoint plugin added, or e itself when there
// are no breakpoints.
func (b Breakpoints) Extend(e *engine.Engine) (*engine.Engine, error) {
	if len(b) == 0 {
		return e, nil
	}
	return e.WithPlugin(b.Plugin())
}

// Wrap places emitted text into the media block of the named breakpoint.
// Text for other variants is returned unchanged.
func (b Breakpoints) Wrap(name, text string) string {
	q, ok := b.Query(name)
	if !ok || text == "" {
		return text
	}
	return "@media " + q + "{" + text + "}"
}

// Plugin teaches the engine breakpoint names. It runs before other
// plugins so a breakpoint shadows a variant of the same name.
func (b Breakpoints) Plugin() engine.Plugin {
	fragments := make([]string, 0, len(b))
	for _, bp := range b {
		fragments = append(fragments, regexp.QuoteMeta(bp.name))
	}
	return engine.Plugin{
		Name:     BreakpointPlugin,
		Priority: 1000,
		Patterns: func() (*engine.PatternFragments, error) {
			return &engine.PatternFragments{Variants: fragments}, nil
		},
		Variant: func(raw string) (string, error) {
			if _, ok := b.Query(raw); ok {
				return "&", nil
			}
			return "", nil
		},
	}
}
