package engine

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Plugin overrides or augments stages of class name processing. Every hook
// is optional. A hook returning a nil result (or an empty string) passes the
// input on to the next plugin and finally to the built-in implementation.
// A hook returning an error or panicking is reported as a Diagnostic and
// treated as if it returned nothing.
//
// Hooks must be synchronous and must not retain or modify their arguments.
type Plugin struct {
	Name string
	// Priority orders plugins, higher first. Plugins with equal priority run
	// in registration order.
	Priority int

	// Patterns contributes extra alternatives to the matcher. Unlike the
	// other stages this one does not stop at the first plugin: contributions
	// of all plugins are combined, in priority order, so every plugin can
	// teach the matcher its own names.
	Patterns func() (*PatternFragments, error)
	// Parse replaces syntactic parsing of a class name.
	Parse func(className string) (*ParsedClassName, error)
	// Value resolves a raw value token for a utility.
	Value func(raw, utility string) (*ResolvedValue, error)
	// Variant resolves a raw variant token into a template.
	Variant func(raw string) (string, error)
	// Utility resolves a parsed class name into an outcome.
	Utility func(ctx UtilityContext) (*UtilityOutcome, error)
	// Class resolves a whole class name, bypassing every other stage.
	Class func(className string) (*Result, error)
	// Emit transforms emitted rule text.
	Emit func(res *Result, text string) (string, error)
}

func (p Plugin) implements(stage Stage) bool {
	switch stage {
	case StagePatterns:
		return p.Patterns != nil
	case StageParse:
		return p.Parse != nil
	case StageValue:
		return p.Value != nil
	case StageVariant:
		return p.Variant != nil
	case StageUtility:
		return p.Utility != nil
	case StageClass:
		return p.Class != nil
	case StageEmit:
		return p.Emit != nil
	}
	return false
}

// pipeline runs plugin hooks in priority order with failure isolation.
type pipeline struct {
	plugins []Plugin
	log     *zap.Logger
	report  func(Diagnostic)
}

func newPipeline(plugins []Plugin, log *zap.Logger, report func(Diagnostic)) *pipeline {
	sorted := slices.Clone(plugins)
	slices.SortStableFunc(sorted, func(a, b Plugin) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	return &pipeline{plugins: sorted, log: log, report: report}
}

func checkPlugins(plugins []Plugin) (err error) {
	seen := make(map[string]struct{}, len(plugins))
	for i, p := range plugins {
		if p.Name == "" {
			err = multierr.Append(err, fmt.Errorf("plugin #%d has no name", i))
			continue
		}
		if _, dup := seen[p.Name]; dup {
			err = multierr.Append(err, fmt.Errorf("duplicate plugin %q", p.Name))
		}
		seen[p.Name] = struct{}{}
	}
	return err
}

func (p *pipeline) diagnose(d Diagnostic) {
	p.log.Warn("Plugin hook failed",
		zap.String("plugin", d.Plugin),
		zap.Stringer("stage", d.Stage),
		zap.String("class", d.Class),
		zap.Error(d.Err))
	if p.report != nil {
		p.report(d)
	}
}

// invoke runs call for every plugin implementing stage until one produces a
// result. found is false when every plugin passed or failed.
func invoke[T any](p *pipeline, stage Stage, class string, call func(Plugin) (T, bool, error)) (result T, found bool) {
	for _, pl := range p.plugins {
		if !pl.implements(stage) {
			continue
		}
		v, ok, err := guard(func() (T, bool, error) { return call(pl) })
		if err != nil {
			p.diagnose(Diagnostic{Plugin: pl.Name, Stage: stage, Class: class, Err: err})
			continue
		}
		if ok {
			return v, true
		}
	}
	return result, false
}

func guard[T any](fn func() (T, bool, error)) (v T, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, ok, err = zero, false, fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// fragments collects pattern contributions of all plugins.
func (p *pipeline) fragments() (out []PatternFragments, errs error) {
	for _, pl := range p.plugins {
		if pl.Patterns == nil {
			continue
		}
		f, _, err := guard(func() (*PatternFragments, bool, error) {
			f, err := pl.Patterns()
			return f, f != nil, err
		})
		if err != nil {
			p.diagnose(Diagnostic{Plugin: pl.Name, Stage: StagePatterns, Err: err})
			continue
		}
		if f.IsEmpty() {
			continue
		}
		if err := checkFragments(pl.Name, f); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, *f)
	}
	return out, errs
}

func (p *pipeline) parse(className string) (*ParsedClassName, bool) {
	return invoke(p, StageParse, className, func(pl Plugin) (*ParsedClassName, bool, error) {
		v, err := pl.Parse(className)
		return v, v != nil && v.Property != "", err
	})
}

func (p *pipeline) value(className, raw, utility string) (*ResolvedValue, bool) {
	return invoke(p, StageValue, className, func(pl Plugin) (*ResolvedValue, bool, error) {
		v, err := pl.Value(raw, utility)
		return v, v != nil, err
	})
}

func (p *pipeline) variant(className, raw string) (string, bool) {
	return invoke(p, StageVariant, className, func(pl Plugin) (string, bool, error) {
		v, err := pl.Variant(raw)
		return v, v != "", err
	})
}

func (p *pipeline) utility(ctx UtilityContext) (*UtilityOutcome, bool) {
	return invoke(p, StageUtility, ctx.ClassName, func(pl Plugin) (*UtilityOutcome, bool, error) {
		v, err := pl.Utility(ctx)
		return v, v != nil, err
	})
}

func (p *pipeline) class(className string) (*Result, bool) {
	return invoke(p, StageClass, className, func(pl Plugin) (*Result, bool, error) {
		v, err := pl.Class(className)
		return v, v != nil, err
	})
}

func (p *pipeline) emit(res *Result, text string) (string, bool) {
	return invoke(p, StageEmit, res.ClassName, func(pl Plugin) (string, bool, error) {
		v, err := pl.Emit(res, text)
		return v, v != "", err
	})
}

func (p *pipeline) names() []string {
	names := make([]string, 0, len(p.plugins))
	for _, pl := range p.plugins {
		names = append(names, pl.Name)
	}
	return names
}
