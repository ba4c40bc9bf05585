// Package generate builds static stylesheets from class names found in
// source files.
package generate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"ucc/common"
	"ucc/css"
	"ucc/engine"
	"ucc/scan"
)

// Options describe one generator run.
type Options struct {
	// Engine resolves class names. Required.
	Engine *engine.Engine
	// BaseDir anchors relative source and exclude patterns.
	BaseDir string
	// Sources are doublestar patterns, files, directories or zip archives.
	Sources []string
	// Exclude are doublestar patterns relative to BaseDir.
	Exclude []string
	// ArchivePattern selects entries inside zip archives, empty means all.
	ArchivePattern string
	// Format forces the source format instead of detecting it per file.
	Format common.SourceFormat
	// Attributes are the markup attributes holding class lists.
	Attributes []string
	// Charset, when set, decodes html and text sources. XML sources declare
	// their own encoding.
	Charset encoding.Encoding
	// Breakpoints map responsive variant names to minimum widths in pixels.
	Breakpoints map[string]int
	// BaseStylesheet is CSS placed before generated rules.
	BaseStylesheet []byte
	// MaxFileSize limits a single source, DefaultMaxFileSize when zero.
	MaxFileSize int64
}

// Stats summarizes a run.
type Stats struct {
	Sources    int
	Skipped    int
	Candidates int
	Rules      int
	Invalid    int
	Elapsed    time.Duration
}

// Generator turns sources into a stylesheet.
type Generator struct {
	opts        Options
	engine      *engine.Engine
	breakpoints Breakpoints
	scanner     *scan.Scanner
	parser      *css.Parser
	log         *zap.Logger
}

// New checks options and prepares a generator. The engine is extended with
// the breakpoint plugin when breakpoints are configured.
func New(opts Options, log *zap.Logger) (*Generator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Engine == nil {
		return nil, errors.New("generator requires an engine")
	}
	if opts.MaxFileSize == 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}

	bps, err := NewBreakpoints(opts.Breakpoints)
	if err != nil {
		return nil, fmt.Errorf("invalid breakpoints: %w", err)
	}
	e, err := bps.Extend(opts.Engine)
	if err != nil {
		return nil, fmt.Errorf("unable to add breakpoints: %w", err)
	}

	log = log.Named("generate")
	return &Generator{
		opts:        opts,
		engine:      e,
		breakpoints: bps,
		scanner:     scan.New(log, opts.Attributes...),
		parser:      css.NewParser(log),
		log:         log,
	}, nil
}

// Build runs a generator once.
func Build(ctx context.Context, opts Options, log *zap.Logger) (*css.Stylesheet, Stats, error) {
	g, err := New(opts, log)
	if err != nil {
		return nil, Stats{}, err
	}
	return g.Build(ctx)
}

// Build scans all sources and returns the stylesheet for every utility
// class found in them.
func (g *Generator) Build(ctx context.Context) (*css.Stylesheet, Stats, error) {
	start := time.Now()
	var stats Stats

	files, err := discover(g.opts.BaseDir, g.opts.Sources, g.opts.Exclude)
	if err != nil {
		return nil, stats, err
	}
	if len(files) == 0 {
		g.log.Warn("No sources found", zap.Strings("patterns", g.opts.Sources))
	}

	candidates := map[string]struct{}{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		skipped, err := readSource(ctx, path, g.opts.ArchivePattern, g.opts.MaxFileSize, g.log, func(name string, data []byte) error {
			stats.Sources++
			found, err := g.extract(name, data)
			if err != nil {
				g.log.Warn("Skipping source", zap.String("source", name), zap.Error(err))
				stats.Skipped++
				return nil
			}
			for _, c := range found {
				candidates[c] = struct{}{}
			}
			return nil
		})
		stats.Skipped += skipped
		if err != nil {
			if ctx.Err() != nil {
				return nil, stats, ctx.Err()
			}
			g.log.Warn("Skipping source", zap.String("source", path), zap.Error(err))
			stats.Skipped++
		}
	}

	names := make([]string, 0, len(candidates))
	for c := range candidates {
		names = append(names, c)
	}
	slices.SortFunc(names, naturalCompare)
	stats.Candidates = len(names)

	sheet, invalid := g.Stylesheet(names)
	stats.Rules, stats.Invalid = sheet.Len(), invalid
	stats.Elapsed = time.Since(start)

	g.log.Debug("Stylesheet generated",
		zap.Int("sources", stats.Sources),
		zap.Int("candidates", stats.Candidates),
		zap.Int("rules", stats.Rules),
		zap.Int("invalid", stats.Invalid),
		zap.Duration("elapsed", stats.Elapsed))
	return sheet, stats, nil
}

// extract decodes one source when a charset is forced and scans it.
func (g *Generator) extract(name string, data []byte) ([]string, error) {
	format := g.opts.Format.Detect(name)
	if g.opts.Charset != nil && format != common.SourceFormatXml {
		decoded, err := g.opts.Charset.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("unable to decode %s: %w", name, err)
		}
		data = decoded
	}
	return g.scanner.Scan(name, data, format)
}

// Stylesheet resolves class names and assembles the result: the base
// stylesheet, then rules in the order of names, then one @media block per
// breakpoint, narrowest first. It also returns the number of invalid
// classes.
func (g *Generator) Stylesheet(names []string) (*css.Stylesheet, int) {
	out := &css.Stylesheet{}
	if len(g.opts.BaseStylesheet) > 0 {
		base := g.parser.Parse(g.opts.BaseStylesheet, "base stylesheet")
		for _, w := range base.Warnings {
			g.log.Debug("Base stylesheet", zap.String("warning", w))
		}
		out.Append(base)
	}

	var invalid int
	responsive := map[string][]css.Rule{}
	for _, res := range g.engine.ProcessMany(names...) {
		if res.Invalid != nil {
			invalid++
			g.log.Warn("Invalid class", zap.String("class", res.ClassName), zap.String("reason", res.Invalid.Reason))
			continue
		}
		text := g.engine.EmitResult(res)
		if text == "" {
			continue
		}
		sheet := g.parser.Parse([]byte(text), res.ClassName)
		bp := res.Parsed.Variant
		if _, ok := g.breakpoints.Query(bp); !ok {
			out.Append(sheet)
			continue
		}
		for _, item := range sheet.Items {
			if item.Rule == nil {
				g.log.Warn("Unable to nest block under breakpoint", zap.String("class", res.ClassName), zap.String("breakpoint", bp))
				continue
			}
			responsive[bp] = append(responsive[bp], *item.Rule)
		}
	}
	for _, name := range g.breakpoints.Names() {
		query, _ := g.breakpoints.Query(name)
		for _, rule := range responsive[name] {
			out.AddRule(rule, query)
		}
	}
	out.Dedup()
	return out, invalid
}
