package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"ucc/common"
	"ucc/css"
	"ucc/state"
)

// Run is the action of the generate command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("generate")
	gc := &env.Cfg.Generator

	sources := gc.Sources
	if cmd.Args().Len() > 0 {
		sources = cmd.Args().Slice()
	}
	if len(sources) == 0 {
		return errors.New("no sources have been specified")
	}

	base, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("unable to get working directory: %w", err)
	}

	dst := gc.Output
	if cmd.IsSet("to") {
		dst = cmd.String("to")
	}
	if dst == "-" {
		dst = ""
	}

	style := gc.Format
	if cmd.IsSet("format") {
		if style, err = common.ParseOutputStyle(cmd.String("format")); err != nil {
			log.Warn("Unknown output format requested, using configured one", zap.Error(err), zap.Stringer("format", gc.Format))
			style = gc.Format
		}
	}

	// Old sources may be written in legacy code pages
	var cp encoding.Encoding
	name := gc.Charset
	if cmd.IsSet("charset") {
		name = cmd.String("charset")
	}
	if len(name) > 0 {
		if cp, err = ianaindex.IANA.Encoding(name); err != nil || cp == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", name), zap.Error(err))
			cp = nil
		} else {
			n, _ := ianaindex.IANA.Name(cp)
			log.Debug("Decoding html and text sources", zap.String("charset", n))
		}
	}

	var builds int
	build := func(ctx context.Context) error {
		// tables and base stylesheet are read again on every rebuild
		var (
			baseSheet []byte
			err       error
		)
		if gc.BaseStylesheet != "" {
			if baseSheet, err = os.ReadFile(gc.BaseStylesheet); err != nil {
				return fmt.Errorf("unable to read base stylesheet from %q: %w", gc.BaseStylesheet, err)
			}
		}
		e, err := env.CompileEngine()
		if err != nil {
			return err
		}
		sheet, stats, err := Build(ctx, Options{
			Engine:         e,
			BaseDir:        base,
			Sources:        sources,
			Exclude:        gc.Exclude,
			ArchivePattern: gc.ArchivePattern,
			Format:         gc.SourceFormat,
			Attributes:     gc.Attributes,
			Charset:        cp,
			Breakpoints:    gc.Breakpoints,
			BaseStylesheet: baseSheet,
			MaxFileSize:    gc.MaxFileSize,
		}, env.Log)
		if err != nil {
			return err
		}
		if err := write(dst, sheet, style); err != nil {
			return err
		}
		builds++
		if env.Rpt != nil {
			env.Rpt.StoreData(fmt.Sprintf("generated/%03d.css", builds), []byte(sheet.String()))
		}
		log.Info("Stylesheet generated",
			zap.String("destination", destination(dst)),
			zap.Int("sources", stats.Sources),
			zap.Int("skipped", stats.Skipped),
			zap.Int("candidates", stats.Candidates),
			zap.Int("rules", stats.Rules),
			zap.Int("invalid", stats.Invalid),
			zap.Duration("elapsed", stats.Elapsed))
		return nil
	}

	if err := build(ctx); err != nil {
		return fmt.Errorf("unable to generate stylesheet: %w", err)
	}
	if !cmd.Bool("watch") {
		return nil
	}

	w, err := NewWatcher(log, gc.Debounce)
	if err != nil {
		return fmt.Errorf("unable to watch sources: %w", err)
	}
	defer func() {
		if er := w.Close(); er != nil && err == nil {
			err = er
		}
	}()
	if err := w.AddSources(base, sources); err != nil {
		return fmt.Errorf("unable to watch sources: %w", err)
	}
	for _, f := range append([]string{gc.BaseStylesheet}, env.Cfg.Engine.Tables...) {
		if f == "" {
			continue
		}
		if err := w.AddFile(f); err != nil {
			return fmt.Errorf("unable to watch %s: %w", f, err)
		}
	}
	if dst != "" {
		w.Ignore(dst)
	}

	log.Info("Watching for changes, interrupt to stop")
	return w.Run(ctx, build)
}

// write replaces dst with the stylesheet, or prints it to stdout when dst is
// empty.
func write(dst string, sheet *css.Stylesheet, style common.OutputStyle) error {
	if dst == "" {
		_, err := sheet.Write(os.Stdout, style)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := sheet.Write(tmp, style); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	return nil
}

func destination(dst string) string {
	if dst == "" {
		return "STDOUT"
	}
	return dst
}
