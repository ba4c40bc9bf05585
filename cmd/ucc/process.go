package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"ucc/engine"
	"ucc/generate"
	"ucc/state"
)

// compileWithBreakpoints builds the configured engine and teaches it the
// configured breakpoints, as the generator does.
func compileWithBreakpoints(env *state.LocalEnv) (*engine.Engine, generate.Breakpoints, error) {
	e, err := env.CompileEngine()
	if err != nil {
		return nil, nil, err
	}
	bps, err := generate.NewBreakpoints(env.Cfg.Generator.Breakpoints)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid breakpoints: %w", err)
	}
	if e, err = bps.Extend(e); err != nil {
		return nil, nil, fmt.Errorf("unable to add breakpoints: %w", err)
	}
	return e, bps, nil
}

func processClasses(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("process")

	e, bps, err := compileWithBreakpoints(env)
	if err != nil {
		return err
	}

	lists := cmd.Args().Slice()
	if len(lists) == 0 {
		if lists, err = readLists(os.Stdin); err != nil {
			return fmt.Errorf("unable to read class names: %w", err)
		}
	}

	stats, err := printResults(cmd.Root().Writer, e, bps, lists, cmd.Bool("all"))
	if err != nil {
		return fmt.Errorf("unable to write results: %w", err)
	}
	log.Debug("Classes processed",
		zap.Int("valid", stats.valid),
		zap.Int("invalid", stats.invalid),
		zap.Int("unmatched", stats.unmatched))
	return nil
}

func readLists(r io.Reader) ([]string, error) {
	var lists []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lists = append(lists, line)
		}
	}
	return lists, sc.Err()
}

type processStats struct {
	valid, invalid, unmatched int
}

// printResults writes one line per class: the emitted rule, the reason an
// invalid class was rejected, or "no match" when all is set.
func printResults(w io.Writer, e *engine.Engine, bps generate.Breakpoints, lists []string, all bool) (stats processStats, err error) {
	for _, list := range lists {
		for name := range strings.FieldsSeq(list) {
			res := e.ProcessOne(name)
			var line string
			switch {
			case res == nil:
				stats.unmatched++
				if !all {
					continue
				}
				line = "no match"
			case res.Invalid != nil:
				stats.invalid++
				line = "invalid: " + res.Invalid.Reason
			default:
				stats.valid++
				line = bps.Wrap(res.Parsed.Variant, e.EmitResult(res))
			}
			if _, err := fmt.Fprintf(w, "%s\t%s\n", name, line); err != nil {
				return stats, err
			}
		}
	}
	return stats, nil
}
