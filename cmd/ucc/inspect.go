package main

import (
	"context"
	"fmt"
	"io"

	cli "github.com/urfave/cli/v3"

	"ucc/engine"
	"ucc/state"
)

func inspectEngine(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	e, _, err := compileWithBreakpoints(env)
	if err != nil {
		return err
	}
	if err := describe(cmd.Root().Writer, e, cmd.Args().Slice()); err != nil {
		return fmt.Errorf("unable to write engine description: %w", err)
	}
	return nil
}

// describe prints the engine tree followed by the matcher split of every
// class name.
func describe(w io.Writer, e *engine.Engine, classes []string) error {
	if _, err := io.WriteString(w, e.Describe()); err != nil {
		return err
	}
	for _, name := range classes {
		p := e.ParseOne(name)
		if p == nil {
			if _, err := fmt.Fprintf(w, "%s: no match\n", name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: variant %q utility %q value %q important %t\n",
			name, p.Variant, p.Property, p.Value, p.Important); err != nil {
			return err
		}
	}
	return nil
}
