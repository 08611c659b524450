package maincmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mna/mainer"

	"github.com/boolstack/boolstack/lang/compiler"
	"github.com/boolstack/boolstack/lang/ir"
	"github.com/boolstack/boolstack/lang/source"
)

// Compile loads and compiles each file independently, printing its
// warnings and a per-function summary on success, or the compile error on
// failure.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var failed bool
	for _, name := range args {
		if err := compileOne(stdio, name); err != nil {
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("compile: one or more files failed")
	}
	return nil
}

func compileOne(stdio mainer.Stdio, name string) error {
	r := source.FileReader{Dir: filepath.Dir(name)}
	toks, err := source.Load(filepath.Base(name), r)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	prog, warnings, err := compiler.Compile(toks)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", name, err)
		return err
	}

	warnings.Flush(func(line string) {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", name, line)
	})

	prog.Funcs.Each(func(descriptor string, fn *ir.Function) {
		fmt.Fprintf(stdio.Stdout, "%s: ok: %s\n", name, descriptor)
	})
	return nil
}
