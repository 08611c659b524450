package maincmd

import (
	"context"
	"fmt"
	"math/big"
	"path/filepath"

	"github.com/mna/mainer"

	"github.com/boolstack/boolstack/lang/compiler"
	"github.com/boolstack/boolstack/lang/format"
	"github.com/boolstack/boolstack/lang/machine"
	"github.com/boolstack/boolstack/lang/source"
)

// Run compiles args[0] and executes the --func entry function, parsing
// args[1:] as its input values against that function's declared input
// format and printing the result rendered against its output format.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("run: a source file is required")
	}
	name := args[0]
	rawValues := args[1:]

	toks, err := source.Load(filepath.Base(name), source.FileReader{Dir: filepath.Dir(name)})
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	prog, _, err := compiler.Compile(toks)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", name, err)
		return err
	}

	fn, ok := prog.Resolve(c.Func)
	if !ok {
		err := fmt.Errorf("run: unknown function %s", c.Func)
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	if len(rawValues) != len(fn.Format.In) {
		err := fmt.Errorf("run: %s expects %d input values, got %d", c.Func, len(fn.Format.In), len(rawValues))
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	vals := make([]*big.Int, len(rawValues))
	for i, raw := range rawValues {
		v, ok := new(big.Int).SetString(raw, 0)
		if !ok {
			err := fmt.Errorf("run: invalid integer literal %q", raw)
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
		vals[i] = v
	}

	result, err := machine.RunValues(prog, c.Func, vals)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", name, err)
		return err
	}

	bits := make([]byte, fn.LenOut)
	for i := 0; i < fn.LenOut; i++ {
		if result.Bit(fn.LenOut-1-i) == 1 {
			bits[i] = 1
		}
	}
	fmt.Fprintln(stdio.Stdout, format.Render(fn.Format.Out, bits))
	return nil
}
