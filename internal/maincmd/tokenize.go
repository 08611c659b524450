package maincmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mna/mainer"

	"github.com/boolstack/boolstack/lang/source"
)

// Tokenize loads each file (expanding #include directives, spec §4.1) and
// prints its flat token stream, one token per line, grounded on the
// teacher's TokenizeFiles (github.com/mna/nenuphar
// internal/maincmd/tokenize.go).
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var failed bool
	for _, name := range args {
		r := source.FileReader{Dir: filepath.Dir(name)}
		toks, err := source.Load(filepath.Base(name), r)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s\n", err)
			failed = true
			continue
		}
		for _, tok := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s\n", tok.Pos, tok.Text)
		}
	}
	if failed {
		return fmt.Errorf("tokenize: one or more files failed to load")
	}
	return nil
}
