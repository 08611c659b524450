package source_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/boolstack/boolstack/internal/filetest"
	"github.com/boolstack/boolstack/lang/source"
)

var updateGolden = false

// TestTokenizeGolden checks the tokenizer's column recovery against
// checked-in expectation files, the way the teacher's scanner tests
// compare token dumps via internal/filetest
// (github.com/mna/nenuphar lang/scanner tests).
func TestTokenizeGolden(t *testing.T) {
	for _, fi := range filetest.SourceFiles(t, "testdata", ".bs") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			toks, err := source.Load(fi.Name(), source.FileReader{Dir: "testdata"})
			require.NoError(t, err)

			var out string
			for _, tok := range toks {
				out += fmt.Sprintf("%s: %s\n", tok.Pos, tok.Text)
			}
			filetest.DiffOutput(t, fi, out, "testdata", &updateGolden)
		})
	}
}
