package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boolstack/boolstack/lang/source"
)

func TestLoadExpandsInclude(t *testing.T) {
	r := source.MapReader{
		"main.bs": "func f:1:1 native\n#include lib.bs\n",
		"lib.bs":  "func g:1:1 native\n",
	}
	toks, err := source.Load("main.bs", r)
	require.NoError(t, err)

	var texts []string
	for _, tok := range toks {
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []string{"func", "f:1:1", "native", "func", "g:1:1", "native"}, texts)
}

func TestLoadStripsLineComments(t *testing.T) {
	r := source.MapReader{"main.bs": "func f:1:1 native // trailing remark\n"}
	toks, err := source.Load("main.bs", r)
	require.NoError(t, err)

	var texts []string
	for _, tok := range toks {
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []string{"func", "f:1:1", "native"}, texts)
}

func TestLoadRejectsIncludePathSeparator(t *testing.T) {
	r := source.MapReader{"main.bs": "#include sub/lib.bs\n"}
	_, err := source.Load("main.bs", r)
	require.Error(t, err)
}

func TestLoadDetectsIncludeCycle(t *testing.T) {
	r := source.MapReader{
		"a.bs": "#include b.bs\n",
		"b.bs": "#include a.bs\n",
	}
	_, err := source.Load("a.bs", r)
	require.Error(t, err)
}

func TestLoadAllowsDiamondInclude(t *testing.T) {
	// a includes b and c, both of which include d: d is not "active" at the
	// point each includes it, so this is not a cycle (spec §4.1: active
	// include chain, not ever-visited).
	r := source.MapReader{
		"a.bs": "#include b.bs\n#include c.bs\n",
		"b.bs": "#include d.bs\n",
		"c.bs": "#include d.bs\n",
		"d.bs": "func d:1:1 native\n",
	}
	toks, err := source.Load("a.bs", r)
	require.NoError(t, err)
	assert.Len(t, toks, 6)
}
