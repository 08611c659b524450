package machine_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boolstack/boolstack/lang/compiler"
	"github.com/boolstack/boolstack/lang/machine"
	"github.com/boolstack/boolstack/lang/source"
)

// minimalSrc declares one throwaway function so the token stream is never
// empty (Compile rejects an empty stream outright); the natives under test
// are pre-registered by Compile regardless of what user code exists.
const minimalSrc = `
func identity:1:1 {
	def { ident:1 }
	>ident:1
	ident:1>
}
`

func TestRunNative(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": minimalSrc})
	require.NoError(t, err)
	prog, _, err := compiler.Compile(toks)
	require.NoError(t, err)

	th := machine.NewThread(prog)

	out, err := th.Run("not:1:1", []byte{1})
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, out)

	out, err = th.Run("and:2:1", []byte{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, out)

	out, err = th.Run("and:2:1", []byte{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, out)

	out, err = th.Run("xor:2:1", []byte{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, out)

	out, err = th.Run("or:2:1", []byte{0, 0})
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, out)

	// im: a -> b  is  (not a) or b
	out, err = th.Run("im:2:1", []byte{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, out)
	out, err = th.Run("im:2:1", []byte{0, 0})
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, out)
}

func TestRunInputLengthMismatch(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": minimalSrc})
	require.NoError(t, err)
	prog, _, err := compiler.Compile(toks)
	require.NoError(t, err)

	th := machine.NewThread(prog)
	_, err = th.Run("not:1:1", []byte{1, 0})
	require.Error(t, err)
	rerr, ok := err.(*machine.RuntimeError)
	require.True(t, ok)
	assert.Equal(t, machine.KindInputLengthMismatch, rerr.Kind)
}

func TestRunUnknownFunction(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": minimalSrc})
	require.NoError(t, err)
	prog, _, err := compiler.Compile(toks)
	require.NoError(t, err)

	th := machine.NewThread(prog)
	_, err = th.Run("nope:1:1", []byte{1})
	require.Error(t, err)
}

// nand built from not/and, mirroring the worked scenario from spec §8.
const nandSrc = `
func nand:2:1 {
	>and:2:1> >not:1:1>
}
`

func TestRunUserFunctionCallingNative(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": nandSrc})
	require.NoError(t, err)
	prog, _, err := compiler.Compile(toks)
	require.NoError(t, err)

	th := machine.NewThread(prog)
	out, err := th.Run("nand:2:1", []byte{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, out)

	out, err = th.Run("nand:2:1", []byte{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, out)
}

const loopSumSrc = `
func replicate:1:4 {
	def { b:1 }
	>b:1
	loop 4 {
		b:1>
	}
}
`

func TestRunLoopAndVariable(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": loopSumSrc})
	require.NoError(t, err)
	prog, _, err := compiler.Compile(toks)
	require.NoError(t, err)

	th := machine.NewThread(prog)
	out, err := th.Run("replicate:1:4", []byte{1})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1, 1, 1}, out)
}

func TestRunValuesPacksAndUnpacksFormat(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": minimalSrc})
	require.NoError(t, err)
	prog, _, err := compiler.Compile(toks)
	require.NoError(t, err)

	got, err := machine.RunValues(prog, "and:2:1", []*big.Int{big.NewInt(1), big.NewInt(1)})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), got)

	got, err = machine.RunValues(prog, "and:2:1", []*big.Int{big.NewInt(1), big.NewInt(0)})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), got)
}

func TestRunValuesInputCountMismatch(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": minimalSrc})
	require.NoError(t, err)
	prog, _, err := compiler.Compile(toks)
	require.NoError(t, err)

	_, err = machine.RunValues(prog, "and:2:1", []*big.Int{big.NewInt(1)})
	require.Error(t, err)
	rerr, ok := err.(*machine.RuntimeError)
	require.True(t, ok)
	assert.Equal(t, machine.KindInputCountMismatch, rerr.Kind)
}
