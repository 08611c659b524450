package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boolstack/boolstack/lang/compiler"
	"github.com/boolstack/boolstack/lang/diag"
	"github.com/boolstack/boolstack/lang/source"
)

func TestCompileNandCompiles(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": `
func nand:2:1 {
	>and:2:1> >not:1:1>
}
`})
	require.NoError(t, err)
	prog, warnings, err := compiler.Compile(toks)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	fn, ok := prog.Resolve("nand:2:1")
	require.True(t, ok)
	// Called records user-function callees only; and/not are natives.
	assert.Empty(t, fn.Called)
}

func TestCompileRejectsSelfRecursion(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": `
func f:1:1 {
	>f:1:1>
}
`})
	require.NoError(t, err)
	_, _, err = compiler.Compile(toks)
	require.Error(t, err)
	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.KindRecursion, derr.Kind)
}

// Functions must be declared before they are called (the compiler is a
// single pass with no forward-declaration phase, spec §9): a call to a
// not-yet-declared function is an UnknownFunction error, not a deferred
// recursion check. Since a call can only resolve to an earlier function or
// to the function being compiled, no cycle between two or more functions
// can compile far enough to need the transitive recursion check; the only
// cycle checkNoRecursion ever sees is a function calling itself directly.
func TestCompileCallToForwardDeclaredFunctionIsUnknownFunction(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": `
func f:1:1 {
	>g:1:1>
}
func g:1:1 native
`})
	require.NoError(t, err)
	_, _, err = compiler.Compile(toks)
	require.Error(t, err)
	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.KindUnknownFunction, derr.Kind)
}

func TestCompileUnusedVariableWarning(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": `
func f:1:1 {
	def { b:1 }
	>b:1
	0:1>
}
`})
	require.NoError(t, err)
	_, warnings, err := compiler.Compile(toks)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, diag.KindUnusedVariable, warnings[0].Kind)
}

func TestCompileIfWithoutElseRequiresZeroNetEffect(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": `
func f:1:1 {
	1:1>
	if {
		0:1>
	}
}
`})
	require.NoError(t, err)
	_, _, err = compiler.Compile(toks)
	require.Error(t, err)
	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.KindIfElseMismatch, derr.Kind)
}

func TestCompileIfElseDepthMismatchRejected(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": `
func f:1:2 {
	1:1>
	if {
		0:1>
		0:1>
	} else {
		0:1>
	}
}
`})
	require.NoError(t, err)
	_, _, err = compiler.Compile(toks)
	require.Error(t, err)
	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.KindIfElseMismatch, derr.Kind)
}

func TestCompileLoopAccumulatesStackDelta(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": `
func f:1:4 {
	def { b:1 }
	>b:1
	loop 4 {
		b:1>
	}
}
`})
	require.NoError(t, err)
	_, _, err = compiler.Compile(toks)
	require.NoError(t, err)
}

func TestCompileFullReduceInVariantLoopRejected(t *testing.T) {
	// >>_ captures the current stack depth at compile time just like '.'
	// (spec §3), so a loop body that reduces to zero and then leaves a
	// non-zero net effect must be rejected the same way a '.' would be.
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": `
func f:0:4 {
	2:2>
	loop 2 {
		>>_
		5#d:3>
	}
}
`})
	require.NoError(t, err)
	_, _, err = compiler.Compile(toks)
	require.Error(t, err)
	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.KindPointInVariantLoop, derr.Kind)
}

func TestCompileDuplicateFunctionRejected(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": `
func f:1:1 native
func f:1:1 native
`})
	require.NoError(t, err)
	_, _, err = compiler.Compile(toks)
	require.Error(t, err)
	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.KindDuplicateFunction, derr.Kind)
}

func TestCompileCustomFormatString(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": `
func f:4:4 #4h:4b {
	def { x:4 }
	>x:4
	x:4>
}
`})
	require.NoError(t, err)
	prog, _, err := compiler.Compile(toks)
	require.NoError(t, err)

	fn, ok := prog.Resolve("f:4:4")
	require.True(t, ok)
	assert.Equal(t, "#4h:4b", fn.FormatStr)
}

func TestCompileFormatWidthMismatchRejected(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": `
func f:4:4 #2h:4b native
`})
	require.NoError(t, err)
	_, _, err = compiler.Compile(toks)
	require.Error(t, err)
	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.KindFormatLenMismatch, derr.Kind)
}

func TestCompileEmptyProgramRejected(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": ""})
	require.NoError(t, err)
	_, _, err = compiler.Compile(toks)
	require.Error(t, err)
}

func TestCompileStackUnderflowRejected(t *testing.T) {
	toks, err := source.Load("main.bs", source.MapReader{"main.bs": `
func f:1:1 {
	>_:5
}
`})
	require.NoError(t, err)
	_, _, err = compiler.Compile(toks)
	require.Error(t, err)
	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.KindStackUnderflow, derr.Kind)
}
