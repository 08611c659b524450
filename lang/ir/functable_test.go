package ir_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boolstack/boolstack/lang/ir"
)

func TestFuncTablePutGetHas(t *testing.T) {
	tbl := ir.NewFuncTable(4)
	fn := &ir.Function{Descriptor: "f:1:1", Name: "f", LenIn: 1, LenOut: 1}

	assert.False(t, tbl.Has("f:1:1"))
	tbl.Put("f:1:1", fn)
	assert.True(t, tbl.Has("f:1:1"))

	got, ok := tbl.Get("f:1:1")
	require.True(t, ok)
	assert.Same(t, fn, got)
	assert.Equal(t, 1, tbl.Len())
}

func TestFuncTableEachVisitsAll(t *testing.T) {
	tbl := ir.NewFuncTable(4)
	tbl.Put("a:1:1", &ir.Function{Descriptor: "a:1:1"})
	tbl.Put("b:1:1", &ir.Function{Descriptor: "b:1:1"})
	tbl.Put("c:1:1", &ir.Function{Descriptor: "c:1:1"})

	var seen []string
	tbl.Each(func(descriptor string, fn *ir.Function) {
		seen = append(seen, descriptor)
	})
	sort.Strings(seen)
	assert.Equal(t, []string{"a:1:1", "b:1:1", "c:1:1"}, seen)
}

func TestNativeFunctionsCoverFixedSet(t *testing.T) {
	fns := ir.NativeFunctions()
	descriptors := make(map[string]bool, len(fns))
	for _, fn := range fns {
		descriptors[fn.Descriptor] = true
		assert.True(t, fn.Native)
		assert.Nil(t, fn.Body)
	}
	for _, d := range []string{"not:1:1", "xor:2:1", "or:2:1", "and:2:1", "im:2:1"} {
		assert.True(t, descriptors[d], "missing native %s", d)
	}
	assert.Len(t, fns, 5)
}

func TestProgramResolvePrefersNatives(t *testing.T) {
	natives := ir.NewFuncTable(1)
	funcs := ir.NewFuncTable(1)
	nativeFn := &ir.Function{Descriptor: "f:1:1", Native: true}
	userFn := &ir.Function{Descriptor: "f:1:1"}
	natives.Put("f:1:1", nativeFn)
	funcs.Put("f:1:1", userFn)

	prog := &ir.Program{Natives: natives, Funcs: funcs}
	got, ok := prog.Resolve("f:1:1")
	require.True(t, ok)
	assert.Same(t, nativeFn, got)
}
