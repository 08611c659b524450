package ir

import "github.com/dolthub/swiss"

// FuncTable is a descriptor -> *Function registry backed by an
// open-addressing swiss-table map (github.com/dolthub/swiss), the same
// library the teacher uses for its language-level Map builtin
// (lang/machine/map.go in mna-nenuphar). There it backs a user-visible
// dictionary value; here it backs the compiler's own native/user function
// registry, built once during compilation and then read concurrently by
// any number of interpreters over the immutable Program (spec §5).
type FuncTable struct {
	m *swiss.Map[string, *Function]
}

// NewFuncTable returns an empty table sized for at least capacity entries.
func NewFuncTable(capacity int) *FuncTable {
	if capacity < 1 {
		capacity = 1
	}
	return &FuncTable{m: swiss.NewMap[string, *Function](uint32(capacity))}
}

// Get looks up fn by descriptor.
func (t *FuncTable) Get(descriptor string) (*Function, bool) {
	if t == nil || t.m == nil {
		return nil, false
	}
	return t.m.Get(descriptor)
}

// Has reports whether descriptor is already registered.
func (t *FuncTable) Has(descriptor string) bool {
	_, ok := t.Get(descriptor)
	return ok
}

// Put registers fn under descriptor, overwriting any previous entry.
func (t *FuncTable) Put(descriptor string, fn *Function) {
	t.m.Put(descriptor, fn)
}

// Len returns the number of registered functions.
func (t *FuncTable) Len() int {
	if t == nil || t.m == nil {
		return 0
	}
	return t.m.Count()
}

// Each calls f for every (descriptor, function) pair. Iteration order is
// unspecified, matching the underlying swiss table's own iteration order.
func (t *FuncTable) Each(f func(descriptor string, fn *Function)) {
	if t == nil || t.m == nil {
		return
	}
	t.m.Iter(func(k string, v *Function) bool {
		f(k, v)
		return false
	})
}
