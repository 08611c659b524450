// Package machine implements the tree-walking interpreter (spec §4.5): it
// executes a named entry function from a compiled lang/ir.Program over a
// mutable bit stack with a stack of per-call variable frames. The overall
// shape — a per-execution state struct holding a call stack, generalized
// from the teacher's bytecode program-counter dispatch
// (github.com/mna/nenuphar lang/machine.Thread/Frame/run) to a recursive
// tree-walk over ir.Node, since our control flow is structured rather than
// a flat instruction sequence with jumps — is grounded on that package.
package machine

// Stack is the interpreter's single, shared bit stack (spec §3 Runtime
// state): an ordered sequence of bits (each stored as a byte, 0 or 1),
// grown and shrunk at the tail.
type Stack struct {
	bits []byte
}

// NewStack returns a stack pre-loaded with the given bits (typically a
// function's packed input bit-vector).
func NewStack(bits []byte) *Stack {
	s := &Stack{bits: make([]byte, len(bits))}
	copy(s.bits, bits)
	return s
}

// Len returns the current stack depth.
func (s *Stack) Len() int { return len(s.bits) }

// Push appends bits to the tail of the stack, in order.
func (s *Stack) Push(bits ...byte) {
	s.bits = append(s.bits, bits...)
}

// PopN removes and returns the top n bits, in original (bottom-to-top)
// order. The compiler guarantees n never exceeds the current depth for any
// accepted program; PopN panics otherwise, since that would indicate an
// internal inconsistency rather than a program error (spec §4.5).
func (s *Stack) PopN(n int) []byte {
	if n == 0 {
		return nil
	}
	start := len(s.bits) - n
	if start < 0 {
		panic("machine: stack underflow (internal error, compiler invariant violated)")
	}
	out := make([]byte, n)
	copy(out, s.bits[start:])
	s.bits = s.bits[:start]
	return out
}

// Reduce discards the top n bits without returning them.
func (s *Stack) Reduce(n int) {
	if n == 0 {
		return
	}
	start := len(s.bits) - n
	if start < 0 {
		panic("machine: stack underflow (internal error, compiler invariant violated)")
	}
	s.bits = s.bits[:start]
}

// Bits returns the stack's current contents, bottom to top.
func (s *Stack) Bits() []byte {
	out := make([]byte, len(s.bits))
	copy(out, s.bits)
	return out
}
