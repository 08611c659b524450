package machine

import (
	"fmt"

	"github.com/boolstack/boolstack/lang/ir"
)

// Thread is one independent execution of a compiled Program: its own bit
// stack and its own stack of variable frames. Per spec §5, a Program is
// immutable once compiled and may be driven by any number of concurrent
// Threads; nothing here mutates shared Program state.
type Thread struct {
	prog   *ir.Program
	stack  *Stack
	frames []map[string][]byte
}

// NewThread returns a Thread bound to prog, ready to Run one or more
// entry functions.
func NewThread(prog *ir.Program) *Thread {
	return &Thread{prog: prog}
}

// Run resolves descriptor against native then user functions, executes it
// over a stack preloaded with input (which must have exactly the
// function's declared len_in bits), and returns the final stack contents
// (spec §4.5, §6.2).
func (th *Thread) Run(descriptor string, input []byte) ([]byte, error) {
	fn, ok := th.prog.Resolve(descriptor)
	if !ok {
		return nil, &RuntimeError{Kind: KindUnknownNative, Descriptor: descriptor, Msg: "unknown function"}
	}
	if len(input) != fn.LenIn {
		return nil, &RuntimeError{
			Kind:       KindInputLengthMismatch,
			Descriptor: descriptor,
			Msg:        fmt.Sprintf("expected %d input bits, got %d", fn.LenIn, len(input)),
		}
	}

	th.stack = NewStack(input)
	th.frames = nil
	if err := th.callFunc(fn); err != nil {
		return nil, err
	}
	return th.stack.Bits(), nil
}

func (th *Thread) callFunc(fn *ir.Function) error {
	if fn.Native {
		return th.runNative(fn)
	}

	frame := make(map[string][]byte, len(fn.Vars))
	for name, v := range fn.Vars {
		frame[name] = make([]byte, v.Size)
	}
	th.frames = append(th.frames, frame)
	defer func() { th.frames = th.frames[:len(th.frames)-1] }()

	return th.runBlock(fn.Body)
}

func (th *Thread) runBlock(b *ir.Block) error {
	for _, node := range b.Code {
		if err := th.runNode(node); err != nil {
			return err
		}
	}
	return nil
}

func (th *Thread) runNode(n ir.Node) error {
	switch n := n.(type) {
	case *ir.If:
		bit := th.stack.PopN(1)[0]
		if bit == 1 {
			return th.runBlock(n.Then)
		}
		if n.Else != nil {
			return th.runBlock(n.Else)
		}
		return nil

	case *ir.Loop:
		for i := 0; i < n.N; i++ {
			if err := th.runBlock(n.Body); err != nil {
				return err
			}
		}
		return nil

	case *ir.Reduce:
		th.stack.Reduce(n.N)
		return nil

	case *ir.Assign:
		return th.runAssign(n)

	case *ir.Call:
		return th.callFunc(n.Func)

	default:
		return &RuntimeError{Kind: KindTypeMismatch, Msg: fmt.Sprintf("internal error: unhandled node type %T", n)}
	}
}

func (th *Thread) runAssign(n *ir.Assign) error {
	if n.Var == nil {
		th.stack.Push(n.Const...)
		return nil
	}

	frame := th.frames[len(th.frames)-1]
	if n.FromStack {
		bits := th.stack.PopN(n.Width)
		stored := make([]byte, len(bits))
		copy(stored, bits)
		frame[n.Var.Name] = stored
		if n.ToStack {
			th.stack.Push(bits...)
		}
		return nil
	}

	// ToStack only: append the variable's current contents.
	th.stack.Push(frame[n.Var.Name]...)
	return nil
}

// runNative implements the five fixed primitives (spec §4.5). Descriptors
// outside this fixed set that nonetheless reached the native table (a
// source-declared "func foo:i:o native" with no matching implementation)
// fail with UnknownNative: the compiler accepts any native header, but
// only these five have runtime behavior.
func (th *Thread) runNative(fn *ir.Function) error {
	switch fn.Descriptor {
	case "not:1:1":
		a := th.stack.PopN(1)[0]
		th.stack.Push(a ^ 1)

	case "xor:2:1":
		b := th.stack.PopN(1)[0]
		a := th.stack.PopN(1)[0]
		th.stack.Push(a ^ b)

	case "or:2:1":
		b := th.stack.PopN(1)[0]
		a := th.stack.PopN(1)[0]
		th.stack.Push(a | b)

	case "and:2:1":
		b := th.stack.PopN(1)[0]
		a := th.stack.PopN(1)[0]
		th.stack.Push(a & b)

	case "im:2:1":
		b := th.stack.PopN(1)[0]
		a := th.stack.PopN(1)[0]
		th.stack.Push((a ^ 1) | b)

	default:
		return &RuntimeError{Kind: KindUnknownNative, Descriptor: fn.Descriptor, Msg: "no runtime implementation for this native function"}
	}
	return nil
}
