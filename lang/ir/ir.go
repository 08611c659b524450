// Package ir defines the program graph (spec §3): the validated, in-memory
// representation a successful compilation produces and an interpreter
// walks. Node is a closed, tagged union — If, Loop, Reduce, Assign, Call —
// dispatched by type switch rather than open interface inheritance (spec
// §9 Design Notes), mirroring the teacher's ast.Stmt/ast.Expr node family
// (github.com/mna/nenuphar/lang/ast) generalized from an open grammar to
// our five fixed shapes.
package ir

import "github.com/boolstack/boolstack/lang/token"

// Radix is the display radix of one format piece.
type Radix byte

const (
	RadixDecimal Radix = 'd'
	RadixHex     Radix = 'h'
	RadixBinary  Radix = 'b'
)

// FormatPiece is one width+radix component of a function's declared input
// or output format.
type FormatPiece struct {
	Width int
	Radix Radix
}

// Format is the pair of ordered piece lists describing how a function's
// input and output bit-vectors are split and displayed (spec §3, §4.6).
type Format struct {
	In  []FormatPiece
	Out []FormatPiece
}

// Variable is a fixed-width storage location owned by a Function (spec §3).
type Variable struct {
	Name string
	Size int
	Decl token.Token
	Used bool
}

// Function is a compiled (or native) function: its descriptor, bit widths,
// display format, and, for user functions, its body block, its variable
// table and the sorted set of user functions it calls.
type Function struct {
	Descriptor string // "name:in:out"
	Tok        token.Token
	Name       string
	LenIn      int
	LenOut     int
	FormatStr  string
	Format     Format
	Native     bool
	Body       *Block // nil when Native
	Vars       map[string]*Variable
	VarOrder   []string // declaration order, for stable diagnostics/printing
	Called     []string // sorted, deduplicated descriptors of user functions called
}

// Program is the compiler's output: the full set of native and user
// functions, keyed by descriptor. Per spec §3 invariant 1, a descriptor is
// unique across both maps combined.
type Program struct {
	Natives *FuncTable
	Funcs   *FuncTable
}

// Resolve looks up a descriptor in natives first, then user functions,
// exactly as call resolution does during compilation (spec §4.4.4) and
// execution (spec §4.5).
func (p *Program) Resolve(descriptor string) (*Function, bool) {
	if fn, ok := p.Natives.Get(descriptor); ok {
		return fn, true
	}
	return p.Funcs.Get(descriptor)
}

// Block is a brace-delimited, owned sequence of executable nodes with its
// compile-time stack-depth window (spec §3).
type Block struct {
	StackLenIn  int
	StackLenOut int
	Code        []Node
	FirstPoint  *token.Token // first '.' or '>>_' token seen directly in this block, if any
}

// Node is the closed set of executable graph node kinds.
type Node interface {
	node()
}

// If is a conditional node: pop one bit, run Then if it was 1, else Else
// (if present).
type If struct {
	Tok         token.Token
	Then        *Block
	Else        *Block // nil if there was no "else"
	StackLenIn  int
	StackLenOut int
}

// Loop is a counted repetition of Body, N times (N may be 0).
type Loop struct {
	Tok         token.Token
	Body        *Block
	N           int
	StackLenIn  int
	StackLenOut int
}

// Reduce pops N bits from the stack without reading them. It is produced by
// both ">>_" (pop the entire current depth) and ">_:k" (pop k bits).
type Reduce struct {
	Tok token.Token
	N   int
}

// Assign is a stack<->variable or constant<->stack transfer.
//
// Exactly one of Var or Const is set. FromStack/ToStack record which
// arrow(s) were present in the source token (spec §4.4.3).
type Assign struct {
	Tok       token.Token
	Var       *Variable // nil if this is a constant push
	Const     []byte    // big-endian bit vector (one byte per bit, 0 or 1), nil unless this is a constant
	Width     int
	FromStack bool
	ToStack   bool
}

// Call invokes a resolved native or user function.
type Call struct {
	Tok  token.Token
	Func *Function
}

func (*If) node()     {}
func (*Loop) node()   {}
func (*Reduce) node() {}
func (*Assign) node() {}
func (*Call) node()   {}
