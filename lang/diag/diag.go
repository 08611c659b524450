// Package diag implements the diagnostic taxonomy shared by the source
// loader and the compiler: every compile-time error and warning names a
// Kind from the fixed lists in spec §7, carries a source Position and the
// offending token text. The loader collects its errors into an ErrorList
// rather than failing on first sight, and the compiler collects its
// warnings into a WarningList; the compiler itself stops at its first
// error. ErrorList follows the teacher's reuse of go/scanner's
// ErrorList shape (github.com/mna/nenuphar/lang/scanner), adapted here
// because go/scanner.Error.Pos is hard-wired to go/token.Position and
// cannot carry our own token.Position.
package diag

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies one of the fixed compile-time error or warning
// categories named in spec §7.
type Kind string

// Compile-time error kinds (spec §7).
const (
	KindEmptyProgram      Kind = "EmptyProgram"
	KindUnexpectedEOF      Kind = "UnexpectedEOF"
	KindIncludeBadName     Kind = "IncludeBadName"
	KindIncludeCycle       Kind = "IncludeCycle"
	KindBadDescriptor      Kind = "BadDescriptor"
	KindBadName            Kind = "BadName"
	KindOutZero            Kind = "OutZero"
	KindDuplicateFunction  Kind = "DuplicateFunction"
	KindBadFormat          Kind = "BadFormat"
	KindFormatLenMismatch  Kind = "FormatLenMismatch"
	KindZeroPieceWidth     Kind = "ZeroPieceWidth"
	KindExpectedToken      Kind = "ExpectedToken"
	KindUnknownOp          Kind = "UnknownOp"
	KindUnknownFunction    Kind = "UnknownFunction"
	KindUndefinedVariable  Kind = "UndefinedVariable"
	KindDuplicateVariable  Kind = "DuplicateVariable"
	KindVarSizeMismatch    Kind = "VarSizeMismatch"
	KindZeroWidth          Kind = "ZeroWidth"
	KindConstantToSelf     Kind = "ConstantToSelf"
	KindConstantNotPushed  Kind = "ConstantNotPushed"
	KindConstantTooWide    Kind = "ConstantTooWide"
	KindBadAssignSyntax    Kind = "BadAssignSyntax"
	KindBadReduceSyntax    Kind = "BadReduceSyntax"
	KindBadCallSyntax      Kind = "BadCallSyntax"
	KindBadRadix           Kind = "BadRadix"
	KindBadConstant        Kind = "BadConstant"
	KindStackUnderflow     Kind = "StackUnderflow"
	KindStackLenMismatch   Kind = "StackLenMismatch"
	KindIfElseMismatch     Kind = "IfElseMismatch"
	KindPointInVariantLoop Kind = "PointInVariantLoop"
	KindRecursion          Kind = "Recursion"
)

// Compile-time warning kinds (spec §7).
const (
	KindUnusedVariable Kind = "UnusedVariable"
	KindTrivialLoop    Kind = "TrivialLoop"
	KindZeroReduce     Kind = "ZeroReduce"
)

// Position is re-declared locally (rather than imported from lang/token) to
// keep this package dependency-free and importable from both lang/source
// and lang/compiler without a cycle; callers build it directly or convert
// a token.Position with its Diag method.
type Position struct {
	File string
	Line int
	Col  int
}

func (p Position) String() string {
	line, col := "-", "-"
	if p.Line > 0 {
		line = fmt.Sprintf("%d", p.Line)
	}
	if p.Col > 0 {
		col = fmt.Sprintf("%d", p.Col)
	}
	return fmt.Sprintf("%s:%s:%s", p.File, line, col)
}

// Error is a single compile-time diagnostic: a Kind, the source Position it
// occurred at, the offending token text, and a human-readable message.
type Error struct {
	Kind  Kind
	Pos   Position
	Token string
	Msg   string
}

func (e *Error) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s: %s: %s (token %q)", e.Pos, e.Kind, e.Msg, e.Token)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Msg)
}

// ErrorList is an accumulating, sortable list of *Error. A nil or empty list
// has a nil Err(). This mirrors go/scanner.ErrorList's Add/Sort/Err/Error
// shape, which the teacher reuses verbatim from the standard library; here
// it is hand-rolled because our Position type is our own.
type ErrorList []*Error

// Add appends a new diagnostic to the list.
func (p *ErrorList) Add(kind Kind, pos Position, tok, msg string) {
	*p = append(*p, &Error{Kind: kind, Pos: pos, Token: tok, Msg: msg})
}

func (p ErrorList) Len() int      { return len(p) }
func (p ErrorList) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p ErrorList) Less(i, j int) bool {
	if p[i].Pos.File != p[j].Pos.File {
		return p[i].Pos.File < p[j].Pos.File
	}
	if p[i].Pos.Line != p[j].Pos.Line {
		return p[i].Pos.Line < p[j].Pos.Line
	}
	return p[i].Pos.Col < p[j].Pos.Col
}

// Sort sorts the list in place by position.
func (p ErrorList) Sort() { sort.Sort(p) }

// Err returns an error equivalent to this list, or nil if the list is empty.
func (p ErrorList) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}

func (p ErrorList) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(p))
	for _, e := range p {
		b.WriteByte('\n')
		b.WriteString(e.Error())
	}
	return b.String()
}

// Warning is a non-fatal diagnostic collected during compilation (spec §6.4,
// §7): UnusedVariable, TrivialLoop and ZeroReduce.
type Warning struct {
	Kind Kind
	Pos  Position
	Msg  string
}

func (w *Warning) String() string { return fmt.Sprintf("%s: %s: %s", w.Pos, w.Kind, w.Msg) }

// WarningList accumulates warnings in emission order; it is flushed to a
// sink at the end of compilation (spec §6.4: count, then one per line).
type WarningList []*Warning

func (p *WarningList) Add(kind Kind, pos Position, msg string) {
	*p = append(*p, &Warning{Kind: kind, Pos: pos, Msg: msg})
}

// Flush writes the warning count followed by one line per warning to sink.
func (p WarningList) Flush(sink func(string)) {
	if len(p) == 0 {
		return
	}
	sink(fmt.Sprintf("%d warning(s):", len(p)))
	for _, w := range p {
		sink(w.String())
	}
}
