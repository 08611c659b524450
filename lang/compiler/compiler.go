// Package compiler implements the single-pass compiler (spec §4.2-§4.4):
// it consumes the token stream produced by lang/source strictly
// left-to-right, maintains a compile-time bit-stack depth and a lexical
// variable scope stack, and emits a validated lang/ir.Program while
// enforcing every static rule in spec §3's invariant list.
//
// The overall shape — one state struct per compilation holding a token
// cursor, the program under construction and accumulated diagnostics, with
// a nested per-function state holding the live scope chain — is grounded
// on the teacher's resolver/compiler pair (github.com/mna/nenuphar
// lang/resolver.resolver and lang/compiler.pcomp/fcomp), collapsed into one
// pass because our grammar has no separate name-resolution phase: a
// variable or function reference is either visible right now or it isn't.
package compiler

import (
	"sort"
	"strconv"
	"strings"

	"github.com/boolstack/boolstack/lang/diag"
	"github.com/boolstack/boolstack/lang/ir"
	"github.com/boolstack/boolstack/lang/token"
)

// compiler holds the state of one Compile call.
type compiler struct {
	toks []token.Token
	pos  int

	prog     *ir.Program
	warnings diag.WarningList

	// per-function state, valid only while parsing inside parseFunction.
	fn        *ir.Function
	stackLen  int
	scope     *scope
	calledRaw []string
	calledSet map[string]bool
}

// Compile consumes a flat token stream (as produced by lang/source.Load)
// and returns the validated program graph, the accumulated warnings, and
// an error if compilation failed. A failed compilation returns a nil
// Program: no half-built state is returned (spec §7).
func Compile(toks []token.Token) (*ir.Program, diag.WarningList, error) {
	c := &compiler{
		toks: toks,
		prog: &ir.Program{
			Natives: ir.NewFuncTable(8),
			Funcs:   ir.NewFuncTable(16),
		},
	}
	for _, nf := range ir.NativeFunctions() {
		c.prog.Natives.Put(nf.Descriptor, nf)
	}

	if len(toks) == 0 {
		return nil, nil, newErr(diag.KindEmptyProgram, token.Position{}, "", "no tokens to compile")
	}

	for c.pos < len(c.toks) {
		if err := c.parseFunction(); err != nil {
			return nil, nil, err
		}
	}

	if err := c.checkNoRecursion(); err != nil {
		return nil, nil, err
	}

	return c.prog, c.warnings, nil
}

func newErr(kind diag.Kind, pos token.Position, tok, msg string) error {
	return &diag.Error{Kind: kind, Pos: pos.Diag(), Token: tok, Msg: msg}
}

func (c *compiler) errAt(kind diag.Kind, tok token.Token, msg string) error {
	return newErr(kind, tok.Pos, tok.Text, msg)
}

// --- token cursor helpers ---

func (c *compiler) atEnd() bool { return c.pos >= len(c.toks) }

func (c *compiler) peek() (token.Token, bool) {
	if c.atEnd() {
		return token.Token{}, false
	}
	return c.toks[c.pos], true
}

func (c *compiler) next() (token.Token, bool) {
	tok, ok := c.peek()
	if ok {
		c.pos++
	}
	return tok, ok
}

// lastPos returns a position to attach to an unexpected-EOF diagnostic: the
// position of the last token in the stream, or the zero position if the
// stream was empty.
func (c *compiler) lastPos() token.Position {
	if len(c.toks) == 0 {
		return token.Position{}
	}
	return c.toks[len(c.toks)-1].Pos
}

// expect consumes the next token and requires it to equal text exactly.
func (c *compiler) expect(text string) (token.Token, error) {
	tok, ok := c.next()
	if !ok {
		return token.Token{}, newErr(diag.KindUnexpectedEOF, c.lastPos(), "", "expected '"+text+"', reached end of input")
	}
	if tok.Text != text {
		return token.Token{}, c.errAt(diag.KindExpectedToken, tok, "expected '"+text+"'")
	}
	return tok, nil
}

// --- function declarations (spec §4.2-4.3) ---

func (c *compiler) parseFunction() error {
	if _, err := c.expect("func"); err != nil {
		return err
	}

	descTok, ok := c.next()
	if !ok {
		return newErr(diag.KindUnexpectedEOF, c.lastPos(), "", "expected function descriptor")
	}
	name, lenIn, lenOut, err := parseDescriptor(c, descTok)
	if err != nil {
		return err
	}
	descriptor := name + ":" + strconv.Itoa(lenIn) + ":" + strconv.Itoa(lenOut)
	if _, found := c.prog.Resolve(descriptor); found {
		return c.errAt(diag.KindDuplicateFunction, descTok, "duplicate function descriptor "+descriptor)
	}

	fn := &ir.Function{
		Descriptor: descriptor,
		Tok:        descTok,
		Name:       name,
		LenIn:      lenIn,
		LenOut:     lenOut,
		Vars:       map[string]*ir.Variable{},
	}

	tok, ok := c.peek()
	if !ok {
		return newErr(diag.KindUnexpectedEOF, c.lastPos(), "", "expected format, 'native' or '{'")
	}
	if strings.HasPrefix(tok.Text, "#") {
		c.next()
		format, formatStr, err := parseFormat(c, tok, lenIn, lenOut)
		if err != nil {
			return err
		}
		fn.Format = format
		fn.FormatStr = formatStr
	} else {
		fn.Format = defaultFormat(lenIn, lenOut)
		fn.FormatStr = defaultFormatString(lenIn, lenOut)
	}

	tok, ok = c.peek()
	if !ok {
		return newErr(diag.KindUnexpectedEOF, c.lastPos(), "", "expected 'native' or '{'")
	}
	if tok.Text == "native" {
		c.next()
		fn.Native = true
		c.prog.Natives.Put(descriptor, fn)
		return nil
	}

	// Register the stub before parsing the body so that a self-call (the
	// no-recursion check's canonical failure case, spec §8 scenario 6)
	// resolves to this very function instead of UnknownFunction.
	c.prog.Funcs.Put(descriptor, fn)

	if _, err := c.expect("{"); err != nil {
		return err
	}

	c.fn = fn
	c.stackLen = lenIn
	c.scope = nil
	c.calledRaw = nil
	c.calledSet = map[string]bool{}

	body, err := c.parseBlockBody()
	if err != nil {
		return err
	}
	fn.Body = body

	if c.stackLen != fn.LenOut {
		return c.errAt(diag.KindStackLenMismatch, descTok, "function body leaves stack depth "+
			strconv.Itoa(c.stackLen)+", want "+strconv.Itoa(fn.LenOut))
	}

	sort.Strings(c.calledRaw)
	fn.Called = c.calledRaw

	for _, vname := range fn.VarOrder {
		if v := fn.Vars[vname]; !v.Used {
			c.warnings.Add(diag.KindUnusedVariable, v.Decl.Pos.Diag(), "variable "+vname+" is never read")
		}
	}

	c.fn = nil
	return nil
}

// parseDescriptor validates and parses a "name:in:out" token.
func parseDescriptor(c *compiler, tok token.Token) (name string, lenIn, lenOut int, err error) {
	parts := strings.Split(tok.Text, ":")
	if len(parts) != 3 {
		return "", 0, 0, c.errAt(diag.KindBadDescriptor, tok, "expected name:in:out")
	}
	name = parts[0]
	if !isIdentifier(name) {
		return "", 0, 0, c.errAt(diag.KindBadName, tok, "function name must be an identifier")
	}
	lenIn, err1 := strconv.Atoi(parts[1])
	lenOut, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || lenIn < 0 || lenOut < 0 {
		return "", 0, 0, c.errAt(diag.KindBadDescriptor, tok, "in/out widths must be non-negative integers")
	}
	if lenOut == 0 {
		return "", 0, 0, c.errAt(diag.KindOutZero, tok, "len_out must be > 0")
	}
	return name, lenIn, lenOut, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		case r == '_':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// --- no-recursion check (spec §4.2, §3 invariant 10) ---

func (c *compiler) checkNoRecursion() error {
	var offender *ir.Function
	c.prog.Funcs.Each(func(descriptor string, fn *ir.Function) {
		if offender != nil {
			return
		}
		visited := map[string]bool{}
		if reaches(c.prog, fn.Called, descriptor, visited) {
			offender = fn
		}
	})
	if offender != nil {
		return newErr(diag.KindRecursion, offender.Tok.Pos, offender.Tok.Text,
			"function "+offender.Descriptor+" transitively calls itself")
	}
	return nil
}

func reaches(prog *ir.Program, callees []string, target string, visited map[string]bool) bool {
	for _, d := range callees {
		if d == target {
			return true
		}
		if visited[d] {
			continue
		}
		visited[d] = true
		callee, ok := prog.Funcs.Get(d)
		if !ok {
			continue
		}
		if reaches(prog, callee.Called, target, visited) {
			return true
		}
	}
	return false
}
