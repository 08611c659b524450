package compiler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/boolstack/boolstack/lang/diag"
	"github.com/boolstack/boolstack/lang/ir"
	"github.com/boolstack/boolstack/lang/token"
)

var reReduceByK = regexp.MustCompile(`^>_:(\d+)$`)

// parseBlockBody parses the contents of a block up to and including its
// closing '}'. The caller is responsible for consuming the opening '{'
// (spec §4.4): this lets the same routine serve the function body, an if's
// then/else blocks, and a loop's body, each of which has its own
// surrounding grammar around the braces.
func (c *compiler) parseBlockBody() (*ir.Block, error) {
	c.pushScope()
	defer c.popScope()

	block := &ir.Block{StackLenIn: c.stackLen}

	for {
		tok, ok := c.peek()
		if !ok {
			return nil, newErr(diag.KindUnexpectedEOF, c.lastPos(), "", "expected '}', reached end of input")
		}
		if tok.Text == "}" {
			c.next()
			break
		}

		node, err := c.parseBlockToken(block)
		if err != nil {
			return nil, err
		}
		if node != nil {
			block.Code = append(block.Code, node)
		}
	}

	block.StackLenOut = c.stackLen
	return block, nil
}

// parseBlockToken consumes one statement-shaped token (or keyword-led
// construct) from the current block and returns the node it produced, or
// nil for constructs ('.', 'def') that don't produce an executable node.
func (c *compiler) parseBlockToken(block *ir.Block) (ir.Node, error) {
	tok, _ := c.next()

	switch {
	case tok.Text == ".":
		if c.stackLen != 0 {
			return nil, c.errAt(diag.KindStackLenMismatch, tok, "depth check requires stack depth 0, have "+strconv.Itoa(c.stackLen))
		}
		if block.FirstPoint == nil {
			t := tok
			block.FirstPoint = &t
		}
		return nil, nil

	case tok.Text == "def":
		return nil, c.parseDef()

	case tok.Text == "if":
		return c.parseIf(tok)

	case tok.Text == "loop":
		return c.parseLoop(tok)

	case tok.Text == ">>_":
		n := c.stackLen
		c.stackLen = 0
		if block.FirstPoint == nil {
			t := tok
			block.FirstPoint = &t
		}
		return &ir.Reduce{Tok: tok, N: n}, nil

	case reReduceByK.MatchString(tok.Text):
		return c.parseReduceByK(tok)

	case strings.Contains(tok.Text, ">"):
		switch strings.Count(tok.Text, ":") {
		case 1:
			return c.parseAssign(tok)
		case 2:
			return c.parseCall(tok)
		default:
			return nil, c.errAt(diag.KindUnknownOp, tok, "unrecognized operator")
		}

	default:
		return nil, c.errAt(diag.KindUnknownOp, tok, "unrecognized operator")
	}
}

func (c *compiler) parseReduceByK(tok token.Token) (ir.Node, error) {
	m := reReduceByK.FindStringSubmatch(tok.Text)
	k, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, c.errAt(diag.KindBadReduceSyntax, tok, "invalid reduce count")
	}
	if k == 0 {
		c.warnings.Add(diag.KindZeroReduce, tok.Pos.Diag(), "reduce by 0 has no effect")
	}
	c.stackLen -= k
	if c.stackLen < 0 {
		return nil, c.errAt(diag.KindStackUnderflow, tok, "reduce pops more bits than are on the stack")
	}
	return &ir.Reduce{Tok: tok, N: k}, nil
}

// --- def { v1:size1 v2:size2 ... } ---

func (c *compiler) parseDef() error {
	if _, err := c.expect("{"); err != nil {
		return err
	}
	for {
		tok, ok := c.next()
		if !ok {
			return newErr(diag.KindUnexpectedEOF, c.lastPos(), "", "expected '}', reached end of input")
		}
		if tok.Text == "}" {
			return nil
		}
		if err := c.parseVarDecl(tok); err != nil {
			return err
		}
	}
}

func (c *compiler) parseVarDecl(tok token.Token) error {
	parts := strings.SplitN(tok.Text, ":", 2)
	if len(parts) != 2 {
		return c.errAt(diag.KindBadAssignSyntax, tok, "expected name:size")
	}
	name, sizeStr := parts[0], parts[1]
	if !isIdentifier(name) {
		return c.errAt(diag.KindBadName, tok, "variable name must be an identifier")
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		return c.errAt(diag.KindZeroWidth, tok, "variable size must be > 0")
	}
	if _, exists := c.fn.Vars[name]; exists {
		return c.errAt(diag.KindDuplicateVariable, tok, "variable "+name+" already declared in this function")
	}

	v := &ir.Variable{Name: name, Size: size, Decl: tok}
	c.fn.Vars[name] = v
	c.fn.VarOrder = append(c.fn.VarOrder, name)
	c.declareVar(v)
	return nil
}

// --- if [else] (spec §4.4.1) ---

func (c *compiler) parseIf(tok token.Token) (ir.Node, error) {
	if c.stackLen < 1 {
		return nil, c.errAt(diag.KindStackUnderflow, tok, "if requires a condition bit on the stack")
	}
	c.stackLen--
	h0 := c.stackLen

	if _, err := c.expect("{"); err != nil {
		return nil, err
	}
	thenBlock, err := c.parseBlockBody()
	if err != nil {
		return nil, err
	}
	stackLenOut := c.stackLen

	node := &ir.If{Tok: tok, Then: thenBlock, StackLenIn: h0, StackLenOut: stackLenOut}

	next, ok := c.peek()
	if ok && next.Text == "else" {
		c.next()
		c.stackLen = h0
		if _, err := c.expect("{"); err != nil {
			return nil, err
		}
		elseBlock, err := c.parseBlockBody()
		if err != nil {
			return nil, err
		}
		if c.stackLen != stackLenOut {
			return nil, c.errAt(diag.KindIfElseMismatch, tok, "then and else branches leave different stack depths")
		}
		node.Else = elseBlock
		return node, nil
	}

	// No else: per the resolved Open Question (spec §9), a standalone if is
	// accepted only when its then-block has zero net effect, checked here
	// directly rather than left to the function-level stack-length check.
	if stackLenOut != h0 {
		return nil, c.errAt(diag.KindIfElseMismatch, tok, "if without else must leave the stack depth unchanged")
	}
	return node, nil
}

// --- loop <n> { body } (spec §4.4.2) ---

func (c *compiler) parseLoop(tok token.Token) (ir.Node, error) {
	countTok, ok := c.next()
	if !ok {
		return nil, newErr(diag.KindUnexpectedEOF, c.lastPos(), "", "expected loop count")
	}
	n, err := strconv.Atoi(countTok.Text)
	if err != nil || n < 0 {
		return nil, c.errAt(diag.KindExpectedToken, countTok, "expected non-negative loop count")
	}
	if n < 2 {
		c.warnings.Add(diag.KindTrivialLoop, tok.Pos.Diag(), "loop count "+strconv.Itoa(n)+" has no repeating effect")
	}

	if _, err := c.expect("{"); err != nil {
		return nil, err
	}
	loopIn := c.stackLen
	body, err := c.parseBlockBody()
	if err != nil {
		return nil, err
	}

	if body.FirstPoint != nil {
		delta := body.StackLenOut - body.StackLenIn
		if delta != 0 {
			return nil, c.errAt(diag.KindPointInVariantLoop, tok, "loop body contains '.' or '>>_' but has non-zero net stack effect")
		}
	}

	delta := body.StackLenOut - body.StackLenIn
	c.stackLen = loopIn + delta*n
	if c.stackLen < 0 {
		return nil, c.errAt(diag.KindStackUnderflow, tok, "loop leaves a negative stack depth")
	}

	return &ir.Loop{Tok: tok, Body: body, N: n, StackLenIn: loopIn, StackLenOut: c.stackLen}, nil
}

// --- assign and call (spec §4.4.3, §4.4.4) ---

func (c *compiler) parseCall(tok token.Token) (ir.Node, error) {
	s := tok.Text
	if !strings.HasPrefix(s, ">") || !strings.HasSuffix(s, ">") || len(s) < 3 {
		return nil, c.errAt(diag.KindBadCallSyntax, tok, "expected >name:in:out>")
	}
	s = s[1 : len(s)-1]
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, c.errAt(diag.KindBadCallSyntax, tok, "expected >name:in:out>")
	}
	name := parts[0]
	lenIn, err1 := strconv.Atoi(parts[1])
	lenOut, err2 := strconv.Atoi(parts[2])
	if !isIdentifier(name) || err1 != nil || err2 != nil || lenIn < 0 || lenOut < 0 {
		return nil, c.errAt(diag.KindBadCallSyntax, tok, "invalid call descriptor")
	}
	descriptor := name + ":" + strconv.Itoa(lenIn) + ":" + strconv.Itoa(lenOut)

	fn, found := c.prog.Resolve(descriptor)
	if !found {
		return nil, c.errAt(diag.KindUnknownFunction, tok, "unknown function "+descriptor)
	}
	if !fn.Native {
		if !c.calledSet[descriptor] {
			c.calledSet[descriptor] = true
			c.calledRaw = append(c.calledRaw, descriptor)
		}
	}

	c.stackLen += fn.LenOut - fn.LenIn
	if c.stackLen < 0 {
		return nil, c.errAt(diag.KindStackUnderflow, tok, "call to "+descriptor+" underflows the stack")
	}

	return &ir.Call{Tok: tok, Func: fn}, nil
}

func (c *compiler) parseAssign(tok token.Token) (ir.Node, error) {
	s := tok.Text
	fromStack := strings.HasPrefix(s, ">")
	if fromStack {
		s = s[1:]
	}
	toStack := strings.HasSuffix(s, ">")
	if toStack {
		s = s[:len(s)-1]
	}

	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return nil, c.errAt(diag.KindBadAssignSyntax, tok, "expected target:width")
	}
	target, widthStr := parts[0], parts[1]
	width, err := strconv.Atoi(widthStr)
	if err != nil || width < 0 {
		return nil, c.errAt(diag.KindBadAssignSyntax, tok, "invalid width")
	}
	if width == 0 {
		return nil, c.errAt(diag.KindZeroWidth, tok, "assign width must be > 0")
	}

	if target == "" {
		return nil, c.errAt(diag.KindBadAssignSyntax, tok, "missing assign target")
	}
	isConst := target[0] >= '0' && target[0] <= '9' || strings.Contains(target, "#")
	if isConst {
		return c.parseConstAssign(tok, target, width, fromStack, toStack)
	}
	return c.parseVarAssign(tok, target, width, fromStack, toStack)
}

func (c *compiler) parseConstAssign(tok token.Token, target string, width int, fromStack, toStack bool) (ir.Node, error) {
	if fromStack {
		return nil, c.errAt(diag.KindConstantToSelf, tok, "a constant cannot be assigned from the stack")
	}
	if !toStack {
		return nil, c.errAt(diag.KindConstantNotPushed, tok, "a constant must be pushed to the stack")
	}

	digits, radixByte := target, byte('d')
	if idx := strings.IndexByte(target, '#'); idx >= 0 {
		digits = target[:idx]
		radixSuffix := target[idx+1:]
		if len(radixSuffix) != 1 {
			return nil, c.errAt(diag.KindBadRadix, tok, "invalid radix")
		}
		radixByte = radixSuffix[0]
	}
	base, ok := radixBase(radixByte)
	if !ok {
		return nil, c.errAt(diag.KindBadRadix, tok, "invalid radix")
	}

	bits, err := constantBits(digits, base, width)
	if err != nil {
		return nil, c.errAt(err.kind, tok, err.msg)
	}

	c.stackLen += width
	return &ir.Assign{Tok: tok, Const: bits, Width: width, ToStack: true}, nil
}

func radixBase(b byte) (int, bool) {
	switch b {
	case 'd':
		return 10, true
	case 'h':
		return 16, true
	case 'b':
		return 2, true
	}
	return 0, false
}

func (c *compiler) parseVarAssign(tok token.Token, name string, width int, fromStack, toStack bool) (ir.Node, error) {
	v, ok := c.lookupVar(name)
	if !ok {
		return nil, c.errAt(diag.KindUndefinedVariable, tok, "undefined variable "+name)
	}
	if v.Size != width {
		return nil, c.errAt(diag.KindVarSizeMismatch, tok, "variable "+name+" has size "+
			strconv.Itoa(v.Size)+", assign uses width "+strconv.Itoa(width))
	}

	if fromStack {
		c.stackLen -= width
		if c.stackLen < 0 {
			return nil, c.errAt(diag.KindStackUnderflow, tok, "assign to "+name+" underflows the stack")
		}
	}
	if toStack {
		v.Used = true
		c.stackLen += width
	}

	return &ir.Assign{Tok: tok, Var: v, Width: width, FromStack: fromStack, ToStack: toStack}, nil
}
