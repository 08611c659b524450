package compiler

import "github.com/boolstack/boolstack/lang/ir"

// scope is one lexical layer of variable visibility, chained to its
// enclosing block's scope (spec §9 Design Notes: "a persistent chain of
// mappings" rather than deep-copying snapshots). Uniqueness of variable
// names across the whole function is enforced separately against
// compiler.fn.Vars; scope only governs what's currently visible.
type scope struct {
	parent *scope
	names  map[string]*ir.Variable
}

func (c *compiler) pushScope() {
	c.scope = &scope{parent: c.scope, names: map[string]*ir.Variable{}}
}

func (c *compiler) popScope() {
	c.scope = c.scope.parent
}

// lookupVar searches the current scope chain for name, innermost first.
func (c *compiler) lookupVar(name string) (*ir.Variable, bool) {
	for s := c.scope; s != nil; s = s.parent {
		if v, ok := s.names[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// declareVar records a new variable visible in the current (innermost)
// scope layer.
func (c *compiler) declareVar(v *ir.Variable) {
	c.scope.names[v.Name] = v
}
