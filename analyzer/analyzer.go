package analyzer

import (
	"fmt"

	"github.com/lua-tools/luasema/luaast"
	"github.com/lua-tools/luasema/pos"
)

// walker is the internal state for a single analysis pass: the module
// being built, the live scope stack and its currently open frame, the
// function-context stack, and the shared collaborators from Config.
type walker struct {
	cfg      *Config
	mod      *ModuleType
	modSym   *Symbol
	scope    *Stack
	frame    *Frame
	funcs    []*Symbol
	uri      string
	state    *State
	synth    int
	docRange pos.Range // the whole document; the default Scope for non-local symbols
}

// currentFunc returns the innermost enclosing function's symbol, or
// nil at the top level of the module.
func (a *walker) currentFunc() *Symbol {
	if len(a.funcs) == 0 {
		return nil
	}
	return a.funcs[len(a.funcs)-1]
}

// owner is the symbol new declarations are added to as children: the
// current function if one is open, otherwise the module itself.
func (a *walker) owner() *Symbol {
	if fn := a.currentFunc(); fn != nil {
		return fn
	}
	return a.modSym
}

func (a *walker) synthName() string {
	a.synth++
	return fmt.Sprintf("<anonymous-%d>", a.synth)
}

// walkNode dispatches on concrete node kind. Unrecognized kinds are a
// no-op: the analyzer is total and never fails on syntactically valid
// input (spec.md §7).
func (a *walker) walkNode(node luaast.Node) {
	if node == nil {
		return
	}
	switch n := node.(type) {
	case *luaast.Chunk:
		for _, stmt := range n.Body {
			a.walkNode(stmt)
		}
	case *luaast.LocalStatement:
		a.analyzeLocalStatement(n)
	case *luaast.AssignmentStatement:
		a.analyzeAssignmentStatement(n)
	case *luaast.FunctionDeclaration:
		a.analyzeFunctionDecl(n, nil)
	case *luaast.CallStatement:
		a.walkNode(n.Expression)
	case *luaast.CallExpression:
		a.analyzeCallExpression(n)
	case *luaast.StringCallExpression:
		a.analyzeStringCallExpression(n)
	case *luaast.TableCallExpression:
		var args []luaast.Node
		if n.Argument != nil {
			args = []luaast.Node{n.Argument}
		}
		if a.dispatchCallSugar(n.Base, args, n) {
			return
		}
		a.walkNode(n.Base)
		a.walkNode(n.Argument)
	case *luaast.IfStatement:
		for _, clause := range n.Clauses {
			a.walkNode(clause)
		}
	case *luaast.IfClause:
		a.walkNode(n.Condition)
		a.withScope(n.Range(), n.Body)
	case *luaast.ElseifClause:
		a.walkNode(n.Condition)
		a.withScope(n.Range(), n.Body)
	case *luaast.ElseClause:
		a.withScope(n.Range(), n.Body)
	case *luaast.WhileStatement:
		a.walkNode(n.Condition)
		a.withScope(n.Range(), n.Body)
	case *luaast.RepeatStatement:
		// the until-condition sees body locals, so it is walked after
		// the body with the frame already closed: position-filtered
		// lookup still resolves it correctly since the condition's
		// offset falls within the statement's range.
		a.withScope(n.Range(), n.Body)
		a.walkNode(n.Condition)
	case *luaast.DoStatement:
		a.withScope(n.Range(), n.Body)
	case *luaast.ForNumericStatement:
		a.analyzeForNumeric(n)
	case *luaast.ForGenericStatement:
		a.analyzeForGeneric(n)
	case *luaast.ReturnStatement:
		a.analyzeReturnStatement(n)
	case *luaast.BreakStatement:
		// no symbol-model effect
	case *luaast.MemberExpression:
		a.walkNode(n.Base)
	case *luaast.IndexExpression:
		a.walkNode(n.Base)
		a.walkNode(n.Index)
	case *luaast.BinaryExpression:
		a.walkNode(n.Left)
		a.walkNode(n.Right)
	case *luaast.LogicalExpression:
		a.walkNode(n.Left)
		a.walkNode(n.Right)
	case *luaast.UnaryExpression:
		a.walkNode(n.Argument)
	case *luaast.TableConstructorExpression:
		a.buildTableType(n) // a value-position literal with no binding; discard
	default:
		// Identifier references and literals carry no symbol-model
		// effect of their own; resolution happens wherever the
		// reference is bound (init, assignment, call).
	}
}

// withScope opens a frame spanning blockRange, walks body under it,
// then closes the frame.
func (a *walker) withScope(blockRange pos.Range, body []luaast.Node) {
	frame := a.scope.Enter(blockRange)
	prev := a.frame
	a.frame = frame
	for _, stmt := range body {
		a.walkNode(stmt)
	}
	frame.Exit(blockRange)
	a.frame = prev
}

func (a *walker) analyzeForNumeric(n *luaast.ForNumericStatement) {
	a.walkNode(n.Start)
	a.walkNode(n.End)
	a.walkNode(n.Step)

	frame := a.scope.Enter(n.Range())
	prev := a.frame
	a.frame = frame

	frame.Push(&Symbol{
		Name:     n.Variable.Name,
		Location: n.Variable.Range(),
		Range:    n.Variable.Range(),
		IsLocal:  true,
		URI:      a.uri,
		Kind:     KindVariable,
		Type:     Number,
		State:    a.state,
	})

	for _, stmt := range n.Body {
		a.walkNode(stmt)
	}

	frame.Exit(n.Range())
	a.frame = prev
}

func (a *walker) analyzeForGeneric(n *luaast.ForGenericStatement) {
	for _, it := range n.Iterators {
		a.walkNode(it)
	}

	frame := a.scope.Enter(n.Range())
	prev := a.frame
	a.frame = frame

	var firstIter luaast.Node
	if len(n.Iterators) > 0 {
		firstIter = n.Iterators[0]
	}
	for i, v := range n.Variables {
		frame.Push(&Symbol{
			Name:     v.Name,
			Location: v.Range(),
			Range:    v.Range(),
			IsLocal:  true,
			URI:      a.uri,
			Kind:     KindVariable,
			Type:     NewLazyType(a.mod, firstIter, v.Name, i),
			State:    a.state,
		})
	}

	for _, stmt := range n.Body {
		a.walkNode(stmt)
	}

	frame.Exit(n.Range())
	a.frame = prev
}
