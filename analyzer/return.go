package analyzer

import (
	"fmt"

	"github.com/lua-tools/luasema/luaast"
)

// analyzeReturnStatement implements spec.md §4.4.4: each return
// argument is bound via InitStatement to a synthesized name "R{i}" and
// recorded in the enclosing function's (or, at the top level, the
// module's) return slot. The last argument, if a call expression,
// additionally feeds FunctionType.TailCall so multi-return chaining
// survives across functions.
func (a *walker) analyzeReturnStatement(node *luaast.ReturnStatement) {
	fn := a.currentFunc()
	var ft *FunctionType
	if fn != nil {
		ft, _ = fn.Type.(*FunctionType)
	}

	for i, arg := range node.Arguments {
		name := fmt.Sprintf("R%d", i)
		loc := node.Range()
		if arg != nil {
			loc = arg.Range()
		}
		sym := a.initStatement(arg, 0, name, loc, false, nil)

		if i == len(node.Arguments)-1 && ft != nil {
			if call, ok := arg.(*luaast.CallExpression); ok {
				ft.TailCall = NewLazyType(a.mod, call, name, 0)
			}
		}

		if ft != nil {
			ft.Return(i, sym)
		} else {
			a.mod.Return = sym
		}
	}
}
