package analyzer

import (
	"github.com/lua-tools/luasema/luaast"
	"github.com/lua-tools/luasema/pos"
)

// initStatement implements spec.md §4.4.1's InitStatement: given a
// (possibly nil) initializer node, it computes a Symbol for name and
// hands it to continuation, which decides where the symbol actually
// lives — pushed on the current scope frame, set on a table, or
// registered as a global. Passing a nil continuation is valid when the
// caller only wants the computed symbol (e.g. to read its Type).
func (a *walker) initStatement(init luaast.Node, tupleIndex int, name string, location pos.Range, isLocal bool, continuation func(*Symbol)) *Symbol {
	switch n := init.(type) {
	case nil:
		sym := a.newVarSymbol(name, location, location, isLocal, Any)
		if continuation != nil {
			continuation(sym)
		}
		return sym

	case *luaast.FunctionDeclaration:
		// inherit the LHS name and extend the range/scope start leftward
		// to the LHS location (spec.md §4.4.2 step 1).
		return a.analyzeFunctionDecl(n, func(fsym *Symbol) {
			fsym.Name = name
			fsym.IsLocal = isLocal
			fsym.Location = location
			fsym.Range = extendRange(location, n)
			if continuation != nil {
				continuation(fsym)
			}
		})

	case *luaast.TableConstructorExpression:
		tt := a.buildTableType(n)
		sym := a.newVarSymbol(name, location, extendRange(location, n), isLocal, tt)
		sym.Kind = KindTable
		if continuation != nil {
			continuation(sym)
		}
		return sym

	case *luaast.CallExpression:
		if callee, ok := calleeName(n.Base); ok && callee == "setmetatable" {
			sym := a.setmetatableInit(n, name, location, isLocal)
			if continuation != nil {
				continuation(sym)
			}
			return sym
		}
		sym := a.initStatementFromCall(n, tupleIndex, name, location, isLocal)
		if continuation != nil {
			continuation(sym)
		}
		return sym

	case *luaast.Identifier:
		var sym *Symbol
		if n.Name == name {
			// identity shortcut: "local x = x"
			var typ Type
			if existing := a.scope.Lookup(name, location.Lo); existing != nil {
				typ = existing.Type
			} else {
				typ = a.cfg.TypeQuery(name)
			}
			sym = a.newVarSymbol(name, location, extendRange(location, n), isLocal, typ)
		} else {
			a.walkNode(n)
			sym = a.newVarSymbol(name, location, extendRange(location, n), isLocal, NewLazyType(a.mod, n, name, tupleIndex))
		}
		if continuation != nil {
			continuation(sym)
		}
		return sym

	default:
		a.walkNode(init)
		sym := a.newVarSymbol(name, location, extendRange(location, init), isLocal, NewLazyType(a.mod, init, name, tupleIndex))
		if continuation != nil {
			continuation(sym)
		}
		return sym
	}
}

// extendRange returns the range from location's start to node's end, so
// that a symbol's Range always contains its Location even when the
// initializer node begins after the declaring identifier.
func extendRange(location pos.Range, node luaast.Node) pos.Range {
	if node == nil {
		return location
	}
	return pos.RangeOf(location, node.Range())
}

// newVarSymbol builds a variable symbol with Scope defaulting to the
// whole document: the right default for a global or table-field
// symbol. A caller that places the symbol into a lexical block (e.g.
// Frame.Push) tightens Scope to that block afterward.
func (a *walker) newVarSymbol(name string, location, rng pos.Range, isLocal bool, typ Type) *Symbol {
	return &Symbol{
		Name:     name,
		Location: location,
		Range:    rng,
		Scope:    a.docRange,
		IsLocal:  isLocal,
		URI:      a.uri,
		Kind:     KindVariable,
		Type:     typ,
		State:    a.state,
	}
}

// buildTableType constructs a TableType from a table constructor's
// string-keyed fields; computed keys and positional values are walked
// for side effects but contribute no field (spec.md §9 Non-goals:
// evaluation of computed keys).
func (a *walker) buildTableType(tc *luaast.TableConstructorExpression) *TableType {
	tt := NewTableType()
	for _, f := range tc.Fields {
		switch field := f.(type) {
		case *luaast.TableKeyString:
			sym := a.initStatement(field.Value, 0, field.KeyIdent.Name, field.KeyIdent.Range(), false, nil)
			sym.Kind = KindProperty
			tt.Set(field.KeyIdent.Name, sym, false)
		case *luaast.TableKey:
			a.walkNode(field.Value)
		case *luaast.TableValue:
			a.walkNode(field.Value)
		}
	}
	return tt
}

// analyzeLocalStatement implements LocalStatement per spec.md §4.4.1:
// each binding is pushed onto the current scope frame and added as a
// child of the current function (or the module, at the top level).
// Trailing variables beyond len(Init) reuse the last RHS expression's
// tuple, at the appropriate offset, without re-walking it.
func (a *walker) analyzeLocalStatement(node *luaast.LocalStatement) {
	var prevNode luaast.Node
	prevIdx := -1

	place := func(sym *Symbol) {
		if sym.Name == "_" {
			return
		}
		a.frame.Push(sym)
		a.owner().AddChild(sym)
	}

	for i, v := range node.Variables {
		name := v.Name
		switch {
		case i < len(node.Init):
			initNode := node.Init[i]
			prevNode, prevIdx = initNode, i
			a.initStatement(initNode, 0, name, v.Range(), true, place)
		case prevNode != nil:
			place(a.newVarSymbol(name, v.Range(), v.Range(), true, NewLazyType(a.mod, prevNode, name, i-prevIdx)))
		default:
			place(a.newVarSymbol(name, v.Range(), v.Range(), true, Any))
		}
	}
}

// analyzeAssignmentStatement implements AssignmentStatement per
// spec.md §4.4.1.
func (a *walker) analyzeAssignmentStatement(node *luaast.AssignmentStatement) {
	var prevNode luaast.Node
	prevIdx := -1

	for i, lhs := range node.Variables {
		switch {
		case i < len(node.Init):
			initNode := node.Init[i]
			prevNode, prevIdx = initNode, i
			a.analyzeAssignTarget(lhs, initNode, 0)
		case prevNode != nil:
			a.analyzeAssignTarget(lhs, prevNode, i-prevIdx)
		default:
			a.analyzeAssignTarget(lhs, nil, 0)
		}
	}
}

func (a *walker) analyzeAssignTarget(lhs luaast.Node, init luaast.Node, tupleIndex int) {
	if base, name, ok := memberTarget(lhs); ok {
		a.assignMember(base, name, lhs.Range(), init, tupleIndex)
		return
	}
	if id, ok := lhs.(*luaast.Identifier); ok {
		a.assignIdentifier(id, init, tupleIndex)
		return
	}
	if idx, ok := lhs.(*luaast.IndexExpression); ok {
		// a genuinely computed key; out of scope (spec.md §1 Non-goals)
		a.walkNode(idx.Base)
		a.walkNode(idx.Index)
	}
	if init != nil {
		a.walkNode(init)
	}
}

// memberTarget recognizes an assignment LHS of the form base.name or
// base["name"] — Lua's dotted and bracket-string member forms are
// equivalent for the analyzer's purposes.
func memberTarget(lhs luaast.Node) (base luaast.Node, name string, ok bool) {
	switch t := lhs.(type) {
	case *luaast.MemberExpression:
		return t.Base, t.Identifier.Name, true
	case *luaast.IndexExpression:
		if lit, isStr := t.Index.(*luaast.StringLiteral); isStr {
			return t.Base, lit.Value, true
		}
	}
	return nil, "", false
}

func (a *walker) assignMember(baseNode luaast.Node, name string, loc pos.Range, init luaast.Node, tupleIndex int) {
	base := a.resolveDottedBase(baseNode)
	if base == nil {
		if init != nil {
			a.walkNode(init)
		}
		return
	}
	tt, ok := asTableType(base.Type)
	if !ok {
		tt = NewTableType()
		base.Type = tt
		base.Kind = KindTable
	}
	a.initStatement(init, tupleIndex, name, loc, false, func(sym *Symbol) {
		sym.Kind = KindProperty
		tt.Set(name, sym, true)
	})
}

func (a *walker) assignIdentifier(id *luaast.Identifier, init luaast.Node, tupleIndex int) {
	name := id.Name
	if name == "_" {
		if init != nil {
			a.walkNode(init)
		}
		return
	}

	if existing := a.scope.Lookup(name, id.Range().Lo); existing != nil {
		if !isAnyType(existing.Type) {
			// preserve: still walk the RHS for its side effects
			if init != nil {
				a.walkNode(init)
			}
			return
		}
		a.initStatement(init, tupleIndex, name, id.Range(), true, func(sym *Symbol) {
			existing.Type = sym.Type
		})
		return
	}

	a.initStatement(init, tupleIndex, name, id.Range(), false, func(sym *Symbol) {
		if a.mod.ModuleMode {
			a.mod.Set(name, sym, false)
		} else {
			a.cfg.Global.Set(name, sym)
			a.mod.Menv.Globals[name] = sym
		}
		a.owner().AddChild(sym)
	})
}

// resolveDottedBase walks a dotted/bracket-string identifier chain
// (A, A.B, A.B.C, ...) starting from the module's name resolution
// order (scope stack, module fields, _G). It aborts silently — per
// spec.md §4.4.1 — as soon as a segment does not resolve to a table.
func (a *walker) resolveDottedBase(node luaast.Node) *Symbol {
	switch n := node.(type) {
	case *luaast.Identifier:
		return a.mod.Search(n.Name, n.Range().Lo)
	case *luaast.MemberExpression:
		base := a.resolveDottedBase(n.Base)
		if base == nil {
			return nil
		}
		tt, ok := asTableType(base.Type)
		if !ok {
			return nil
		}
		return tt.Get(n.Identifier.Name)
	case *luaast.IndexExpression:
		lit, ok := n.Index.(*luaast.StringLiteral)
		if !ok {
			return nil
		}
		base := a.resolveDottedBase(n.Base)
		if base == nil {
			return nil
		}
		tt, ok := asTableType(base.Type)
		if !ok {
			return nil
		}
		return tt.Get(lit.Value)
	default:
		return nil
	}
}
