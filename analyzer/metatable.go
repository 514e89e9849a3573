package analyzer

import (
	"github.com/lua-tools/luasema/luaast"
	"github.com/lua-tools/luasema/pos"
)

// setmetatableStandalone implements the standalone calling context of
// spec.md §4.4.5: setmetatable(T, M) used as a bare statement. T is
// resolved by name via the module's search order; M attaches as a
// synthetic __metatable symbol.
func (a *walker) setmetatableStandalone(args []luaast.Node) {
	if len(args) < 2 {
		for _, arg := range args {
			a.walkNode(arg)
		}
		return
	}

	if tc, ok := args[0].(*luaast.TableConstructorExpression); ok {
		tt := a.buildTableType(tc)
		anon := &Symbol{
			Name: a.synthName(), Location: tc.Range(), Range: tc.Range(), Scope: a.docRange,
			URI: a.uri, Kind: KindTable, Type: tt, State: a.state,
		}
		a.attachMetatable(anon, args[1])
		return
	}

	target, ok := args[0].(*luaast.Identifier)
	if !ok {
		a.walkNode(args[0])
		a.walkNode(args[1])
		return
	}
	tsym := a.mod.Search(target.Name, target.Range().Lo)
	if tsym == nil {
		a.walkNode(args[1])
		return
	}
	a.attachMetatable(tsym, args[1])
}

// setmetatableInit implements setmetatable as an init RHS (spec.md
// §4.4.5b): local x = setmetatable(T, M). It produces a symbol named
// after the LHS whose type is T's type, reusing T's symbol directly
// when the LHS name equals T's name. The inline form
// setmetatable({...}, M) builds the table from the constructor first.
func (a *walker) setmetatableInit(call *luaast.CallExpression, name string, location pos.Range, isLocal bool) *Symbol {
	if len(call.Arguments) < 2 {
		a.walkCallArgs(call)
		return a.newVarSymbol(name, location, extendRange(location, call), isLocal, Any)
	}

	switch target := call.Arguments[0].(type) {
	case *luaast.TableConstructorExpression:
		tt := a.buildTableType(target)
		sym := a.newVarSymbol(name, location, extendRange(location, call), isLocal, tt)
		sym.Kind = KindTable
		a.attachMetatable(sym, call.Arguments[1])
		return sym

	case *luaast.Identifier:
		tsym := a.mod.Search(target.Name, target.Range().Lo)
		var sym *Symbol
		if tsym != nil && tsym.Name == name {
			sym = tsym
		} else {
			typ := Type(Any)
			if tsym != nil {
				typ = tsym.Type
			}
			sym = a.newVarSymbol(name, location, extendRange(location, call), isLocal, typ)
			sym.Kind = KindTable
		}
		if tsym != nil {
			a.attachMetatable(tsym, call.Arguments[1])
		} else {
			a.attachMetatable(sym, call.Arguments[1])
		}
		return sym

	default:
		a.walkNode(target)
		return a.newVarSymbol(name, location, extendRange(location, call), isLocal, Any)
	}
}

// attachMetatable sets tsym's type's metatable to a synthetic
// __metatable symbol built from metaExpr: a table constructor builds a
// concrete TableType, anything else becomes a LazyType over the
// expression.
func (a *walker) attachMetatable(tsym *Symbol, metaExpr luaast.Node) {
	tt, ok := asTableType(tsym.Type)
	if !ok {
		tt = NewTableType()
		tsym.Type = tt
		tsym.Kind = KindTable
	}

	var metaType Type
	if tc, ok := metaExpr.(*luaast.TableConstructorExpression); ok {
		metaType = a.buildTableType(tc)
	} else {
		a.walkNode(metaExpr)
		metaType = NewLazyType(a.mod, metaExpr, "__metatable", 0)
	}

	metaSym := &Symbol{
		Name:     "__metatable",
		Location: metaExpr.Range(),
		Range:    metaExpr.Range(),
		Scope:    a.docRange,
		URI:      a.uri,
		Kind:     KindTable,
		Type:     metaType,
		State:    a.state,
	}
	tt.SetMetatable(metaSym)
}
