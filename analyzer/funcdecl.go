package analyzer

import (
	"github.com/lua-tools/luasema/luaast"
	"github.com/lua-tools/luasema/pos"
)

// analyzeFunctionDecl implements spec.md §4.4.2. continuation is
// non-nil when the declaration is itself the RHS of an InitStatement
// ("local f = function() end" or "t.m = function() end"); in that case
// placement is entirely the continuation's job and the local/method/
// global placement branches below never run.
func (a *walker) analyzeFunctionDecl(node *luaast.FunctionDeclaration, continuation func(*Symbol)) *Symbol {
	name, location, isLocal := a.functionIdentity(node)
	if !isLocal && continuation == nil {
		// "local foo; function foo() end": a plain function statement
		// whose name resolves to a visible local assigns to that local.
		if _, plain := node.Identifier.(*luaast.Identifier); plain && a.scope.Lookup(name, location.Lo) != nil {
			isLocal = true
		}
	}

	ft := NewFunctionType()
	ft.Vararg = node.HasVararg
	fsym := &Symbol{
		Name:     name,
		Location: location,
		Range:    extendRange(location, node),
		Scope:    a.docRange,
		IsLocal:  isLocal,
		URI:      a.uri,
		Kind:     KindFunction,
		Type:     ft,
		State:    a.state,
	}

	var selfType Type

	switch {
	case continuation != nil:
		continuation(fsym)

	case isMemberIdentifier(node.Identifier):
		me := node.Identifier.(*luaast.MemberExpression)
		base := a.resolveDottedBase(me.Base)
		if base != nil {
			tt, ok := asTableType(base.Type)
			if !ok {
				tt = NewTableType()
				base.Type = tt
			}
			base.Kind = KindClass
			tt.Set(me.Identifier.Name, fsym, false)
			if me.Indexer == ":" {
				selfType = base.Type
			}
		}
		a.owner().AddChild(fsym)

	case isLocal:
		if existing := a.scope.Lookup(name, location.Lo); existing != nil {
			existing.Location = location
			existing.Range = extendRange(location, node)
			existing.Scope = pos.RangeOf(location, a.frame.Range)
			existing.Type = ft
			existing.Kind = KindFunction
			fsym = existing
		} else {
			a.frame.Push(fsym)
			a.owner().AddChild(fsym)
		}

	case node.Identifier == nil:
		// anonymous function used inline (e.g. a bare call argument);
		// nothing to place.

	default:
		if a.mod.ModuleMode {
			a.mod.Set(name, fsym, false)
		} else {
			a.cfg.Global.Set(name, fsym)
			a.mod.Menv.Globals[name] = fsym
		}
		a.owner().AddChild(fsym)
	}

	a.walkFunctionBody(node, fsym, ft, selfType)

	return fsym
}

// walkFunctionBody opens the function's scope, binds self (if
// synthesized) and the formal parameters, pushes the function stack,
// walks the body, and tears everything back down.
func (a *walker) walkFunctionBody(node *luaast.FunctionDeclaration, fsym *Symbol, ft *FunctionType, selfType Type) {
	bodyRange := node.Range()
	frame := a.scope.Enter(bodyRange)
	prevFrame := a.frame
	a.frame = frame

	paramOffset := 0
	if selfType != nil {
		selfSym := &Symbol{
			Name:     "self",
			Location: node.Range(),
			Range:    node.Range(),
			IsLocal:  true,
			URI:      a.uri,
			Kind:     KindParameter,
			Type:     selfType,
			State:    a.state,
		}
		frame.Push(selfSym)
		ft.Param(0, selfSym)
		paramOffset = 1
	}

	for i, p := range node.Parameters {
		psym := &Symbol{
			Name:     p.Name,
			Location: p.Range(),
			Range:    p.Range(),
			IsLocal:  true,
			URI:      a.uri,
			Kind:     KindParameter,
			Type:     Any,
			State:    a.state,
		}
		frame.Push(psym)
		ft.Param(i+paramOffset, psym)
	}

	a.funcs = append(a.funcs, fsym)
	for _, stmt := range node.Body {
		a.walkNode(stmt)
	}
	a.funcs = a.funcs[:len(a.funcs)-1]

	frame.Exit(bodyRange)
	a.frame = prevFrame
}

// functionIdentity derives the declared name, defining-identifier
// location, and locality of a function declaration from its
// (possibly nil, possibly dotted) Identifier.
func (a *walker) functionIdentity(node *luaast.FunctionDeclaration) (name string, location pos.Range, isLocal bool) {
	switch id := node.Identifier.(type) {
	case nil:
		return a.synthName(), node.Range(), node.IsLocal
	case *luaast.Identifier:
		return id.Name, id.Range(), node.IsLocal
	case *luaast.MemberExpression:
		return id.Identifier.Name, id.Identifier.Range(), false
	default:
		return a.synthName(), node.Range(), node.IsLocal
	}
}

func isMemberIdentifier(n luaast.Node) bool {
	_, ok := n.(*luaast.MemberExpression)
	return ok
}
