package analyzer

import (
	"regexp"

	"github.com/lua-tools/luasema/luaast"
	"github.com/lua-tools/luasema/pos"
)

// requireNameRe extracts the trailing module component from a require
// path literal, e.g. "socket.core" -> "core".
var requireNameRe = regexp.MustCompile(`\w+(-\w+)*$`)

// analyzeCallExpression dispatches a call appearing in statement
// position (spec.md §4.4.3): module, require, pcall("require", ...),
// and setmetatable are intercepted; everything else is a generic walk
// of the callee and its arguments.
func (a *walker) analyzeCallExpression(call *luaast.CallExpression) {
	if a.dispatchCallSugar(call.Base, call.Arguments, call) {
		return
	}
	a.walkCallArgs(call)
}

// analyzeStringCallExpression handles Lua's f "literal" sugar
// (spec.md §4.4.3: "string-call expressions ... dispatch the same
// way"), so require "socket.core" is recognized exactly like
// require("socket.core").
func (a *walker) analyzeStringCallExpression(call *luaast.StringCallExpression) {
	var args []luaast.Node
	if call.Argument != nil {
		args = []luaast.Node{call.Argument}
	}
	if a.dispatchCallSugar(call.Base, args, call) {
		return
	}
	a.walkNode(call.Base)
	a.walkNode(call.Argument)
}

// dispatchCallSugar recognizes the builtins intercepted by §4.4.3
// regardless of whether the call used normal, string-sugar, or
// table-sugar syntax. It reports whether it handled the call.
func (a *walker) dispatchCallSugar(base luaast.Node, args []luaast.Node, node luaast.Node) bool {
	name, ok := calleeName(base)
	if !ok {
		return false
	}
	switch name {
	case "module":
		a.handleModuleCall(args)
		return true
	case "require":
		a.handleRequire(args, node)
		return true
	case "pcall":
		return a.handlePcallRequire(args, node)
	case "setmetatable":
		a.setmetatableStandalone(args)
		return true
	}
	return false
}

// calleeName extracts a bare global function name from a call base,
// e.g. the "require" in require("path"). Dotted/method bases (like
// string.format) never match, so library calls fall through to the
// generic walk.
func calleeName(base luaast.Node) (string, bool) {
	id, ok := base.(*luaast.Identifier)
	if !ok {
		return "", false
	}
	return id.Name, true
}

func (a *walker) walkCallArgs(call *luaast.CallExpression) {
	a.walkNode(call.Base)
	for _, arg := range call.Arguments {
		a.walkNode(arg)
	}
}

// handleModuleCall implements module("name"): it renames the module
// under analysis and flips it into module mode, so that subsequent
// top-level globals become module fields instead of _G entries.
func (a *walker) handleModuleCall(args []luaast.Node) {
	if len(args) == 0 {
		return
	}
	if lit, ok := args[0].(*luaast.StringLiteral); ok {
		a.mod.Name = lit.Value
	}
	a.mod.ModuleMode = true
}

// handleRequire implements require("path"): the trailing identifier is
// extracted and recorded as a lazy import. A non-literal path yields
// no import (spec.md §9 Open Question i) and handleRequire returns nil.
func (a *walker) handleRequire(args []luaast.Node, node luaast.Node) *Symbol {
	if len(args) == 0 {
		return nil
	}
	lit, ok := args[0].(*luaast.StringLiteral)
	if !ok {
		return nil
	}
	return a.importFromLiteral(lit, node)
}

// handlePcallRequire recognizes pcall("require", "path") — preserved
// as-is from the spelling it was grounded on (spec.md §9 Open Question
// i notes the intent behind stringifying the require callee is
// unclear). Returns true if it recognized and handled the call.
func (a *walker) handlePcallRequire(args []luaast.Node, node luaast.Node) bool {
	if len(args) < 2 {
		return false
	}
	lit0, ok := args[0].(*luaast.StringLiteral)
	if !ok || lit0.Value != "require" {
		return false
	}
	lit1, ok := args[1].(*luaast.StringLiteral)
	if !ok {
		return false
	}
	a.importFromLiteral(lit1, node)
	return true
}

func (a *walker) importFromLiteral(lit *luaast.StringLiteral, node luaast.Node) *Symbol {
	name := requireNameRe.FindString(lit.Value)
	if name == "" {
		name = lit.Value
	}
	sym := &Symbol{
		Name:     name,
		Location: lit.Range(),
		Range:    node.Range(),
		Scope:    a.docRange,
		URI:      a.uri,
		Kind:     KindModule,
		Type:     NewLazyType(a.mod, node, name, 0),
		State:    a.state,
	}
	a.mod.Import(sym)
	return sym
}

// initStatementFromCall is the generic CallExpression branch of
// InitStatement (spec.md §4.4.1): it recognizes require and
// pcall-require inline so that "local socket = require(...)" binds
// socket's type to the same lazy reference recorded as the import.
func (a *walker) initStatementFromCall(call *luaast.CallExpression, tupleIndex int, name string, location pos.Range, isLocal bool) *Symbol {
	if callee, ok := calleeName(call.Base); ok {
		switch callee {
		case "require":
			if imp := a.handleRequire(call.Arguments, call); imp != nil {
				return a.newVarSymbol(name, location, extendRange(location, call), isLocal, imp.Type)
			}
		case "pcall":
			if a.handlePcallRequire(call.Arguments, call) {
				return a.newVarSymbol(name, location, extendRange(location, call), isLocal, NewLazyType(a.mod, call, name, tupleIndex))
			}
		}
	}
	a.walkCallArgs(call)
	return a.newVarSymbol(name, location, extendRange(location, call), isLocal, NewLazyType(a.mod, call, name, tupleIndex))
}
