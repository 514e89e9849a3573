// Package analyzer is the semantic analyzer for a single Lua source
// document. Given a parsed syntax tree (see luaast) and a document
// identifier, it builds a hierarchical symbol model: declarations,
// their inferred types, their lexical scopes, and the cross-document
// dependencies ("require") the file introduces.
//
// The analyzer is a single-pass syntactic walk. It never forces a
// LazyType and never returns an error for semantically incoherent
// input — unresolved or ill-typed code degrades to Any, not a
// diagnostic. Parsing is a separate concern (see luaparse): Analyze
// walks only luaast nodes, and AnalyzeSource is the one place this
// package calls the parser.
package analyzer

import "github.com/lua-tools/luasema/pos"

// Kind classifies what a Symbol names.
type Kind int

const (
	KindModule Kind = iota
	KindClass
	KindTable
	KindFunction
	KindParameter
	KindVariable
	KindProperty
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindClass:
		return "class"
	case KindTable:
		return "table"
	case KindFunction:
		return "function"
	case KindParameter:
		return "parameter"
	case KindVariable:
		return "variable"
	case KindProperty:
		return "property"
	default:
		return "unknown"
	}
}

// State is a mutable validity flag shared by reference among every
// symbol produced by one analysis pass. Re-analyzing a document flips
// the old pass's State to invalid in a single write; consumers treat
// symbols whose State.Valid is false as stale.
type State struct {
	Valid bool
}

// Symbol is a named declaration: a local or global variable, a
// function, a table, a module, a parameter, or a property of a table.
//
// Invariant: Location is contained in Range, which is contained in
// Scope.
type Symbol struct {
	Name     string
	Location pos.Range // the defining identifier token
	Range    pos.Range // the definition expression (function body span, for functions)
	Scope    pos.Range // the range over which the symbol is name-resolvable
	IsLocal  bool
	URI      string
	Kind     Kind
	Type     Type
	State    *State
	Children []*Symbol
}

// AddChild appends a child symbol, preserving declaration order for
// outline consumers.
func (s *Symbol) AddChild(child *Symbol) {
	s.Children = append(s.Children, child)
}
