// Package luaast defines the Lua abstract syntax tree node shapes the
// semantic analyzer walks. These mirror the node kinds a JavaScript-era
// Lua parser (luaparse) produces: Chunk, LocalStatement,
// AssignmentStatement, FunctionDeclaration, and so on. The analyzer's
// walker depends only on this contract, so any collaborator that can
// produce these shapes can feed it; its AnalyzeSource convenience
// wrapper is the one place it calls a concrete parser (luaparse).
package luaast

import "github.com/lua-tools/luasema/pos"

// Node is satisfied by every AST node. Kind returns the node's tag
// (e.g. "LocalStatement") for debugging and display; the analyzer's
// dispatch switches on the concrete Go type, not on Kind.
type Node interface {
	Kind() string
	Range() pos.Range
}

type Span struct {
	Rng pos.Range
}

func (b Span) Range() pos.Range { return b.Rng }

// Chunk is the root of a parsed file.
type Chunk struct {
	Span
	Body []Node
}

func (*Chunk) Kind() string { return "Chunk" }

// Identifier is a bare name reference or binding site.
type Identifier struct {
	Span
	Name string
}

func (*Identifier) Kind() string { return "Identifier" }

// LocalStatement declares one or more local variables:
// local a, b, c = x, y, z
type LocalStatement struct {
	Span
	Variables []*Identifier
	Init      []Node // may be shorter than Variables
}

func (*LocalStatement) Kind() string { return "LocalStatement" }

// AssignmentStatement assigns to one or more existing variables or
// table members: a, b.c = x, y
type AssignmentStatement struct {
	Span
	Variables []Node // *Identifier, *MemberExpression, or *IndexExpression
	Init      []Node
}

func (*AssignmentStatement) Kind() string { return "AssignmentStatement" }

// FunctionDeclaration covers both "function name(...) end" and
// anonymous function expressions used as an init RHS. Identifier is
// nil for anonymous functions. IsMethod is true for "function
// a.b:m() end" syntax (colon indexer); the analyzer synthesizes the
// implicit self parameter, it is never present in Parameters.
type FunctionDeclaration struct {
	Span
	Identifier Node // *Identifier or *MemberExpression, nil if anonymous
	IsLocal    bool
	IsMethod   bool
	Parameters []*Identifier
	HasVararg  bool
	Body       []Node
}

func (*FunctionDeclaration) Kind() string { return "FunctionDeclaration" }

// CallStatement wraps a call expression used as a standalone statement.
type CallStatement struct {
	Span
	Expression Node
}

func (*CallStatement) Kind() string { return "CallStatement" }

// CallExpression is a normal f(...) call.
type CallExpression struct {
	Span
	Base      Node
	Arguments []Node
}

func (*CallExpression) Kind() string { return "CallExpression" }

// StringCallExpression is Lua's f "literal" sugar.
type StringCallExpression struct {
	Span
	Base     Node
	Argument *StringLiteral
}

func (*StringCallExpression) Kind() string { return "StringCallExpression" }

// TableCallExpression is Lua's f {...} sugar.
type TableCallExpression struct {
	Span
	Base     Node
	Argument *TableConstructorExpression
}

func (*TableCallExpression) Kind() string { return "TableCallExpression" }

// IfClause, ElseifClause, and ElseClause are the arms of an IfStatement.
// Condition is nil for ElseClause.
type IfClause struct {
	Span
	Condition Node
	Body      []Node
}

func (*IfClause) Kind() string { return "IfClause" }

type ElseifClause struct {
	Span
	Condition Node
	Body      []Node
}

func (*ElseifClause) Kind() string { return "ElseifClause" }

type ElseClause struct {
	Span
	Body []Node
}

func (*ElseClause) Kind() string { return "ElseClause" }

// IfStatement is an ordered sequence of IfClause, zero or more
// ElseifClause, and an optional ElseClause.
type IfStatement struct {
	Span
	Clauses []Node
}

func (*IfStatement) Kind() string { return "IfStatement" }

type WhileStatement struct {
	Span
	Condition Node
	Body      []Node
}

func (*WhileStatement) Kind() string { return "WhileStatement" }

type RepeatStatement struct {
	Span
	Condition Node
	Body      []Node
}

func (*RepeatStatement) Kind() string { return "RepeatStatement" }

type DoStatement struct {
	Span
	Body []Node
}

func (*DoStatement) Kind() string { return "DoStatement" }

// ForNumericStatement is "for i = start, end[, step] do ... end".
type ForNumericStatement struct {
	Span
	Variable *Identifier
	Start    Node
	End      Node
	Step     Node // nil if omitted
	Body     []Node
}

func (*ForNumericStatement) Kind() string { return "ForNumericStatement" }

// ForGenericStatement is "for a, b in iter do ... end".
type ForGenericStatement struct {
	Span
	Variables []*Identifier
	Iterators []Node
	Body      []Node
}

func (*ForGenericStatement) Kind() string { return "ForGenericStatement" }

type ReturnStatement struct {
	Span
	Arguments []Node
}

func (*ReturnStatement) Kind() string { return "ReturnStatement" }

// BreakStatement carries no symbol-model information; the analyzer
// recognizes it explicitly rather than leaving it to its catch-all
// default case.
type BreakStatement struct {
	Span
}

func (*BreakStatement) Kind() string { return "BreakStatement" }

// MemberExpression is base.name or base:name (Indexer is "." or ":").
type MemberExpression struct {
	Span
	Base       Node
	Indexer    string
	Identifier *Identifier
}

func (*MemberExpression) Kind() string { return "MemberExpression" }

// IndexExpression is base[index].
type IndexExpression struct {
	Span
	Base  Node
	Index Node
}

func (*IndexExpression) Kind() string { return "IndexExpression" }

// TableConstructorExpression is a {...} literal. Fields is a mix of
// TableKey (computed key), TableKeyString (string key), and TableValue
// (positional) entries.
type TableConstructorExpression struct {
	Span
	Fields []Node
}

func (*TableConstructorExpression) Kind() string { return "TableConstructorExpression" }

type TableKey struct {
	Span
	KeyNode Node
	Value   Node
}

func (*TableKey) Kind() string { return "TableKey" }

type TableKeyString struct {
	Span
	KeyIdent *Identifier
	Value    Node
}

func (*TableKeyString) Kind() string { return "TableKeyString" }

type TableValue struct {
	Span
	Value Node
}

func (*TableValue) Kind() string { return "TableValue" }

type BinaryExpression struct {
	Span
	Operator string
	Left     Node
	Right    Node
}

func (*BinaryExpression) Kind() string { return "BinaryExpression" }

// LogicalExpression is "and"/"or"; kept distinct from BinaryExpression
// because short-circuit operators never evaluate a numeric/string
// result type the way arithmetic/comparison operators do.
type LogicalExpression struct {
	Span
	Operator string
	Left     Node
	Right    Node
}

func (*LogicalExpression) Kind() string { return "LogicalExpression" }

type UnaryExpression struct {
	Span
	Operator string
	Argument Node
}

func (*UnaryExpression) Kind() string { return "UnaryExpression" }

type StringLiteral struct {
	Span
	Value string
	Raw   string
}

func (*StringLiteral) Kind() string { return "StringLiteral" }

type NumericLiteral struct {
	Span
	Value float64
}

func (*NumericLiteral) Kind() string { return "NumericLiteral" }

type BooleanLiteral struct {
	Span
	Value bool
}

func (*BooleanLiteral) Kind() string { return "BooleanLiteral" }

type NilLiteral struct {
	Span
}

func (*NilLiteral) Kind() string { return "NilLiteral" }

type VarargLiteral struct {
	Span
}

func (*VarargLiteral) Kind() string { return "VarargLiteral" }

// NewSpan is a helper for collaborators (parsers) constructing nodes.
func NewSpan(r pos.Range) Span { return Span{Rng: r} }
