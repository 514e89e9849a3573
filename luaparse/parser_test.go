package luaparse

import (
	"testing"

	"github.com/lua-tools/luasema/luaast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *luaast.Chunk {
	t.Helper()
	chunk, err := Parse([]byte(src))
	require.NoError(t, err)
	return chunk
}

func TestParse_LocalStatement(t *testing.T) {
	chunk := parse(t, `local a, b = 1, 2`)
	require.Len(t, chunk.Body, 1)
	stmt, ok := chunk.Body[0].(*luaast.LocalStatement)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, names(stmt.Variables))
	assert.Len(t, stmt.Init, 2)
}

func TestParse_LocalFunctionDesugarsToLocalStatement(t *testing.T) {
	chunk := parse(t, `local function f(x) return x end`)
	require.Len(t, chunk.Body, 1)
	stmt, ok := chunk.Body[0].(*luaast.LocalStatement)
	require.True(t, ok)
	require.Len(t, stmt.Init, 1)
	fn, ok := stmt.Init[0].(*luaast.FunctionDeclaration)
	require.True(t, ok)
	assert.True(t, fn.IsLocal)
	assert.Len(t, fn.Parameters, 1)
}

func TestParse_FunctionStatementDottedAndMethod(t *testing.T) {
	chunk := parse(t, `function A.B:m(x) end`)
	require.Len(t, chunk.Body, 1)
	fn, ok := chunk.Body[0].(*luaast.FunctionDeclaration)
	require.True(t, ok)
	assert.True(t, fn.IsMethod)
	me, ok := fn.Identifier.(*luaast.MemberExpression)
	require.True(t, ok)
	assert.Equal(t, ":", me.Indexer)
	assert.Equal(t, "m", me.Identifier.Name)
	inner, ok := me.Base.(*luaast.MemberExpression)
	require.True(t, ok)
	assert.Equal(t, ".", inner.Indexer)
	assert.Equal(t, "B", inner.Identifier.Name)
	// self is never materialized by the parser; it's the analyzer's job.
	assert.Len(t, fn.Parameters, 1)
	assert.Equal(t, "x", fn.Parameters[0].Name)
}

func TestParse_AssignmentStatement(t *testing.T) {
	chunk := parse(t, `a.b, c = 1, 2, 3`)
	require.Len(t, chunk.Body, 1)
	stmt, ok := chunk.Body[0].(*luaast.AssignmentStatement)
	require.True(t, ok)
	require.Len(t, stmt.Variables, 2)
	require.Len(t, stmt.Init, 3)
	_, ok = stmt.Variables[0].(*luaast.MemberExpression)
	assert.True(t, ok)
}

func TestParse_CallStatement(t *testing.T) {
	chunk := parse(t, `print("hi")`)
	require.Len(t, chunk.Body, 1)
	stmt, ok := chunk.Body[0].(*luaast.CallStatement)
	require.True(t, ok)
	_, ok = stmt.Expression.(*luaast.CallExpression)
	assert.True(t, ok)
}

func TestParse_StringCallAndTableCallSugar(t *testing.T) {
	chunk := parse(t, `require "socket.core"
local t = setmetatable{}`)
	require.Len(t, chunk.Body, 2)

	cs, ok := chunk.Body[0].(*luaast.CallStatement)
	require.True(t, ok)
	sc, ok := cs.Expression.(*luaast.StringCallExpression)
	require.True(t, ok)
	assert.Equal(t, "socket.core", sc.Argument.Value)

	ls, ok := chunk.Body[1].(*luaast.LocalStatement)
	require.True(t, ok)
	require.Len(t, ls.Init, 1)
	_, ok = ls.Init[0].(*luaast.TableCallExpression)
	assert.True(t, ok)
}

func TestParse_TableConstructorFieldKinds(t *testing.T) {
	chunk := parse(t, `local t = { 1, name = "x", [1+1] = "y" }`)
	ls := chunk.Body[0].(*luaast.LocalStatement)
	tc := ls.Init[0].(*luaast.TableConstructorExpression)
	require.Len(t, tc.Fields, 3)
	_, ok := tc.Fields[0].(*luaast.TableValue)
	assert.True(t, ok)
	ks, ok := tc.Fields[1].(*luaast.TableKeyString)
	require.True(t, ok)
	assert.Equal(t, "name", ks.KeyIdent.Name)
	_, ok = tc.Fields[2].(*luaast.TableKey)
	assert.True(t, ok)
}

func TestParse_ForNumericAndGeneric(t *testing.T) {
	chunk := parse(t, `for i = 1, 10 do end
for k, v in pairs(t) do end`)
	require.Len(t, chunk.Body, 2)
	_, ok := chunk.Body[0].(*luaast.ForNumericStatement)
	assert.True(t, ok)
	gen, ok := chunk.Body[1].(*luaast.ForGenericStatement)
	require.True(t, ok)
	assert.Equal(t, []string{"k", "v"}, names(gen.Variables))
}

func TestParse_ReturnMustBeLastInBlock(t *testing.T) {
	chunk := parse(t, `do return 1, 2 end`)
	do := chunk.Body[0].(*luaast.DoStatement)
	require.Len(t, do.Body, 1)
	ret, ok := do.Body[0].(*luaast.ReturnStatement)
	require.True(t, ok)
	assert.Len(t, ret.Arguments, 2)
}

func TestParse_OperatorPrecedence(t *testing.T) {
	chunk := parse(t, `local x = 1 + 2 * 3`)
	ls := chunk.Body[0].(*luaast.LocalStatement)
	bin := ls.Init[0].(*luaast.BinaryExpression)
	assert.Equal(t, "+", bin.Operator)
	_, ok := bin.Right.(*luaast.BinaryExpression)
	assert.True(t, ok, "* should bind tighter than + so it nests on the right")
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse([]byte(`local = `))
	require.Error(t, err)
}

func names(idents []*luaast.Identifier) []string {
	out := make([]string, len(idents))
	for i, id := range idents {
		out[i] = id.Name
	}
	return out
}
