package analyzer

import (
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/lua-tools/luasema/luaast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseAndAnalyze runs a fresh, isolated analysis: a new Env so that
// builtins are the only pre-existing globals and tests never see
// state left behind by another test.
func parseAndAnalyze(t *testing.T, source string) *Symbol {
	t.Helper()
	cfg := &Config{Global: NewEnv(), TypeQuery: UnknownQuery}
	sym, err := AnalyzeSource(source, "test.lua", cfg)
	require.NoError(t, err)
	return sym
}

// --- Invariant 1: location ⊆ range ⊆ scope ---

func TestInvariant_RangesNest(t *testing.T) {
	mod := parseAndAnalyze(t, `
local a = 1
local t = {}
function t.m(x) return x end
for i = 1, 10 do local y = i end
`)
	var walk func(*Symbol)
	walk = func(sym *Symbol) {
		assert.True(t, sym.Range.ContainsRange(sym.Location), "symbol %q: range does not contain location", sym.Name)
		assert.True(t, sym.Scope.ContainsRange(sym.Range), "symbol %q: scope does not contain range", sym.Name)
		for _, c := range sym.Children {
			walk(c)
		}
	}
	walk(mod)
}

// --- Invariant 2: placeholder "_" never appears ---

func TestInvariant_PlaceholderNeverAppears(t *testing.T) {
	mod := parseAndAnalyze(t, `local _, x, _ = f(), 1, 2`)
	var names []string
	var collect func(*Symbol)
	collect = func(sym *Symbol) {
		names = append(names, sym.Name)
		for _, c := range sym.Children {
			collect(c)
		}
	}
	collect(mod)
	assert.NotContains(t, names, "_")
}

// --- Invariant 3: local-then-function-of-same-name retargeting ---

func TestInvariant_LocalFunctionRetarget(t *testing.T) {
	mod := parseAndAnalyze(t, `
local foo
function foo() end
`)
	var found []*Symbol
	for _, c := range mod.Children {
		if c.Name == "foo" {
			found = append(found, c)
		}
	}
	require.Len(t, found, 1, "exactly one symbol named foo should survive")
	assert.Equal(t, KindFunction, found[0].Kind)
}

// --- Invariant 4: method self synthesis ---

func TestInvariant_MethodSelfParameter(t *testing.T) {
	mod := parseAndAnalyze(t, `
local M = {}
function M:hello(name) return name end
`)
	mSym := findChild(mod, "M")
	require.NotNil(t, mSym)
	tt, ok := asTableType(mSym.Type)
	require.True(t, ok)
	hello := tt.Get("hello")
	require.NotNil(t, hello)
	ft, ok := hello.Type.(*FunctionType)
	require.True(t, ok)
	require.Len(t, ft.Params, 2)
	assert.Equal(t, "self", ft.Params[0].Name)
	assert.Same(t, mSym.Type, ft.Params[0].Type)
	assert.Equal(t, "name", ft.Params[1].Name)
}

// --- Invariant 5: module merge idempotency ---

type outline struct {
	Name     string
	Kind     Kind
	Children []outline
}

func snapshot(sym *Symbol) outline {
	o := outline{Name: sym.Name, Kind: sym.Kind}
	for _, c := range sym.Children {
		o.Children = append(o.Children, snapshot(c))
	}
	return o
}

func TestInvariant_MergeIdempotent(t *testing.T) {
	src := `
module("outline")
function bar(x) return x end
local T = {}
function T.m() end
`
	env := NewEnv()
	cfg := &Config{Global: env, TypeQuery: UnknownQuery}

	mod1, err := AnalyzeSource(src, "a.lua", cfg)
	require.NoError(t, err)
	mod2, err := AnalyzeSource(src, "a.lua", cfg)
	require.NoError(t, err)

	if diff := deep.Equal(snapshot(mod1), snapshot(mod2)); diff != nil {
		t.Errorf("re-analysis produced a different outline: %v", diff)
	}
}

func TestInvariant_ReanalysisInvalidatesStaleGlobalField(t *testing.T) {
	env := NewEnv()
	cfg := &Config{Global: env, TypeQuery: UnknownQuery}

	_, err := AnalyzeSource(`
module("widgets")
function bar(x) return x end
`, "widgets.lua", cfg)
	require.NoError(t, err)

	widgets := env.Get("widgets")
	require.NotNil(t, widgets)
	tt, ok := widgets.Type.(*ModuleType)
	require.True(t, ok)
	bar1 := tt.TableType.Get("bar")
	require.NotNil(t, bar1)

	// Edit the document: "bar" grows a second parameter. Re-analyzing
	// the same URI must invalidate the first pass's field so the
	// second pass's "bar" replaces it in _G, not coexist behind it.
	_, err = AnalyzeSource(`
module("widgets")
function bar(x, y) return x, y end
`, "widgets.lua", cfg)
	require.NoError(t, err)

	bar2 := tt.TableType.Get("bar")
	require.NotNil(t, bar2)
	assert.NotSame(t, bar1, bar2, "re-analysis should replace the stale field, not keep the first pass's symbol forever")
	assert.False(t, bar1.State.Valid, "the first pass's State should be flipped to invalid once its document is re-analyzed")
}

// --- Invariant 6: preserve non-any type on reassignment ---

func TestInvariant_PreserveTypedLocalOnReassign(t *testing.T) {
	mod := parseAndAnalyze(t, `
local x = {}
x = 1
`)
	xSym := findChild(mod, "x")
	require.NotNil(t, xSym)
	_, isTable := asTableType(xSym.Type)
	assert.True(t, isTable, "x's table type must survive the later bare reassignment")
}

func TestInvariant_PatchAnyTypedLocalOnAssign(t *testing.T) {
	mod := parseAndAnalyze(t, `
local x
x = {}
`)
	xSym := findChild(mod, "x")
	require.NotNil(t, xSym)
	_, isTable := asTableType(xSym.Type)
	assert.True(t, isTable, "x declared any-typed should be patched by the table literal assignment")
}

// --- Invariant 7: require import naming ---

func TestInvariant_RequireImportName(t *testing.T) {
	mod := parseAndAnalyze(t, `require("a.b.c")`)
	modType := mod.Type.(*ModuleType)
	require.Len(t, modType.Imports, 1)
	assert.Equal(t, "c", modType.Imports[0].Name)
}

// --- S1 ---

func TestScenario_MultiValueTrailingCallExpansion(t *testing.T) {
	mod := parseAndAnalyze(t, `local a, b, c = true, f()`)
	a := findChild(mod, "a")
	b := findChild(mod, "b")
	c := findChild(mod, "c")
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.NotNil(t, c)

	bLazy, ok := b.Type.(*LazyType)
	require.True(t, ok)
	assert.Equal(t, 0, bLazy.Index)

	cLazy, ok := c.Type.(*LazyType)
	require.True(t, ok)
	assert.Equal(t, 1, cLazy.Index)
	assert.Same(t, bLazy.Node, cLazy.Node, "b and c should both reference f()'s call node")
}

// --- S2 ---

func TestScenario_ClassWithMethodAndReturn(t *testing.T) {
	mod := parseAndAnalyze(t, `
local M = {}
function M:hello(name) return name end
return M
`)
	mSym := findChild(mod, "M")
	require.NotNil(t, mSym)
	assert.Equal(t, KindClass, mSym.Kind)

	modType := mod.Type.(*ModuleType)
	require.NotNil(t, modType.Return)
	assert.Equal(t, "R0", modType.Return.Name)
	lazy, ok := modType.Return.Type.(*LazyType)
	require.True(t, ok)
	assert.Equal(t, "M", lazy.Node.(*luaast.Identifier).Name)

	tt, _ := asTableType(mSym.Type)
	hello := tt.Get("hello")
	require.NotNil(t, hello)
	ft := hello.Type.(*FunctionType)
	require.Len(t, ft.Returns, 1)
}

// --- S3 ---

func TestScenario_ModuleMode(t *testing.T) {
	mod := parseAndAnalyze(t, `
module("foo")
function bar() end
`)
	modType := mod.Type.(*ModuleType)
	assert.True(t, modType.ModuleMode)
	assert.Equal(t, "foo", modType.Name)
	assert.NotNil(t, modType.Get("bar"), "bar should be a field of the module")
}

// --- S4 ---

func TestScenario_RequireBindsLazyImportReference(t *testing.T) {
	mod := parseAndAnalyze(t, `local socket = require("socket.core")`)
	modType := mod.Type.(*ModuleType)
	require.Len(t, modType.Imports, 1)
	imp := modType.Imports[0]
	assert.Equal(t, "core", imp.Name)

	socket := findChild(mod, "socket")
	require.NotNil(t, socket)
	assert.Same(t, imp.Type, socket.Type)
}

// --- S5 ---

func TestScenario_SetmetatableOnTableConstructor(t *testing.T) {
	mod := parseAndAnalyze(t, `local T = setmetatable({}, { __index = base })`)
	tSym := findChild(mod, "T")
	require.NotNil(t, tSym)
	assert.Equal(t, KindTable, tSym.Kind)

	tt, ok := asTableType(tSym.Type)
	require.True(t, ok)
	require.NotNil(t, tt.Metatable)
	assert.Equal(t, "__metatable", tt.Metatable.Name)

	metaTT, ok := asTableType(tt.Metatable.Type)
	require.True(t, ok)
	assert.NotNil(t, metaTT.Get("__index"))
}

// --- S6 ---

func TestScenario_NumericForScoping(t *testing.T) {
	src := `for i = 1, 10 do local x = i end
local after = 1`
	mod := parseAndAnalyze(t, src)
	modType := mod.Type.(*ModuleType)

	// just past the body's last statement, where both i and x are
	// already declared
	insideLoop := strings.Index(src, " end")
	afterLoop := strings.Index(src, "local after")

	iSym := modType.Menv.Stack.Lookup("i", insideLoop)
	require.NotNil(t, iSym, "i must be visible inside the loop body")
	assert.Equal(t, KindVariable, iSym.Kind)
	assert.Equal(t, Number, iSym.Type)
	require.NotNil(t, modType.Menv.Stack.Lookup("x", insideLoop), "x must be visible inside the loop body")

	assert.Nil(t, modType.Menv.Stack.Lookup("i", afterLoop), "i must not be visible after the loop")
	assert.Nil(t, modType.Menv.Stack.Lookup("x", afterLoop), "x must not be visible after the loop")
}

func findChild(sym *Symbol, name string) *Symbol {
	for _, c := range sym.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}
