package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulateBuiltins(t *testing.T) {
	env := NewEnv()

	assert.NotNil(t, env.Get("print"))
	assert.NotNil(t, env.Get("pairs"))
	assert.NotNil(t, env.Get("setmetatable"))
	assert.NotNil(t, env.Get("require"))

	strLib := env.Get("string")
	require.NotNil(t, strLib)
	tt, ok := asTableType(strLib.Type)
	require.True(t, ok)
	assert.NotNil(t, tt.Get("format"))
}

func TestEnv_SetAndGet(t *testing.T) {
	env := NewEnv()
	sym := &Symbol{Name: "Foo", Kind: KindModule, Type: NewTableType()}
	env.Set("Foo", sym)
	assert.Same(t, sym, env.Get("Foo"))
}

func TestEnv_RegisterModule_FirstTimeInserts(t *testing.T) {
	env := NewEnv()
	mod := NewModuleType("widgets", env)
	modSym := &Symbol{Name: "widgets", Kind: KindModule, Type: mod}
	env.RegisterModule(modSym, mod)
	assert.Same(t, modSym, env.Get("widgets"))
}

func TestEnv_RegisterModule_MergesValidFieldsOnly(t *testing.T) {
	env := NewEnv()

	validState := &State{Valid: true}
	staleState := &State{Valid: false}

	orig := NewModuleType("widgets", env)
	orig.Set("keep", &Symbol{Name: "keep", State: validState}, false)
	orig.Set("refresh", &Symbol{Name: "refresh-old", State: staleState}, false)
	origSym := &Symbol{Name: "widgets", Kind: KindModule, Type: orig}
	env.RegisterModule(origSym, orig)

	neu := NewModuleType("widgets", env)
	neu.Set("keep", &Symbol{Name: "keep-new", State: validState}, false)
	neu.Set("refresh", &Symbol{Name: "refresh-new", State: validState}, false)
	neu.Set("added", &Symbol{Name: "added", State: validState}, false)
	neuSym := &Symbol{Name: "widgets", Kind: KindModule, Type: neu}
	env.RegisterModule(neuSym, neu)

	merged := env.Get("widgets").Type.(*ModuleType)
	assert.Equal(t, "keep", merged.Get("keep").Name, "a valid existing field is never overwritten")
	assert.Equal(t, "refresh-new", merged.Get("refresh").Name, "a stale existing field is replaced")
	assert.NotNil(t, merged.Get("added"), "a field absent from the original is adopted")
}

func TestUnknownQuery(t *testing.T) {
	assert.Equal(t, Any, UnknownQuery("anything"))
}
