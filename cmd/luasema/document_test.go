package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandArgs_PassesThroughPlainPaths(t *testing.T) {
	out, err := expandArgs([]string{"a.lua", "b.lua"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.lua", "b.lua"}, out)
}

func TestExpandArgs_GlobExpandsLuaFilesRecursively(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte("local x = 1"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.lua"), []byte("local y = 2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	out, err := expandArgs([]string{dir + "/..."})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	for _, path := range out {
		assert.Equal(t, ".lua", filepath.Ext(path))
	}
}

func TestAnalyzeFile_AppliesModuleNameOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widgets.lua")
	require.NoError(t, os.WriteFile(path, []byte("local x = 1"), 0o644))

	prev := activeConfig
	defer func() { activeConfig = prev }()
	activeConfig = &config{ModuleNames: map[string]string{path: "override-name"}}

	sym, ok := analyzeFile(path)
	require.True(t, ok)
	assert.Equal(t, "override-name", sym.Name)
}

func TestAnalyzeFile_RendersSyntaxErrorAndReportsFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.lua")
	require.NoError(t, os.WriteFile(path, []byte("local = "), 0o644))

	prev := activeConfig
	defer func() { activeConfig = prev }()
	activeConfig = defaultConfig()

	sym, ok := analyzeFile(path)
	assert.False(t, ok)
	assert.Nil(t, sym)
}
