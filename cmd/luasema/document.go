package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lua-tools/luasema/analyzer"
)

// expandArgs expands arguments, resolving patterns ending with "/..."
// to all .lua files found recursively under the given directory.
// Non-pattern arguments pass through unchanged.
func expandArgs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		dir, ok := strings.CutSuffix(arg, "/...")
		if !ok {
			out = append(out, arg)
			continue
		}
		if dir == "" {
			dir = "."
		}
		files, err := findLuaFiles(dir)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", arg, err)
		}
		out = append(out, files...)
	}
	return out, nil
}

func findLuaFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".lua" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// analyzeFile reads and analyzes path, applying any module-name
// override configured for it. On failure it renders the error to
// stderr itself (a read failure as plain text, a syntax error as an
// annotated source excerpt) and reports ok=false.
func analyzeFile(path string) (sym *analyzer.Symbol, ok bool) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, err)
		return nil, false
	}
	uri := path
	if override, o := activeConfig.ModuleNames[path]; o {
		uri = override
	}
	sym, err = analyzer.AnalyzeSource(string(src), uri, analyzer.DefaultConfig())
	if err != nil {
		renderParseError(os.Stderr, path, src, err)
		return nil, false
	}
	return sym, true
}
