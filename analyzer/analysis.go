package analyzer

import (
	"regexp"

	"github.com/lua-tools/luasema/luaast"
	"github.com/lua-tools/luasema/luaparse"
	"github.com/lua-tools/luasema/pos"
)

// Config carries the external collaborators an analysis pass needs:
// the global environment it reads from and writes into, and the
// type-query engine used by the "local x = x" global shortcut.
type Config struct {
	Global    *Env
	TypeQuery TypeQuery
}

// DefaultConfig wires a Config to the process-wide _G and the
// conservative UnknownQuery.
func DefaultConfig() *Config {
	return &Config{Global: Default(), TypeQuery: UnknownQuery}
}

// moduleNameRe extracts a module's default name from a document URI:
// the longest trailing run of word characters and hyphens, with an
// optional ".lua" suffix stripped first.
var moduleNameRe = regexp.MustCompile(`(\w+(?:-\w+)*)(?:\.lua)?$`)

func moduleNameFromURI(uri string) string {
	m := moduleNameRe.FindStringSubmatch(uri)
	if len(m) < 2 {
		return uri
	}
	return m[1]
}

// AnalyzeSource parses code and analyzes it in one step. Parse errors
// propagate to the caller; the analyzer itself never returns an error.
func AnalyzeSource(code, uri string, cfg *Config) (*Symbol, error) {
	chunk, err := luaparse.Parse([]byte(code))
	if err != nil {
		return nil, err
	}
	return Analyze(chunk, uri, cfg), nil
}

// Analyze is the pure analyzer entry point (spec §4.4): given a parsed
// chunk and a document URI, it walks the tree once, building a module
// symbol, and registers or merges that module into cfg.Global when the
// document called module(...).
func Analyze(chunk *luaast.Chunk, uri string, cfg *Config) *Symbol {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Global == nil {
		cfg.Global = Default()
	}
	if cfg.TypeQuery == nil {
		cfg.TypeQuery = UnknownQuery
	}

	name := moduleNameFromURI(uri)
	state := &State{Valid: true}
	cfg.Global.invalidateDocument(uri, state)
	rootRange := pos.New(chunk.Range().Lo, chunk.Range().Hi+1)

	mod := NewModuleType(name, cfg.Global)
	if g := cfg.Global.G; g != nil {
		mod.SetMetatable(&Symbol{
			Name: "_G", Kind: KindModule, Type: g, URI: uri, State: state,
		})
	}

	modSym := &Symbol{
		Name:     name,
		Location: pos.New(0, 1),
		Range:    rootRange,
		Scope:    rootRange,
		URI:      uri,
		Kind:     KindModule,
		Type:     mod,
		State:    state,
	}

	a := &walker{
		cfg:      cfg,
		mod:      mod,
		modSym:   modSym,
		scope:    mod.Menv.Stack,
		uri:      uri,
		state:    state,
		docRange: rootRange,
	}
	root := a.scope.Enter(rootRange)
	a.frame = root
	for _, stmt := range chunk.Body {
		a.walkNode(stmt)
	}
	root.Exit(rootRange)

	if mod.ModuleMode {
		cfg.Global.RegisterModule(modSym, mod)
	}

	return modSym
}
