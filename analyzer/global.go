package analyzer

import "sync"

// Env is the process-wide global environment: a singleton ModuleType
// named _G, persistent across analyses, guarded by a mutex so that
// concurrent analyses of different documents can safely merge into it.
// Design Notes (spec.md §9) call this out as "an explicit environment
// value threaded into analysis calls; the singleton is a convenience
// for single-threaded hosts" — Analyze always takes one explicitly,
// and Default returns the package-level singleton for callers that
// don't need isolation between analyses.
type Env struct {
	mu sync.Mutex
	G  *ModuleType

	// docStates tracks the most recent analysis pass's State for each
	// document URI seen by Analyze, so that re-analyzing the
	// same document can flip the prior pass's State to invalid before
	// the new pass's symbols are merged in (spec.md §3, §5).
	docStates map[string]*State
}

// NewEnv constructs an isolated global environment. Most hosts should
// use Default instead; NewEnv exists for tests and for embedders that
// want independent _G instances (e.g. one per workspace).
func NewEnv() *Env {
	e := &Env{G: NewModuleType("_G", nil), docStates: make(map[string]*State)}
	populateBuiltins(e)
	return e
}

// invalidateDocument flips the State left behind by uri's previous
// analysis pass, if any, to invalid, and remembers state as the
// current pass so the next re-analysis can invalidate it in turn.
func (e *Env) invalidateDocument(uri string, state *State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if prev, ok := e.docStates[uri]; ok && prev != state {
		prev.Valid = false
	}
	e.docStates[uri] = state
}

var defaultEnv = NewEnv()

// Default returns the process-wide singleton _G environment.
func Default() *Env {
	return defaultEnv
}

// Get looks up a name in _G.
func (e *Env) Get(name string) *Symbol {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.G.Get(name)
}

// Set registers name directly in _G, overwriting any prior entry.
func (e *Env) Set(name string, sym *Symbol) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.G.Set(name, sym, false)
}

// RegisterModule inserts a module into _G under its own name, or, if a
// module of that name already exists, merges the new module's table
// fields into it: a field is adopted only if the existing global has
// no entry under that name, or the existing entry is invalid (spec.md
// §4.4 step 6). Invalidation itself happens earlier, in Analyze's call
// to invalidateDocument, which flips the owning document's previous
// pass to invalid before this merge ever runs — by the time
// RegisterModule sees a stale field, .State.Valid is already false.
// The merge is monotone and never removes a field that disappeared
// from the new analysis — a deliberate design choice preserved from
// the original, not a bug (spec.md §9 Open Question iii).
func (e *Env) RegisterModule(modSym *Symbol, mod *ModuleType) {
	e.mu.Lock()
	defer e.mu.Unlock()

	existing := e.G.Get(mod.Name)
	if existing == nil {
		e.G.Set(mod.Name, modSym, false)
		return
	}
	existingMod, ok := existing.Type.(*ModuleType)
	if !ok {
		e.G.Set(mod.Name, modSym, false)
		return
	}
	mergeTableFields(existingMod.TableType, mod.TableType)
}

// mergeTableFields copies fields from neu into orig, skipping any
// field orig already has a valid entry for.
func mergeTableFields(orig, neu *TableType) {
	for _, name := range neu.Order() {
		newSym := neu.Get(name)
		origSym := orig.Get(name)
		if origSym == nil || (origSym.State != nil && !origSym.State.Valid) {
			orig.Set(name, newSym, true)
		}
	}
}
