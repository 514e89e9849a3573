package analyzer

// ModuleEnv holds the per-document state a ModuleType needs to resolve
// names: its own scope stack and a map of the globals this document
// introduced (distinct from _G's process-wide map, so a host can tell
// which globals came from which file).
type ModuleEnv struct {
	Stack   *Stack
	Globals map[string]*Symbol
	Global  *Env // the process-wide _G this module falls through to
}

func newModuleEnv(global *Env) *ModuleEnv {
	return &ModuleEnv{
		Stack:   NewStack(),
		Globals: make(map[string]*Symbol),
		Global:  global,
	}
}

// ModuleType extends TableType with module-mode state: whether
// module(...) was called, the top-level return symbol (if any), the
// ordered list of require'd imports, and the module's own scope
// environment.
type ModuleType struct {
	*TableType
	Name       string
	ModuleMode bool
	Return     *Symbol
	Imports    []*Symbol
	Menv       *ModuleEnv
}

// NewModuleType constructs a module type named name.
func NewModuleType(name string, global *Env) *ModuleType {
	return &ModuleType{
		TableType: NewTableType(),
		Name:      name,
		Menv:      newModuleEnv(global),
	}
}

// Import appends sym to the module's import list.
func (m *ModuleType) Import(sym *Symbol) {
	m.Imports = append(m.Imports, sym)
}

// Search resolves name as visible at position: first the module's own
// scope stack (locals, parameters, flet-like bindings), then the
// module's own fields (its globals and, in module mode, its exports),
// then _G.
func (m *ModuleType) Search(name string, position int) *Symbol {
	if sym := m.Menv.Stack.Lookup(name, position); sym != nil {
		return sym
	}
	if sym := m.Get(name); sym != nil {
		return sym
	}
	if m.Menv.Global != nil {
		if sym := m.Menv.Global.Get(name); sym != nil {
			return sym
		}
	}
	return nil
}
