package analyzer

// populateBuiltins registers the core Lua 5.1 global functions and
// standard library tables into env's _G, the way a fresh process would
// see them before any user file is analyzed. Builtins have no Source
// location (Location stays the zero Range) and are never marked
// invalid, so they survive every merge.
func populateBuiltins(env *Env) {
	if env.Get("print") != nil {
		return // already populated (a second call on the same Env)
	}

	builtinState := &State{Valid: true}
	fn := func(name string, arity int) {
		ft := NewFunctionType()
		for i := 0; i < arity; i++ {
			ft.Param(i, &Symbol{Name: "_", Kind: KindParameter, Type: Any, State: builtinState})
		}
		env.Set(name, &Symbol{Name: name, Kind: KindFunction, Type: ft, State: builtinState})
	}
	variadic := func(name string) {
		ft := NewFunctionType()
		ft.Vararg = true
		env.Set(name, &Symbol{Name: name, Kind: KindFunction, Type: ft, State: builtinState})
	}

	variadic("print")
	fn("type", 1)
	fn("tostring", 1)
	fn("tonumber", 1)
	fn("error", 1)
	fn("assert", 1)
	variadic("pcall")
	variadic("xpcall")
	fn("setmetatable", 2)
	fn("getmetatable", 1)
	fn("rawget", 2)
	fn("rawset", 3)
	fn("rawequal", 2)
	variadic("select")
	variadic("unpack")
	fn("require", 1)
	variadic("module")
	fn("next", 2)
	fn("pairs", 1)
	fn("ipairs", 1)
	fn("collectgarbage", 0)
	variadic("load")
	variadic("loadstring")

	stdlibTable := func(name string, members ...string) {
		tt := NewTableType()
		for _, m := range members {
			tt.Set(m, &Symbol{Name: m, Kind: KindFunction, Type: NewFunctionType(), State: builtinState}, false)
		}
		env.Set(name, &Symbol{Name: name, Kind: KindTable, Type: tt, State: builtinState})
	}
	stdlibTable("string", "format", "sub", "find", "gsub", "gmatch", "len", "rep", "upper", "lower", "byte", "char")
	stdlibTable("table", "insert", "remove", "concat", "sort", "getn")
	stdlibTable("math", "floor", "ceil", "abs", "max", "min", "sqrt", "huge", "pi", "random", "randomseed")
	stdlibTable("os", "time", "date", "clock", "exit", "getenv")
	stdlibTable("io", "write", "read", "open", "close", "lines")
}
