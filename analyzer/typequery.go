package analyzer

// TypeQuery is the external type-query engine's contract: a pure
// function mapping a runtime-evaluated reference name to a type. The
// analyzer invokes it in exactly one place — the "local x = x" global
// shortcut in InitStatement (spec.md §4.4.1) — and never to force a
// LazyType; forcing a LazyType is the query engine's job, performed
// outside this package entirely.
type TypeQuery func(name string) Type

// UnknownQuery is the conservative default used when a Config doesn't
// supply a real type-query engine: every name resolves to Any. This
// keeps the analyzer usable standalone.
func UnknownQuery(string) Type {
	return Any
}
