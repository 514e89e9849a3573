package analyzer

import "github.com/lua-tools/luasema/pos"

// Stack is a flat, append-only sequence of Symbol frames. Symbols are
// never popped: lookups instead filter by position, so that queries
// issued out of source order (e.g. hover on an earlier line after the
// whole file has been analyzed) still see the right declarations. A
// declaration at offset p is visible to a query at position q only if
// p <= q and q falls within the declaration's Scope.
type Stack struct {
	syms []*Symbol
}

// NewStack constructs an empty scope stack.
func NewStack() *Stack {
	return &Stack{}
}

// Frame tracks one open lexical block: the symbols pushed into it and
// the block's source range. Exit re-stamps those symbols (not the ones
// of frames nested inside it) with the block's real end offset.
type Frame struct {
	stack *Stack
	syms  []*Symbol
	Range pos.Range
}

// Enter opens a new frame spanning blockRange.
func (s *Stack) Enter(blockRange pos.Range) *Frame {
	return &Frame{stack: s, Range: blockRange}
}

// Push adds sym to the current frame, stamping its Scope from its own
// Location out to the frame's end.
func (f *Frame) Push(sym *Symbol) {
	sym.Scope = pos.RangeOf(sym.Location, f.Range)
	f.syms = append(f.syms, sym)
	f.stack.syms = append(f.stack.syms, sym)
}

// Exit re-stamps every symbol pushed in this frame with the precise
// end offset of the block (useful when the frame was opened before
// the block's true extent was known).
func (f *Frame) Exit(endRange pos.Range) {
	for _, sym := range f.syms {
		sym.Scope.Hi = endRange.Hi
	}
}

// Search iterates the stack from the most recently pushed symbol to
// the earliest, returning the first match.
func (s *Stack) Search(pred func(*Symbol) bool) *Symbol {
	for i := len(s.syms) - 1; i >= 0; i-- {
		if pred(s.syms[i]) {
			return s.syms[i]
		}
	}
	return nil
}

// Lookup resolves name as visible from queryPos: the most recent
// declaration whose Location precedes queryPos and whose Scope
// contains it.
func (s *Stack) Lookup(name string, queryPos int) *Symbol {
	return s.Search(func(sym *Symbol) bool {
		return sym.Name == name && sym.Location.Lo <= queryPos && sym.Scope.Contains(queryPos)
	})
}
