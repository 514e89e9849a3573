// Package pos defines the half-open source range used throughout the
// symbol model to describe where a declaration, its definition, and its
// visibility live in a document's byte offsets.
package pos

import "fmt"

// Range is a half-open interval [Lo, Hi) of byte offsets in a source
// document.
type Range struct {
	Lo, Hi int
}

// New constructs a Range. Callers are responsible for lo <= hi; this
// package performs no validation.
func New(lo, hi int) Range {
	return Range{Lo: lo, Hi: hi}
}

// RangeOf returns a range spanning from inner's start to outer's end.
// It denotes "visible from inner's site to the end of the enclosing
// block."
func RangeOf(inner, outer Range) Range {
	return Range{Lo: inner.Lo, Hi: outer.Hi}
}

// Contains reports whether p falls within the half-open range.
func (r Range) Contains(p int) bool {
	return r.Lo <= p && p < r.Hi
}

// ContainsRange reports whether r fully encloses other.
func (r Range) ContainsRange(other Range) bool {
	return r.Lo <= other.Lo && other.Hi <= r.Hi
}

// Intersects reports whether r and other overlap.
func (r Range) Intersects(other Range) bool {
	return r.Lo < other.Hi && other.Lo < r.Hi
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Lo, r.Hi)
}
