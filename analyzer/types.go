package analyzer

import "github.com/lua-tools/luasema/luaast"

// Type is the closed set of type variants a Symbol can carry: a
// BasicType, a *TableType, a *FunctionType, a *ModuleType, or a
// *LazyType.
type Type interface {
	typeTag() string
}

// BasicTag enumerates the primitive type tags.
type BasicTag string

const (
	TagAny     BasicTag = "any"
	TagNumber  BasicTag = "number"
	TagString  BasicTag = "string"
	TagBoolean BasicTag = "boolean"
	TagNil     BasicTag = "nil"
	TagTable   BasicTag = "table"
)

// BasicType is a singleton-tagged primitive type. Any means "unknown".
type BasicType struct {
	Tag BasicTag
}

func (BasicType) typeTag() string { return "basic" }

var (
	Any     = BasicType{Tag: TagAny}
	Number  = BasicType{Tag: TagNumber}
	StringT = BasicType{Tag: TagString}
	Boolean = BasicType{Tag: TagBoolean}
	Nil     = BasicType{Tag: TagNil}
	Table   = BasicType{Tag: TagTable}
)

// isAnyType reports whether t is the Any singleton, as opposed to a
// concrete BasicType, TableType, FunctionType, ModuleType, or LazyType.
func isAnyType(t Type) bool {
	bt, ok := t.(BasicType)
	return ok && bt.Tag == TagAny
}

// asTableType unwraps t's underlying TableType whether t is a plain
// TableType or a ModuleType (which extends TableType) — a module's
// fields are addressable the same way a table's are.
func asTableType(t Type) (*TableType, bool) {
	switch tv := t.(type) {
	case *TableType:
		return tv, true
	case *ModuleType:
		return tv.TableType, true
	default:
		return nil, false
	}
}

// TableType maps string field names to owned Symbols. Field iteration
// order follows insertion order.
type TableType struct {
	fields    map[string]*Symbol
	order     []string
	Metatable *Symbol // Type is a *TableType, a *ModuleType (_G) or a *LazyType; nil if unset
}

// NewTableType constructs an empty table type.
func NewTableType() *TableType {
	return &TableType{fields: make(map[string]*Symbol)}
}

func (*TableType) typeTag() string { return "table" }

// Set inserts or overwrites the field named name. merge=true is used
// for assignment-extended tables; it does not change behavior: with
// either value an already-defined field is overwritten in place and
// keeps its original position in Order.
func (t *TableType) Set(name string, sym *Symbol, merge bool) {
	if _, exists := t.fields[name]; !exists {
		t.order = append(t.order, name)
	}
	t.fields[name] = sym
}

// Get looks up a field by name, or nil.
func (t *TableType) Get(name string) *Symbol {
	return t.fields[name]
}

// SetMetatable attaches a metatable symbol, replacing any prior one.
func (t *TableType) SetMetatable(sym *Symbol) {
	t.Metatable = sym
}

// Fields returns the field symbols in insertion order.
func (t *TableType) Fields() []*Symbol {
	out := make([]*Symbol, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.fields[name])
	}
	return out
}

// Order returns the field names in insertion order.
func (t *TableType) Order() []string {
	return t.order
}

// FunctionType holds indexed parameter slots, indexed return slots,
// and an optional tail-call type for transparent multi-return
// chaining.
type FunctionType struct {
	Params   []*Symbol
	Returns  []*Symbol
	TailCall Type // type of a tail-position call in a return statement
	Vararg   bool // formals end in ...
}

// NewFunctionType constructs an empty function type.
func NewFunctionType() *FunctionType {
	return &FunctionType{}
}

func (*FunctionType) typeTag() string { return "function" }

// Param sets parameter slot i, growing the slice as needed.
func (f *FunctionType) Param(i int, sym *Symbol) {
	f.Params = growSlots(f.Params, i, sym)
}

// Return sets return slot i, growing the slice as needed.
func (f *FunctionType) Return(i int, sym *Symbol) {
	f.Returns = growSlots(f.Returns, i, sym)
}

func growSlots(slots []*Symbol, i int, sym *Symbol) []*Symbol {
	for len(slots) <= i {
		slots = append(slots, nil)
	}
	slots[i] = sym
	return slots
}

// LazyType is a deferred type reference: it remembers enough to later
// reconstruct a concrete type by re-walking Node in the owning
// module's Context and selecting tuple position Index. Forcing a
// LazyType is the external type-query engine's job; the analyzer
// never forces one itself, so every LazyType it produces must remain a
// valid reference after analysis completes.
type LazyType struct {
	Context *ModuleType
	Node    luaast.Node
	Name    string
	Index   int
}

func (*LazyType) typeTag() string { return "lazy" }

// NewLazyType constructs a lazy reference.
func NewLazyType(ctx *ModuleType, node luaast.Node, name string, index int) *LazyType {
	return &LazyType{Context: ctx, Node: node, Name: name, Index: index}
}
