package wasm

import (
	"fmt"
	"unsafe"
)

// GlobalInstance is a global variable's storage after linking/
// instantiation.
type GlobalInstance struct {
	Type *GlobalType
	// Val holds the raw bits: i32/f32 zero-extended in the low 32 bits,
	// i64/f64 in all 64 bits, and a funcref as its *FunctionInstance
	// pointer bits (see FuncRefToVal), 0 for null.
	Val uint64
}

// TableInstance is a table's storage after linking/instantiation.
// Elements are stored as function-instance pointers (or nil) rather
// than raw addresses; a table has no separate storage for externref
// values.
type TableInstance struct {
	Type *TableType

	// Elements holds funcref entries: a non-nil *FunctionInstance or
	// nil for an uninitialized/null entry.
	Elements []*FunctionInstance
}

// Size returns the current number of table entries.
func (t *TableInstance) Size() uint32 { return uint32(len(t.Elements)) }

// Grow appends n null entries (reference-types `table.grow`), returning
// the previous size, or -1 if growth would exceed the declared maximum.
func (t *TableInstance) Grow(n uint32) int64 {
	prev := t.Size()
	if t.Type.Max != nil && uint64(prev)+uint64(n) > uint64(*t.Type.Max) {
		return -1
	}
	if uint64(prev)+uint64(n) > uint64(TableMaxEntries) {
		return -1
	}
	t.Elements = append(t.Elements, make([]*FunctionInstance, n)...)
	return int64(prev)
}

// MemoryInstance is the single linear memory a module may define or
// import, after linking/instantiation.
type MemoryInstance struct {
	Type   *MemoryType
	Buffer []byte // len(Buffer) is always a multiple of MemoryPageSize
}

// PageSize returns the current size of the memory in pages.
func (m *MemoryInstance) PageSize() uint32 {
	return uint32(len(m.Buffer)) / MemoryPageSize
}

// Grow extends the memory by n pages, returning the previous page count,
// or -1 if the growth would exceed the declared (or hard) maximum;
// memory.grow reports failure through its return value and never traps.
func (m *MemoryInstance) Grow(n uint32) int32 {
	cur := m.PageSize()
	if n == 0 {
		return int32(cur)
	}
	next := uint64(cur) + uint64(n)
	max := uint64(MemoryMaxPages)
	if m.Type.Max != nil {
		max = uint64(*m.Type.Max)
	}
	if next > max {
		return -1
	}
	m.Buffer = append(m.Buffer, make([]byte, uint64(n)*uint64(MemoryPageSize))...)
	return int32(cur)
}

// FuncRefToVal folds a function reference into the raw uint64 a stack
// slot or global cell carries it as, using the same
// uintptr(unsafe.Pointer(...)) encoding internal/engine/interpreter
// uses for funcref values on its value stack. Safe because every
// *FunctionInstance that reaches here is already kept alive
// independently by a ModuleInstance.Functions slice or a
// TableInstance's Elements.
func FuncRefToVal(fn *FunctionInstance) uint64 {
	if fn == nil {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(fn)))
}

// ValToFuncRef is FuncRefToVal's inverse.
func ValToFuncRef(v uint64) *FunctionInstance {
	if v == 0 {
		return nil
	}
	return (*FunctionInstance)(unsafe.Pointer(uintptr(v)))
}

// FunctionInstance is either a compiled Wasm function or a host
// function, bound to a stable interpreter-wide index and an interned
// FunctionType.
type FunctionInstance struct {
	// TypeIndex is fn's signature's index in the Runtime-wide
	// TypeInterner every linked module shares, assigned when the
	// function is instantiated. CallIndirect compares two functions'
	// TypeIndex values instead of walking their FunctionTypes.
	TypeIndex uint32
	Type      *FunctionType

	// Name is a human-readable identity for traps and diagnostics,
	// drawn from the export name or the debug name section.
	Name string

	Module *ModuleInstance // owning module; nil for a host function's "definition" copy held elsewhere

	// Exactly one of the following is populated.
	Bytecode *CompiledFunction // opaque to this package; defined by internal/wazeroir
	Host     HostFunction
}

// CompiledFunction is the lowered form produced by internal/wazeroir's
// compiler. It is declared here as an empty interface boundary so
// internal/wasm does not import internal/wazeroir (avoiding a dependency
// cycle, since the compiler itself operates on *wasm.Module); the
// interpreter type-asserts it back to the concrete type it expects.
type CompiledFunction interface{}

// HostFunction is a native callback bridged into the interpreter's
// calling convention via a trampoline.
type HostFunction func(ctx *CallContext, stack []uint64)

// CallContext threads the caller's memory and owning module into a
// host callback.
type CallContext struct {
	Memory *MemoryInstance
	module *ModuleInstance
}

// Module returns the module instance the currently executing function
// belongs to, letting host callbacks that double as imports introspect
// their caller if needed.
func (c *CallContext) Module() *ModuleInstance { return c.module }

// NewCallContext builds a CallContext for the given caller's memory and
// owning module, used by internal/engine/interpreter to bridge into a
// host function's trampoline.
func NewCallContext(mem *MemoryInstance, mod *ModuleInstance) *CallContext {
	return &CallContext{Memory: mem, module: mod}
}

// ModuleInstance is a module after linking and compilation: every
// import is resolved, every element/data segment has been applied, and
// every function is ready to execute.
type ModuleInstance struct {
	Name string

	Types []*FunctionType

	// TypeIDs holds, for each entry of Types at the same index, that
	// signature's interned TypeInterner index. CallIndirect sites
	// compiled against this module read their expected type's ID from
	// here instead of walking a FunctionType at call time.
	TypeIDs []uint32

	Functions []*FunctionInstance
	Tables    []*TableInstance
	Memory    *MemoryInstance // nil if the module declares no memory
	Globals   []*GlobalInstance

	Exports map[string]*Export

	// Element/data segments retained for runtime table.init/memory.init;
	// Active segments have already been applied and, like Declarative
	// ones, marked dropped by the time a ModuleInstance is handed back.
	Elements []*LinkedElement
	Data     []*LinkedData

	StartFunctionIndex *Index
}

// LinkedElement is an ElementSegment after its function indices have
// been resolved to concrete FunctionInstance pointers.
type LinkedElement struct {
	Mode    ElementMode
	RefType ValType
	Refs    []*FunctionInstance // nil entries are null funcref
	Dropped bool
}

// LinkedData is a DataSegment retained for `memory.init`/`data.drop`.
type LinkedData struct {
	Init    []byte
	Dropped bool
}

// ExportedFunction looks up a function export by name.
func (mi *ModuleInstance) ExportedFunction(name string) (*FunctionInstance, error) {
	e, ok := mi.Exports[name]
	if !ok || e.Type != ExternTypeFunc {
		return nil, fmt.Errorf("%s: no exported function %q", mi.Name, name)
	}
	return mi.Functions[e.Index], nil
}

// ExportedMemory looks up the module's memory export by name.
func (mi *ModuleInstance) ExportedMemory(name string) (*MemoryInstance, error) {
	e, ok := mi.Exports[name]
	if !ok || e.Type != ExternTypeMemory {
		return nil, fmt.Errorf("%s: no exported memory %q", mi.Name, name)
	}
	return mi.Memory, nil
}

// ExportedGlobal looks up a global export by name.
func (mi *ModuleInstance) ExportedGlobal(name string) (*GlobalInstance, error) {
	e, ok := mi.Exports[name]
	if !ok || e.Type != ExternTypeGlobal {
		return nil, fmt.Errorf("%s: no exported global %q", mi.Name, name)
	}
	return mi.Globals[e.Index], nil
}

// ExportedTable looks up a table export by name.
func (mi *ModuleInstance) ExportedTable(name string) (*TableInstance, error) {
	e, ok := mi.Exports[name]
	if !ok || e.Type != ExternTypeTable {
		return nil, fmt.Errorf("%s: no exported table %q", mi.Name, name)
	}
	return mi.Tables[e.Index], nil
}
