package wasmcore

import (
	"github.com/PreyMa/wasmcore/api"
	"github.com/PreyMa/wasmcore/internal/wasm"
)

// HostFunc is a host function's native implementation: it reads its
// arguments from the low indices of stack and overwrites them with its
// results, the same stack-in/stack-out convention the interpreter's
// trampoline uses for a compiled function's host-call site. mod is the
// importing module — the one whose memory "stack" addresses refer to,
// not necessarily the host module this function was exported from.
type HostFunc func(mod *ModuleHandle, stack []uint64)

// HostModuleBuilder assembles a host module (functions, a memory, tables,
// and globals implemented outside the interpreter) for
// Runtime.RegisterHostModule.
type HostModuleBuilder struct {
	funcs   []hostFuncEntry
	globals []hostGlobalEntry
	tables  []hostTableEntry
	memory  *hostMemoryEntry
}

type hostFuncEntry struct {
	exportName string
	debugName  string
	typ        *wasm.FunctionType
	fn         HostFunc
}

type hostGlobalEntry struct {
	name    string
	typ     *wasm.GlobalType
	initial uint64
}

type hostTableEntry struct {
	name string
	typ  *wasm.TableType
}

type hostMemoryEntry struct {
	name string
	typ  *wasm.MemoryType
}

// NewHostModuleBuilder starts a new, empty host module definition.
func NewHostModuleBuilder() *HostModuleBuilder {
	return &HostModuleBuilder{}
}

// HostFunctionBuilder configures one host function before exporting it.
type HostFunctionBuilder struct {
	parent     *HostModuleBuilder
	debugName  string
	params     []api.ValueType
	results    []api.ValueType
	fn         HostFunc
}

// NewFunctionBuilder starts defining a host function.
func (b *HostModuleBuilder) NewFunctionBuilder() *HostFunctionBuilder {
	return &HostFunctionBuilder{parent: b}
}

// WithSignature declares the function's parameter and result types.
// Required before Export, since wasmcore's HostFunc operates on an
// untyped stack and has no reflect-based signature inference.
func (h *HostFunctionBuilder) WithSignature(params, results []api.ValueType) *HostFunctionBuilder {
	h.params = params
	h.results = results
	return h
}

// WithFunc sets the native implementation.
func (h *HostFunctionBuilder) WithFunc(fn HostFunc) *HostFunctionBuilder {
	h.fn = fn
	return h
}

// WithName sets the optional module-local debug name that becomes the
// function's Name (reported to Introspector.OnTrap when the function is
// called directly); it need not match the Export name. Host calls push
// no interpreter frame, so the name does not appear in a trap's frames.
func (h *HostFunctionBuilder) WithName(name string) *HostFunctionBuilder {
	h.debugName = name
	return h
}

// Export registers the function under name and returns the parent
// builder, so calls can be chained.
func (h *HostFunctionBuilder) Export(name string) *HostModuleBuilder {
	debugName := h.debugName
	if debugName == "" {
		debugName = name
	}
	h.parent.funcs = append(h.parent.funcs, hostFuncEntry{
		exportName: name,
		debugName:  debugName,
		typ:        &wasm.FunctionType{Params: h.params, Results: h.results},
		fn:         h.fn,
	})
	return h.parent
}

// ExportMemory defines and exports a linear memory sized minPages to
// maxPages (nil for unbounded up to wasm.MemoryMaxPages).
func (b *HostModuleBuilder) ExportMemory(name string, minPages uint32, maxPages *uint32) *HostModuleBuilder {
	b.memory = &hostMemoryEntry{name: name, typ: &wasm.MemoryType{Limits: wasm.Limits{Min: minPages, Max: maxPages}}}
	return b
}

// ExportTable defines and exports a funcref table sized minEntries to
// maxEntries (nil for unbounded).
func (b *HostModuleBuilder) ExportTable(name string, minEntries uint32, maxEntries *uint32) *HostModuleBuilder {
	b.tables = append(b.tables, hostTableEntry{
		name: name,
		typ:  &wasm.TableType{ElemType: wasm.ValTypeFuncRef, Limits: wasm.Limits{Min: minEntries, Max: maxEntries}},
	})
	return b
}

// ExportGlobal defines and exports a global of the given type and
// initial value.
func (b *HostModuleBuilder) ExportGlobal(name string, valType api.ValueType, mutable bool, initial uint64) *HostModuleBuilder {
	b.globals = append(b.globals, hostGlobalEntry{
		name:    name,
		typ:     &wasm.GlobalType{ValType: valType, Mutable: mutable},
		initial: initial,
	})
	return b
}

// build instantiates the host module directly — there is no bytecode to
// compile, so registration and instantiation happen in one step,
// letting sibling modules import from it during the next
// compile_and_link pass.
func (b *HostModuleBuilder) build(name string, runtime *Runtime) *wasm.ModuleInstance {
	inst := &wasm.ModuleInstance{
		Name:    name,
		Exports: make(map[string]*wasm.Export, len(b.funcs)+len(b.globals)+len(b.tables)+1),
	}

	for _, g := range b.globals {
		idx := wasm.Index(len(inst.Globals))
		inst.Globals = append(inst.Globals, &wasm.GlobalInstance{Type: g.typ, Val: g.initial})
		inst.Exports[g.name] = &wasm.Export{Type: wasm.ExternTypeGlobal, Name: g.name, Index: idx}
	}

	for _, t := range b.tables {
		idx := wasm.Index(len(inst.Tables))
		inst.Tables = append(inst.Tables, &wasm.TableInstance{Type: t.typ, Elements: make([]*wasm.FunctionInstance, t.typ.Limits.Min)})
		inst.Exports[t.name] = &wasm.Export{Type: wasm.ExternTypeTable, Name: t.name, Index: idx}
	}

	if b.memory != nil {
		inst.Memory = &wasm.MemoryInstance{Type: b.memory.typ, Buffer: make([]byte, uint64(b.memory.typ.Limits.Min)*uint64(wasm.MemoryPageSize))}
		inst.Exports[b.memory.name] = &wasm.Export{Type: wasm.ExternTypeMemory, Name: b.memory.name, Index: 0}
	}

	for _, f := range b.funcs {
		idx := wasm.Index(len(inst.Functions))
		entry := f // capture for the closure below
		hostFn := wasm.HostFunction(func(cc *wasm.CallContext, stack []uint64) {
			entry.fn(&ModuleHandle{instance: cc.Module(), runtime: runtime}, stack)
		})
		inst.Functions = append(inst.Functions, &wasm.FunctionInstance{
			TypeIndex: runtime.typeInterner.Intern(entry.typ),
			Type:      entry.typ,
			Name:      entry.debugName,
			Module:    inst,
			Host:      hostFn,
		})
		inst.Exports[entry.exportName] = &wasm.Export{Type: wasm.ExternTypeFunc, Name: entry.exportName, Index: idx}
	}

	return inst
}
