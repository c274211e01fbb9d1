package wazeroir

import wasm "github.com/PreyMa/wasmcore/internal/wasm"

// CompiledFunction is the concrete lowered form of a single Wasm
// function body. internal/wasm references it only through the
// opaque wasm.CompiledFunction interface; internal/engine/interpreter
// type-asserts a *wasm.FunctionInstance's Bytecode back to *CompiledFunction.
type CompiledFunction struct {
	// Code is the internal bytecode stream: Op bytes interleaved with
	// their fixed-shape inline operands, as documented per-Op in opcode.go.
	Code []byte

	// Refs holds every value the bytecode addresses by small-integer
	// index instead of embedding directly: *wasm.FunctionInstance for
	// Call/CallHost/RefFunc, *wasm.TableInstance for table ops,
	// *wasm.GlobalInstance for global ops, *wasm.LinkedElement for
	// TableInit/ElemDrop, and *wasm.LinkedData for MemoryInit/DataDrop.
	// CallIndirect's expected interned type index is an inline operand,
	// not a Refs entry. This table is the idiomatic-Go stand-in for the raw
	// pointers a pointer-based bytecode would encode inline.
	Refs []interface{}

	// NumParamCells and NumResultCells are the cell widths (one uint64
	// stack slot per value, regardless of its Wasm type) of the
	// function's own signature, used to size the frame's incoming/
	// outgoing value window.
	NumParamCells  uint32
	NumResultCells uint32

	// NumLocalCells is the total cell width of the declared (non-param)
	// locals, zero-initialized by the Entry opcode at call time.
	NumLocalCells uint32

	// MaxStackCells is the high-water mark of operand-stack cells the
	// compiler computed while emitting Code. The params count, since the
	// function-level frame starts with them on the operand stack; the
	// declared (non-param) locals do not.
	// The interpreter checks it against its value-stack budget before
	// entering the function, so a deep operand stack traps even without
	// deep call recursion.
	MaxStackCells uint32

	// LocalCellOffset maps a Wasm local index (including params, which
	// occupy the low indices) to its cell offset from the frame's FP.
	LocalCellOffset []uint32

	// Name mirrors the owning FunctionInstance's debug name, duplicated
	// here so trap messages and disassembly don't need a back-pointer.
	Name string

	// Type is the function's signature, duplicated from FunctionInstance
	// for convenience when printing or validating call sites.
	Type *wasm.FunctionType
}

// cellsOf returns the stack-slot width of a value type.
func cellsOf(vt wasm.ValType) uint32 {
	return uint32(wasm.ValTypeCells(vt))
}
