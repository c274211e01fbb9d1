// Package wazeroir lowers a validated Wasm function body into the
// internal bytecode dispatched by internal/engine/interpreter. The
// internal bytecode is a variable-length byte stream: one opcode byte
// followed by inline operands whose layout is fixed per opcode. Op
// below is the one source of truth for that layout; internal/engine/
// interpreter decodes exactly the operand shapes documented here.
package wazeroir

// Op is an internal bytecode opcode, distinct from the raw Wasm binary
// opcode of internal/wasm.Opcode.
type Op byte

const (
	OpUnreachable Op = iota
	OpEntry // operand: u32 numLocalCells — zero-initializes locals, loads the active memory

	// Control flow. Short forms carry a 1-byte signed relative offset
	// from the byte following the operand; long forms carry a 4-byte
	// signed little-endian relative offset. Both measure from the same
	// origin so the interpreter doesn't need to know which form it read
	// before applying the jump.
	OpJumpShort
	OpJumpLong
	OpIfTrueJumpShort // pops i32; operand as above
	OpIfTrueJumpLong
	OpIfFalseJumpShort
	OpIfFalseJumpLong
	OpJumpTable // operand: u32 count, then (count+1) x i32 relative offsets (last is the default)

	OpReturnFew  // operand: u8 result cell count
	OpReturnMany // operand: u32 result cell count

	OpCall         // operand: u32 index into CompiledFunction.Refs -> *wasm.FunctionInstance
	OpCallIndirect // operand: u32 expected interned TypeIndex (see wasm.TypeInterner), u32 index into Refs -> *wasm.TableInstance
	OpCallHost     // operand: u32 index into Refs -> *wasm.FunctionInstance (host)

	// Stack manipulation.
	OpDrop32
	OpDrop64
	OpSelect32
	OpSelect64
	OpPick // operand: u32 cell depth from top (duplicates a value buried in the operand stack; the interpreter decodes it, the compiler never emits it)

	// Locals/globals. Near forms carry a u8 slot offset; Far forms carry
	// a u32 slot offset, both relative to the active frame's FP.
	OpLocalGet32Near
	OpLocalGet32Far
	OpLocalGet64Near
	OpLocalGet64Far
	OpLocalSet32Near
	OpLocalSet32Far
	OpLocalSet64Near
	OpLocalSet64Far
	OpLocalTee32Near
	OpLocalTee32Far
	OpLocalTee64Near
	OpLocalTee64Far

	OpGlobalGet32 // operand: u32 index into Refs -> *wasm.GlobalInstance
	OpGlobalGet64
	OpGlobalSet32
	OpGlobalSet64

	// Table ops. Operand: u32 index into Refs -> *wasm.TableInstance,
	// except ElemDrop which indexes Refs -> *wasm.LinkedElement.
	OpTableGet
	OpTableSet
	OpTableSize
	OpTableGrow
	OpTableFill
	OpTableCopy // two table refs: dst then src
	OpTableInit // table ref then element ref
	OpElemDrop

	// Memory loads/stores. Operand: u8/u32 offset (Near/Far chosen by
	// magnitude) — width and sign are encoded in the Op itself, one
	// opcode per (width, sign, near/far) combination.
	OpI32LoadNear
	OpI32LoadFar
	OpI64LoadNear
	OpI64LoadFar
	OpF32LoadNear
	OpF32LoadFar
	OpF64LoadNear
	OpF64LoadFar
	OpI32Load8SNear
	OpI32Load8SFar
	OpI32Load8UNear
	OpI32Load8UFar
	OpI32Load16SNear
	OpI32Load16SFar
	OpI32Load16UNear
	OpI32Load16UFar
	OpI64Load8SNear
	OpI64Load8SFar
	OpI64Load8UNear
	OpI64Load8UFar
	OpI64Load16SNear
	OpI64Load16SFar
	OpI64Load16UNear
	OpI64Load16UFar
	OpI64Load32SNear
	OpI64Load32SFar
	OpI64Load32UNear
	OpI64Load32UFar

	OpI32StoreNear
	OpI32StoreFar
	OpI64StoreNear
	OpI64StoreFar
	OpF32StoreNear
	OpF32StoreFar
	OpF64StoreNear
	OpF64StoreFar
	OpI32Store8Near
	OpI32Store8Far
	OpI32Store16Near
	OpI32Store16Far
	OpI64Store8Near
	OpI64Store8Far
	OpI64Store16Near
	OpI64Store16Far
	OpI64Store32Near
	OpI64Store32Far

	OpMemorySize
	OpMemoryGrow
	OpMemoryInit // operand: u32 index into Refs -> *wasm.LinkedData
	OpDataDrop
	OpMemoryCopy
	OpMemoryFill

	// Constants. Short forms fit an i8/u8 payload inline; long forms
	// carry the full-width encoding.
	OpI32ConstShort
	OpI32ConstLong
	OpI64ConstShort
	OpI64ConstLong
	OpF32Const
	OpF64Const

	OpRefNull
	OpRefIsNull
	OpRefFunc // operand: u32 index into Refs -> *wasm.FunctionInstance

	// Numeric operators. Each of these is parameterized by the raw Wasm
	// opcode's (type, operation) pair, dispatched by NumOp (numeric.go)
	// rather than by minting one Op constant per Wasm opcode — the
	// families are too wide (comparisons x4 types, unary/binary x4
	// types, conversions) to enumerate usefully here.
	OpNumeric // operand: u8 NumOp
)

// FrameHeaderCells is the fixed number of bookkeeping cells the
// interpreter reserves per call frame (return info + saved registers).
// It is not addressed by bytecode — the interpreter's frame struct
// plays the role the raw frame header bytes would in a pointer-based
// implementation.
const FrameHeaderCells = 0
