// Package api includes constants and interfaces shared by wasmcore's
// embedding surface and its internal packages.
package api

import (
	"context"
	"fmt"
	"math"
)

// ExternType classifies imports and exports with their respective types.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#external-types%E2%91%A0
type ExternType = byte

const (
	ExternTypeFunc   ExternType = 0x00
	ExternTypeTable  ExternType = 0x01
	ExternTypeMemory ExternType = 0x02
	ExternTypeGlobal ExternType = 0x03
)

// ExternTypeName returns the Text Format field name of the given type.
func ExternTypeName(et ExternType) string {
	switch et {
	case ExternTypeFunc:
		return "func"
	case ExternTypeTable:
		return "table"
	case ExternTypeMemory:
		return "memory"
	case ExternTypeGlobal:
		return "global"
	}
	return fmt.Sprintf("%#x", et)
}

// ValueType describes a numeric type used in WebAssembly 1.0. Function
// parameters and results are only definable as a value type.
//
// The following describes how to convert between Wasm and Go types:
//
//   - ValueTypeI32 - uint64(uint32,int32)
//   - ValueTypeI64 - uint64(int64)
//   - ValueTypeF32 - EncodeF32 DecodeF32 from float32
//   - ValueTypeF64 - EncodeF64 DecodeF64 from float64
//   - ValueTypeFuncref - the referenced function's pointer bits, 0 for null
//   - ValueTypeExternref - EncodeExternref DecodeExternref
//
// Note: This is a type alias as it is easier to encode and decode in the
// binary format.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-valtype
type ValueType = byte

const (
	ValueTypeI32 ValueType = 0x7f
	ValueTypeI64 ValueType = 0x7e
	ValueTypeF32 ValueType = 0x7d
	ValueTypeF64 ValueType = 0x7c

	// ValueTypeFuncref is a funcref type: an opaque reference to a
	// function, or null. Reference types are always enabled; there is no
	// feature toggle for them.
	ValueTypeFuncref ValueType = 0x70

	// ValueTypeExternref is an externref type: an opaque host reference,
	// or null. In wasmcore values of this type are raw 64-bit pointers
	// (uintptr(unsafe.Pointer(p))) translated at the host-function
	// trampoline boundary.
	ValueTypeExternref ValueType = 0x6f
)

// ValueTypeName returns the Text Format name of the given ValueType, or
// "unknown" if undefined.
func ValueTypeName(t ValueType) string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	case ValueTypeFuncref:
		return "funcref"
	case ValueTypeExternref:
		return "externref"
	}
	return "unknown"
}

// Closer closes a resource. When the context is nil, it defaults to
// context.Background.
type Closer interface {
	Close(context.Context) error
}

// Module is a module's functions, memory, and globals exported for use by
// a host program, post-instantiation.
//
// Note: This is an interface for decoupling, not third-party
// implementations. All implementations live in wasmcore.
type Module interface {
	fmt.Stringer

	// Name is the name this module was instantiated with. Exported
	// functions can be imported with this name.
	Name() string

	// Memory returns the memory exported under "memory", or nil if the
	// module doesn't export one.
	Memory() Memory

	// ExportedFunction returns a function exported from this module, or
	// nil if it wasn't.
	ExportedFunction(name string) Function

	// ExportedMemory returns a memory exported from this module, or nil
	// if it wasn't.
	ExportedMemory(name string) Memory

	// ExportedGlobal returns a global exported from this module, or nil
	// if it wasn't.
	ExportedGlobal(name string) Global

	// ExportedTable returns a table exported from this module, or nil if
	// it wasn't.
	ExportedTable(name string) Table

	Closer
}

// FunctionDefinition is a WebAssembly function exported or defined in a
// module, available before instantiation.
type FunctionDefinition interface {
	// ModuleName is the possibly empty name of the module defining this
	// function.
	ModuleName() string

	// Index is the position in the module's function index namespace,
	// imports first.
	Index() uint32

	// Name is the module-defined (debug) name of the function, which is
	// not necessarily the same as any export name. Empty when the
	// module's name section omits it.
	Name() string

	// DebugName identifies this function for errors and traces. Falls
	// back to "$<index>" when Name is empty.
	DebugName() string

	// Import returns true with the module and function name when this
	// function is imported.
	Import() (moduleName, name string, isImport bool)

	// ExportNames include all exported names for the given function.
	ExportNames() []string

	ParamTypes() []ValueType
	ResultTypes() []ValueType
}

// Function is a WebAssembly function exported from an instantiated
// module.
type Function interface {
	// Definition is metadata about this function from its defining
	// module.
	Definition() FunctionDefinition

	// Call invokes the function with parameters encoded according to
	// Definition().ParamTypes, returning results encoded according to
	// ResultTypes. When the context is nil, it defaults to
	// context.Background.
	Call(ctx context.Context, params ...uint64) ([]uint64, error)
}

// Global is a WebAssembly global exported from an instantiated module.
//
// Ex. If the value is not mutable, you can read it once:
//
//	offset := module.ExportedGlobal("memory.offset").Get(ctx)
type Global interface {
	fmt.Stringer

	Type() ValueType

	// Get returns the last known value of this global.
	Get(context.Context) uint64
}

// MutableGlobal is a Global whose value can be updated at runtime.
type MutableGlobal interface {
	Global

	Set(ctx context.Context, v uint64)
}

// Table is a WebAssembly table exported from an instantiated module.
type Table interface {
	// Size returns the current number of table entries.
	Size(context.Context) uint32

	// Grow increases the table by delta entries, returning the previous
	// size, or false if delta would exceed the declared maximum.
	Grow(ctx context.Context, delta uint32) (previous uint32, ok bool)
}

// Memory allows restricted access to a module's linear memory.
//
// All offsets are validated against the current memory size; out-of-range
// accesses return false rather than panicking, mirroring the bounds check
// Load/Store wasm instructions perform.
type Memory interface {
	// Size returns the size in bytes available. Ex. If the underlying
	// memory has 1 page: 65536.
	Size(context.Context) uint32

	// Grow increases memory by the delta in pages (65536 bytes per
	// page), returning the previous size in pages, or false if the delta
	// exceeds the declared maximum.
	Grow(ctx context.Context, deltaPages uint32) (previousPages uint32, ok bool)

	ReadByte(ctx context.Context, offset uint32) (byte, bool)
	ReadUint32Le(ctx context.Context, offset uint32) (uint32, bool)
	ReadUint64Le(ctx context.Context, offset uint32) (uint64, bool)
	ReadFloat32Le(ctx context.Context, offset uint32) (float32, bool)
	ReadFloat64Le(ctx context.Context, offset uint32) (float64, bool)

	// Read returns a write-through view of byteCount bytes starting at
	// offset, or false if out of range. Mutating the returned slice
	// mutates the module's memory and vice versa.
	Read(ctx context.Context, offset, byteCount uint32) ([]byte, bool)

	WriteByte(ctx context.Context, offset uint32, v byte) bool
	WriteUint32Le(ctx context.Context, offset, v uint32) bool
	WriteUint64Le(ctx context.Context, offset uint32, v uint64) bool
	WriteFloat32Le(ctx context.Context, offset uint32, v float32) bool
	WriteFloat64Le(ctx context.Context, offset uint32, v float64) bool
	Write(ctx context.Context, offset uint32, v []byte) bool
}

// EncodeExternref encodes the input as a ValueTypeExternref.
func EncodeExternref(input uintptr) uint64 { return uint64(input) }

// DecodeExternref decodes the input as a ValueTypeExternref.
func DecodeExternref(input uint64) uintptr { return uintptr(input) }

// EncodeI32 encodes the input as a ValueTypeI32.
func EncodeI32(input int32) uint64 { return uint64(uint32(input)) }

// EncodeI64 encodes the input as a ValueTypeI64.
func EncodeI64(input int64) uint64 { return uint64(input) }

// EncodeF32 encodes the input as a ValueTypeF32.
//
// See DecodeF32
func EncodeF32(input float32) uint64 { return uint64(math.Float32bits(input)) }

// DecodeF32 decodes the input as a ValueTypeF32.
//
// See EncodeF32
func DecodeF32(input uint64) float32 { return math.Float32frombits(uint32(input)) }

// EncodeF64 encodes the input as a ValueTypeF64.
//
// See DecodeF64
func EncodeF64(input float64) uint64 { return math.Float64bits(input) }

// DecodeF64 decodes the input as a ValueTypeF64.
//
// See EncodeF64
func DecodeF64(input uint64) float64 { return math.Float64frombits(input) }
