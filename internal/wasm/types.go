// Package wasm holds the in-memory record types produced by decoding a
// Wasm binary module, plus the module-level validator.
// The binary-to-record transformation itself lives in the sibling
// internal/wasm/binary package to keep decoding and the data model it
// populates independently testable.
package wasm

import "fmt"

// Index is a 0-based index into one of a module's namespaces (types,
// functions, tables, memories, globals), or into the concatenation of
// an import section and the module-defined items of the same kind.
type Index = uint32

// ValType is the tag of a Wasm value type. Every value type occupies
// one 64-bit interpreter stack slot (see ValTypeCells).
type ValType = byte

const (
	ValTypeI32       ValType = 0x7f
	ValTypeI64       ValType = 0x7e
	ValTypeF32       ValType = 0x7d
	ValTypeF64       ValType = 0x7c
	ValTypeFuncRef   ValType = 0x70
	ValTypeExternRef ValType = 0x6f
)

// ValTypeName returns the Wasm text-format name of v.
func ValTypeName(v ValType) string {
	switch v {
	case ValTypeI32:
		return "i32"
	case ValTypeI64:
		return "i64"
	case ValTypeF32:
		return "f32"
	case ValTypeF64:
		return "f64"
	case ValTypeFuncRef:
		return "funcref"
	case ValTypeExternRef:
		return "externref"
	}
	return fmt.Sprintf("unknown(%#x)", v)
}

// ValTypeCells returns the number of interpreter stack slots v
// occupies. The interpreter's value stack is a []uint64 (matching the
// teacher engine's callEngine.stack) rather than the spec's literal
// mixed 32/64-bit cell packing, so every value type — including i64/f64
// and references — occupies exactly one slot; i32/f32 travel
// zero-extended. This keeps local/global/operand-stack addressing
// uniform and avoids unsafe pointer arithmetic across differently
// sized slots.
func ValTypeCells(v ValType) int {
	return 1
}

// IsReferenceType reports whether v is funcref or externref.
func IsReferenceType(v ValType) bool {
	return v == ValTypeFuncRef || v == ValTypeExternRef
}

// IsNumberType reports whether v is one of the four numeric types.
func IsNumberType(v ValType) bool {
	switch v {
	case ValTypeI32, ValTypeI64, ValTypeF32, ValTypeF64:
		return true
	}
	return false
}

// ExternType classifies imports and exports.
type ExternType = byte

const (
	ExternTypeFunc   ExternType = 0x00
	ExternTypeTable  ExternType = 0x01
	ExternTypeMemory ExternType = 0x02
	ExternTypeGlobal ExternType = 0x03
)

// ExternTypeName returns the Wasm text-format field name of et.
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

// FunctionType is an ordered parameter list and an ordered result list.
// FunctionTypes are compared structurally and interned interpreter-wide
// by TypeInterner so each distinct signature has one stable index.
type FunctionType struct {
	Params  []ValType
	Results []ValType
}

// String renders a FunctionType as "<params>_<results>", matching how
// the teacher keys its function-type intern cache.
func (t *FunctionType) String() string {
	ps := valTypesKey(t.Params)
	rs := valTypesKey(t.Results)
	return ps + "_" + rs
}

func valTypesKey(vs []ValType) string {
	if len(vs) == 0 {
		return "null"
	}
	out := make([]byte, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, ValTypeName(v)...)
	}
	return string(out)
}

// EqualsSignature reports whether t and o have identical parameter and
// result lists, the structural equality used to intern FunctionTypes and
// to check CallIndirect/import compatibility.
func (t *FunctionType) EqualsSignature(o *FunctionType) bool {
	return bytesEqual(t.Params, o.Params) && bytesEqual(t.Results, o.Results)
}

func bytesEqual(a, b []ValType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Limits bounds the size of a table or memory. Min <= Max when Max
// is present.
type Limits struct {
	Min uint32
	Max *uint32 // nil means unbounded (up to the kind's hard ceiling)
}

// MemoryPageSize is the fixed unit (64 KiB) of linear-memory sizing.
const MemoryPageSize = uint32(65536)

// MemoryMaxPages is the hard ceiling on Wasm 1.0 linear memory size.
const MemoryMaxPages = uint32(65536)

// MemoryType is a Limits expressed in 64 KiB pages. At most one
// MemoryType exists per module after linking.
type MemoryType struct {
	Limits
}

// TableMaxEntries is the hard ceiling on table size (2^32-1 entries,
// approximated here by the platform uint32 range).
const TableMaxEntries = ^uint32(0)

// TableType is a table's element reference type plus its Limits.
type TableType struct {
	ElemType ValType // always a reference type
	Limits
}

// GlobalType is a value type plus mutability.
type GlobalType struct {
	ValType ValType
	Mutable bool
}

// Import carries a kind tag, the (module, name) it resolves against, and
// the kind-specific expected type. Post-link it is mutated in place
// to also carry resolution metadata understood by internal/linker.
type Import struct {
	Type ExternType

	Module string
	Name   string

	// Exactly one of the following is populated, selected by Type.
	DescFunc   Index // index into the importing module's TypeSection
	DescTable  *TableType
	DescMemory *MemoryType
	DescGlobal *GlobalType
}

// Export is a module-local name bound to an item in the concatenated
// (imports ++ module-defined) namespace of the given kind.
type Export struct {
	Type ExternType
	Name string
	Index
}

// ElementMode tags how an ElementSegment participates in instantiation.
type ElementMode byte

const (
	ElementModeActive ElementMode = iota
	ElementModePassive
	ElementModeDeclarative
)

// ElementSegment is a sequence of function references targeting a table.
type ElementSegment struct {
	Mode ElementMode

	RefType ValType // always a reference type

	// Active-only: target table and offset constant expression.
	TableIndex Index
	OffsetExpr ConstantExpression

	// Either Funcidxes (bare function index vector encoding) or
	// InitExprs (element-expression vector encoding) is populated; both
	// ultimately resolve to function references.
	Funcidxes []Index
	InitExprs []ConstantExpression
}

// DataMode tags how a DataSegment participates in instantiation.
type DataMode byte

const (
	DataModeActive DataMode = iota
	DataModePassive
)

// DataSegment is a byte payload optionally targeting a memory.
type DataSegment struct {
	Mode DataMode

	MemoryIndex Index
	OffsetExpr  ConstantExpression

	Init []byte
}

// ConstantExpression is a parsed init-expression: a short opcode
// sequence terminated by End, restricted by the validator to the
// constant subset (literals and global.get of an imported global).
type ConstantExpression struct {
	Opcode byte
	Data   []byte // raw operand bytes, reinterpreted per Opcode
}

// NameSection models the optional "name" custom subsection.
type NameSection struct {
	ModuleName    string
	FunctionNames NameMap
	LocalNames    IndirectNameMap
}

// NameAssoc pairs an index with a name; NameMap is a sorted list of
// these pairs, mirroring the binary encoding.
type NameAssoc struct {
	Index Index
	Name  string
}

type NameMap []NameAssoc

func (m NameMap) Find(idx Index) (string, bool) {
	for _, a := range m {
		if a.Index == idx {
			return a.Name, true
		}
	}
	return "", false
}

type IndirectNameMap []struct {
	Index Index
	Names NameMap
}

func (m IndirectNameMap) Find(funcIdx, localIdx Index) (string, bool) {
	for _, f := range m {
		if f.Index == funcIdx {
			return f.Names.Find(localIdx)
		}
	}
	return "", false
}

// CustomSection is a preserved (name, payload) pair for any custom
// section other than "name".
type CustomSection struct {
	Name string
	Data []byte
}
