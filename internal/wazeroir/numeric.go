package wazeroir

import wasm "github.com/PreyMa/wasmcore/internal/wasm"

// NumOp identifies one typed numeric operator: comparison, unary,
// binary, or conversion. The interpreter switches on NumOp directly;
// compile_misc.go maps each raw Wasm opcode in 0x45-0xc4 (plus the 0xfc
// saturating truncations) to exactly one NumOp and its operand/result
// types, recorded once here as the shared source of truth the compiler
// and interpreter both consult.
type NumOp byte

const (
	NumOpI32Eqz NumOp = iota
	NumOpI32Eq
	NumOpI32Ne
	NumOpI32LtS
	NumOpI32LtU
	NumOpI32GtS
	NumOpI32GtU
	NumOpI32LeS
	NumOpI32LeU
	NumOpI32GeS
	NumOpI32GeU

	NumOpI64Eqz
	NumOpI64Eq
	NumOpI64Ne
	NumOpI64LtS
	NumOpI64LtU
	NumOpI64GtS
	NumOpI64GtU
	NumOpI64LeS
	NumOpI64LeU
	NumOpI64GeS
	NumOpI64GeU

	NumOpF32Eq
	NumOpF32Ne
	NumOpF32Lt
	NumOpF32Gt
	NumOpF32Le
	NumOpF32Ge

	NumOpF64Eq
	NumOpF64Ne
	NumOpF64Lt
	NumOpF64Gt
	NumOpF64Le
	NumOpF64Ge

	NumOpI32Clz
	NumOpI32Ctz
	NumOpI32Popcnt
	NumOpI32Add
	NumOpI32Sub
	NumOpI32Mul
	NumOpI32DivS
	NumOpI32DivU
	NumOpI32RemS
	NumOpI32RemU
	NumOpI32And
	NumOpI32Or
	NumOpI32Xor
	NumOpI32Shl
	NumOpI32ShrS
	NumOpI32ShrU
	NumOpI32Rotl
	NumOpI32Rotr

	NumOpI64Clz
	NumOpI64Ctz
	NumOpI64Popcnt
	NumOpI64Add
	NumOpI64Sub
	NumOpI64Mul
	NumOpI64DivS
	NumOpI64DivU
	NumOpI64RemS
	NumOpI64RemU
	NumOpI64And
	NumOpI64Or
	NumOpI64Xor
	NumOpI64Shl
	NumOpI64ShrS
	NumOpI64ShrU
	NumOpI64Rotl
	NumOpI64Rotr

	NumOpF32Abs
	NumOpF32Neg
	NumOpF32Ceil
	NumOpF32Floor
	NumOpF32Trunc
	NumOpF32Nearest
	NumOpF32Sqrt
	NumOpF32Add
	NumOpF32Sub
	NumOpF32Mul
	NumOpF32Div
	NumOpF32Min
	NumOpF32Max
	NumOpF32Copysign

	NumOpF64Abs
	NumOpF64Neg
	NumOpF64Ceil
	NumOpF64Floor
	NumOpF64Trunc
	NumOpF64Nearest
	NumOpF64Sqrt
	NumOpF64Add
	NumOpF64Sub
	NumOpF64Mul
	NumOpF64Div
	NumOpF64Min
	NumOpF64Max
	NumOpF64Copysign

	NumOpI32WrapI64
	NumOpI32TruncF32S
	NumOpI32TruncF32U
	NumOpI32TruncF64S
	NumOpI32TruncF64U
	NumOpI64ExtendI32S
	NumOpI64ExtendI32U
	NumOpI64TruncF32S
	NumOpI64TruncF32U
	NumOpI64TruncF64S
	NumOpI64TruncF64U
	NumOpF32ConvertI32S
	NumOpF32ConvertI32U
	NumOpF32ConvertI64S
	NumOpF32ConvertI64U
	NumOpF32DemoteF64
	NumOpF64ConvertI32S
	NumOpF64ConvertI32U
	NumOpF64ConvertI64S
	NumOpF64ConvertI64U
	NumOpF64PromoteF32
	NumOpI32ReinterpretF32
	NumOpI64ReinterpretF64
	NumOpF32ReinterpretI32
	NumOpF64ReinterpretI64

	NumOpI32Extend8S
	NumOpI32Extend16S
	NumOpI64Extend8S
	NumOpI64Extend16S
	NumOpI64Extend32S

	NumOpI32TruncSatF32S
	NumOpI32TruncSatF32U
	NumOpI32TruncSatF64S
	NumOpI32TruncSatF64U
	NumOpI64TruncSatF32S
	NumOpI64TruncSatF32U
	NumOpI64TruncSatF64S
	NumOpI64TruncSatF64U
)

// numOpSig describes a NumOp's static operand/result arity in terms of
// ValTypes, used by the compiler's symbolic operand-stack checker.
type numOpSig struct {
	in  []wasm.ValType
	out wasm.ValType
}

var numOpTable = map[byte]struct {
	op  NumOp
	sig numOpSig
}{
	0x45: {NumOpI32Eqz, numOpSig{[]wasm.ValType{wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x46: {NumOpI32Eq, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x47: {NumOpI32Ne, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x48: {NumOpI32LtS, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x49: {NumOpI32LtU, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x4a: {NumOpI32GtS, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x4b: {NumOpI32GtU, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x4c: {NumOpI32LeS, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x4d: {NumOpI32LeU, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x4e: {NumOpI32GeS, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x4f: {NumOpI32GeU, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},

	0x50: {NumOpI64Eqz, numOpSig{[]wasm.ValType{wasm.ValTypeI64}, wasm.ValTypeI32}},
	0x51: {NumOpI64Eq, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI32}},
	0x52: {NumOpI64Ne, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI32}},
	0x53: {NumOpI64LtS, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI32}},
	0x54: {NumOpI64LtU, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI32}},
	0x55: {NumOpI64GtS, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI32}},
	0x56: {NumOpI64GtU, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI32}},
	0x57: {NumOpI64LeS, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI32}},
	0x58: {NumOpI64LeU, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI32}},
	0x59: {NumOpI64GeS, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI32}},
	0x5a: {NumOpI64GeU, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI32}},

	0x5b: {NumOpF32Eq, numOpSig{[]wasm.ValType{wasm.ValTypeF32, wasm.ValTypeF32}, wasm.ValTypeI32}},
	0x5c: {NumOpF32Ne, numOpSig{[]wasm.ValType{wasm.ValTypeF32, wasm.ValTypeF32}, wasm.ValTypeI32}},
	0x5d: {NumOpF32Lt, numOpSig{[]wasm.ValType{wasm.ValTypeF32, wasm.ValTypeF32}, wasm.ValTypeI32}},
	0x5e: {NumOpF32Gt, numOpSig{[]wasm.ValType{wasm.ValTypeF32, wasm.ValTypeF32}, wasm.ValTypeI32}},
	0x5f: {NumOpF32Le, numOpSig{[]wasm.ValType{wasm.ValTypeF32, wasm.ValTypeF32}, wasm.ValTypeI32}},
	0x60: {NumOpF32Ge, numOpSig{[]wasm.ValType{wasm.ValTypeF32, wasm.ValTypeF32}, wasm.ValTypeI32}},

	0x61: {NumOpF64Eq, numOpSig{[]wasm.ValType{wasm.ValTypeF64, wasm.ValTypeF64}, wasm.ValTypeI32}},
	0x62: {NumOpF64Ne, numOpSig{[]wasm.ValType{wasm.ValTypeF64, wasm.ValTypeF64}, wasm.ValTypeI32}},
	0x63: {NumOpF64Lt, numOpSig{[]wasm.ValType{wasm.ValTypeF64, wasm.ValTypeF64}, wasm.ValTypeI32}},
	0x64: {NumOpF64Gt, numOpSig{[]wasm.ValType{wasm.ValTypeF64, wasm.ValTypeF64}, wasm.ValTypeI32}},
	0x65: {NumOpF64Le, numOpSig{[]wasm.ValType{wasm.ValTypeF64, wasm.ValTypeF64}, wasm.ValTypeI32}},
	0x66: {NumOpF64Ge, numOpSig{[]wasm.ValType{wasm.ValTypeF64, wasm.ValTypeF64}, wasm.ValTypeI32}},

	0x67: {NumOpI32Clz, numOpSig{[]wasm.ValType{wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x68: {NumOpI32Ctz, numOpSig{[]wasm.ValType{wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x69: {NumOpI32Popcnt, numOpSig{[]wasm.ValType{wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x6a: {NumOpI32Add, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x6b: {NumOpI32Sub, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x6c: {NumOpI32Mul, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x6d: {NumOpI32DivS, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x6e: {NumOpI32DivU, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x6f: {NumOpI32RemS, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x70: {NumOpI32RemU, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x71: {NumOpI32And, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x72: {NumOpI32Or, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x73: {NumOpI32Xor, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x74: {NumOpI32Shl, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x75: {NumOpI32ShrS, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x76: {NumOpI32ShrU, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x77: {NumOpI32Rotl, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},
	0x78: {NumOpI32Rotr, numOpSig{[]wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, wasm.ValTypeI32}},

	0x79: {NumOpI64Clz, numOpSig{[]wasm.ValType{wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x7a: {NumOpI64Ctz, numOpSig{[]wasm.ValType{wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x7b: {NumOpI64Popcnt, numOpSig{[]wasm.ValType{wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x7c: {NumOpI64Add, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x7d: {NumOpI64Sub, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x7e: {NumOpI64Mul, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x7f: {NumOpI64DivS, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x80: {NumOpI64DivU, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x81: {NumOpI64RemS, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x82: {NumOpI64RemU, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x83: {NumOpI64And, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x84: {NumOpI64Or, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x85: {NumOpI64Xor, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x86: {NumOpI64Shl, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x87: {NumOpI64ShrS, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x88: {NumOpI64ShrU, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x89: {NumOpI64Rotl, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},
	0x8a: {NumOpI64Rotr, numOpSig{[]wasm.ValType{wasm.ValTypeI64, wasm.ValTypeI64}, wasm.ValTypeI64}},

	0x8b: {NumOpF32Abs, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeF32}},
	0x8c: {NumOpF32Neg, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeF32}},
	0x8d: {NumOpF32Ceil, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeF32}},
	0x8e: {NumOpF32Floor, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeF32}},
	0x8f: {NumOpF32Trunc, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeF32}},
	0x90: {NumOpF32Nearest, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeF32}},
	0x91: {NumOpF32Sqrt, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeF32}},
	0x92: {NumOpF32Add, numOpSig{[]wasm.ValType{wasm.ValTypeF32, wasm.ValTypeF32}, wasm.ValTypeF32}},
	0x93: {NumOpF32Sub, numOpSig{[]wasm.ValType{wasm.ValTypeF32, wasm.ValTypeF32}, wasm.ValTypeF32}},
	0x94: {NumOpF32Mul, numOpSig{[]wasm.ValType{wasm.ValTypeF32, wasm.ValTypeF32}, wasm.ValTypeF32}},
	0x95: {NumOpF32Div, numOpSig{[]wasm.ValType{wasm.ValTypeF32, wasm.ValTypeF32}, wasm.ValTypeF32}},
	0x96: {NumOpF32Min, numOpSig{[]wasm.ValType{wasm.ValTypeF32, wasm.ValTypeF32}, wasm.ValTypeF32}},
	0x97: {NumOpF32Max, numOpSig{[]wasm.ValType{wasm.ValTypeF32, wasm.ValTypeF32}, wasm.ValTypeF32}},
	0x98: {NumOpF32Copysign, numOpSig{[]wasm.ValType{wasm.ValTypeF32, wasm.ValTypeF32}, wasm.ValTypeF32}},

	0x99: {NumOpF64Abs, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeF64}},
	0x9a: {NumOpF64Neg, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeF64}},
	0x9b: {NumOpF64Ceil, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeF64}},
	0x9c: {NumOpF64Floor, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeF64}},
	0x9d: {NumOpF64Trunc, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeF64}},
	0x9e: {NumOpF64Nearest, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeF64}},
	0x9f: {NumOpF64Sqrt, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeF64}},
	0xa0: {NumOpF64Add, numOpSig{[]wasm.ValType{wasm.ValTypeF64, wasm.ValTypeF64}, wasm.ValTypeF64}},
	0xa1: {NumOpF64Sub, numOpSig{[]wasm.ValType{wasm.ValTypeF64, wasm.ValTypeF64}, wasm.ValTypeF64}},
	0xa2: {NumOpF64Mul, numOpSig{[]wasm.ValType{wasm.ValTypeF64, wasm.ValTypeF64}, wasm.ValTypeF64}},
	0xa3: {NumOpF64Div, numOpSig{[]wasm.ValType{wasm.ValTypeF64, wasm.ValTypeF64}, wasm.ValTypeF64}},
	0xa4: {NumOpF64Min, numOpSig{[]wasm.ValType{wasm.ValTypeF64, wasm.ValTypeF64}, wasm.ValTypeF64}},
	0xa5: {NumOpF64Max, numOpSig{[]wasm.ValType{wasm.ValTypeF64, wasm.ValTypeF64}, wasm.ValTypeF64}},
	0xa6: {NumOpF64Copysign, numOpSig{[]wasm.ValType{wasm.ValTypeF64, wasm.ValTypeF64}, wasm.ValTypeF64}},

	0xa7: {NumOpI32WrapI64, numOpSig{[]wasm.ValType{wasm.ValTypeI64}, wasm.ValTypeI32}},
	0xa8: {NumOpI32TruncF32S, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeI32}},
	0xa9: {NumOpI32TruncF32U, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeI32}},
	0xaa: {NumOpI32TruncF64S, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeI32}},
	0xab: {NumOpI32TruncF64U, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeI32}},
	0xac: {NumOpI64ExtendI32S, numOpSig{[]wasm.ValType{wasm.ValTypeI32}, wasm.ValTypeI64}},
	0xad: {NumOpI64ExtendI32U, numOpSig{[]wasm.ValType{wasm.ValTypeI32}, wasm.ValTypeI64}},
	0xae: {NumOpI64TruncF32S, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeI64}},
	0xaf: {NumOpI64TruncF32U, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeI64}},
	0xb0: {NumOpI64TruncF64S, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeI64}},
	0xb1: {NumOpI64TruncF64U, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeI64}},
	0xb2: {NumOpF32ConvertI32S, numOpSig{[]wasm.ValType{wasm.ValTypeI32}, wasm.ValTypeF32}},
	0xb3: {NumOpF32ConvertI32U, numOpSig{[]wasm.ValType{wasm.ValTypeI32}, wasm.ValTypeF32}},
	0xb4: {NumOpF32ConvertI64S, numOpSig{[]wasm.ValType{wasm.ValTypeI64}, wasm.ValTypeF32}},
	0xb5: {NumOpF32ConvertI64U, numOpSig{[]wasm.ValType{wasm.ValTypeI64}, wasm.ValTypeF32}},
	0xb6: {NumOpF32DemoteF64, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeF32}},
	0xb7: {NumOpF64ConvertI32S, numOpSig{[]wasm.ValType{wasm.ValTypeI32}, wasm.ValTypeF64}},
	0xb8: {NumOpF64ConvertI32U, numOpSig{[]wasm.ValType{wasm.ValTypeI32}, wasm.ValTypeF64}},
	0xb9: {NumOpF64ConvertI64S, numOpSig{[]wasm.ValType{wasm.ValTypeI64}, wasm.ValTypeF64}},
	0xba: {NumOpF64ConvertI64U, numOpSig{[]wasm.ValType{wasm.ValTypeI64}, wasm.ValTypeF64}},
	0xbb: {NumOpF64PromoteF32, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeF64}},
	0xbc: {NumOpI32ReinterpretF32, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeI32}},
	0xbd: {NumOpI64ReinterpretF64, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeI64}},
	0xbe: {NumOpF32ReinterpretI32, numOpSig{[]wasm.ValType{wasm.ValTypeI32}, wasm.ValTypeF32}},
	0xbf: {NumOpF64ReinterpretI64, numOpSig{[]wasm.ValType{wasm.ValTypeI64}, wasm.ValTypeF64}},

	0xc0: {NumOpI32Extend8S, numOpSig{[]wasm.ValType{wasm.ValTypeI32}, wasm.ValTypeI32}},
	0xc1: {NumOpI32Extend16S, numOpSig{[]wasm.ValType{wasm.ValTypeI32}, wasm.ValTypeI32}},
	0xc2: {NumOpI64Extend8S, numOpSig{[]wasm.ValType{wasm.ValTypeI64}, wasm.ValTypeI64}},
	0xc3: {NumOpI64Extend16S, numOpSig{[]wasm.ValType{wasm.ValTypeI64}, wasm.ValTypeI64}},
	0xc4: {NumOpI64Extend32S, numOpSig{[]wasm.ValType{wasm.ValTypeI64}, wasm.ValTypeI64}},
}

// miscNumOpTable maps the 0xfc-prefixed saturating (non-trapping)
// float-to-int conversion sub-opcodes.
var miscNumOpTable = map[byte]struct {
	op  NumOp
	sig numOpSig
}{
	wasm.MiscOpcodeI32TruncSatF32S: {NumOpI32TruncSatF32S, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeI32}},
	wasm.MiscOpcodeI32TruncSatF32U: {NumOpI32TruncSatF32U, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeI32}},
	wasm.MiscOpcodeI32TruncSatF64S: {NumOpI32TruncSatF64S, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeI32}},
	wasm.MiscOpcodeI32TruncSatF64U: {NumOpI32TruncSatF64U, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeI32}},
	wasm.MiscOpcodeI64TruncSatF32S: {NumOpI64TruncSatF32S, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeI64}},
	wasm.MiscOpcodeI64TruncSatF32U: {NumOpI64TruncSatF32U, numOpSig{[]wasm.ValType{wasm.ValTypeF32}, wasm.ValTypeI64}},
	wasm.MiscOpcodeI64TruncSatF64S: {NumOpI64TruncSatF64S, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeI64}},
	wasm.MiscOpcodeI64TruncSatF64U: {NumOpI64TruncSatF64U, numOpSig{[]wasm.ValType{wasm.ValTypeF64}, wasm.ValTypeI64}},
}
