package wasm

// Opcode is a raw Wasm binary-format instruction opcode, as read by
// internal/wasm/binary and consumed by internal/wazeroir's compiler.
// This is distinct from the internal bytecode opcodes emitted by the
// compiler (see internal/wazeroir.Opcode).
type Opcode = byte

const (
	OpcodeUnreachable Opcode = 0x00
	OpcodeNop         Opcode = 0x01
	OpcodeBlock       Opcode = 0x02
	OpcodeLoop        Opcode = 0x03
	OpcodeIf          Opcode = 0x04
	OpcodeElse        Opcode = 0x05
	OpcodeEnd         Opcode = 0x0b
	OpcodeBr          Opcode = 0x0c
	OpcodeBrIf        Opcode = 0x0d
	OpcodeBrTable     Opcode = 0x0e
	OpcodeReturn      Opcode = 0x0f
	OpcodeCall        Opcode = 0x10
	OpcodeCallIndirect Opcode = 0x11

	OpcodeDrop   Opcode = 0x1a
	OpcodeSelect Opcode = 0x1b
	// OpcodeSelectT is the reference-types explicit-type select, 0x1c.
	OpcodeSelectT Opcode = 0x1c

	OpcodeLocalGet  Opcode = 0x20
	OpcodeLocalSet  Opcode = 0x21
	OpcodeLocalTee  Opcode = 0x22
	OpcodeGlobalGet Opcode = 0x23
	OpcodeGlobalSet Opcode = 0x24

	OpcodeTableGet Opcode = 0x25
	OpcodeTableSet Opcode = 0x26

	OpcodeI32Load    Opcode = 0x28
	OpcodeI64Load    Opcode = 0x29
	OpcodeF32Load    Opcode = 0x2a
	OpcodeF64Load    Opcode = 0x2b
	OpcodeI32Load8S  Opcode = 0x2c
	OpcodeI32Load8U  Opcode = 0x2d
	OpcodeI32Load16S Opcode = 0x2e
	OpcodeI32Load16U Opcode = 0x2f
	OpcodeI64Load8S  Opcode = 0x30
	OpcodeI64Load8U  Opcode = 0x31
	OpcodeI64Load16S Opcode = 0x32
	OpcodeI64Load16U Opcode = 0x33
	OpcodeI64Load32S Opcode = 0x34
	OpcodeI64Load32U Opcode = 0x35
	OpcodeI32Store   Opcode = 0x36
	OpcodeI64Store   Opcode = 0x37
	OpcodeF32Store   Opcode = 0x38
	OpcodeF64Store   Opcode = 0x39
	OpcodeI32Store8  Opcode = 0x3a
	OpcodeI32Store16 Opcode = 0x3b
	OpcodeI64Store8  Opcode = 0x3c
	OpcodeI64Store16 Opcode = 0x3d
	OpcodeI64Store32 Opcode = 0x3e
	OpcodeMemorySize Opcode = 0x3f
	OpcodeMemoryGrow Opcode = 0x40

	OpcodeI32Const Opcode = 0x41
	OpcodeI64Const Opcode = 0x42
	OpcodeF32Const Opcode = 0x43
	OpcodeF64Const Opcode = 0x44

	// Comparisons, unary and binary numeric ops occupy 0x45-0xc4
	// contiguously per the Wasm 1.0 spec; the compiler switches on the
	// raw byte value directly rather than naming each one here.

	OpcodeRefNull   Opcode = 0xd0
	OpcodeRefIsNull Opcode = 0xd1
	OpcodeRefFunc   Opcode = 0xd2

	// OpcodeMiscPrefix introduces the two-byte bulk-memory / saturating
	// truncation instructions (0xfc <u32 sub-opcode>).
	OpcodeMiscPrefix Opcode = 0xfc
)

// Misc (0xfc-prefixed) sub-opcodes: bulk-memory operations and the
// non-trapping (saturating) float-to-int conversions.
const (
	MiscOpcodeI32TruncSatF32S Opcode = 0x00
	MiscOpcodeI32TruncSatF32U Opcode = 0x01
	MiscOpcodeI32TruncSatF64S Opcode = 0x02
	MiscOpcodeI32TruncSatF64U Opcode = 0x03
	MiscOpcodeI64TruncSatF32S Opcode = 0x04
	MiscOpcodeI64TruncSatF32U Opcode = 0x05
	MiscOpcodeI64TruncSatF64S Opcode = 0x06
	MiscOpcodeI64TruncSatF64U Opcode = 0x07

	MiscOpcodeMemoryInit Opcode = 0x08
	MiscOpcodeDataDrop   Opcode = 0x09
	MiscOpcodeMemoryCopy Opcode = 0x0a
	MiscOpcodeMemoryFill Opcode = 0x0b
	MiscOpcodeTableInit  Opcode = 0x0c
	MiscOpcodeElemDrop   Opcode = 0x0d
	MiscOpcodeTableCopy  Opcode = 0x0e
	MiscOpcodeTableGrow  Opcode = 0x0f
	MiscOpcodeTableSize  Opcode = 0x10
	MiscOpcodeTableFill  Opcode = 0x11
)
