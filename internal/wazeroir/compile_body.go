package wazeroir

import (
	"math"

	wasm "github.com/PreyMa/wasmcore/internal/wasm"
)

// nearThreshold is the largest Near-form slot/memory offset; above it
// the compiler emits the Far form, matching the near/far split of
// opcode.go's load/store and local/global families.
const nearThreshold = 0xff

// compileBody consumes the raw Wasm instruction stream until the
// function-level control frame's matching End, emitting internal
// bytecode as it goes.
func (c *compiler) compileBody() error {
	for {
		op, err := c.r.NextByte()
		if err != nil {
			return err
		}
		switch op {
		case wasm.OpcodeUnreachable:
			c.emitOp(OpUnreachable)
			c.markUnreachable()

		case wasm.OpcodeNop:
			// no bytecode emitted

		case wasm.OpcodeBlock, wasm.OpcodeLoop, wasm.OpcodeIf:
			if err := c.compileBlockLike(op); err != nil {
				return err
			}

		case wasm.OpcodeElse:
			if err := c.compileElse(); err != nil {
				return err
			}

		case wasm.OpcodeEnd:
			done, err := c.compileEnd()
			if err != nil {
				return err
			}
			if done {
				return nil
			}

		case wasm.OpcodeBr:
			depth, err := c.r.NextU32()
			if err != nil {
				return err
			}
			if err := c.checkBranchArity(depth, "br"); err != nil {
				return err
			}
			if err := c.branchTarget(depth, OpJumpShort, OpJumpLong); err != nil {
				return err
			}
			c.markUnreachable()

		case wasm.OpcodeBrIf:
			depth, err := c.r.NextU32()
			if err != nil {
				return err
			}
			if err := c.popExpect("br_if condition", wasm.ValTypeI32); err != nil {
				return err
			}
			if err := c.checkBranchArity(depth, "br_if"); err != nil {
				return err
			}
			if err := c.branchTarget(depth, OpIfTrueJumpShort, OpIfTrueJumpLong); err != nil {
				return err
			}

		case wasm.OpcodeBrTable:
			if err := c.compileBrTable(); err != nil {
				return err
			}
			c.markUnreachable()

		case wasm.OpcodeReturn:
			if err := c.emitReturn(); err != nil {
				return err
			}
			c.markUnreachable()

		case wasm.OpcodeCall:
			if err := c.compileCall(); err != nil {
				return err
			}

		case wasm.OpcodeCallIndirect:
			if err := c.compileCallIndirect(); err != nil {
				return err
			}

		case wasm.OpcodeDrop:
			vt, err := c.pop("drop")
			if err != nil {
				return err
			}
			if cellsOf(vt) == 1 {
				c.emitOp(OpDrop32)
			} else {
				c.emitOp(OpDrop64)
			}

		case wasm.OpcodeSelect:
			if err := c.compileSelect(nil); err != nil {
				return err
			}

		case wasm.OpcodeSelectT:
			n, err := c.r.NextU32()
			if err != nil {
				return err
			}
			types := make([]wasm.ValType, n)
			for i := range types {
				if types[i], err = c.r.NextByte(); err != nil {
					return err
				}
			}
			if err := c.compileSelect(types); err != nil {
				return err
			}

		case wasm.OpcodeLocalGet, wasm.OpcodeLocalSet, wasm.OpcodeLocalTee:
			if err := c.compileLocalAccess(op); err != nil {
				return err
			}

		case wasm.OpcodeGlobalGet, wasm.OpcodeGlobalSet:
			if err := c.compileGlobalAccess(op); err != nil {
				return err
			}

		case wasm.OpcodeTableGet, wasm.OpcodeTableSet:
			if err := c.compileTableGetSet(op); err != nil {
				return err
			}

		case wasm.OpcodeI32Load, wasm.OpcodeI64Load, wasm.OpcodeF32Load, wasm.OpcodeF64Load,
			wasm.OpcodeI32Load8S, wasm.OpcodeI32Load8U, wasm.OpcodeI32Load16S, wasm.OpcodeI32Load16U,
			wasm.OpcodeI64Load8S, wasm.OpcodeI64Load8U, wasm.OpcodeI64Load16S, wasm.OpcodeI64Load16U,
			wasm.OpcodeI64Load32S, wasm.OpcodeI64Load32U:
			if err := c.compileLoad(op); err != nil {
				return err
			}

		case wasm.OpcodeI32Store, wasm.OpcodeI64Store, wasm.OpcodeF32Store, wasm.OpcodeF64Store,
			wasm.OpcodeI32Store8, wasm.OpcodeI32Store16, wasm.OpcodeI64Store8, wasm.OpcodeI64Store16, wasm.OpcodeI64Store32:
			if err := c.compileStore(op); err != nil {
				return err
			}

		case wasm.OpcodeMemorySize:
			if _, err := c.r.NextByte(); err != nil { // reserved memidx byte, always 0
				return err
			}
			c.emitOp(OpMemorySize)
			c.push(wasm.ValTypeI32)

		case wasm.OpcodeMemoryGrow:
			if _, err := c.r.NextByte(); err != nil {
				return err
			}
			if err := c.popExpect("memory.grow", wasm.ValTypeI32); err != nil {
				return err
			}
			c.emitOp(OpMemoryGrow)
			c.push(wasm.ValTypeI32)

		case wasm.OpcodeI32Const:
			v, err := c.r.NextI32()
			if err != nil {
				return err
			}
			if v >= -128 && v <= 127 {
				c.emitOp(OpI32ConstShort)
				c.emitU8(uint8(int8(v)))
			} else {
				c.emitOp(OpI32ConstLong)
				c.emitU32(uint32(v))
			}
			c.push(wasm.ValTypeI32)

		case wasm.OpcodeI64Const:
			v, err := c.r.NextI64()
			if err != nil {
				return err
			}
			if v >= -128 && v <= 127 {
				c.emitOp(OpI64ConstShort)
				c.emitU8(uint8(int8(v)))
			} else {
				c.emitOp(OpI64ConstLong)
				c.emitU64(uint64(v))
			}
			c.push(wasm.ValTypeI64)

		case wasm.OpcodeF32Const:
			v, err := c.r.NextF32()
			if err != nil {
				return err
			}
			c.emitOp(OpF32Const)
			c.emitU32(math.Float32bits(v))
			c.push(wasm.ValTypeF32)

		case wasm.OpcodeF64Const:
			v, err := c.r.NextF64()
			if err != nil {
				return err
			}
			c.emitOp(OpF64Const)
			c.emitU64(math.Float64bits(v))
			c.push(wasm.ValTypeF64)

		case wasm.OpcodeRefNull:
			vt, err := c.r.NextByte()
			if err != nil {
				return err
			}
			c.emitOp(OpRefNull)
			c.push(vt)

		case wasm.OpcodeRefIsNull:
			if _, err := c.pop("ref.is_null"); err != nil {
				return err
			}
			c.emitOp(OpRefIsNull)
			c.push(wasm.ValTypeI32)

		case wasm.OpcodeRefFunc:
			idx, err := c.r.NextU32()
			if err != nil {
				return err
			}
			c.emitOp(OpRefFunc)
			c.emitU32(c.ref(c.instance.Functions[idx]))
			c.push(wasm.ValTypeFuncRef)

		case wasm.OpcodeMiscPrefix:
			if err := c.compileMisc(); err != nil {
				return err
			}

		default:
			if err := c.compileNumeric(op); err != nil {
				return err
			}
		}
	}
}
