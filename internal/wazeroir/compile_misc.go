package wazeroir

import wasm "github.com/PreyMa/wasmcore/internal/wasm"

// compileMisc handles the 0xfc-prefixed instruction family: the
// non-trapping saturating truncations and the bulk-memory/table
// operators.
func (c *compiler) compileMisc() error {
	sub, err := c.r.NextU32()
	if err != nil {
		return err
	}
	if entry, ok := miscNumOpTable[byte(sub)]; ok {
		for i := len(entry.sig.in) - 1; i >= 0; i-- {
			if err := c.popExpect("numeric operand", entry.sig.in[i]); err != nil {
				return err
			}
		}
		c.emitOp(OpNumeric)
		c.emitU8(byte(entry.op))
		c.push(entry.sig.out)
		return nil
	}

	switch byte(sub) {
	case wasm.MiscOpcodeMemoryInit:
		dataIdx, err := c.r.NextU32()
		if err != nil {
			return err
		}
		if _, err := c.r.NextByte(); err != nil { // reserved memidx, always 0
			return err
		}
		if err := c.popThree(wasm.ValTypeI32, wasm.ValTypeI32, wasm.ValTypeI32); err != nil {
			return err
		}
		c.emitOp(OpMemoryInit)
		c.emitU32(c.ref(c.instance.Data[dataIdx]))

	case wasm.MiscOpcodeDataDrop:
		dataIdx, err := c.r.NextU32()
		if err != nil {
			return err
		}
		c.emitOp(OpDataDrop)
		c.emitU32(c.ref(c.instance.Data[dataIdx]))

	case wasm.MiscOpcodeMemoryCopy:
		if _, err := c.r.NextByte(); err != nil {
			return err
		}
		if _, err := c.r.NextByte(); err != nil {
			return err
		}
		if err := c.popThree(wasm.ValTypeI32, wasm.ValTypeI32, wasm.ValTypeI32); err != nil {
			return err
		}
		c.emitOp(OpMemoryCopy)

	case wasm.MiscOpcodeMemoryFill:
		if _, err := c.r.NextByte(); err != nil {
			return err
		}
		if err := c.popThree(wasm.ValTypeI32, wasm.ValTypeI32, wasm.ValTypeI32); err != nil {
			return err
		}
		c.emitOp(OpMemoryFill)

	case wasm.MiscOpcodeTableInit:
		elemIdx, err := c.r.NextU32()
		if err != nil {
			return err
		}
		tableIdx, err := c.r.NextU32()
		if err != nil {
			return err
		}
		if err := c.popThree(wasm.ValTypeI32, wasm.ValTypeI32, wasm.ValTypeI32); err != nil {
			return err
		}
		c.emitOp(OpTableInit)
		c.emitU32(c.ref(c.instance.Tables[tableIdx]))
		c.emitU32(c.ref(c.instance.Elements[elemIdx]))

	case wasm.MiscOpcodeElemDrop:
		elemIdx, err := c.r.NextU32()
		if err != nil {
			return err
		}
		c.emitOp(OpElemDrop)
		c.emitU32(c.ref(c.instance.Elements[elemIdx]))

	case wasm.MiscOpcodeTableCopy:
		dstIdx, err := c.r.NextU32()
		if err != nil {
			return err
		}
		srcIdx, err := c.r.NextU32()
		if err != nil {
			return err
		}
		if err := c.popThree(wasm.ValTypeI32, wasm.ValTypeI32, wasm.ValTypeI32); err != nil {
			return err
		}
		c.emitOp(OpTableCopy)
		c.emitU32(c.ref(c.instance.Tables[dstIdx]))
		c.emitU32(c.ref(c.instance.Tables[srcIdx]))

	case wasm.MiscOpcodeTableGrow:
		tableIdx, err := c.r.NextU32()
		if err != nil {
			return err
		}
		t := c.instance.Tables[tableIdx]
		if err := c.popExpect("table.grow count", wasm.ValTypeI32); err != nil {
			return err
		}
		if err := c.popExpect("table.grow value", t.Type.ElemType); err != nil {
			return err
		}
		c.emitOp(OpTableGrow)
		c.emitU32(c.ref(t))
		c.push(wasm.ValTypeI32)

	case wasm.MiscOpcodeTableSize:
		tableIdx, err := c.r.NextU32()
		if err != nil {
			return err
		}
		c.emitOp(OpTableSize)
		c.emitU32(c.ref(c.instance.Tables[tableIdx]))
		c.push(wasm.ValTypeI32)

	case wasm.MiscOpcodeTableFill:
		tableIdx, err := c.r.NextU32()
		if err != nil {
			return err
		}
		t := c.instance.Tables[tableIdx]
		if err := c.popExpect("table.fill count", wasm.ValTypeI32); err != nil {
			return err
		}
		if err := c.popExpect("table.fill value", t.Type.ElemType); err != nil {
			return err
		}
		if err := c.popExpect("table.fill index", wasm.ValTypeI32); err != nil {
			return err
		}
		c.emitOp(OpTableFill)
		c.emitU32(c.ref(t))

	default:
		return c.fail("misc", "unsupported 0xfc sub-opcode %#x", sub)
	}
	return nil
}

func (c *compiler) popThree(a, b, cc wasm.ValType) error {
	if err := c.popExpect("operand", cc); err != nil {
		return err
	}
	if err := c.popExpect("operand", b); err != nil {
		return err
	}
	return c.popExpect("operand", a)
}

// compileNumeric handles the contiguous 0x45-0xc4 comparison/unary/
// binary/conversion opcode range via the NumOp table (numeric.go).
func (c *compiler) compileNumeric(op byte) error {
	entry, ok := numOpTable[op]
	if !ok {
		return c.fail("numeric", "unsupported opcode %#x", op)
	}
	for i := len(entry.sig.in) - 1; i >= 0; i-- {
		if err := c.popExpect("numeric operand", entry.sig.in[i]); err != nil {
			return err
		}
	}
	c.emitOp(OpNumeric)
	c.emitU8(byte(entry.op))
	c.push(entry.sig.out)
	return nil
}
