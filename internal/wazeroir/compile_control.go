package wazeroir

import wasm "github.com/PreyMa/wasmcore/internal/wasm"

func (c *compiler) compileBlockLike(op byte) error {
	bt, err := c.decodeBlockType()
	if err != nil {
		return err
	}
	switch op {
	case wasm.OpcodeBlock:
		// Block params are already on the stack; popping then
		// re-pushing via pushControlFrame just records the frame.
		for range bt.Params {
			if _, err := c.pop("block"); err != nil {
				return err
			}
		}
		c.pushControlFrame(ctrlBlock, bt, -1)

	case wasm.OpcodeLoop:
		for range bt.Params {
			if _, err := c.pop("loop"); err != nil {
				return err
			}
		}
		c.pushControlFrame(ctrlLoop, bt, len(c.code))

	case wasm.OpcodeIf:
		if err := c.popExpect("if condition", wasm.ValTypeI32); err != nil {
			return err
		}
		for range bt.Params {
			if _, err := c.pop("if"); err != nil {
				return err
			}
		}
		c.emitOp(OpIfFalseJumpLong)
		fixupPos := len(c.code)
		c.code = append(c.code, 0, 0, 0, 0)
		c.pushControlFrame(ctrlIf, bt, -1)
		c.ctrl[len(c.ctrl)-1].ifFixup = fixupPos
	}
	return nil
}

// compileElse closes an if's true arm: its result values must match the
// block's declared results (checked by popping them, mirroring the
// end-of-frame check), then control falls through to a jump past the
// else arm, and the false-branch target is patched to land here.
func (c *compiler) compileElse() error {
	top := &c.ctrl[len(c.ctrl)-1]
	if top.kind != ctrlIf || top.ifFixup < 0 {
		return c.fail("else", "else without a matching if")
	}
	for i := len(top.blockType.Results) - 1; i >= 0; i-- {
		if err := c.popExpect("if result", top.blockType.Results[i]); err != nil {
			return err
		}
	}
	// Jump over the else arm once the true arm completes normally.
	c.emitOp(OpJumpLong)
	endFixup := len(c.code)
	c.code = append(c.code, 0, 0, 0, 0)
	top.endFixups = append(top.endFixups, endFixup)

	c.patchLongFixup(top.ifFixup)
	top.ifFixup = -1
	top.unreachable = false

	// Reset the operand stack to the block's entry height so the else
	// arm starts from the same baseline the true arm did.
	for c.stackHeight > top.baseStack {
		if _, err := c.pop("else"); err != nil {
			return err
		}
	}
	for _, p := range top.blockType.Params {
		c.push(p)
	}
	return nil
}

// compileEnd closes the innermost control frame. It returns done=true
// once the function-level frame itself closes, signalling compileBody
// to stop.
func (c *compiler) compileEnd() (bool, error) {
	top := &c.ctrl[len(c.ctrl)-1]

	for i := len(top.blockType.Results) - 1; i >= 0; i-- {
		if err := c.popExpect("block result", top.blockType.Results[i]); err != nil {
			return false, err
		}
	}

	// An if with no else is only well-formed when params == results;
	// the false-branch target is simply here, past the (empty) else arm.
	if top.kind == ctrlIf && top.ifFixup >= 0 {
		c.patchLongFixup(top.ifFixup)
	}
	for _, pos := range top.endFixups {
		c.patchLongFixup(pos)
	}

	isFunction := top.kind == ctrlFunction
	for _, r := range top.blockType.Results {
		c.push(r)
	}

	c.ctrl = c.ctrl[:len(c.ctrl)-1]

	if isFunction {
		return true, c.emitReturn()
	}
	return false, nil
}

func (c *compiler) compileBrTable() error {
	n, err := c.r.NextU32()
	if err != nil {
		return err
	}
	depths := make([]uint32, n+1)
	for i := range depths {
		if depths[i], err = c.r.NextU32(); err != nil {
			return err
		}
	}
	if err := c.popExpect("br_table index", wasm.ValTypeI32); err != nil {
		return err
	}
	for _, d := range depths {
		if err := c.checkBranchArity(d, "br_table"); err != nil {
			return err
		}
	}

	c.emitOp(OpJumpTable)
	c.emitU32(n)
	fixups := make([]int, len(depths))
	for i := range depths {
		fixups[i] = len(c.code)
		c.code = append(c.code, 0, 0, 0, 0)
	}
	for i, d := range depths {
		frame := &c.ctrl[len(c.ctrl)-1-int(d)]
		if frame.kind == ctrlLoop {
			// Each offset slot is relative to the byte following itself,
			// the same convention patchLongFixup uses for forward targets.
			rel := int32(frame.loopStart - (fixups[i] + 4))
			c.emitI32At(fixups[i], rel)
		} else {
			frame.endFixups = append(frame.endFixups, fixups[i])
		}
	}
	return nil
}

// emitReturn pops the function's declared result types in order and
// emits the matching return instruction; called both for an explicit
// `return` and for falling off the end of the function body.
func (c *compiler) emitReturn() error {
	n := len(c.typ.Results)
	for i := n - 1; i >= 0; i-- {
		if err := c.popExpect("return", c.typ.Results[i]); err != nil {
			return err
		}
	}
	cells := cellsOfAll(c.typ.Results)
	if cells <= 0xff {
		c.emitOp(OpReturnFew)
		c.emitU8(uint8(cells))
	} else {
		c.emitOp(OpReturnMany)
		c.emitU32(cells)
	}
	return nil
}

func (c *compiler) compileCall() error {
	idx, err := c.r.NextU32()
	if err != nil {
		return err
	}
	fn := c.instance.Functions[idx]
	for i := len(fn.Type.Params) - 1; i >= 0; i-- {
		if err := c.popExpect("call argument", fn.Type.Params[i]); err != nil {
			return err
		}
	}
	if fn.Host != nil {
		c.emitOp(OpCallHost)
	} else {
		c.emitOp(OpCall)
	}
	c.emitU32(c.ref(fn))
	for _, r := range fn.Type.Results {
		c.push(r)
	}
	return nil
}

func (c *compiler) compileCallIndirect() error {
	typeIdx, err := c.r.NextU32()
	if err != nil {
		return err
	}
	tableIdx, err := c.r.NextU32()
	if err != nil {
		return err
	}
	if typeIdx >= uint32(len(c.module.TypeSection)) {
		return c.fail("call_indirect", "type index %d out of range", typeIdx)
	}
	expected := c.module.TypeSection[typeIdx]
	expectedTypeID := c.instance.TypeIDs[typeIdx]
	table := c.instance.Tables[tableIdx]

	if err := c.popExpect("call_indirect table index", wasm.ValTypeI32); err != nil {
		return err
	}
	for i := len(expected.Params) - 1; i >= 0; i-- {
		if err := c.popExpect("call_indirect argument", expected.Params[i]); err != nil {
			return err
		}
	}
	c.emitOp(OpCallIndirect)
	c.emitU32(expectedTypeID)
	c.emitU32(c.ref(table))
	for _, r := range expected.Results {
		c.push(r)
	}
	return nil
}

func (c *compiler) compileSelect(explicit []wasm.ValType) error {
	if err := c.popExpect("select condition", wasm.ValTypeI32); err != nil {
		return err
	}
	var vt wasm.ValType
	if len(explicit) == 1 {
		vt = explicit[0]
		if err := c.popExpect("select", vt); err != nil {
			return err
		}
		if err := c.popExpect("select", vt); err != nil {
			return err
		}
	} else {
		a, err := c.pop("select")
		if err != nil {
			return err
		}
		if err := c.popExpect("select", a); err != nil {
			return err
		}
		vt = a
	}
	if cellsOf(vt) == 1 {
		c.emitOp(OpSelect32)
	} else {
		c.emitOp(OpSelect64)
	}
	c.push(vt)
	return nil
}
