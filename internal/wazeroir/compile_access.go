package wazeroir

import wasm "github.com/PreyMa/wasmcore/internal/wasm"

func (c *compiler) compileLocalAccess(op byte) error {
	idx, err := c.r.NextU32()
	if err != nil {
		return err
	}
	if idx >= uint32(len(c.locals)) {
		return c.fail("local", "index %d out of range", idx)
	}
	vt := c.locals[idx]
	offset := c.localOffset[idx]
	wide := cellsOf(vt) == 2
	near := offset <= nearThreshold

	switch op {
	case wasm.OpcodeLocalGet:
		c.emitOp(pick4(wide, near, OpLocalGet32Near, OpLocalGet32Far, OpLocalGet64Near, OpLocalGet64Far))
		emitSlot(c, offset, near)
		c.push(vt)

	case wasm.OpcodeLocalSet:
		if err := c.popExpect("local.set", vt); err != nil {
			return err
		}
		c.emitOp(pick4(wide, near, OpLocalSet32Near, OpLocalSet32Far, OpLocalSet64Near, OpLocalSet64Far))
		emitSlot(c, offset, near)

	case wasm.OpcodeLocalTee:
		if err := c.popExpect("local.tee", vt); err != nil {
			return err
		}
		c.emitOp(pick4(wide, near, OpLocalTee32Near, OpLocalTee32Far, OpLocalTee64Near, OpLocalTee64Far))
		emitSlot(c, offset, near)
		c.push(vt)
	}
	return nil
}

func pick4(wide, near bool, near32, far32, near64, far64 Op) Op {
	switch {
	case !wide && near:
		return near32
	case !wide && !near:
		return far32
	case wide && near:
		return near64
	default:
		return far64
	}
}

func emitSlot(c *compiler, offset uint32, near bool) {
	if near {
		c.emitU8(uint8(offset))
	} else {
		c.emitU32(offset)
	}
}

func (c *compiler) compileGlobalAccess(op byte) error {
	idx, err := c.r.NextU32()
	if err != nil {
		return err
	}
	g := c.instance.Globals[idx]
	wide := cellsOf(g.Type.ValType) == 2

	switch op {
	case wasm.OpcodeGlobalGet:
		if wide {
			c.emitOp(OpGlobalGet64)
		} else {
			c.emitOp(OpGlobalGet32)
		}
		c.emitU32(c.ref(g))
		c.push(g.Type.ValType)

	case wasm.OpcodeGlobalSet:
		if err := c.popExpect("global.set", g.Type.ValType); err != nil {
			return err
		}
		if wide {
			c.emitOp(OpGlobalSet64)
		} else {
			c.emitOp(OpGlobalSet32)
		}
		c.emitU32(c.ref(g))
	}
	return nil
}

func (c *compiler) compileTableGetSet(op byte) error {
	idx, err := c.r.NextU32()
	if err != nil {
		return err
	}
	t := c.instance.Tables[idx]
	switch op {
	case wasm.OpcodeTableGet:
		if err := c.popExpect("table.get index", wasm.ValTypeI32); err != nil {
			return err
		}
		c.emitOp(OpTableGet)
		c.emitU32(c.ref(t))
		c.push(t.Type.ElemType)
	case wasm.OpcodeTableSet:
		if err := c.popExpect("table.set value", t.Type.ElemType); err != nil {
			return err
		}
		if err := c.popExpect("table.set index", wasm.ValTypeI32); err != nil {
			return err
		}
		c.emitOp(OpTableSet)
		c.emitU32(c.ref(t))
	}
	return nil
}

// memArg reads the align hint (discarded: the compiler doesn't use
// aligned fast paths) and the byte offset immediate common to every
// load/store instruction.
func (c *compiler) memArg() (offset uint32, err error) {
	if _, err = c.r.NextU32(); err != nil { // align hint
		return 0, err
	}
	return c.r.NextU32()
}

var loadOpTable = map[byte]struct {
	near, far Op
	vt        wasm.ValType
}{
	wasm.OpcodeI32Load:    {OpI32LoadNear, OpI32LoadFar, wasm.ValTypeI32},
	wasm.OpcodeI64Load:    {OpI64LoadNear, OpI64LoadFar, wasm.ValTypeI64},
	wasm.OpcodeF32Load:    {OpF32LoadNear, OpF32LoadFar, wasm.ValTypeF32},
	wasm.OpcodeF64Load:    {OpF64LoadNear, OpF64LoadFar, wasm.ValTypeF64},
	wasm.OpcodeI32Load8S:  {OpI32Load8SNear, OpI32Load8SFar, wasm.ValTypeI32},
	wasm.OpcodeI32Load8U:  {OpI32Load8UNear, OpI32Load8UFar, wasm.ValTypeI32},
	wasm.OpcodeI32Load16S: {OpI32Load16SNear, OpI32Load16SFar, wasm.ValTypeI32},
	wasm.OpcodeI32Load16U: {OpI32Load16UNear, OpI32Load16UFar, wasm.ValTypeI32},
	wasm.OpcodeI64Load8S:  {OpI64Load8SNear, OpI64Load8SFar, wasm.ValTypeI64},
	wasm.OpcodeI64Load8U:  {OpI64Load8UNear, OpI64Load8UFar, wasm.ValTypeI64},
	wasm.OpcodeI64Load16S: {OpI64Load16SNear, OpI64Load16SFar, wasm.ValTypeI64},
	wasm.OpcodeI64Load16U: {OpI64Load16UNear, OpI64Load16UFar, wasm.ValTypeI64},
	wasm.OpcodeI64Load32S: {OpI64Load32SNear, OpI64Load32SFar, wasm.ValTypeI64},
	wasm.OpcodeI64Load32U: {OpI64Load32UNear, OpI64Load32UFar, wasm.ValTypeI64},
}

var storeOpTable = map[byte]struct {
	near, far Op
	vt        wasm.ValType
}{
	wasm.OpcodeI32Store:   {OpI32StoreNear, OpI32StoreFar, wasm.ValTypeI32},
	wasm.OpcodeI64Store:   {OpI64StoreNear, OpI64StoreFar, wasm.ValTypeI64},
	wasm.OpcodeF32Store:   {OpF32StoreNear, OpF32StoreFar, wasm.ValTypeF32},
	wasm.OpcodeF64Store:   {OpF64StoreNear, OpF64StoreFar, wasm.ValTypeF64},
	wasm.OpcodeI32Store8:  {OpI32Store8Near, OpI32Store8Far, wasm.ValTypeI32},
	wasm.OpcodeI32Store16: {OpI32Store16Near, OpI32Store16Far, wasm.ValTypeI32},
	wasm.OpcodeI64Store8:  {OpI64Store8Near, OpI64Store8Far, wasm.ValTypeI64},
	wasm.OpcodeI64Store16: {OpI64Store16Near, OpI64Store16Far, wasm.ValTypeI64},
	wasm.OpcodeI64Store32: {OpI64Store32Near, OpI64Store32Far, wasm.ValTypeI64},
}

func (c *compiler) compileLoad(op byte) error {
	offset, err := c.memArg()
	if err != nil {
		return err
	}
	if err := c.popExpect("load address", wasm.ValTypeI32); err != nil {
		return err
	}
	entry := loadOpTable[op]
	if offset <= nearThreshold {
		c.emitOp(entry.near)
		c.emitU8(uint8(offset))
	} else {
		c.emitOp(entry.far)
		c.emitU32(offset)
	}
	c.push(entry.vt)
	return nil
}

func (c *compiler) compileStore(op byte) error {
	offset, err := c.memArg()
	if err != nil {
		return err
	}
	entry := storeOpTable[op]
	if err := c.popExpect("store value", entry.vt); err != nil {
		return err
	}
	if err := c.popExpect("store address", wasm.ValTypeI32); err != nil {
		return err
	}
	if offset <= nearThreshold {
		c.emitOp(entry.near)
		c.emitU8(uint8(offset))
	} else {
		c.emitOp(entry.far)
		c.emitU32(offset)
	}
	return nil
}
